package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rental-service/internal/health"
	"rental-service/internal/models"
	"rental-service/internal/services"
)

type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// ListPayments returns all payments, newest first, with tenant projections
// @Summary List payments
// @Description Retrieve all payments; orphaned rows carry a null tenant projection
// @Tags payments
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.paymentService.List()
	if err != nil {
		health.RecordPaymentOperation("list", false)
		handleServiceError(c, err)
		return
	}

	health.RecordPaymentOperation("list", true)
	SuccessResponse(c, http.StatusOK, "Payments retrieved successfully", payments)
}

// GetPayment returns a payment by ID
// @Summary Get payment by ID
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid payment ID format", nil)
		return
	}

	payment, err := h.paymentService.Get(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Payment retrieved successfully", payment)
}

// ListPaymentsByTenant returns a tenant's payments ordered by period
// @Summary List payments for a tenant
// @Tags payments
// @Produce json
// @Param tenantId path string true "Tenant ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/payments/tenant/{tenantId} [get]
func (h *PaymentHandler) ListPaymentsByTenant(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid tenant ID format", nil)
		return
	}

	payments, err := h.paymentService.ListByTenant(tenantID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Payments retrieved successfully", payments)
}

// CreatePayment records a payment for a tenant's period
// @Summary Record a payment
// @Description Create the payment in Pending status; with isUnitPayment the period's unit record is marked paid as a best-effort second write
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body models.CreatePaymentRequest true "Payment data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}

	payment, err := h.paymentService.RecordPayment(&req)
	if err != nil {
		health.RecordPaymentOperation("create", false)
		handleServiceError(c, err)
		return
	}

	health.RecordPaymentOperation("create", true)
	SuccessResponse(c, http.StatusCreated, "Payment recorded successfully", payment)
}

// UpdatePayment updates a payment's status and notes
// @Summary Update payment
// @Description Only status and notes are mutable
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param patch body models.PaymentPatch true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/payments/{id} [patch]
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid payment ID format", nil)
		return
	}

	var patch models.PaymentPatch
	if err := decodeStrict(c, &patch); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}

	payment, err := h.paymentService.UpdatePayment(id, &patch)
	if err != nil {
		health.RecordPaymentOperation("update", false)
		handleServiceError(c, err)
		return
	}

	health.RecordPaymentOperation("update", true)
	SuccessResponse(c, http.StatusOK, "Payment updated successfully", payment)
}

// DeletePayment removes a payment
// @Summary Delete payment
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/payments/{id} [delete]
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid payment ID format", nil)
		return
	}

	if err := h.paymentService.Delete(id); err != nil {
		health.RecordPaymentOperation("delete", false)
		handleServiceError(c, err)
		return
	}

	health.RecordPaymentOperation("delete", true)
	SuccessResponse(c, http.StatusOK, "Payment deleted", nil)
}
