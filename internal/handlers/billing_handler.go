package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rental-service/internal/health"
	"rental-service/internal/services"
)

type BillingHandler struct {
	billingService services.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService services.BillingService) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
	}
}

// GetSettlement returns the settlement view for a tenant's period
// @Summary Get settlement for a tenant's period
// @Description Derived amount-due view: electricity at the fixed settlement rate plus rent, maintenance (waived for Roof Room), water and other charges, with the paid flag sourced from the payment ledger
// @Tags billing
// @Produce json
// @Param tenantId path string true "Tenant ID"
// @Param month query string true "Month name"
// @Param year query int true "Year"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/billing/tenant/{tenantId} [get]
func (h *BillingHandler) GetSettlement(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid tenant ID format", nil)
		return
	}

	month := c.Query("month")
	if month == "" {
		ErrorResponse(c, http.StatusBadRequest, "month query parameter is required", nil)
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year == 0 {
		ErrorResponse(c, http.StatusBadRequest, "year query parameter must be a valid year", nil)
		return
	}

	settlement, err := h.billingService.ComputeSettlement(tenantID, month, year)
	if err != nil {
		health.RecordBillingOperation("settlement", false)
		handleServiceError(c, err)
		return
	}

	health.RecordBillingOperation("settlement", true)
	SuccessResponse(c, http.StatusOK, "Settlement computed successfully", settlement)
}
