package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rental-service/internal/health"
	"rental-service/internal/models"
	"rental-service/internal/services"
)

type UnitHandler struct {
	unitService services.UnitService
}

// NewUnitHandler creates a new unit record handler
func NewUnitHandler(unitService services.UnitService) *UnitHandler {
	return &UnitHandler{
		unitService: unitService,
	}
}

// ListUnits returns all unit records, newest first, with tenant projections
// @Summary List unit records
// @Description Retrieve all unit records; orphaned rows carry a null tenant projection
// @Tags units
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/units [get]
func (h *UnitHandler) ListUnits(c *gin.Context) {
	units, err := h.unitService.List()
	if err != nil {
		health.RecordUnitOperation("list", false)
		handleServiceError(c, err)
		return
	}

	health.RecordUnitOperation("list", true)
	SuccessResponse(c, http.StatusOK, "Unit records retrieved successfully", units)
}

// GetUnit returns a unit record by ID
// @Summary Get unit record by ID
// @Tags units
// @Produce json
// @Param id path string true "Unit record ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/units/{id} [get]
func (h *UnitHandler) GetUnit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid unit record ID format", nil)
		return
	}

	unit, err := h.unitService.Get(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Unit record retrieved successfully", unit)
}

// ListUnitsByTenant returns a tenant's unit records ordered by period
// @Summary List unit records for a tenant
// @Description Ordered by year descending, then month name descending
// @Tags units
// @Produce json
// @Param tenantId path string true "Tenant ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/units/tenant/{tenantId} [get]
func (h *UnitHandler) ListUnitsByTenant(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid tenant ID format", nil)
		return
	}

	units, err := h.unitService.ListByTenant(tenantID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Unit records retrieved successfully", units)
}

// CreateUnit records a period's usage
// @Summary Record usage for a period
// @Description Create the (tenant, month, year) unit record; electricityBill = units x rate
// @Tags units
// @Accept json
// @Produce json
// @Param unit body models.CreateUnitRequest true "Usage data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/units [post]
func (h *UnitHandler) CreateUnit(c *gin.Context) {
	var req models.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}

	unit, err := h.unitService.RecordUsage(&req)
	if err != nil {
		health.RecordUnitOperation("create", false)
		handleServiceError(c, err)
		return
	}

	health.RecordUnitOperation("create", true)
	SuccessResponse(c, http.StatusCreated, "Unit record created successfully", unit)
}

// UpdateUnit applies a partial update to a unit record
// @Summary Update unit record
// @Description Typed partial update; supplying units or rate recomputes the electricity bill from the final values of both
// @Tags units
// @Accept json
// @Produce json
// @Param id path string true "Unit record ID"
// @Param patch body models.UnitPatch true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/units/{id} [patch]
func (h *UnitHandler) UpdateUnit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid unit record ID format", nil)
		return
	}

	var patch models.UnitPatch
	if err := decodeStrict(c, &patch); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}

	unit, err := h.unitService.UpdateUsage(id, &patch)
	if err != nil {
		health.RecordUnitOperation("update", false)
		handleServiceError(c, err)
		return
	}

	health.RecordUnitOperation("update", true)
	SuccessResponse(c, http.StatusOK, "Unit record updated successfully", unit)
}

// DeleteUnit removes a unit record
// @Summary Delete unit record
// @Tags units
// @Produce json
// @Param id path string true "Unit record ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/units/{id} [delete]
func (h *UnitHandler) DeleteUnit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid unit record ID format", nil)
		return
	}

	if err := h.unitService.Delete(id); err != nil {
		health.RecordUnitOperation("delete", false)
		handleServiceError(c, err)
		return
	}

	health.RecordUnitOperation("delete", true)
	SuccessResponse(c, http.StatusOK, "Unit record deleted", nil)
}
