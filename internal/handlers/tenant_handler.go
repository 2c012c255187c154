package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rental-service/internal/health"
	"rental-service/internal/models"
	"rental-service/internal/services"
)

type TenantHandler struct {
	tenantService services.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService services.TenantService) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
	}
}

// ListTenants returns all tenants, newest first
// @Summary List tenants
// @Description Retrieve all tenants ordered by registration time, newest first
// @Tags tenants
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/tenants [get]
func (h *TenantHandler) ListTenants(c *gin.Context) {
	tenants, err := h.tenantService.List()
	if err != nil {
		health.RecordTenantOperation("list", false)
		handleServiceError(c, err)
		return
	}

	health.RecordTenantOperation("list", true)
	SuccessResponse(c, http.StatusOK, "Tenants retrieved successfully", tenants)
}

// GetTenant returns a tenant by ID
// @Summary Get tenant by ID
// @Tags tenants
// @Produce json
// @Param id path string true "Tenant ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/tenants/{id} [get]
func (h *TenantHandler) GetTenant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid tenant ID format", nil)
		return
	}

	tenant, err := h.tenantService.Get(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Tenant retrieved successfully", tenant)
}

// CreateTenant registers a new tenant
// @Summary Register a tenant
// @Description Register a tenant; rent is derived from the portion policy
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenant body models.CreateTenantRequest true "Tenant data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/tenants [post]
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req models.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}

	tenant, err := h.tenantService.Register(&req)
	if err != nil {
		health.RecordTenantOperation("create", false)
		handleServiceError(c, err)
		return
	}

	health.RecordTenantOperation("create", true)
	SuccessResponse(c, http.StatusCreated, "Tenant registered successfully", tenant)
}

// UpdateTenant applies a partial update to a tenant
// @Summary Update tenant
// @Description Apply a typed partial update; unknown fields are rejected. Rent is not re-derived when portion changes.
// @Tags tenants
// @Accept json
// @Produce json
// @Param id path string true "Tenant ID"
// @Param patch body models.TenantPatch true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/tenants/{id} [patch]
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid tenant ID format", nil)
		return
	}

	var patch models.TenantPatch
	if err := decodeStrict(c, &patch); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}

	tenant, err := h.tenantService.Update(id, &patch)
	if err != nil {
		health.RecordTenantOperation("update", false)
		handleServiceError(c, err)
		return
	}

	health.RecordTenantOperation("update", true)
	SuccessResponse(c, http.StatusOK, "Tenant updated successfully", tenant)
}

// DeleteTenant removes a tenant
// @Summary Delete tenant
// @Description Remove the tenant record only; unit records and payments are not cascaded
// @Tags tenants
// @Produce json
// @Param id path string true "Tenant ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/tenants/{id} [delete]
func (h *TenantHandler) DeleteTenant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid tenant ID format", nil)
		return
	}

	if err := h.tenantService.Delete(id); err != nil {
		health.RecordTenantOperation("delete", false)
		handleServiceError(c, err)
		return
	}

	health.RecordTenantOperation("delete", true)
	SuccessResponse(c, http.StatusOK, "Tenant deleted", nil)
}
