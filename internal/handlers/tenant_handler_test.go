package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rental-service/internal/models"
	"rental-service/internal/services"
)

type mockTenantService struct {
	mock.Mock
}

func (m *mockTenantService) Register(req *models.CreateTenantRequest) (*models.Tenant, error) {
	args := m.Called(req)
	if t, ok := args.Get(0).(*models.Tenant); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTenantService) Get(id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(id)
	if t, ok := args.Get(0).(*models.Tenant); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTenantService) List() ([]models.Tenant, error) {
	args := m.Called()
	if t, ok := args.Get(0).([]models.Tenant); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTenantService) Update(id uuid.UUID, patch *models.TenantPatch) (*models.Tenant, error) {
	args := m.Called(id, patch)
	if t, ok := args.Get(0).(*models.Tenant); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTenantService) Delete(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func newTenantRouter(svc services.TenantService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewTenantHandler(svc)

	router := gin.New()
	router.GET("/api/v1/tenants/:id", handler.GetTenant)
	router.POST("/api/v1/tenants", handler.CreateTenant)
	router.PATCH("/api/v1/tenants/:id", handler.UpdateTenant)
	return router
}

func TestGetTenant_InvalidIDFormat(t *testing.T) {
	svc := new(mockTenantService)
	router := newTenantRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Get")
}

func TestGetTenant_NotFound(t *testing.T) {
	svc := new(mockTenantService)
	id := uuid.New()
	svc.On("Get", id).Return(nil, services.NewNotFoundError("tenant", id.String()))
	router := newTenantRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/"+id.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}

func TestCreateTenant_Created(t *testing.T) {
	svc := new(mockTenantService)
	tenant := &models.Tenant{ID: uuid.New(), Name: "Asha", Portion: models.PortionFront, Rent: 10000}
	svc.On("Register", mock.AnythingOfType("*models.CreateTenantRequest")).Return(tenant, nil)
	router := newTenantRouter(svc)

	body, _ := json.Marshal(gin.H{
		"name":      "Asha",
		"phone":     "9876543210",
		"startDate": "2025-01-01T00:00:00Z",
		"members":   3,
		"portion":   "Front Portion",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Rent int `json:"rent"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 10000, resp.Data.Rent)
	svc.AssertExpectations(t)
}

func TestUpdateTenant_RejectsUnknownFields(t *testing.T) {
	svc := new(mockTenantService)
	router := newTenantRouter(svc)

	// "nickname" is not a patchable field; the strict decoder refuses the body.
	body := []byte(`{"name":"Asha","nickname":"A"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/tenants/"+uuid.NewString(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Update")
}

func TestUpdateTenant_ValidationErrorMapsTo400(t *testing.T) {
	svc := new(mockTenantService)
	id := uuid.New()
	svc.On("Update", id, mock.AnythingOfType("*models.TenantPatch")).
		Return(nil, services.NewValidationError("portion", "portion must be one of Front Portion, Back Portion, Roof Room"))
	router := newTenantRouter(svc)

	body := []byte(`{"portion":"Basement"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/tenants/"+id.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}
