package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"rental-service/internal/services"
)

func TestHandleServiceError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", services.NewValidationError("name", "name is required"), http.StatusBadRequest},
		{"not found", services.NewNotFoundError("tenant", "abc"), http.StatusNotFound},
		{"conflict", services.NewConflictError("unit record", "already exists"), http.StatusConflict},
		{"unexpected", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			handleServiceError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandleServiceError_WrappedErrorsStillMap(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	wrapped := errors.Join(errors.New("while updating"), services.NewNotFoundError("payment", "xyz"))
	handleServiceError(c, wrapped)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
