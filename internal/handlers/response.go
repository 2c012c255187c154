package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rental-service/internal/services"
)

// ErrorResponse sends a standardized error response
// Internal errors are logged but not exposed to clients
func ErrorResponse(c *gin.Context, statusCode int, message string, err error) {
	requestID := getRequestID(c)

	// Log internal error details
	if err != nil {
		log.Printf("[ERROR] [%s] %s: %v", requestID, message, err)
	}

	// Send user-friendly response (don't expose internal errors)
	response := gin.H{
		"success":    false,
		"message":    message,
		"request_id": requestID,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}

	// Only include error details in development mode
	if gin.Mode() == gin.DebugMode && err != nil {
		response["error_details"] = err.Error()
	}

	c.JSON(statusCode, response)
}

// SuccessResponse sends a standardized success response
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	requestID := getRequestID(c)

	response := gin.H{
		"success":    true,
		"message":    message,
		"request_id": requestID,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}

	if data != nil {
		response["data"] = data
	}

	c.JSON(statusCode, response)
}

// handleServiceError maps typed service errors to HTTP statuses:
// validation 400, not found 404, conflict 409, anything else 500.
func handleServiceError(c *gin.Context, err error) {
	if vErr, ok := services.IsValidationError(err); ok {
		ErrorResponse(c, http.StatusBadRequest, vErr.Error(), nil)
		return
	}
	if nfErr, ok := services.IsNotFoundError(err); ok {
		ErrorResponse(c, http.StatusNotFound, nfErr.Error(), nil)
		return
	}
	if cErr, ok := services.IsConflictError(err); ok {
		ErrorResponse(c, http.StatusConflict, cErr.Error(), nil)
		return
	}
	ErrorResponse(c, http.StatusInternalServerError, "Something went wrong", err)
}

// decodeStrict decodes a JSON body rejecting unknown fields, so PATCH bodies
// can only name the typed patch fields instead of being merged blindly.
func decodeStrict(c *gin.Context, v interface{}) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// getRequestID retrieves or generates a request ID
func getRequestID(c *gin.Context) string {
	// Check if request ID was set by middleware
	if requestID, exists := c.Get("request_id"); exists {
		return requestID.(string)
	}
	// Fallback to X-Request-ID header
	if requestID := c.GetHeader("X-Request-ID"); requestID != "" {
		return requestID
	}
	return time.Now().Format("20060102150405")
}
