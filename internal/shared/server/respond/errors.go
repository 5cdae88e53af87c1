package respond

import (
	"github.com/gin-gonic/gin"

	"github.com/JeffiBR/backend-curriculos/internal/shared/telemetry"
)

// ErrorResponse is the wire shape for every failure. Internal detail never
// leaks: message is what the caller sees, the rest goes to the log.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Code    string      `json:"error,omitempty"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Error sends a standardized failure response and logs it.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
		"client_ip":  c.ClientIP(),
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Code:    code,
		Message: message,
		Errors:  details,
	})
}
