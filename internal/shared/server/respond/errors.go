package respond

import (
	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/telemetry"
)

// ErrorResponse is the error body clients of this API expect.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Error logs the failure under code and aborts with {"message": message}.
func Error(c *gin.Context, status int, code, message string) {
	fields := map[string]any{
		"status":        status,
		"code":          code,
		"error_message": message,
		"path":          c.Request.URL.Path,
		"method":        c.Request.Method,
		"request_id":    c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.error", fields)

	c.Set("errorCode", code)

	c.AbortWithStatusJSON(status, ErrorResponse{Message: message})
}
