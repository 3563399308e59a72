package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response represents a standard API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Source  string `json:"source,omitempty"`
}

// Success sends a successful response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// Error sends an error response.
func Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// UpstreamError sends a 502 naming the backing source that failed.
func UpstreamError(c *gin.Context, source, message string) {
	c.JSON(http.StatusBadGateway, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    "UPSTREAM_ERROR",
			Message: message,
			Source:  source,
		},
	})
}

// StatusClientClosedRequest is the non-standard status for a request the
// client abandoned before a response was written.
const StatusClientClosedRequest = 499

// ClientClosed sends a 499 for a request canceled by the client.
func ClientClosed(c *gin.Context, message string) {
	Error(c, StatusClientClosedRequest, "CLIENT_CLOSED_REQUEST", message)
}

// GatewayTimeout sends a 504 error response.
func GatewayTimeout(c *gin.Context, message string) {
	Error(c, http.StatusGatewayTimeout, "GATEWAY_TIMEOUT", message)
}

// InternalError sends a 500 error response.
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}
