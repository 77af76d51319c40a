package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response defines the standard API response envelope.
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

// ErrorInfo provides details for error responses.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta contains request-scoped metadata.
type Meta struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
}

// Success writes a success response with the standard envelope.
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
		Meta: Meta{
			RequestID: getRequestID(c),
			Timestamp: time.Now().Format(time.RFC3339),
		},
	})
}

// Error writes an error response with provided API error code and message.
func Error(c *gin.Context, code int, errCode, message string) {
	c.JSON(code, Response{
		Success: false,
		Code:    code,
		Message: message,
		Error: &ErrorInfo{
			Code:    errCode,
			Message: message,
		},
		Meta: Meta{
			RequestID: getRequestID(c),
			Timestamp: time.Now().Format(time.RFC3339),
		},
	})
}

// RespondErr maps an application error to the HTTP status and error code of
// its kind and writes the envelope.
func RespondErr(c *gin.Context, err error) {
	switch KindOf(err) {
	case KindValidation:
		Error(c, http.StatusBadRequest, "VALIDATION_ERROR", MessageOf(err))
	case KindNotFound:
		Error(c, http.StatusNotFound, "NOT_FOUND", MessageOf(err))
	case KindAuth:
		Error(c, http.StatusUnauthorized, "UNAUTHORIZED", MessageOf(err))
	case KindConfig:
		Error(c, http.StatusInternalServerError, "SERVER_MISCONFIGURED", MessageOf(err))
	default:
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", MessageOf(err))
	}
}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return uuid.New().String()[:8]
}
