package common

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope of the informational endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

const (
	RFC3339MilliZ = "2006-01-02T15:04:05.000Z07:00"
)

// RespSuccess 响应成功，返回数据
func RespSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "",
		Data:    data,
	})
}

// RespErrorStr aborts the request with an error message.
func RespErrorStr(c *gin.Context, statusCode int, msg string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Success: false,
		Error:   msg,
	})
}

// RespErrorWithDetails aborts the request with an error message and the
// individual problems behind it.
func RespErrorWithDetails(c *gin.Context, statusCode int, msg string, details []string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Success: false,
		Error:   msg,
		Details: details,
	})
}

// FormatTime renders t in UTC as ISO-8601 with milliseconds.
func FormatTime(t time.Time) string {
	return t.UTC().Format(RFC3339MilliZ)
}
