package utils

import (
	"errors"
	"net/http"

	"detailbook/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool             `json:"success"`
	Data    any              `json:"data,omitempty"`
	Error   *models.APIError `json:"error,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, envelope{
					Error: &models.APIError{
						Message: "An unexpected error occurred. Please try again later.",
						Code:    models.CodeInternal,
					},
				})
			}
		}()
		c.Next()
	}
}

// JSONSuccess writes a successful envelope.
func JSONSuccess(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

// JSONError sends a standardized JSON error envelope.
func JSONError(c *gin.Context, status int, message string, code string) {
	GetLogger().Warn(message, zap.String("code", code), zap.String("path", c.FullPath()))
	c.JSON(status, envelope{Error: &models.APIError{Message: message, Code: code}})
}

var statusByCode = map[string]int{
	models.CodeValidation:      http.StatusBadRequest,
	models.CodeNotFound:        http.StatusNotFound,
	models.CodeSlotUnavailable: http.StatusConflict,
	models.CodeInvalidState:    http.StatusConflict,
	models.CodeUpstream:        http.StatusBadGateway,
	models.CodeRateLimited:     http.StatusTooManyRequests,
}

// JSONErrorFrom writes the envelope for err. Errors carrying an API code keep
// their message; anything else is logged and reported as an internal error.
func JSONErrorFrom(c *gin.Context, err error) {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		status, ok := statusByCode[apiErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		JSONError(c, status, apiErr.Message, apiErr.Code)
		return
	}
	GetLogger().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, envelope{Error: &models.APIError{
		Message: "An unexpected error occurred. Please try again later.",
		Code:    models.CodeInternal,
	}})
}
