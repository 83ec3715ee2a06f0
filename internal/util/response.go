package util

import (
	"errors"
	"net/http"

	"github.com/Ravishyamsingh/Quiz-System/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the unified API envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

// HandleServiceError maps a lifecycle error kind onto an HTTP status. Unknown
// errors are logged and answered with a generic 500 so backend detail stays
// inside the process.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidationFailed):
		BadRequest(c, err.Error())
	case errors.Is(err, ErrNotFound):
		NotFound(c)
	case errors.Is(err, ErrGenerationFailed):
		Error(c, http.StatusServiceUnavailable, ErrGenerationFailed.Error())
	case errors.Is(err, ErrPersistenceFailed):
		logger.Log.Error("persistence failure", zap.Error(err))
		Error(c, http.StatusInternalServerError, ErrPersistenceFailed.Error())
	case errors.Is(err, ErrEmailRegistered):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrPermissionDenied):
		Forbidden(c)
	default:
		logger.Log.Error("unexpected error", zap.Error(err))
		InternalServerError(c)
	}
}
