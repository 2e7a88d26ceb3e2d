package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet_tracker/internal/service"
	"fleet_tracker/internal/validation"
)

// Response 所有 JSON 回應共用的外層格式
type Response struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message,omitempty"`
	Data    interface{}             `json:"data,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Message: message})
}

func invalid(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{
		Success: false,
		Message: "Validation error",
		Errors:  validation.Errors(err),
	})
}

// statusOf 將服務層錯誤對應到 HTTP 狀態碼，未知錯誤為 500
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountDeactivated),
		errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrInactiveUser):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrPlateTaken),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrSelfDelete):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrVehicleNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// handleError 回傳服務層錯誤，500 時隱藏細節並交給 RequestLogger 記錄
func handleError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		fail(c, status, "Internal server error")
		return
	}
	fail(c, status, err.Error())
}
