package util

import (
	"errors"
	"net/http"

	"cineconnect/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Response is the envelope shared by every API endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, Response{
		Success: false,
		Error:   message,
		Details: details,
	})
}

func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message, nil)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, message, nil)
}

func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message, nil)
}

// BindError maps a gin binding failure to a 400 with per-field details.
func BindError(c *gin.Context, err error) {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		details := make(map[string]string, len(validationErr))
		for _, fieldErr := range validationErr {
			details[fieldErr.Field()] = fieldErr.Tag()
		}
		ErrorResponse(c, http.StatusBadRequest, "validation failed", details)
		return
	}
	BadRequest(c, err.Error())
}

// HandleError maps domain errors to their HTTP status and hides everything
// else behind a 500 unless gin runs in debug mode.
func HandleError(c *gin.Context, err error) {
	if appErr := apperr.From(err); appErr != nil {
		c.JSON(appErr.Status, Response{
			Success: false,
			Error:   appErr.Message,
			Details: gin.H{"code": appErr.Code},
		})
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "resource not found")
		return
	}

	message := "internal server error"
	if gin.Mode() == gin.DebugMode {
		message = err.Error()
	}
	ErrorResponse(c, http.StatusInternalServerError, message, nil)
}
