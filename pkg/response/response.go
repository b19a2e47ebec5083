package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sponsorlane/backend/pkg/apperr"
)

// Body is the standard API response envelope.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Error: err})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, err string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Error: err})
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, err string) {
	c.JSON(http.StatusForbidden, Body{Success: false, Error: err})
}

// NotFound sends 404.
func NotFound(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, Body{Success: false, Error: err})
}

// Internal sends 500.
func Internal(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, Body{Success: false, Error: err})
}

// Error maps a core error onto the HTTP taxonomy: constraint violations
// are 400, policy denials 403, missing rows 404, anything else 500. The
// denial message stays opaque regardless of the underlying reason.
func Error(c *gin.Context, err error) {
	switch {
	case apperr.AsViolation(err) != nil:
		BadRequest(c, err.Error())
	case errors.Is(err, apperr.ErrPermissionDenied):
		Forbidden(c, "permission denied")
	case errors.Is(err, apperr.ErrNotFound):
		NotFound(c, "not found")
	default:
		Internal(c, "internal error")
	}
}
