package httpkit

import (
	"errors"
	"net/http"

	"storefront_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the wire shape of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON writes a payload with an arbitrary status code.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// Error writes an ErrorResponse with the given status.
func Error(c *gin.Context, status int, message string, details any) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// OK writes a 200 with the payload.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Created writes a 201 with the payload.
func Created(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// HandleError writes the HTTP reply for a service error and reports whether
// it did. Typed *apperr.Error values map their Kind to a status; anything
// untyped is an infrastructure fault and becomes a 500 with a generic
// message, keeping internals out of responses.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:   domainErr.Message,
			Details: domainErr.Details,
		})
		return true
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	return true
}
