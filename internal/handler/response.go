package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/medoffice-api/pkg/errors"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Error: message}
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewMessageResponse(message string) *MessageResponse {
	return &MessageResponse{Message: message}
}

// Status maps a service error to an HTTP status. Errors that are neither
// not-found nor validation failures get the route's fallback.
func Status(err error, fallback int) int {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrValidation:
		return http.StatusBadRequest
	case apperrors.ErrTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return fallback
	}
}

// RespondError records err on the context for the error logger and writes
// the JSON error body.
func RespondError(c *gin.Context, err error, fallback int) {
	_ = c.Error(err)
	c.JSON(Status(err, fallback), NewErrorResponse(err.Error()))
}

// BindJSON decodes the request body into obj. An empty body leaves obj
// untouched. A body cut off by the size limit is reported as too large.
func BindJSON(c *gin.Context, obj interface{}) error {
	err := c.ShouldBindJSON(obj)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.TooLarge(fmt.Sprintf("Request size exceeds limit: body size exceeds %d bytes", tooLarge.Limit), nil)
	}
	return apperrors.Validation(err.Error(), nil)
}
