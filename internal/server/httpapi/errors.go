package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophgallery/internal/shared"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Message: message})
}

// statusFor maps service errors to HTTP statuses. 403 is reserved for
// authentication failures.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, shared.ErrorInvalidLoginPassword):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, shared.ErrorAlreadyExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, shared.ErrorInvalidLoginFormat),
		errors.Is(err, shared.ErrorInvalidPasswordFormat),
		errors.Is(err, shared.ErrorInvalidFolder),
		errors.Is(err, shared.ErrorNotAnImage):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, shared.ErrorFileTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, shared.ErrorNotFound):
		return http.StatusNotFound, "image not found"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (h *handlers) fail(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	writeError(c, status, msg)
}
