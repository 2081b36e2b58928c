package app

import (
	"errors"
	"net/http"

	"github.com/argeoalecha/hayahai-web-sub001/internal/service"
	"github.com/argeoalecha/hayahai-web-sub001/internal/util"

	"github.com/gin-gonic/gin"
)

// handleServiceError maps service errors to HTTP responses. Validation
// failures carry their per-field messages; everything else gets a stable
// code and a generic message that leaks no internal detail.
func handleServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		util.ErrorResponse(c, http.StatusBadRequest, verr.Error(), gin.H{"fields": verr.Fields})
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		util.NotFound(c, "Resource not found")
	case errors.Is(err, service.ErrUnauthorized):
		util.Unauthorized(c, "Authentication required")
	case errors.Is(err, service.ErrForbidden):
		util.Forbidden(c, "Insufficient permissions")
	case errors.Is(err, service.ErrConflict):
		util.ErrorResponse(c, http.StatusConflict, "Resource already exists", nil)
	default:
		util.ErrorResponse(c, http.StatusInternalServerError, "Something went wrong", nil)
	}
}
