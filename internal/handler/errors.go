package handler

import (
	"errors"
	"net/http"

	"chatrelay/internal/storage"
	"chatrelay/internal/transport/httpdto"
	relay_errors "chatrelay/pkg/errors"

	"github.com/gin-gonic/gin"
)

// respondError translates domain errors into stable protocol-level codes.
// EMAIL_TAKEN and INVALID_CREDENTIALS are part of the API contract; other
// internal failures surface opaquely.
func respondError(c *gin.Context, err error) {
	var storageErr *storage.Error

	switch {
	case errors.Is(err, relay_errors.ErrEmailTaken):
		c.JSON(http.StatusUnprocessableEntity, httpdto.NewErrorResponse("email already exists", "EMAIL_TAKEN"))
	case errors.Is(err, relay_errors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("credentials are not valid", "INVALID_CREDENTIALS"))
	case errors.Is(err, relay_errors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
	case errors.Is(err, relay_errors.ErrForbidden):
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("forbidden", "FORBIDDEN"))
	case errors.Is(err, relay_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("not found", "NOT_FOUND"))
	case errors.Is(err, relay_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid input", "INVALID_REQUEST"))
	case errors.As(err, &storageErr):
		c.JSON(http.StatusBadGateway, httpdto.NewErrorResponse("object storage failure", "STORAGE_ERROR"))
	default:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal error", "INTERNAL_ERROR"))
	}
}
