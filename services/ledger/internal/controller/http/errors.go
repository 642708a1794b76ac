package http

import (
	"errors"
	"net/http"

	"soundstage/pkg/logger"
	"soundstage/services/ledger/internal/entity"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidAmount),
		errors.Is(err, entity.ErrOutOfRange),
		errors.Is(err, entity.ErrMissingFields),
		errors.Is(err, entity.ErrBelowMinimum),
		errors.Is(err, entity.ErrInvalidCapacity),
		errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrInvalidProduct),
		errors.Is(err, entity.ErrInsufficientFunds),
		errors.Is(err, entity.ErrInsufficientBalance):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrUserNotFound),
		errors.Is(err, entity.ErrSessionNotFound),
		errors.Is(err, entity.ErrProductNotFound),
		errors.Is(err, entity.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrAlreadyRegistered),
		errors.Is(err, entity.ErrSessionFull),
		errors.Is(err, entity.ErrOutOfStock),
		errors.Is(err, entity.ErrInvalidTransition),
		errors.Is(err, entity.ErrNothingToExport):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the status for err. Internal failures are logged and
// answered with a generic message.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
