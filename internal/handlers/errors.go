package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/campus-market/internal/domain"
	"github.com/you/campus-market/internal/lib/logger/sl"
)

// respondErr maps domain errors onto the HTTP taxonomy: not-found 404,
// wrong actor 403, illegal transition / conflict 400, anything else a
// logged 500 with a generic body.
func respondErr(c *gin.Context, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNotifNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotSeller),
		errors.Is(err, domain.ErrNotOwner),
		errors.Is(err, domain.ErrNotParty):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrItemNotAvailable),
		errors.Is(err, domain.ErrOwnItem),
		errors.Is(err, domain.ErrNotPending),
		errors.Is(err, domain.ErrNotReserved),
		errors.Is(err, domain.ErrBookingClosed),
		errors.Is(err, domain.ErrAlreadySold),
		errors.Is(err, domain.ErrItemBooked),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error("internal error", slog.String("path", c.FullPath()), sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
