package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/campus-market/internal/middlewares"
	"github.com/you/campus-market/internal/service"
)

type BookingHandler struct {
	log *slog.Logger
	svc *service.BookingSvc
}

func NewBookingHandler(log *slog.Logger, svc *service.BookingSvc) *BookingHandler {
	return &BookingHandler{log: log, svc: svc}
}

// POST /bookings/:id/accept (seller)
func (h *BookingHandler) Accept(c *gin.Context) {
	if _, err := h.svc.Accept(c.Request.Context(), c.Param("id"), middlewares.Actor(c)); err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reservation accepted"})
}

// POST /bookings/:id/reject (seller)
func (h *BookingHandler) Reject(c *gin.Context) {
	if _, err := h.svc.Reject(c.Request.Context(), c.Param("id"), middlewares.Actor(c)); err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reservation rejected"})
}

// POST /bookings/:id/confirm (seller)
func (h *BookingHandler) Confirm(c *gin.Context) {
	if _, err := h.svc.Confirm(c.Request.Context(), c.Param("id"), middlewares.Actor(c)); err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item marked as sold and booking confirmed"})
}

// POST /bookings/:id/cancel (buyer or seller)
func (h *BookingHandler) Cancel(c *gin.Context) {
	if _, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), middlewares.Actor(c)); err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled and item is now available"})
}

// GET /bookings/:id (buyer or seller)
func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.svc.Get(c.Request.Context(), c.Param("id"), middlewares.Actor(c))
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
