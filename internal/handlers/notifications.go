package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/campus-market/internal/middlewares"
	"github.com/you/campus-market/internal/service"
)

type NotificationHandler struct {
	log *slog.Logger
	svc *service.NotificationSvc
}

func NewNotificationHandler(log *slog.Logger, svc *service.NotificationSvc) *NotificationHandler {
	return &NotificationHandler{log: log, svc: svc}
}

// GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), middlewares.Actor(c))
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// PUT /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.svc.MarkRead(c.Request.Context(), c.Param("id"), middlewares.Actor(c)); err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}

// PUT /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.svc.MarkAllRead(c.Request.Context(), middlewares.Actor(c)); err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all notifications marked as read"})
}
