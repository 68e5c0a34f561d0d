package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/campus-market/internal/middlewares"
	"github.com/you/campus-market/internal/service"
)

type ProfileHandler struct {
	log   *slog.Logger
	auth  *service.AuthSvc
	items *service.ItemSvc
}

func NewProfileHandler(log *slog.Logger, auth *service.AuthSvc, items *service.ItemSvc) *ProfileHandler {
	return &ProfileHandler{log: log, auth: auth, items: items}
}

// GET /profile
func (h *ProfileHandler) Me(c *gin.Context) {
	u, err := h.auth.Profile(c.Request.Context(), middlewares.Actor(c))
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// PUT /profile
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var in struct {
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.auth.UpdateProfile(c.Request.Context(), middlewares.Actor(c), in.Name, in.Picture)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated", "picture": u.Picture})
}

// GET /my-items
func (h *ProfileHandler) MyItems(c *gin.Context) {
	list, err := h.items.MyItems(c.Request.Context(), middlewares.Actor(c))
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
