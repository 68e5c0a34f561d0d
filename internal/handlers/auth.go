package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/campus-market/internal/service"
)

type AuthHandler struct {
	log *slog.Logger
	svc *service.AuthSvc
}

func NewAuthHandler(log *slog.Logger, svc *service.AuthSvc) *AuthHandler {
	return &AuthHandler{log: log, svc: svc}
}

// POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var in struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.svc.Register(c.Request.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user registered", "id": u.ID})
}

// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
