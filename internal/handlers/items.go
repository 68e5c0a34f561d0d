package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/you/campus-market/internal/domain"
	"github.com/you/campus-market/internal/middlewares"
	"github.com/you/campus-market/internal/service"
)

type ItemHandler struct {
	log      *slog.Logger
	items    *service.ItemSvc
	bookings *service.BookingSvc
}

func NewItemHandler(log *slog.Logger, items *service.ItemSvc, bookings *service.BookingSvc) *ItemHandler {
	return &ItemHandler{log: log, items: items, bookings: bookings}
}

type itemBody struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"required,min=0"`
	Category    string `json:"category" binding:"required"`
	ImageURL    string `json:"image_url"`
}

// POST /items
func (h *ItemHandler) Create(c *gin.Context) {
	var in itemBody
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	it, err := h.items.Create(c.Request.Context(), middlewares.Actor(c), service.ItemInput{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
	})
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "item listed successfully", "id": it.ID})
}

// PUT /items/:id
func (h *ItemHandler) Update(c *gin.Context) {
	var in itemBody
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	it, err := h.items.Update(c.Request.Context(), c.Param("id"), middlewares.Actor(c), service.ItemInput{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
	})
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item updated successfully", "image_url": it.ImageURL})
}

// DELETE /items/:id
func (h *ItemHandler) Delete(c *gin.Context) {
	if err := h.items.Delete(c.Request.Context(), c.Param("id"), middlewares.Actor(c)); err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item deleted"})
}

// GET /items?category=&search=&max_price=
func (h *ItemHandler) List(c *gin.Context) {
	maxPrice, _ := strconv.ParseInt(c.Query("max_price"), 10, 64)
	f := domain.ItemFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		MaxPrice: maxPrice,
	}
	items, err := h.items.Browse(c.Request.Context(), f)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	d, err := h.items.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /items/:id/reserve
func (h *ItemHandler) Reserve(c *gin.Context) {
	b, err := h.bookings.Reserve(c.Request.Context(), c.Param("id"), middlewares.Actor(c))
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "item reserved successfully", "booking_id": b.ID})
}

// POST /items/:id/buy
func (h *ItemHandler) Buy(c *gin.Context) {
	b, err := h.bookings.Buy(c.Request.Context(), c.Param("id"), middlewares.Actor(c))
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "purchase confirmed", "booking_id": b.ID})
}

// POST /items/:id/sold
func (h *ItemHandler) MarkSold(c *gin.Context) {
	if err := h.bookings.MarkSold(c.Request.Context(), c.Param("id"), middlewares.Actor(c)); err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item marked as sold successfully"})
}

// GET /items/:id/comments
func (h *ItemHandler) Comments(c *gin.Context) {
	list, err := h.items.Comments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /items/:id/comments
func (h *ItemHandler) AddComment(c *gin.Context) {
	var in struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cm, err := h.items.AddComment(c.Request.Context(), c.Param("id"), middlewares.Actor(c), in.Body)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, cm)
}
