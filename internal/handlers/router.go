package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/you/campus-market/internal/metrics"
	"github.com/you/campus-market/internal/middlewares"
	"github.com/you/campus-market/internal/service"
)

type Services struct {
	Auth          *service.AuthSvc
	Items         *service.ItemSvc
	Bookings      *service.BookingSvc
	Notifications *service.NotificationSvc
}

// NewRouter wires the full route table. Lives here rather than in main
// so handler tests run against the same table the binary serves.
func NewRouter(log *slog.Logger, s Services) *gin.Engine {
	r := gin.Default()
	r.Use(metrics.PrometheusMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ah := NewAuthHandler(log, s.Auth)
	r.POST("/register", ah.Register)
	r.POST("/login", ah.Login)

	ih := NewItemHandler(log, s.Items, s.Bookings)
	r.GET("/items", ih.List)
	r.GET("/items/:id", ih.Get)
	r.GET("/items/:id/comments", ih.Comments)

	secured := r.Group("")
	secured.Use(middlewares.JWTAuth())
	{
		secured.POST("/items", ih.Create)
		secured.PUT("/items/:id", ih.Update)
		secured.DELETE("/items/:id", ih.Delete)
		secured.POST("/items/:id/reserve", ih.Reserve)
		secured.POST("/items/:id/buy", ih.Buy)
		secured.POST("/items/:id/sold", ih.MarkSold)
		secured.POST("/items/:id/comments", ih.AddComment)

		bh := NewBookingHandler(log, s.Bookings)
		secured.GET("/bookings/:id", bh.Get)
		secured.POST("/bookings/:id/accept", bh.Accept)
		secured.POST("/bookings/:id/reject", bh.Reject)
		secured.POST("/bookings/:id/confirm", bh.Confirm)
		secured.POST("/bookings/:id/cancel", bh.Cancel)

		ph := NewProfileHandler(log, s.Auth, s.Items)
		secured.GET("/profile", ph.Me)
		secured.PUT("/profile", ph.UpdateMe)
		secured.GET("/my-items", ph.MyItems)

		nh := NewNotificationHandler(log, s.Notifications)
		secured.GET("/notifications", nh.List)
		secured.PUT("/notifications/:id/read", nh.MarkRead)
		secured.PUT("/notifications/read-all", nh.MarkAllRead)
	}

	return r
}
