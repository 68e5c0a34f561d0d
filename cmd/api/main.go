package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/you/campus-market/internal/handlers"
	"github.com/you/campus-market/internal/repository"
	"github.com/you/campus-market/internal/service"
	"github.com/you/campus-market/pkg/config"
	"github.com/you/campus-market/pkg/db"
	"github.com/you/campus-market/pkg/mq"
	"github.com/you/campus-market/pkg/obs"
)

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	cfg := must(config.Load())

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shutdownTracer := obs.InitTracer("market-api")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	// DB
	gdb := db.Open(cfg.PGDSN)
	users := repository.NewUserRepo(gdb)
	items := repository.NewItemRepo(gdb)
	bookings := repository.NewBookingRepo(gdb)
	comments := repository.NewCommentRepo(gdb)
	notifications := repository.NewNotificationRepo(gdb)
	must(0, users.Migrate())
	must(0, items.Migrate())
	must(0, bookings.Migrate())
	must(0, comments.Migrate())
	must(0, notifications.Migrate())

	// Publisher for booking lifecycle events
	pub := must(mq.NewPublisher(cfg.RabbitURL, cfg.MarketExchange))
	defer pub.Close()

	svcs := handlers.Services{
		Auth:          service.NewAuthSvc(users, time.Duration(cfg.JWTExpireMin)*time.Minute),
		Items:         service.NewItemSvc(items, comments, users, bookings),
		Bookings:      service.NewBookingSvc(logger, bookings, pub),
		Notifications: service.NewNotificationSvc(notifications),
	}
	r := handlers.NewRouter(logger, svcs)

	go func() {
		logger.Info("market-api listening", slog.String("addr", cfg.HTTPAddr))
		if err := r.Run(cfg.HTTPAddr); err != nil {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	logger.Info("market-api stopped")
}
