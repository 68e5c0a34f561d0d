package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/you/campus-market/internal/notifier"
	"github.com/you/campus-market/internal/repository"
	"github.com/you/campus-market/internal/worker"
	"github.com/you/campus-market/pkg/db"
	"github.com/you/campus-market/pkg/mq"
)

type Cfg struct {
	PGDSN string `envconfig:"PG_DSN" required:"true"`

	RabbitURL      string `envconfig:"RABBIT_URL" required:"true"`
	MarketExchange string `envconfig:"MARKET_EXCHANGE" default:"market.exchange"`
	NotifyQueue    string `envconfig:"NOTIFY_QUEUE" default:"notification.q"`
	NotifyBindings string `envconfig:"NOTIFY_BINDINGS" default:"booking.*,item.*"`
	Prefetch       int    `envconfig:"NOTIFY_PREFETCH" default:"16"`

	UseDLX   bool   `envconfig:"NOTIFY_USE_DLX" default:"true"`
	DLXName  string `envconfig:"NOTIFY_DLX" default:"notification.dlx"`
	DLXQueue string `envconfig:"NOTIFY_DLQ" default:"notification.q.dlq"`

	// Optional push endpoint; console-only when empty.
	WebhookURL string `envconfig:"NOTIFY_WEBHOOK_URL"`
}

func parseCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	var cfg Cfg
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gdb := db.Open(cfg.PGDSN)
	notifications := repository.NewNotificationRepo(gdb)
	if err := notifications.Migrate(); err != nil {
		log.Fatal(err)
	}

	var n notifier.Notifier = notifier.NewConsole(logger)
	if cfg.WebhookURL != "" {
		n = notifier.NewWebhook(cfg.WebhookURL)
	}

	var cons *mq.Consumer
	for {
		var err error
		cons, err = mq.NewConsumer(mq.ConsumerConfig{
			URL:      cfg.RabbitURL,
			Exchange: cfg.MarketExchange,
			Queue:    cfg.NotifyQueue,
			Bindings: parseCSV(cfg.NotifyBindings),
			Prefetch: cfg.Prefetch,
			UseDLX:   cfg.UseDLX,
			DLXName:  cfg.DLXName,
			DLXQueue: cfg.DLXQueue,
		})
		if err != nil {
			logger.Error("connect failed, retry in 2s", slog.String("err", err.Error()))
			time.Sleep(2 * time.Second)
			continue
		}
		break
	}
	defer cons.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deliveries, err := cons.Deliveries(ctx, "notify-worker")
	if err != nil {
		log.Fatal(err)
	}

	w := worker.New(logger, notifications, n)
	go func() {
		if err := w.Run(ctx, deliveries); err != nil {
			logger.Error("worker stopped", slog.String("err", err.Error()))
		}
	}()

	logger.Info("notify worker started",
		slog.String("queue", cfg.NotifyQueue),
		slog.String("bindings", cfg.NotifyBindings))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()
	time.Sleep(200 * time.Millisecond)
}
