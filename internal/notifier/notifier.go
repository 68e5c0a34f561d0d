package notifier

import (
	"log/slog"
)

// Notifier pushes a rendered notification somewhere a human sees it.
// Delivery is best-effort; the durable record is the notification row.
type Notifier interface {
	Notify(subject, message string) error
}

// ConsoleNotifier logs the notification, enough for dev and the default
// deployment where users poll the notification API.
type ConsoleNotifier struct {
	log *slog.Logger
}

func NewConsole(log *slog.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{log: log}
}

func (c *ConsoleNotifier) Notify(subject, message string) error {
	c.log.Info("notify", slog.String("subject", subject), slog.String("message", message))
	return nil
}
