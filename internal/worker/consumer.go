package worker

import (
	"context"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/you/campus-market/internal/domain"
	"github.com/you/campus-market/internal/events"
	"github.com/you/campus-market/internal/lib/logger/sl"
	"github.com/you/campus-market/internal/metrics"
	"github.com/you/campus-market/internal/notifier"
)

type NotificationSaver interface {
	Create(ctx context.Context, n *domain.Notification) error
}

// Worker turns booking events into notification rows for the
// counterparty and pushes them through the configured Notifier.
type Worker struct {
	log      *slog.Logger
	store    NotificationSaver
	notifier notifier.Notifier
}

func New(log *slog.Logger, store NotificationSaver, n notifier.Notifier) *Worker {
	return &Worker{log: log, store: store, notifier: n}
}

func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			if err := w.Handle(ctx, d.RoutingKey, d.Body); err != nil {
				w.log.Error("handle failed, nack and requeue", slog.String("key", d.RoutingKey), sl.Err(err))
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle maps one routing key to one notification. Unknown keys are
// skipped so new event types never poison the queue.
func (w *Worker) Handle(ctx context.Context, key string, body []byte) error {
	ev, err := events.MustUnmarshal[events.BookingEvent](body)
	if err != nil {
		return err
	}

	var n *domain.Notification
	switch key {
	case events.RKBookingRequested:
		n = &domain.Notification{
			UserID:  ev.SellerID,
			Type:    domain.NotifReservationRequest,
			Message: fmt.Sprintf("You have a new reservation request for %q.", ev.ItemTitle),
			ItemID:  ev.ItemID,
		}
	case events.RKBookingAccepted:
		n = &domain.Notification{
			UserID:  ev.BuyerID,
			Type:    domain.NotifReservationAccepted,
			Message: fmt.Sprintf("Your reservation for %q was accepted.", ev.ItemTitle),
			ItemID:  ev.ItemID,
		}
	case events.RKBookingRejected:
		n = &domain.Notification{
			UserID:  ev.BuyerID,
			Type:    domain.NotifReservationRejected,
			Message: fmt.Sprintf("Your reservation for %q was rejected.", ev.ItemTitle),
			ItemID:  ev.ItemID,
		}
	case events.RKBookingConfirmed:
		n = &domain.Notification{
			UserID:  ev.BuyerID,
			Type:    domain.NotifItemSold,
			Message: fmt.Sprintf("The sale of %q has been confirmed.", ev.ItemTitle),
			ItemID:  ev.ItemID,
		}
	case events.RKBookingCancelled:
		// tell the party that did not cancel
		target := ev.BuyerID
		if ev.CancelledBy == ev.BuyerID {
			target = ev.SellerID
		}
		n = &domain.Notification{
			UserID:  target,
			Type:    domain.NotifBookingCancelled,
			Message: fmt.Sprintf("The booking for %q was cancelled.", ev.ItemTitle),
			ItemID:  ev.ItemID,
		}
	case events.RKItemPurchased:
		n = &domain.Notification{
			UserID:  ev.SellerID,
			Type:    domain.NotifItemPurchased,
			Message: fmt.Sprintf("Your item %q has been purchased.", ev.ItemTitle),
			ItemID:  ev.ItemID,
		}
	default:
		w.log.Info("skip unknown key", slog.String("key", key))
		return nil
	}

	if err := w.store.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	metrics.NotificationsDelivered.WithLabelValues(n.Type).Inc()

	// push delivery is best-effort, the row is already durable
	if err := w.notifier.Notify(n.Type, n.Message); err != nil {
		w.log.Warn("push notify failed", slog.String("type", n.Type), sl.Err(err))
	}
	return nil
}
