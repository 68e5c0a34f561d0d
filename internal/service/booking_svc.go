package service

import (
	"context"
	"log/slog"

	"github.com/you/campus-market/internal/domain"
	"github.com/you/campus-market/internal/events"
	"github.com/you/campus-market/internal/lib/logger/sl"
	"github.com/you/campus-market/internal/metrics"
)

// Tx is the mutation surface available inside a locked transition. The
// gorm implementation runs it inside a transaction holding the item row
// lock; the in-memory implementation holds its mutex for the duration.
type Tx interface {
	CreateBooking(b *domain.Booking) error
	SaveBooking(b *domain.Booking) error
	SaveItem(it *domain.Item) error
	// ActiveBooking returns the item's current non-cancelled booking,
	// or nil when there is none.
	ActiveBooking(itemID string) (*domain.Booking, error)
}

type BookingStore interface {
	// WithItem locks the item row and runs fn; fn's error aborts the
	// transaction. Missing item yields domain.ErrItemNotFound.
	WithItem(ctx context.Context, itemID string, fn func(tx Tx, item *domain.Item) error) error
	// WithBooking resolves the booking, locks its item row, and runs fn
	// with both records current under the lock.
	WithBooking(ctx context.Context, bookingID string, fn func(tx Tx, item *domain.Item, b *domain.Booking) error) error
}

type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// BookingSvc is the booking engine: every legal transition between item
// and booking status lives here, and nowhere else mutates either.
type BookingSvc struct {
	log   *slog.Logger
	store BookingStore
	pub   EventPublisher
}

func NewBookingSvc(log *slog.Logger, store BookingStore, pub EventPublisher) *BookingSvc {
	return &BookingSvc{log: log, store: store, pub: pub}
}

// Reserve creates a pending booking and holds the item. Canonical
// two-step flow: the seller must still accept before the reservation
// is firm.
func (s *BookingSvc) Reserve(ctx context.Context, itemID, buyerID string) (*domain.Booking, error) {
	var (
		out *domain.Booking
		ev  events.BookingEvent
	)
	err := s.store.WithItem(ctx, itemID, func(tx Tx, item *domain.Item) error {
		if item.UploadedBy == buyerID {
			return domain.ErrOwnItem
		}
		if item.Status != domain.ItemAvailable {
			return domain.ErrItemNotAvailable
		}
		b := &domain.Booking{ItemID: item.ID, UserID: buyerID, BookedQuantity: 1, Status: domain.BookingPending}
		if err := tx.CreateBooking(b); err != nil {
			return err
		}
		item.Status = domain.ItemPending
		if err := tx.SaveItem(item); err != nil {
			return err
		}
		out = b
		ev = s.event(item, b)
		return nil
	})
	s.observe("reserve", err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.RKBookingRequested, ev)
	return out, nil
}

// Buy is the one-step purchase: booking is born confirmed and the item
// goes straight to sold.
func (s *BookingSvc) Buy(ctx context.Context, itemID, buyerID string) (*domain.Booking, error) {
	var (
		out *domain.Booking
		ev  events.BookingEvent
	)
	err := s.store.WithItem(ctx, itemID, func(tx Tx, item *domain.Item) error {
		if item.UploadedBy == buyerID {
			return domain.ErrOwnItem
		}
		if item.Status != domain.ItemAvailable {
			return domain.ErrItemNotAvailable
		}
		b := &domain.Booking{ItemID: item.ID, UserID: buyerID, BookedQuantity: 1, Status: domain.BookingConfirmed}
		if err := tx.CreateBooking(b); err != nil {
			return err
		}
		item.Status = domain.ItemSold
		if err := tx.SaveItem(item); err != nil {
			return err
		}
		out = b
		ev = s.event(item, b)
		return nil
	})
	s.observe("buy", err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.RKItemPurchased, ev)
	return out, nil
}

// MarkSold is the seller's direct bypass. An active reservation on the
// item is cancelled in the same transaction so item and booking status
// stay consistent.
func (s *BookingSvc) MarkSold(ctx context.Context, itemID, actorID string) error {
	var cancelled *events.BookingEvent
	err := s.store.WithItem(ctx, itemID, func(tx Tx, item *domain.Item) error {
		if item.UploadedBy != actorID {
			return domain.ErrNotSeller
		}
		if item.Status == domain.ItemSold {
			return domain.ErrAlreadySold
		}
		active, err := tx.ActiveBooking(item.ID)
		if err != nil {
			return err
		}
		if active != nil && active.Open() {
			active.Status = domain.BookingCancelled
			if err := tx.SaveBooking(active); err != nil {
				return err
			}
			ev := s.event(item, active)
			ev.CancelledBy = actorID
			cancelled = &ev
		}
		item.Status = domain.ItemSold
		return tx.SaveItem(item)
	})
	s.observe("mark_sold", err)
	if err != nil {
		return err
	}
	if cancelled != nil {
		s.publish(ctx, events.RKBookingCancelled, *cancelled)
	}
	return nil
}

// Accept moves a pending reservation to reserved. Seller only.
func (s *BookingSvc) Accept(ctx context.Context, bookingID, actorID string) (*domain.Booking, error) {
	return s.transition(ctx, "accept", bookingID, events.RKBookingAccepted,
		func(item *domain.Item, b *domain.Booking) error {
			if item.UploadedBy != actorID {
				return domain.ErrNotSeller
			}
			if b.Status != domain.BookingPending {
				return domain.ErrNotPending
			}
			b.Status = domain.BookingReserved
			item.Status = domain.ItemReserved
			return nil
		}, nil)
}

// Reject cancels a pending reservation and releases the item. Seller only.
func (s *BookingSvc) Reject(ctx context.Context, bookingID, actorID string) (*domain.Booking, error) {
	return s.transition(ctx, "reject", bookingID, events.RKBookingRejected,
		func(item *domain.Item, b *domain.Booking) error {
			if item.UploadedBy != actorID {
				return domain.ErrNotSeller
			}
			if b.Status != domain.BookingPending {
				return domain.ErrNotPending
			}
			b.Status = domain.BookingCancelled
			item.Status = domain.ItemAvailable
			return nil
		}, nil)
}

// Confirm finalizes a reserved booking; terminal for the item.
func (s *BookingSvc) Confirm(ctx context.Context, bookingID, actorID string) (*domain.Booking, error) {
	return s.transition(ctx, "confirm", bookingID, events.RKBookingConfirmed,
		func(item *domain.Item, b *domain.Booking) error {
			if item.UploadedBy != actorID {
				return domain.ErrNotSeller
			}
			if b.Status != domain.BookingReserved {
				return domain.ErrNotReserved
			}
			b.Status = domain.BookingConfirmed
			item.Status = domain.ItemSold
			return nil
		}, nil)
}

// Cancel releases an open booking. Buyer or seller may cancel; a second
// cancel is a conflict, never a silent no-op.
func (s *BookingSvc) Cancel(ctx context.Context, bookingID, actorID string) (*domain.Booking, error) {
	return s.transition(ctx, "cancel", bookingID, events.RKBookingCancelled,
		func(item *domain.Item, b *domain.Booking) error {
			if actorID != b.UserID && actorID != item.UploadedBy {
				return domain.ErrNotParty
			}
			if !b.Open() {
				return domain.ErrBookingClosed
			}
			b.Status = domain.BookingCancelled
			item.Status = domain.ItemAvailable
			return nil
		},
		func(ev *events.BookingEvent) { ev.CancelledBy = actorID })
}

// Get returns a booking to its buyer or seller.
func (s *BookingSvc) Get(ctx context.Context, bookingID, actorID string) (*domain.Booking, error) {
	var out *domain.Booking
	err := s.store.WithBooking(ctx, bookingID, func(tx Tx, item *domain.Item, b *domain.Booking) error {
		if actorID != b.UserID && actorID != item.UploadedBy {
			return domain.ErrNotParty
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// transition runs a seller/buyer booking transition under the item row
// lock and publishes the matching event on success.
func (s *BookingSvc) transition(
	ctx context.Context,
	name, bookingID, routingKey string,
	apply func(item *domain.Item, b *domain.Booking) error,
	decorate func(*events.BookingEvent),
) (*domain.Booking, error) {
	var (
		out *domain.Booking
		ev  events.BookingEvent
	)
	err := s.store.WithBooking(ctx, bookingID, func(tx Tx, item *domain.Item, b *domain.Booking) error {
		if err := apply(item, b); err != nil {
			return err
		}
		if err := tx.SaveBooking(b); err != nil {
			return err
		}
		if err := tx.SaveItem(item); err != nil {
			return err
		}
		out = b
		ev = s.event(item, b)
		return nil
	})
	s.observe(name, err)
	if err != nil {
		return nil, err
	}
	if decorate != nil {
		decorate(&ev)
	}
	s.publish(ctx, routingKey, ev)
	return out, nil
}

func (s *BookingSvc) event(item *domain.Item, b *domain.Booking) events.BookingEvent {
	return events.BookingEvent{
		BookingID: b.ID,
		ItemID:    item.ID,
		ItemTitle: item.Title,
		BuyerID:   b.UserID,
		SellerID:  item.UploadedBy,
	}
}

// publish is fire-and-forget: a broker outage must not fail the
// transition that already committed.
func (s *BookingSvc) publish(ctx context.Context, key string, ev events.BookingEvent) {
	if s.pub == nil {
		return
	}
	if err := s.pub.PublishJSON(ctx, key, ev); err != nil {
		s.log.Warn("event publish failed", slog.String("key", key), sl.Err(err))
	}
}

func (s *BookingSvc) observe(transition string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.BookingTransitions.WithLabelValues(transition, outcome).Inc()
}
