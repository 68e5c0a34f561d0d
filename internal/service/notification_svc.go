package service

import (
	"context"

	"github.com/you/campus-market/internal/domain"
)

type NotificationStore interface {
	Create(ctx context.Context, n *domain.Notification) error
	ByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	// MarkRead reports whether a row belonging to userID was updated.
	MarkRead(ctx context.Context, id, userID string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) error
}

type NotificationSvc struct {
	store NotificationStore
}

func NewNotificationSvc(store NotificationStore) *NotificationSvc {
	return &NotificationSvc{store: store}
}

func (s *NotificationSvc) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.store.ByUser(ctx, userID)
}

func (s *NotificationSvc) MarkRead(ctx context.Context, id, userID string) error {
	ok, err := s.store.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotifNotFound
	}
	return nil
}

func (s *NotificationSvc) MarkAllRead(ctx context.Context, userID string) error {
	return s.store.MarkAllRead(ctx, userID)
}
