// Package memory is an in-memory implementation of the store interfaces
// used in tests. A single mutex spans every transition, which models the
// item row lock: two goroutines racing on one item serialize here the
// same way they do against postgres.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/you/campus-market/internal/domain"
	"github.com/you/campus-market/internal/service"
)

type Store struct {
	mu            sync.Mutex
	users         []domain.User
	items         []domain.Item
	bookings      []domain.Booking
	comments      []domain.Comment
	notifications []domain.Notification
}

func New() *Store {
	return &Store{}
}

// --- booking engine transactions ---

type memTx struct {
	s       *Store
	created []domain.Booking
	savedB  []domain.Booking
	savedI  []domain.Item
}

func (t *memTx) CreateBooking(b *domain.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	t.created = append(t.created, *b)
	return nil
}

func (t *memTx) SaveBooking(b *domain.Booking) error {
	b.UpdatedAt = time.Now()
	t.savedB = append(t.savedB, *b)
	return nil
}

func (t *memTx) SaveItem(it *domain.Item) error {
	it.UpdatedAt = time.Now()
	t.savedI = append(t.savedI, *it)
	return nil
}

func (t *memTx) ActiveBooking(itemID string) (*domain.Booking, error) {
	for i := len(t.s.bookings) - 1; i >= 0; i-- {
		b := t.s.bookings[i]
		if b.ItemID == itemID && b.Status != domain.BookingCancelled {
			out := b
			return &out, nil
		}
	}
	return nil, nil
}

// commit applies staged writes; called only when fn returned nil, so a
// failed transition leaves the store untouched, like a rolled-back txn.
func (t *memTx) commit() {
	for _, b := range t.created {
		t.s.bookings = append(t.s.bookings, b)
	}
	for _, b := range t.savedB {
		for i := range t.s.bookings {
			if t.s.bookings[i].ID == b.ID {
				t.s.bookings[i] = b
			}
		}
	}
	for _, it := range t.savedI {
		for i := range t.s.items {
			if t.s.items[i].ID == it.ID {
				t.s.items[i] = it
			}
		}
	}
}

func (s *Store) WithItem(ctx context.Context, itemID string, fn func(tx service.Tx, item *domain.Item) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i := range s.items {
		if s.items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.ErrItemNotFound
	}
	it := s.items[idx]
	tx := &memTx{s: s}
	if err := fn(tx, &it); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (s *Store) WithBooking(ctx context.Context, bookingID string, fn func(tx service.Tx, item *domain.Item, b *domain.Booking) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b *domain.Booking
	for i := range s.bookings {
		if s.bookings[i].ID == bookingID {
			cp := s.bookings[i]
			b = &cp
			break
		}
	}
	if b == nil {
		return domain.ErrBookingNotFound
	}
	var it *domain.Item
	for i := range s.items {
		if s.items[i].ID == b.ItemID {
			cp := s.items[i]
			it = &cp
			break
		}
	}
	if it == nil {
		return domain.ErrItemNotFound
	}
	tx := &memTx{s: s}
	if err := fn(tx, it, b); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// --- item store ---

func (s *Store) Create(ctx context.Context, it *domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	now := time.Now()
	it.CreatedAt = now
	it.UpdatedAt = now
	s.items = append(s.items, *it)
	return nil
}

func (s *Store) ByID(ctx context.Context, id string) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			out := s.items[i]
			return &out, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (s *Store) ByOwner(ctx context.Context, userID string) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Item
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].UploadedBy == userID {
			out = append(out, s.items[i])
		}
	}
	return out, nil
}

func (s *Store) List(ctx context.Context, f domain.ItemFilter) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Item
	for i := len(s.items) - 1; i >= 0; i-- {
		it := s.items[i]
		if it.Status == domain.ItemSold {
			continue
		}
		if f.Category != "" && f.Category != "all" && it.Category != f.Category {
			continue
		}
		if f.Search != "" && !contains(it.Title, f.Search) && !contains(it.Description, f.Search) {
			continue
		}
		if f.MaxPrice > 0 && it.Price > f.MaxPrice {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, it *domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == it.ID {
			it.UpdatedAt = time.Now()
			s.items[i] = *it
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- read-only booking view ---

func (s *Store) ActiveByItem(ctx context.Context, itemID string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.bookings) - 1; i >= 0; i-- {
		b := s.bookings[i]
		if b.ItemID == itemID && b.Status != domain.BookingCancelled {
			out := b
			return &out, nil
		}
	}
	return nil, nil
}

// --- user store ---

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now()
	s.users = append(s.users, *u)
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Email == email {
			out := s.users[i]
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) UserByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			out := s.users[i]
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == u.ID {
			s.users[i] = *u
			return nil
		}
	}
	return domain.ErrUserNotFound
}

// --- comment store ---

func (s *Store) CreateComment(ctx context.Context, c *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()
	s.comments = append(s.comments, *c)
	return nil
}

func (s *Store) CommentsByItem(ctx context.Context, itemID string) ([]domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Comment
	for _, c := range s.comments {
		if c.ItemID == itemID {
			out = append(out, c)
		}
	}
	return out, nil
}

// --- notification store ---

func (s *Store) CreateNotification(ctx context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now()
	s.notifications = append(s.notifications, *n)
	return nil
}

func (s *Store) NotificationsByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Notification
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].UserID == userID {
			out = append(out, s.notifications[i])
		}
	}
	return out, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id && s.notifications[i].UserID == userID {
			s.notifications[i].IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].UserID == userID {
			s.notifications[i].IsRead = true
		}
	}
	return nil
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Interface views: the store methods carry entity-suffixed names so one
// type can back every repo, while the service interfaces use the short
// names the gorm repos export.

type userView struct{ s *Store }

func (v userView) Create(ctx context.Context, u *domain.User) error { return v.s.CreateUser(ctx, u) }
func (v userView) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	return v.s.UserByEmail(ctx, email)
}
func (v userView) ByID(ctx context.Context, id string) (*domain.User, error) {
	return v.s.UserByID(ctx, id)
}
func (v userView) Update(ctx context.Context, u *domain.User) error { return v.s.UpdateUser(ctx, u) }

func (s *Store) Users() service.UserStore { return userView{s} }

type commentView struct{ s *Store }

func (v commentView) Create(ctx context.Context, c *domain.Comment) error {
	return v.s.CreateComment(ctx, c)
}
func (v commentView) ByItem(ctx context.Context, itemID string) ([]domain.Comment, error) {
	return v.s.CommentsByItem(ctx, itemID)
}

func (s *Store) Comments() service.CommentStore { return commentView{s} }

type notifView struct{ s *Store }

func (v notifView) Create(ctx context.Context, n *domain.Notification) error {
	return v.s.CreateNotification(ctx, n)
}
func (v notifView) ByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return v.s.NotificationsByUser(ctx, userID)
}
func (v notifView) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	return v.s.MarkNotificationRead(ctx, id, userID)
}
func (v notifView) MarkAllRead(ctx context.Context, userID string) error {
	return v.s.MarkAllNotificationsRead(ctx, userID)
}

func (s *Store) Notifications() service.NotificationStore { return notifView{s} }
