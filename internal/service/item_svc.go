package service

import (
	"context"
	"strings"

	"github.com/you/campus-market/internal/domain"
)

type ItemStore interface {
	Create(ctx context.Context, it *domain.Item) error
	ByID(ctx context.Context, id string) (*domain.Item, error)
	ByOwner(ctx context.Context, userID string) ([]domain.Item, error)
	List(ctx context.Context, f domain.ItemFilter) ([]domain.Item, error)
	Update(ctx context.Context, it *domain.Item) error
	Delete(ctx context.Context, id string) error
}

type CommentStore interface {
	Create(ctx context.Context, c *domain.Comment) error
	ByItem(ctx context.Context, itemID string) ([]domain.Comment, error)
}

// UserProvider is the slice of the user store the listing side needs.
type UserProvider interface {
	ByID(ctx context.Context, id string) (*domain.User, error)
}

// ActiveBookingProvider exposes the item's current claim, read-only.
type ActiveBookingProvider interface {
	ActiveByItem(ctx context.Context, itemID string) (*domain.Booking, error)
}

// ItemSvc owns listing CRUD, browse and comments. Status transitions
// stay with the booking engine; the only status ItemSvc ever writes is
// the initial "available".
type ItemSvc struct {
	items    ItemStore
	comments CommentStore
	users    UserProvider
	bookings ActiveBookingProvider
}

func NewItemSvc(items ItemStore, comments CommentStore, users UserProvider, bookings ActiveBookingProvider) *ItemSvc {
	return &ItemSvc{items: items, comments: comments, users: users, bookings: bookings}
}

type ItemInput struct {
	Title       string
	Description string
	Price       int64
	Category    string
	ImageURL    string
}

func (s *ItemSvc) Create(ctx context.Context, ownerID string, in ItemInput) (*domain.Item, error) {
	it := &domain.Item{
		UploadedBy:  ownerID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Category:    strings.ToLower(in.Category),
		ImageURL:    in.ImageURL,
		Status:      domain.ItemAvailable,
	}
	if err := s.items.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *ItemSvc) Update(ctx context.Context, itemID, actorID string, in ItemInput) (*domain.Item, error) {
	it, err := s.items.ByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.UploadedBy != actorID {
		return nil, domain.ErrNotOwner
	}
	it.Title = in.Title
	it.Description = in.Description
	it.Price = in.Price
	it.Category = strings.ToLower(in.Category)
	if in.ImageURL != "" {
		it.ImageURL = in.ImageURL
	}
	if err := s.items.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// Delete removes a listing. Refused while a reservation is in flight so
// the buyer's claim cannot silently vanish.
func (s *ItemSvc) Delete(ctx context.Context, itemID, actorID string) error {
	it, err := s.items.ByID(ctx, itemID)
	if err != nil {
		return err
	}
	if it.UploadedBy != actorID {
		return domain.ErrNotOwner
	}
	if it.Status == domain.ItemPending || it.Status == domain.ItemReserved {
		return domain.ErrItemBooked
	}
	return s.items.Delete(ctx, itemID)
}

// Browse returns public marketplace listings: sold items excluded,
// newest first.
func (s *ItemSvc) Browse(ctx context.Context, f domain.ItemFilter) ([]domain.Item, error) {
	return s.items.List(ctx, f)
}

func (s *ItemSvc) MyItems(ctx context.Context, ownerID string) ([]domain.Item, error) {
	return s.items.ByOwner(ctx, ownerID)
}

// SellerInfo is the public slice of the seller shown on a listing.
type SellerInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

type ActiveBookingInfo struct {
	ID        string               `json:"id"`
	BuyerID   string               `json:"buyer_id"`
	BuyerName string               `json:"buyer_name,omitempty"`
	Status    domain.BookingStatus `json:"status"`
}

type ItemDetail struct {
	domain.Item
	Seller  SellerInfo         `json:"seller"`
	Booking *ActiveBookingInfo `json:"booking,omitempty"`
}

// Detail returns an item regardless of status (sold listings stay
// reachable by id) together with its seller and active claim.
func (s *ItemSvc) Detail(ctx context.Context, itemID string) (*ItemDetail, error) {
	it, err := s.items.ByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	d := &ItemDetail{Item: *it}
	if u, err := s.users.ByID(ctx, it.UploadedBy); err == nil {
		d.Seller = SellerInfo{ID: u.ID, Name: u.Name, Email: u.Email, Picture: u.Picture}
	}
	b, err := s.bookings.ActiveByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if b != nil {
		info := &ActiveBookingInfo{ID: b.ID, BuyerID: b.UserID, Status: b.Status}
		if u, err := s.users.ByID(ctx, b.UserID); err == nil {
			info.BuyerName = u.Name
		}
		d.Booking = info
	}
	return d, nil
}

func (s *ItemSvc) AddComment(ctx context.Context, itemID, userID, body string) (*domain.Comment, error) {
	if _, err := s.items.ByID(ctx, itemID); err != nil {
		return nil, err
	}
	c := &domain.Comment{ItemID: itemID, UserID: userID, Body: body}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ItemSvc) Comments(ctx context.Context, itemID string) ([]domain.Comment, error) {
	list, err := s.comments.ByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if u, err := s.users.ByID(ctx, list[i].UserID); err == nil {
			list[i].UserName = u.Name
		}
	}
	return list, nil
}
