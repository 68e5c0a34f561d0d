package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/you/campus-market/internal/domain"
	"github.com/you/campus-market/internal/service"
)

type BookingRepo struct{ db *gorm.DB }

func NewBookingRepo(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Booking{})
}

type gormTx struct{ tx *gorm.DB }

func (t gormTx) CreateBooking(b *domain.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return t.tx.Create(b).Error
}

func (t gormTx) SaveBooking(b *domain.Booking) error {
	return t.tx.Save(b).Error
}

func (t gormTx) SaveItem(it *domain.Item) error {
	return t.tx.Save(it).Error
}

func (t gormTx) ActiveBooking(itemID string) (*domain.Booking, error) {
	var b domain.Booking
	err := t.tx.
		Where("item_id = ? AND status IN ?", itemID, domain.ActiveBookingStatuses).
		Order("created_at DESC").
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// WithItem runs fn in a txn holding SELECT ... FOR UPDATE on the item
// row, so concurrent transitions on the same item serialize and every
// status check inside fn sees the committed truth.
func (r *BookingRepo) WithItem(ctx context.Context, itemID string, fn func(tx service.Tx, item *domain.Item) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it domain.Item
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&it, "id = ?", itemID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrItemNotFound
		}
		if err != nil {
			return err
		}
		return fn(gormTx{tx}, &it)
	})
}

// WithBooking resolves the booking first, then takes the item row lock
// and re-reads the booking under it. The item row is the single lock
// for the whole item/booking pair.
func (r *BookingRepo) WithBooking(ctx context.Context, bookingID string, fn func(tx service.Tx, item *domain.Item, b *domain.Booking) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Booking
		err := tx.First(&b, "id = ?", bookingID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrBookingNotFound
		}
		if err != nil {
			return err
		}

		var it domain.Item
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&it, "id = ?", b.ItemID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrItemNotFound
		}
		if err != nil {
			return err
		}

		// booking status may have moved before we held the lock
		if err := tx.First(&b, "id = ?", bookingID).Error; err != nil {
			return err
		}
		return fn(gormTx{tx}, &it, &b)
	})
}

// ActiveByItem is the read-only view used for item detail pages.
func (r *BookingRepo) ActiveByItem(ctx context.Context, itemID string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND status IN ?", itemID, domain.ActiveBookingStatuses).
		Order("created_at DESC").
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
