package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/campus-market/internal/domain"
)

type ItemRepo struct{ db *gorm.DB }

func NewItemRepo(db *gorm.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

func (r *ItemRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Item{})
}

func (r *ItemRepo) Create(ctx context.Context, it *domain.Item) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *ItemRepo) ByID(ctx context.Context, id string) (*domain.Item, error) {
	var it domain.Item
	err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepo) ByOwner(ctx context.Context, userID string) ([]domain.Item, error) {
	var out []domain.Item
	err := r.db.WithContext(ctx).
		Where("uploaded_by = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// List serves the public marketplace: sold items never show up here.
func (r *ItemRepo) List(ctx context.Context, f domain.ItemFilter) ([]domain.Item, error) {
	qb := r.db.WithContext(ctx).Model(&domain.Item{}).
		Where("status IN ?", []domain.ItemStatus{domain.ItemAvailable, domain.ItemPending, domain.ItemReserved})
	if f.Category != "" && f.Category != "all" {
		qb = qb.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		qb = qb.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if f.MaxPrice > 0 {
		qb = qb.Where("price <= ?", f.MaxPrice)
	}
	var out []domain.Item
	err := qb.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *ItemRepo) Update(ctx context.Context, it *domain.Item) error {
	return r.db.WithContext(ctx).Save(it).Error
}

func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Item{}, "id = ?", id).Error
}
