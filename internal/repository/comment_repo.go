package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/campus-market/internal/domain"
)

type CommentRepo struct{ db *gorm.DB }

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

func (r *CommentRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Comment{})
}

func (r *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CommentRepo) ByItem(ctx context.Context, itemID string) ([]domain.Comment, error) {
	var out []domain.Comment
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}
