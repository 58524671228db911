package repo

import (
	"context"

	"gorm.io/gorm"

	"market-thrifty/internal/domain"
)

type CategoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if err != nil && isDupKey(err) {
		return domain.ErrDuplicateCategory
	}
	return persistence("create category", err)
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	if err := r.db.WithContext(ctx).Order("category_name").Find(&out).Error; err != nil {
		return nil, persistence("list categories", err)
	}
	return out, nil
}
