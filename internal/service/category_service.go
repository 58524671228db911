package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"market-thrifty/internal/core/cache"
	"market-thrifty/internal/domain"
	"market-thrifty/pkg/utils"
)

const categoriesKey = "categories"

type CategoryService struct {
	repo  domain.CategoryRepository
	cache *cache.Cache
	ttl   time.Duration
}

func NewCategoryService(r domain.CategoryRepository, c *cache.Cache, ttl time.Duration) *CategoryService {
	return &CategoryService{repo: r, cache: c, ttl: ttl}
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	out, err := cache.GetOrLoadJSON(s.cache, ctx, categoriesKey, s.ttl, func(ctx context.Context) (*[]domain.Category, error) {
		cs, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		return &cs, nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return []domain.Category{}, nil
	}
	return *out, nil
}

func (s *CategoryService) Create(ctx context.Context, name, image string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: categoryName required", domain.ErrInvalidInput)
	}
	c := &domain.Category{ID: utils.NewID(), CategoryName: name, Image: image}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, categoriesKey)
	return c, nil
}
