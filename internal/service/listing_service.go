package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"market-thrifty/internal/domain"
	"market-thrifty/pkg/utils"
)

// ListingService 可见性过滤在仓储层：已付款的 listing 不会出现在公开查询里
type ListingService struct {
	listings domain.ListingRepository
	log      *zap.Logger
}

func NewListingService(r domain.ListingRepository, l *zap.Logger) *ListingService {
	return &ListingService{listings: r, log: l}
}

// Create 卖家取自令牌；状态位一律由服务端置初值
func (s *ListingService) Create(ctx context.Context, sellerEmail string, l *domain.Listing) (*domain.Listing, error) {
	if strings.TrimSpace(l.CategoryName) == "" {
		return nil, fmt.Errorf("%w: categoryName required", domain.ErrInvalidInput)
	}
	if _, err := AmountFromPrice(l.Price); err != nil {
		return nil, err
	}
	l.ID = utils.NewID()
	l.SellerEmail = sellerEmail
	l.Advertised, l.Reported, l.Paid = false, false, false
	if err := s.listings.Create(ctx, l); err != nil {
		return nil, err
	}
	s.log.Info("listing created", zap.String("listing_id", l.ID), zap.String("seller", sellerEmail))
	return l, nil
}

func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	return s.listings.FindByID(ctx, id)
}

func (s *ListingService) ListAvailable(ctx context.Context, category string) ([]domain.Listing, error) {
	return s.listings.ListAvailable(ctx, category)
}

func (s *ListingService) ListAdvertised(ctx context.Context) ([]domain.Listing, error) {
	return s.listings.ListAdvertised(ctx)
}

func (s *ListingService) ListReported(ctx context.Context) ([]domain.Listing, error) {
	return s.listings.ListReported(ctx)
}

func (s *ListingService) ListBySeller(ctx context.Context, claimEmail, queryEmail string) ([]domain.Listing, error) {
	if err := CheckIdentity(claimEmail, queryEmail); err != nil {
		return nil, err
	}
	return s.listings.ListBySeller(ctx, queryEmail)
}

// Advertise 非管理员只能推广自己的 listing；目标不存在或不属于自己都是 no-op
func (s *ListingService) Advertise(ctx context.Context, id, callerEmail string, admin bool) (int64, error) {
	owner := callerEmail
	if admin {
		owner = ""
	}
	return s.listings.MarkAdvertised(ctx, id, owner)
}

func (s *ListingService) Report(ctx context.Context, id, reporter string) (int64, error) {
	n, err := s.listings.MarkReported(ctx, id)
	if err == nil && n > 0 {
		s.log.Info("listing reported", zap.String("listing_id", id), zap.String("reporter", reporter))
	}
	return n, err
}

func (s *ListingService) DeleteOwn(ctx context.Context, id, sellerEmail string) (int64, error) {
	return s.listings.Delete(ctx, id, sellerEmail)
}

func (s *ListingService) DeleteReported(ctx context.Context, id string) (int64, error) {
	return s.listings.DeleteReported(ctx, id)
}
