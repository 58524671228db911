package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"market-thrifty/internal/domain"
	"market-thrifty/pkg/utils"
)

type BookingService struct {
	bookings domain.BookingRepository
	listings domain.ListingRepository
	log      *zap.Logger
}

func NewBookingService(b domain.BookingRepository, l domain.ListingRepository, log *zap.Logger) *BookingService {
	return &BookingService{bookings: b, listings: l, log: log}
}

// Create 只能预订未付款且未被预订的 listing；价格以 listing 为准。
// 重复预订由 bookings.product_id 唯一索引拒绝（ErrAlreadyBooked）
func (s *BookingService) Create(ctx context.Context, buyerEmail string, b *domain.Booking) (*domain.Booking, error) {
	if strings.TrimSpace(b.ProductID) == "" {
		return nil, fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
	}
	l, err := s.listings.FindByID(ctx, b.ProductID)
	if err != nil {
		return nil, err
	}
	if l.Paid {
		return nil, domain.ErrAlreadyPaid
	}
	b.ID = utils.NewID()
	b.Email = buyerEmail
	b.Price = l.Price
	if b.ProductName == "" {
		b.ProductName = l.ProductName
	}
	b.Paid = false
	b.TransactionID = nil
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info("booking created", zap.String("booking_id", b.ID), zap.String("listing_id", l.ID), zap.String("buyer", buyerEmail))
	return b, nil
}

func (s *BookingService) ListForIdentity(ctx context.Context, claimEmail, queryEmail string) ([]domain.Booking, error) {
	if err := CheckIdentity(claimEmail, queryEmail); err != nil {
		return nil, err
	}
	return s.bookings.ListByEmail(ctx, queryEmail)
}

func (s *BookingService) Get(ctx context.Context, id, callerEmail string, admin bool) (*domain.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !admin && b.Email != callerEmail {
		return nil, fmt.Errorf("%w: not your booking", domain.ErrForbidden)
	}
	return b, nil
}
