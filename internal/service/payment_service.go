package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"market-thrifty/internal/domain"
	"market-thrifty/internal/repo"
	"market-thrifty/pkg/utils"
)

type PaymentOptions struct {
	Currency string
	// Atomic=true：付款记录、listing、booking 三步在一个事务里；
	// false：顺序执行，后两步失败返回 ErrPartialReconciliation，由 Sweeper 补偿
	Atomic bool
}

type PaymentService struct {
	store *repo.Store
	gw    domain.IntentCreator
	opt   PaymentOptions
	log   *zap.Logger
}

func NewPaymentService(store *repo.Store, gw domain.IntentCreator, opt PaymentOptions, l *zap.Logger) *PaymentService {
	if opt.Currency == "" {
		opt.Currency = "usd"
	}
	return &PaymentService{store: store, gw: gw, opt: opt, log: l}
}

// AmountFromPrice 主币单位价格 → 最小货币单位，round(price*100)
func AmountFromPrice(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidPrice, price)
	}
	cents := math.Round(price * 100)
	if cents > 1e15 {
		return 0, fmt.Errorf("%w: %v too large", domain.ErrInvalidPrice, price)
	}
	return int64(cents), nil
}

type IntentRequest struct {
	Price     *float64
	BookingID string
}

// CreateIntent 有 bookingId 时以 booking 价格为准，并拒绝已付款的 booking/listing
func (s *PaymentService) CreateIntent(ctx context.Context, req IntentRequest) (*domain.Intent, error) {
	price, err := s.intentPrice(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyPaid) {
			intentsCreated.WithLabelValues("already_paid").Inc()
		} else {
			intentsCreated.WithLabelValues("invalid").Inc()
		}
		return nil, err
	}
	amount, err := AmountFromPrice(price)
	if err != nil {
		intentsCreated.WithLabelValues("invalid").Inc()
		return nil, err
	}

	in, err := s.gw.CreateIntent(ctx, amount, s.opt.Currency)
	switch {
	case errors.Is(err, domain.ErrGatewayTimeout):
		intentsCreated.WithLabelValues("timeout").Inc()
		return nil, err
	case errors.Is(err, domain.ErrInvalidAmount):
		intentsCreated.WithLabelValues("invalid").Inc()
		return nil, err
	case err != nil:
		intentsCreated.WithLabelValues("gateway_error").Inc()
		return nil, err
	}
	intentsCreated.WithLabelValues("ok").Inc()
	s.log.Info("payment intent created",
		zap.String("intent_id", in.ID),
		zap.String("booking_id", req.BookingID),
		zap.Int64("amount", amount),
		zap.String("currency", s.opt.Currency),
	)
	return in, nil
}

func (s *PaymentService) intentPrice(ctx context.Context, req IntentRequest) (float64, error) {
	if req.BookingID == "" {
		if req.Price == nil {
			return 0, fmt.Errorf("%w: price or bookingId required", domain.ErrInvalidPrice)
		}
		return *req.Price, nil
	}
	b, err := s.store.Bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		return 0, err
	}
	if b.Paid {
		return 0, domain.ErrAlreadyPaid
	}
	switch _, err := s.store.Payments.FindByBookingID(ctx, b.ID); {
	case err == nil:
		return 0, domain.ErrAlreadyPaid
	case !errors.Is(err, domain.ErrNotFound):
		return 0, err
	}
	l, err := s.store.Listings.FindByID(ctx, b.ProductID)
	switch {
	case err == nil && l.Paid:
		return 0, domain.ErrAlreadyPaid
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return 0, err
	}
	return b.Price, nil
}

type PaymentRecord struct {
	BookingID     string
	ProductID     string
	TransactionID string
	Price         float64
	Email         string
}

func (r PaymentRecord) validate() error {
	var missing []string
	if strings.TrimSpace(r.BookingID) == "" {
		missing = append(missing, "bookingId")
	}
	if strings.TrimSpace(r.ProductID) == "" {
		missing = append(missing, "productId")
	}
	if strings.TrimSpace(r.TransactionID) == "" {
		missing = append(missing, "transactionId")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

// RecordPayment 入账：写付款记录 → listing.paid → booking.paid+transactionId。
// 不存在的 listing/booking 是 no-op；同一 booking 第二次入账返回 ErrDuplicatePayment。
func (s *PaymentService) RecordPayment(ctx context.Context, rec PaymentRecord) (*domain.Payment, error) {
	if err := rec.validate(); err != nil {
		return nil, err
	}
	p := &domain.Payment{
		ID:            utils.NewID(),
		BookingID:     rec.BookingID,
		ProductID:     rec.ProductID,
		TransactionID: rec.TransactionID,
		Price:         rec.Price,
		Email:         rec.Email,
	}
	log := s.log.With(
		zap.String("payment_id", p.ID),
		zap.String("booking_id", p.BookingID),
		zap.String("listing_id", p.ProductID),
		zap.String("transaction_id", p.TransactionID),
	)

	var listingRows, bookingRows int64
	var err error
	if s.opt.Atomic {
		listingRows, bookingRows, err = s.recordAtomic(ctx, p)
	} else {
		listingRows, bookingRows, err = s.recordBestEffort(ctx, p)
	}

	switch {
	case errors.Is(err, domain.ErrDuplicatePayment):
		paymentsRecorded.WithLabelValues("duplicate").Inc()
		log.Warn("duplicate payment rejected")
		return nil, err
	case errors.Is(err, domain.ErrPartialReconciliation):
		paymentsRecorded.WithLabelValues("partial").Inc()
		log.Error("payment recorded, reconciliation incomplete", zap.Error(err))
		return p, err
	case err != nil:
		paymentsRecorded.WithLabelValues("failed").Inc()
		log.Error("record payment failed", zap.Error(err))
		return nil, err
	}

	paymentsRecorded.WithLabelValues("ok").Inc()
	if listingRows == 0 {
		log.Warn("listing not found, mark paid was a no-op")
	}
	if bookingRows == 0 {
		log.Warn("booking not found, mark paid was a no-op")
	}
	log.Info("payment recorded", zap.Bool("atomic", s.opt.Atomic))
	return p, nil
}

func (s *PaymentService) recordAtomic(ctx context.Context, p *domain.Payment) (listingRows, bookingRows int64, err error) {
	err = s.store.Transaction(ctx, func(tx *repo.Store) error {
		if e := tx.Payments.Create(ctx, p); e != nil {
			return e
		}
		var e error
		if listingRows, e = tx.Listings.MarkPaid(ctx, p.ProductID); e != nil {
			return e
		}
		bookingRows, e = tx.Bookings.MarkPaid(ctx, p.BookingID, p.TransactionID)
		return e
	})
	if err != nil && !errors.Is(err, domain.ErrDuplicatePayment) && !errors.Is(err, domain.ErrPersistence) {
		// 提交失败等事务层错误
		err = fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return listingRows, bookingRows, err
}

func (s *PaymentService) recordBestEffort(ctx context.Context, p *domain.Payment) (listingRows, bookingRows int64, err error) {
	if err := s.store.Payments.Create(ctx, p); err != nil {
		return 0, 0, err
	}
	var errs []error
	listingRows, e := s.store.Listings.MarkPaid(ctx, p.ProductID)
	if e != nil {
		errs = append(errs, e)
	}
	bookingRows, e = s.store.Bookings.MarkPaid(ctx, p.BookingID, p.TransactionID)
	if e != nil {
		errs = append(errs, e)
	}
	if len(errs) > 0 {
		return listingRows, bookingRows, fmt.Errorf("%w: %w", domain.ErrPartialReconciliation, errors.Join(errs...))
	}
	return listingRows, bookingRows, nil
}
