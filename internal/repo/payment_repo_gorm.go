package repo

import (
	"context"

	"gorm.io/gorm"

	"market-thrifty/internal/domain"
)

type PaymentRepo struct{ db *gorm.DB }

func NewPaymentRepo(db *gorm.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Create booking_id / product_id 唯一索引冲突 → domain.ErrDuplicatePayment
func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if err != nil && isDupKey(err) {
		return domain.ErrDuplicatePayment
	}
	return persistence("create payment", err)
}

func (r *PaymentRepo) FindByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.WithContext(ctx).First(&p, "booking_id = ?", bookingID).Error
	if notFound(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, persistence("find payment", err)
	}
	return &p, nil
}

// ListUnreconciled 已有付款记录，但对应的 booking 或 listing 仍未标记 paid
func (r *PaymentRepo) ListUnreconciled(ctx context.Context, limit int) ([]domain.Payment, error) {
	out := []domain.Payment{}
	err := r.db.WithContext(ctx).
		Model(&domain.Payment{}).
		Select("payments.*").
		Joins("LEFT JOIN bookings ON bookings.id = payments.booking_id").
		Joins("LEFT JOIN listings ON listings.id = payments.product_id").
		Where("(bookings.id IS NOT NULL AND (bookings.paid IS NULL OR bookings.paid = ?)) OR "+
			"(listings.id IS NOT NULL AND (listings.paid IS NULL OR listings.paid = ?))", false, false).
		Order("payments.created_at").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, persistence("list unreconciled payments", err)
	}
	return out, nil
}
