package repo

import (
	"context"

	"gorm.io/gorm"

	"market-thrifty/internal/domain"
)

type BookingRepo struct{ db *gorm.DB }

func NewBookingRepo(db *gorm.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create product_id 唯一索引冲突 → domain.ErrAlreadyBooked
func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	err := r.db.WithContext(ctx).Create(b).Error
	if err != nil && isDupKey(err) {
		return domain.ErrAlreadyBooked
	}
	return persistence("create booking", err)
}

func (r *BookingRepo) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if notFound(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, persistence("find booking", err)
	}
	return &b, nil
}

func (r *BookingRepo) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	out := []domain.Booking{}
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at desc").
		Find(&out).Error
	if err != nil {
		return nil, persistence("list bookings", err)
	}
	return out, nil
}

// MarkPaid 不存在的 booking 是 no-op
func (r *BookingRepo) MarkPaid(ctx context.Context, id, transactionID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{"paid": true, "transaction_id": transactionID})
	return res.RowsAffected, persistence("mark booking paid", res.Error)
}
