package domain

import (
	"context"
	"time"
)

// Payment 一次成功的网关交易记录，写入后不可变；每个 booking、每个 listing 各最多一条
type Payment struct {
	ID            string    `gorm:"primaryKey;size:36" json:"_id"`
	BookingID     string    `gorm:"uniqueIndex;size:36;not null" json:"bookingId"`
	ProductID     string    `gorm:"uniqueIndex;size:36;not null" json:"productId"`
	TransactionID string    `gorm:"size:128;not null" json:"transactionId"`
	Price         float64   `json:"price"`
	Email         string    `gorm:"size:191" json:"email,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	FindByBookingID(ctx context.Context, bookingID string) (*Payment, error)
	ListUnreconciled(ctx context.Context, limit int) ([]Payment, error)
}

// Intent 网关返回的支付意向
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type IntentCreator interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error)
}
