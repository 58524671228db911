package domain

import (
	"context"
	"time"
)

// Booking 买家对某个 listing 的购买意向；一个 listing 最多一条
type Booking struct {
	ID            string    `gorm:"primaryKey;size:36" json:"_id"`
	Email         string    `gorm:"index;size:191;not null" json:"email"`
	BuyerName     string    `gorm:"size:64" json:"buyerName,omitempty"`
	ProductID     string    `gorm:"uniqueIndex;size:36;not null" json:"productId"`
	ProductName   string    `gorm:"size:128" json:"productName,omitempty"`
	Price         float64   `gorm:"not null" json:"price"`
	Phone         string    `gorm:"size:32" json:"phone,omitempty"`
	Location      string    `gorm:"size:128" json:"location,omitempty"`
	Paid          bool      `gorm:"index" json:"paid"`
	TransactionID *string   `gorm:"size:128" json:"transactionId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type BookingRepository interface {
	Create(ctx context.Context, b *Booking) error
	FindByID(ctx context.Context, id string) (*Booking, error)
	ListByEmail(ctx context.Context, email string) ([]Booking, error)
	MarkPaid(ctx context.Context, id, transactionID string) (int64, error)
}
