package domain

import (
	"context"
	"time"
)

// Listing 卖家挂出的二手手机
type Listing struct {
	ID            string    `gorm:"primaryKey;size:36" json:"_id"`
	CategoryName  string    `gorm:"index;size:64;not null" json:"categoryName"`
	SellerEmail   string    `gorm:"index;size:191;not null" json:"sellerEmail"`
	SellerName    string    `gorm:"size:64" json:"sellerName,omitempty"`
	ProductName   string    `gorm:"size:128" json:"productName"`
	Image         string    `gorm:"size:512" json:"image,omitempty"`
	Location      string    `gorm:"size:128" json:"location,omitempty"`
	Phone         string    `gorm:"size:32" json:"phone,omitempty"`
	Condition     string    `gorm:"size:32" json:"condition,omitempty"`
	YearsOfUse    int       `json:"yearsOfUse,omitempty"`
	OriginalPrice float64   `json:"originalPrice,omitempty"`
	Price         float64   `gorm:"not null" json:"price"`
	Advertised    bool      `gorm:"index" json:"advertised"`
	Reported      bool      `gorm:"index" json:"isReported"`
	Paid          bool      `gorm:"index" json:"paid"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type ListingRepository interface {
	Create(ctx context.Context, l *Listing) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	ListAvailable(ctx context.Context, category string) ([]Listing, error)
	ListAdvertised(ctx context.Context) ([]Listing, error)
	ListReported(ctx context.Context) ([]Listing, error)
	ListBySeller(ctx context.Context, sellerEmail string) ([]Listing, error)
	MarkAdvertised(ctx context.Context, id, sellerEmail string) (int64, error)
	MarkReported(ctx context.Context, id string) (int64, error)
	MarkPaid(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id, sellerEmail string) (int64, error)
	DeleteReported(ctx context.Context, id string) (int64, error)
}
