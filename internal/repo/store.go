package repo

import (
	"context"

	"gorm.io/gorm"
)

// Store 持有同一个 *gorm.DB 上的全部仓储；事务内会用 tx 重新构造一份
type Store struct {
	db *gorm.DB

	Users      *UserRepo
	Categories *CategoryRepo
	Listings   *ListingRepo
	Bookings   *BookingRepo
	Payments   *PaymentRepo
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Users:      NewUserRepo(db),
		Categories: NewCategoryRepo(db),
		Listings:   NewListingRepo(db),
		Bookings:   NewBookingRepo(db),
		Payments:   NewPaymentRepo(db),
	}
}

// Transaction fn 返回错误即回滚
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB 给迁移和健康检查用
func (s *Store) DB() *gorm.DB { return s.db }
