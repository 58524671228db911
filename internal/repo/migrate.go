package repo

import (
	"gorm.io/gorm"

	"market-thrifty/internal/domain"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.Listing{},
		&domain.Booking{},
		&domain.Payment{},
	)
}
