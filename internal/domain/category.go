package domain

import "context"

type Category struct {
	ID           string `gorm:"primaryKey;size:36" json:"_id"`
	CategoryName string `gorm:"uniqueIndex;size:64;not null" json:"categoryName"`
	Image        string `gorm:"size:512" json:"image,omitempty"`
}

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	List(ctx context.Context) ([]Category, error)
}
