package domain

import (
	"context"
	"time"
)

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"_id"`
	Email     string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name      string    `gorm:"size:64" json:"name"`
	Photo     string    `gorm:"size:512" json:"photoURL,omitempty"`
	Role      Role      `gorm:"size:16;not null" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
	ListByRoles(ctx context.Context, roles ...Role) ([]User, error)
	SetRole(ctx context.Context, id string, from, to Role) (int64, error)
	Delete(ctx context.Context, id string, roles ...Role) (int64, error)
}
