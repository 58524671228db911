package repo

import (
	"context"

	"gorm.io/gorm"

	"market-thrifty/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if err != nil && isDupKey(err) {
		return domain.ErrDuplicateUser
	}
	return persistence("create user", err)
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if notFound(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, persistence("find user", err)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if notFound(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, persistence("find user", err)
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, persistence("count users", err)
	}
	users := []domain.User{}
	err := r.db.WithContext(ctx).
		Offset(offset).Limit(limit).
		Order("created_at desc").
		Find(&users).Error
	if err != nil {
		return nil, 0, persistence("list users", err)
	}
	return users, total, nil
}

func (r *UserRepo) ListByRoles(ctx context.Context, roles ...domain.Role) ([]domain.User, error) {
	users := []domain.User{}
	err := r.db.WithContext(ctx).
		Where("role IN ?", roleNames(roles)).
		Order("created_at desc").
		Find(&users).Error
	if err != nil {
		return nil, persistence("list users by role", err)
	}
	return users, nil
}

// SetRole 仅当当前角色为 from 时才改成 to；不存在的 id 不会插入新行
func (r *UserRepo) SetRole(ctx context.Context, id string, from, to domain.Role) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND role = ?", id, from.String()).
		Update("role", to.String())
	return res.RowsAffected, persistence("set role", res.Error)
}

// Delete roles 非空时只删这些角色的用户
func (r *UserRepo) Delete(ctx context.Context, id string, roles ...domain.Role) (int64, error) {
	q := r.db.WithContext(ctx).Where("id = ?", id)
	if len(roles) > 0 {
		q = q.Where("role IN ?", roleNames(roles))
	}
	res := q.Delete(&domain.User{})
	return res.RowsAffected, persistence("delete user", res.Error)
}

func roleNames(roles []domain.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, r.String())
	}
	return out
}
