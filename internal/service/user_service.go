package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"market-thrifty/internal/core/cache"
	"market-thrifty/internal/domain"
	"market-thrifty/pkg/utils"
)

// TokenIssuer 由 auth.JWTer 实现
type TokenIssuer interface {
	Issue(email, role string) (string, error)
}

type UserService struct {
	users  domain.UserRepository
	tokens TokenIssuer
	cache  *cache.Cache
	ttl    time.Duration
	log    *zap.Logger
}

func NewUserService(users domain.UserRepository, tokens TokenIssuer, c *cache.Cache, ttl time.Duration, l *zap.Logger) *UserService {
	return &UserService{users: users, tokens: tokens, cache: c, ttl: ttl, log: l}
}

func roleKey(email string) string { return "role:" + email }

type RegisterInput struct {
	Name   string
	Email  string
	Photo  string
	Option string // "Buyer" / "Seller"
}

// Register 管理员只能由运维直接写库，注册入口只产生买家或待认证卖家
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email required", domain.ErrInvalidInput)
	}
	role, err := domain.RoleFromOption(in.Option)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:    utils.NewID(),
		Email: email,
		Name:  strings.TrimSpace(in.Name),
		Photo: in.Photo,
		Role:  role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, roleKey(email))
	s.log.Info("user registered", zap.String("email", email), zap.Stringer("role", role))
	return u, nil
}

// IssueToken 只给已注册用户签发
func (s *UserService) IssueToken(ctx context.Context, email string) (string, error) {
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("%w: unknown user", domain.ErrForbidden)
		}
		return "", err
	}
	return s.tokens.Issue(u.Email, u.Role.String())
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindByEmail(ctx, email)
}

type roleEntry struct {
	Role string `json:"role"`
}

// RoleOf 读用户库的角色（带缓存），未注册用户返回 ErrNotFound
func (s *UserService) RoleOf(ctx context.Context, email string) (domain.Role, error) {
	e, err := cache.GetOrLoadJSON(s.cache, ctx, roleKey(email), s.ttl, func(ctx context.Context) (*roleEntry, error) {
		u, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return &roleEntry{Role: u.Role.String()}, nil
	})
	if err != nil {
		return 0, err
	}
	if e == nil {
		return 0, domain.ErrNotFound
	}
	return domain.ParseRole(e.Role)
}

func (s *UserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	r, err := s.RoleOf(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return r == domain.RoleAdmin, err
}

func (s *UserService) IsSeller(ctx context.Context, email string) (bool, error) {
	r, err := s.RoleOf(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return r.IsSeller(), err
}

func (s *UserService) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, offset, limit)
}

func (s *UserService) ListSellers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListByRoles(ctx, domain.RoleSellerPending, domain.RoleSellerVerified)
}

// VerifySeller 只把待认证卖家改为已认证；其他情况 no-op
func (s *UserService) VerifySeller(ctx context.Context, id string) (int64, error) {
	n, err := s.users.SetRole(ctx, id, domain.RoleSellerPending, domain.RoleSellerVerified)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.invalidateByID(ctx, id)
		s.log.Info("seller verified", zap.String("user_id", id))
	}
	return n, nil
}

func (s *UserService) Delete(ctx context.Context, id string) (int64, error) {
	return s.delete(ctx, id)
}

func (s *UserService) DeleteSeller(ctx context.Context, id string) (int64, error) {
	return s.delete(ctx, id, domain.RoleSellerPending, domain.RoleSellerVerified)
}

func (s *UserService) delete(ctx context.Context, id string, roles ...domain.Role) (int64, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := s.users.Delete(ctx, id, roles...)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		_ = s.cache.Invalidate(ctx, roleKey(u.Email))
		s.log.Info("user deleted", zap.String("user_id", id), zap.String("email", u.Email))
	}
	return n, nil
}

func (s *UserService) invalidateByID(ctx context.Context, id string) {
	if u, err := s.users.FindByID(ctx, id); err == nil {
		_ = s.cache.Invalidate(ctx, roleKey(u.Email))
	}
}
