package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"market-thrifty/internal/core/cache"
	"market-thrifty/internal/domain"
	"market-thrifty/internal/repo"
	"market-thrifty/internal/service"
	"market-thrifty/internal/testutil"
)

func newUsers(t *testing.T) (*service.UserService, *repo.Store) {
	t.Helper()
	st := testutil.NewStore(t)
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return service.NewUserService(st.Users, testutil.NewJWTer(), c, time.Minute, zap.NewNop()), st
}

func TestRegister_RoleFromOption(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUsers(t)

	u, err := svc.Register(ctx, service.RegisterInput{Name: "Ann", Email: "ann@x.com", Option: "Seller"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSellerPending, u.Role)

	u, err = svc.Register(ctx, service.RegisterInput{Name: "Bob", Email: "bob@x.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleBuyer, u.Role)

	_, err = svc.Register(ctx, service.RegisterInput{Email: "eve@x.com", Option: "admin"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = svc.Register(ctx, service.RegisterInput{Email: "ann@x.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUser)

	_, err = svc.Register(ctx, service.RegisterInput{Email: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIssueToken_OnlyRegistered(t *testing.T) {
	ctx := context.Background()
	svc, st := newUsers(t)
	testutil.SeedUser(t, st, "ann@x.com", domain.RoleBuyer)

	tok, err := svc.IssueToken(ctx, "ann@x.com")
	require.NoError(t, err)
	claims, err := testutil.NewJWTer().Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", claims.Email)

	_, err = svc.IssueToken(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRoleChecks(t *testing.T) {
	ctx := context.Background()
	svc, st := newUsers(t)
	testutil.SeedUser(t, st, "admin@x.com", domain.RoleAdmin)
	seller := testutil.SeedUser(t, st, "seller@x.com", domain.RoleSellerPending)

	ok, err := svc.IsAdmin(ctx, "admin@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsAdmin(ctx, "seller@x.com")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.IsSeller(ctx, "seller@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsAdmin(ctx, "ghost@x.com")
	require.NoError(t, err)
	assert.False(t, ok)

	// 角色缓存在认证后失效
	n, err := svc.VerifySeller(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	r, err := svc.RoleOf(ctx, "seller@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSellerVerified, r)

	n, err = svc.VerifySeller(ctx, seller.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteSeller_OnlySellers(t *testing.T) {
	ctx := context.Background()
	svc, st := newUsers(t)
	buyer := testutil.SeedUser(t, st, "buyer@x.com", domain.RoleBuyer)
	seller := testutil.SeedUser(t, st, "seller@x.com", domain.RoleSellerVerified)

	n, err := svc.DeleteSeller(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.DeleteSeller(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = svc.RoleOf(ctx, "seller@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err = svc.Delete(ctx, "ghost")
	require.NoError(t, err)
	assert.Zero(t, n)

	sellers, err := svc.ListSellers(ctx)
	require.NoError(t, err)
	assert.Empty(t, sellers)
}
