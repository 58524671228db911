package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"market-thrifty/internal/domain"
	"market-thrifty/internal/repo"
	"market-thrifty/pkg/utils"
)

func SeedUser(t *testing.T, s *repo.Store, email string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{ID: utils.NewID(), Email: email, Name: email, Role: role}
	require.NoError(t, s.Users.Create(context.Background(), u))
	return u
}

func SeedListing(t *testing.T, s *repo.Store, category, seller string, price float64) *domain.Listing {
	t.Helper()
	l := &domain.Listing{
		ID:           utils.NewID(),
		CategoryName: category,
		SellerEmail:  seller,
		ProductName:  "phone " + category,
		Price:        price,
	}
	require.NoError(t, s.Listings.Create(context.Background(), l))
	return l
}

func SeedBooking(t *testing.T, s *repo.Store, email string, l *domain.Listing) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		ID:          utils.NewID(),
		Email:       email,
		ProductID:   l.ID,
		ProductName: l.ProductName,
		Price:       l.Price,
	}
	require.NoError(t, s.Bookings.Create(context.Background(), b))
	return b
}
