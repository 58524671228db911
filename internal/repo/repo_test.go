package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-thrifty/internal/domain"
	"market-thrifty/internal/repo"
	"market-thrifty/internal/testutil"
	"market-thrifty/pkg/utils"
)

func TestUserRepo_RoleRoundTripAndConditionalUpdate(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)
	u := testutil.SeedUser(t, st, "s@x.com", domain.RoleSellerPending)

	got, err := st.Users.FindByEmail(ctx, "s@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSellerPending, got.Role)

	// from 不匹配时不改
	n, err := st.Users.SetRole(ctx, u.ID, domain.RoleBuyer, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = st.Users.SetRole(ctx, "ghost", domain.RoleSellerPending, domain.RoleSellerVerified)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = st.Users.FindByID(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = st.Users.Create(ctx, &domain.User{ID: utils.NewID(), Email: "s@x.com", Role: domain.RoleBuyer})
	assert.ErrorIs(t, err, domain.ErrDuplicateUser)

	err = st.Users.Create(ctx, &domain.User{ID: utils.NewID(), Email: "bad@x.com"})
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestUserRepo_List(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)
	testutil.SeedUser(t, st, "a@x.com", domain.RoleBuyer)
	testutil.SeedUser(t, st, "b@x.com", domain.RoleSellerVerified)
	testutil.SeedUser(t, st, "c@x.com", domain.RoleAdmin)

	users, total, err := st.Users.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 2)

	sellers, err := st.Users.ListByRoles(ctx, domain.RoleSellerPending, domain.RoleSellerVerified)
	require.NoError(t, err)
	require.Len(t, sellers, 1)
	assert.Equal(t, "b@x.com", sellers[0].Email)
}

func TestListingRepo_NullPaidCountsAsUnpaid(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)
	l := testutil.SeedListing(t, st, "apple", "s@x.com", 10)
	require.NoError(t, st.DB().Exec("UPDATE listings SET paid = NULL WHERE id = ?", l.ID).Error)

	avail, err := st.Listings.ListAvailable(ctx, "apple")
	require.NoError(t, err)
	assert.Len(t, avail, 1)

	n, err := st.Listings.MarkPaid(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	avail, err = st.Listings.ListAvailable(ctx, "apple")
	require.NoError(t, err)
	assert.Empty(t, avail)
}

func TestListingRepo_MarkPaidNeverInserts(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)

	n, err := st.Listings.MarkPaid(ctx, "ghost")
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = st.Bookings.MarkPaid(ctx, "ghost", "tx_1")
	require.NoError(t, err)
	assert.Zero(t, n)

	var count int64
	require.NoError(t, st.DB().Model(&domain.Listing{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, st.DB().Model(&domain.Booking{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListingRepo_DeleteScopedToSeller(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)
	l := testutil.SeedListing(t, st, "apple", "s@x.com", 10)

	n, err := st.Listings.Delete(ctx, l.ID, "other@x.com")
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = st.Listings.Delete(ctx, l.ID, "s@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPaymentRepo_UniquePerBooking(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)
	p := func(tx string) *domain.Payment {
		return &domain.Payment{ID: utils.NewID(), BookingID: "B1", ProductID: "P1", TransactionID: tx}
	}
	require.NoError(t, st.Payments.Create(ctx, p("tx_1")))
	assert.ErrorIs(t, st.Payments.Create(ctx, p("tx_2")), domain.ErrDuplicatePayment)

	got, err := st.Payments.FindByBookingID(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, "tx_1", got.TransactionID)
}

func TestPaymentRepo_UniquePerListing(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)
	require.NoError(t, st.Payments.Create(ctx, &domain.Payment{ID: utils.NewID(), BookingID: "B1", ProductID: "P1", TransactionID: "tx_1"}))
	err := st.Payments.Create(ctx, &domain.Payment{ID: utils.NewID(), BookingID: "B2", ProductID: "P1", TransactionID: "tx_2"})
	assert.ErrorIs(t, err, domain.ErrDuplicatePayment)

	var n int64
	require.NoError(t, st.DB().Model(&domain.Payment{}).Where("product_id = ?", "P1").Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestBookingRepo_OnePerListing(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)
	l := testutil.SeedListing(t, st, "apple", "s@x.com", 10)
	testutil.SeedBooking(t, st, "a@x.com", l)

	err := st.Bookings.Create(ctx, &domain.Booking{ID: utils.NewID(), Email: "c@x.com", ProductID: l.ID, Price: l.Price})
	assert.ErrorIs(t, err, domain.ErrAlreadyBooked)

	other := testutil.SeedListing(t, st, "apple", "s@x.com", 20)
	testutil.SeedBooking(t, st, "c@x.com", other)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)
	l := testutil.SeedListing(t, st, "apple", "s@x.com", 10)

	err := st.Transaction(ctx, func(tx *repo.Store) error {
		if _, err := tx.Listings.MarkPaid(ctx, l.ID); err != nil {
			return err
		}
		return domain.ErrInvalidInput
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := st.Listings.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, got.Paid)
}
