package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"market-thrifty/internal/domain"
	"market-thrifty/internal/repo"
	"market-thrifty/internal/service"
	"market-thrifty/internal/testutil"
)

type fakeGateway struct {
	calls    int
	amount   int64
	currency string
	err      error
}

func (f *fakeGateway) CreateIntent(_ context.Context, amount int64, currency string) (*domain.Intent, error) {
	f.calls++
	f.amount, f.currency = amount, currency
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Intent{ID: "pi_1", ClientSecret: "pi_1_secret_x", Amount: amount, Currency: currency}, nil
}

func newPayments(t *testing.T, atomic bool) (*service.PaymentService, *repo.Store, *fakeGateway) {
	t.Helper()
	st := testutil.NewStore(t)
	gw := &fakeGateway{}
	svc := service.NewPaymentService(st, gw, service.PaymentOptions{Currency: "usd", Atomic: atomic}, zap.NewNop())
	return svc, st, gw
}

func ptr(f float64) *float64 { return &f }

func TestAmountFromPrice(t *testing.T) {
	cases := []struct {
		price float64
		want  int64
	}{
		{250.00, 25000},
		{0, 0},
		{19.99, 1999},
		{0.5, 50},
	}
	for _, c := range cases {
		got, err := service.AmountFromPrice(c.price)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "price %v", c.price)
	}

	_, err := service.AmountFromPrice(-1)
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestCreateIntent_FromPrice(t *testing.T) {
	svc, _, gw := newPayments(t, true)

	in, err := svc.CreateIntent(context.Background(), service.IntentRequest{Price: ptr(250.00)})
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret_x", in.ClientSecret)
	assert.Equal(t, int64(25000), gw.amount)
	assert.Equal(t, "usd", gw.currency)
}

func TestCreateIntent_Rejects(t *testing.T) {
	ctx := context.Background()
	svc, st, gw := newPayments(t, true)

	_, err := svc.CreateIntent(ctx, service.IntentRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.CreateIntent(ctx, service.IntentRequest{Price: ptr(-3)})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.CreateIntent(ctx, service.IntentRequest{BookingID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	l := testutil.SeedListing(t, st, "apple", "s@x.com", 80)
	b := testutil.SeedBooking(t, st, "b@x.com", l)
	_, err = st.Listings.MarkPaid(ctx, l.ID)
	require.NoError(t, err)
	_, err = svc.CreateIntent(ctx, service.IntentRequest{BookingID: b.ID})
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)

	assert.Zero(t, gw.calls)
}

func TestCreateIntent_BookingPriceWins(t *testing.T) {
	svc, st, gw := newPayments(t, true)
	l := testutil.SeedListing(t, st, "apple", "s@x.com", 120.5)
	b := testutil.SeedBooking(t, st, "b@x.com", l)

	_, err := svc.CreateIntent(context.Background(), service.IntentRequest{Price: ptr(1), BookingID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(12050), gw.amount)
}

func TestCreateIntent_GatewayErrorPassesThrough(t *testing.T) {
	svc, _, gw := newPayments(t, true)
	gw.err = domain.ErrGatewayTimeout

	_, err := svc.CreateIntent(context.Background(), service.IntentRequest{Price: ptr(10)})
	assert.ErrorIs(t, err, domain.ErrGatewayTimeout)
	assert.Equal(t, 1, gw.calls)
}

func TestRecordPayment_Reconciles(t *testing.T) {
	for _, atomic := range []bool{true, false} {
		t.Run(map[bool]string{true: "atomic", false: "best_effort"}[atomic], func(t *testing.T) {
			ctx := context.Background()
			svc, st, _ := newPayments(t, atomic)
			l := testutil.SeedListing(t, st, "apple", "s@x.com", 250)
			b := testutil.SeedBooking(t, st, "b@x.com", l)

			p, err := svc.RecordPayment(ctx, service.PaymentRecord{
				BookingID: b.ID, ProductID: l.ID, TransactionID: "tx_1", Price: 250, Email: "b@x.com",
			})
			require.NoError(t, err)
			assert.Equal(t, "tx_1", p.TransactionID)

			gotB, err := st.Bookings.FindByID(ctx, b.ID)
			require.NoError(t, err)
			assert.True(t, gotB.Paid)
			require.NotNil(t, gotB.TransactionID)
			assert.Equal(t, "tx_1", *gotB.TransactionID)

			gotL, err := st.Listings.FindByID(ctx, l.ID)
			require.NoError(t, err)
			assert.True(t, gotL.Paid)

			avail, err := st.Listings.ListAvailable(ctx, "apple")
			require.NoError(t, err)
			assert.Empty(t, avail)

			_, err = svc.RecordPayment(ctx, service.PaymentRecord{
				BookingID: b.ID, ProductID: l.ID, TransactionID: "tx_2",
			})
			assert.ErrorIs(t, err, domain.ErrDuplicatePayment)
		})
	}
}

func TestRecordPayment_ListingPaidOnce(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newPayments(t, true)
	l := testutil.SeedListing(t, st, "apple", "s@x.com", 250)
	b := testutil.SeedBooking(t, st, "a@x.com", l)

	_, err := svc.RecordPayment(ctx, service.PaymentRecord{BookingID: b.ID, ProductID: l.ID, TransactionID: "tx_a"})
	require.NoError(t, err)
	// 另一个 booking id 指向同一 listing
	_, err = svc.RecordPayment(ctx, service.PaymentRecord{BookingID: "other-booking", ProductID: l.ID, TransactionID: "tx_c"})
	assert.ErrorIs(t, err, domain.ErrDuplicatePayment)

	var n int64
	require.NoError(t, st.DB().Model(&domain.Payment{}).Where("product_id = ?", l.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestRecordPayment_ConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	st := repo.NewStore(testutil.NewFileDB(t, 4))
	svc := service.NewPaymentService(st, &fakeGateway{}, service.PaymentOptions{Currency: "usd", Atomic: true}, zap.NewNop())
	l := testutil.SeedListing(t, st, "apple", "s@x.com", 250)
	b := testutil.SeedBooking(t, st, "b@x.com", l)

	const workers = 6
	start := make(chan struct{})
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.RecordPayment(ctx, service.PaymentRecord{
				BookingID: b.ID, ProductID: l.ID, TransactionID: "tx_" + string(rune('a'+i)),
			})
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrDuplicatePayment):
			dup++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, dup)

	gotB, err := st.Bookings.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, gotB.Paid)
	require.NotNil(t, gotB.TransactionID)
	p, err := st.Payments.FindByBookingID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, *gotB.TransactionID, p.TransactionID)
}

func TestRecordPayment_MissingTargetsAreNoop(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newPayments(t, true)

	p, err := svc.RecordPayment(ctx, service.PaymentRecord{
		BookingID: "ghost-booking", ProductID: "ghost-listing", TransactionID: "tx_9",
	})
	require.NoError(t, err)

	got, err := st.Payments.FindByBookingID(ctx, "ghost-booking")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = st.Bookings.FindByID(ctx, "ghost-booking")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = st.Listings.FindByID(ctx, "ghost-listing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordPayment_Validation(t *testing.T) {
	svc, _, _ := newPayments(t, true)
	_, err := svc.RecordPayment(context.Background(), service.PaymentRecord{BookingID: "b"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordPayment_AtomicRollsBack(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newPayments(t, true)
	l := testutil.SeedListing(t, st, "apple", "s@x.com", 99)
	b := testutil.SeedBooking(t, st, "b@x.com", l)
	require.NoError(t, st.DB().Migrator().DropTable(&domain.Booking{}))

	_, err := svc.RecordPayment(ctx, service.PaymentRecord{BookingID: b.ID, ProductID: l.ID, TransactionID: "tx_1"})
	assert.ErrorIs(t, err, domain.ErrPersistence)

	_, err = st.Payments.FindByBookingID(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	gotL, err := st.Listings.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, gotL.Paid)
}

func TestRecordPayment_BestEffortPartial(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newPayments(t, false)
	l := testutil.SeedListing(t, st, "apple", "s@x.com", 99)
	b := testutil.SeedBooking(t, st, "b@x.com", l)
	require.NoError(t, st.DB().Migrator().DropTable(&domain.Booking{}))

	p, err := svc.RecordPayment(ctx, service.PaymentRecord{BookingID: b.ID, ProductID: l.ID, TransactionID: "tx_1"})
	assert.ErrorIs(t, err, domain.ErrPartialReconciliation)
	require.NotNil(t, p)

	_, err = st.Payments.FindByBookingID(ctx, b.ID)
	require.NoError(t, err)
	gotL, err := st.Listings.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, gotL.Paid)
}
