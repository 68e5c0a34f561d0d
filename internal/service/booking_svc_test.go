package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/campus-market/internal/domain"
	"github.com/you/campus-market/internal/events"
	"github.com/you/campus-market/internal/repository/memory"
	"github.com/you/campus-market/internal/service"
)

type pubRecorder struct {
	mu   sync.Mutex
	keys []string
	evs  []events.BookingEvent
}

func (p *pubRecorder) PublishJSON(ctx context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	if ev, ok := v.(events.BookingEvent); ok {
		p.evs = append(p.evs, ev)
	}
	return nil
}

func (p *pubRecorder) last() (string, events.BookingEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.keys) == 0 {
		return "", events.BookingEvent{}
	}
	return p.keys[len(p.keys)-1], p.evs[len(p.evs)-1]
}

func newEngine(t *testing.T) (*service.BookingSvc, *memory.Store, *pubRecorder) {
	t.Helper()
	store := memory.New()
	pub := &pubRecorder{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.NewBookingSvc(log, store, pub), store, pub
}

func seedItem(t *testing.T, store *memory.Store, owner string, status domain.ItemStatus) *domain.Item {
	t.Helper()
	it := &domain.Item{UploadedBy: owner, Title: "calc textbook", Price: 30, Category: "books", Status: status}
	require.NoError(t, store.Create(context.Background(), it))
	return it
}

func TestReserveCreatesPendingBooking(t *testing.T) {
	svc, store, pub := newEngine(t)
	ctx := context.Background()
	it := seedItem(t, store, "seller", domain.ItemAvailable)

	b, err := svc.Reserve(ctx, it.ID, "buyer")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, 1, b.BookedQuantity)

	got, err := store.ByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemPending, got.Status)

	key, ev := pub.last()
	assert.Equal(t, events.RKBookingRequested, key)
	assert.Equal(t, "seller", ev.SellerID)
	assert.Equal(t, "buyer", ev.BuyerID)
}

func TestReserveOwnItem(t *testing.T) {
	svc, store, _ := newEngine(t)
	ctx := context.Background()
	it := seedItem(t, store, "seller", domain.ItemAvailable)

	_, err := svc.Reserve(ctx, it.ID, "seller")
	assert.ErrorIs(t, err, domain.ErrOwnItem)

	got, _ := store.ByID(ctx, it.ID)
	assert.Equal(t, domain.ItemAvailable, got.Status)
}

func TestReserveNonAvailableItem(t *testing.T) {
	svc, store, _ := newEngine(t)
	ctx := context.Background()
	for _, st := range []domain.ItemStatus{domain.ItemPending, domain.ItemReserved, domain.ItemSold} {
		it := seedItem(t, store, "seller", st)
		_, err := svc.Reserve(ctx, it.ID, "buyer")
		assert.ErrorIs(t, err, domain.ErrItemNotAvailable, "status %s", st)

		got, _ := store.ByID(ctx, it.ID)
		assert.Equal(t, st, got.Status, "reserve must not mutate on conflict")
	}
}

func TestReserveMissingItem(t *testing.T) {
	svc, _, _ := newEngine(t)
	_, err := svc.Reserve(context.Background(), "nope", "buyer")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestAcceptFlow(t *testing.T) {
	svc, store, pub := newEngine(t)
	ctx := context.Background()
	it := seedItem(t, store, "seller", domain.ItemAvailable)
	b, err := svc.Reserve(ctx, it.ID, "buyer")
	require.NoError(t, err)

	// only the seller may accept
	_, err = svc.Accept(ctx, b.ID, "buyer")
	assert.ErrorIs(t, err, domain.ErrNotSeller)

	got, err := svc.Accept(ctx, b.ID, "seller")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingReserved, got.Status)

	item, _ := store.ByID(ctx, it.ID)
	assert.Equal(t, domain.ItemReserved, item.Status)

	key, _ := pub.last()
	assert.Equal(t, events.RKBookingAccepted, key)

	// a second accept is a conflict and leaves state alone
	_, err = svc.Accept(ctx, b.ID, "seller")
	assert.ErrorIs(t, err, domain.ErrNotPending)
	item, _ = store.ByID(ctx, it.ID)
	assert.Equal(t, domain.ItemReserved, item.Status)
}

func TestRejectReleasesItem(t *testing.T) {
	svc, store, pub := newEngine(t)
	ctx := context.Background()
	it := seedItem(t, store, "seller", domain.ItemAvailable)
	b, _ := svc.Reserve(ctx, it.ID, "buyer")

	got, err := svc.Reject(ctx, b.ID, "seller")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, got.Status)

	item, _ := store.ByID(ctx, it.ID)
	assert.Equal(t, domain.ItemAvailable, item.Status)

	key, _ := pub.last()
	assert.Equal(t, events.RKBookingRejected, key)

	// item is reservable again, by someone else
	_, err = svc.Reserve(ctx, it.ID, "buyer2")
	assert.NoError(t, err)
}

func TestConfirmRequiresReserved(t *testing.T) {
	svc, store, _ := newEngine(t)
	ctx := context.Background()
	it := seedItem(t, store, "seller", domain.ItemAvailable)
	b, _ := svc.Reserve(ctx, it.ID, "buyer")

	_, err := svc.Confirm(ctx, b.ID, "seller")
	assert.ErrorIs(t, err, domain.ErrNotReserved)

	item, _ := store.ByID(ctx, it.ID)
	assert.Equal(t, domain.ItemPending, item.Status)
}

func TestFullLifecycleToSold(t *testing.T) {
	svc, store, _ := newEngine(t)
	ctx := context.Background()
	it := seedItem(t, store, "seller", domain.ItemAvailable)

	b, err := svc.Reserve(ctx, it.ID, "buyerX")
	require.NoError(t, err)
	_, err = svc.Accept(ctx, b.ID, "seller")
	require.NoError(t, err)
	got, err := svc.Confirm(ctx, b.ID, "seller")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)

	item, _ := store.ByID(ctx, it.ID)
	assert.Equal(t, domain.ItemSold, item.Status)

	// sold is terminal
	_, err = svc.Reserve(ctx, it.ID, "buyerY")
	assert.ErrorIs(t, err, domain.ErrItemNotAvailable)
	_, err = svc.Cancel(ctx, b.ID, "buyerX")
	assert.ErrorIs(t, err, domain.ErrBookingClosed)
	_, err = svc.Accept(ctx, b.ID, "seller")
	assert.ErrorIs(t, err, domain.ErrNotPending)
}

func TestCancelByEitherParty(t *testing.T) {
	svc, store, pub := newEngine(t)
	ctx := context.Background()

	for _, actor := range []string{"buyer", "seller"} {
		it := seedItem(t, store, "seller", domain.ItemAvailable)
		b, _ := svc.Reserve(ctx, it.ID, "buyer")

		_, err := svc.Cancel(ctx, b.ID, "stranger")
		assert.ErrorIs(t, err, domain.ErrNotParty)

		got, err := svc.Cancel(ctx, b.ID, actor)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingCancelled, got.Status)

		item, _ := store.ByID(ctx, it.ID)
		assert.Equal(t, domain.ItemAvailable, item.Status)

		key, ev := pub.last()
		assert.Equal(t, events.RKBookingCancelled, key)
		assert.Equal(t, actor, ev.CancelledBy)

		// second cancel is a conflict, not a silent no-op
		_, err = svc.Cancel(ctx, b.ID, actor)
		assert.ErrorIs(t, err, domain.ErrBookingClosed)
	}
}

func TestCancelReservedBooking(t *testing.T) {
	svc, store, _ := newEngine(t)
	ctx := context.Background()
	it := seedItem(t, store, "seller", domain.ItemAvailable)
	b, _ := svc.Reserve(ctx, it.ID, "buyer")
	_, err := svc.Accept(ctx, b.ID, "seller")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, b.ID, "buyer")
	require.NoError(t, err)

	item, _ := store.ByID(ctx, it.ID)
	assert.Equal(t, domain.ItemAvailable, item.Status)
}

func TestBuyDirect(t *testing.T) {
	svc, store, pub := newEngine(t)
	ctx := context.Background()
	it := seedItem(t, store, "seller", domain.ItemAvailable)

	b, err := svc.Buy(ctx, it.ID, "buyer")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)

	item, _ := store.ByID(ctx, it.ID)
	assert.Equal(t, domain.ItemSold, item.Status)

	key, _ := pub.last()
	assert.Equal(t, events.RKItemPurchased, key)

	_, err = svc.Buy(ctx, it.ID, "buyer2")
	assert.ErrorIs(t, err, domain.ErrItemNotAvailable)
}

func TestBuyOwnItem(t *testing.T) {
	svc, store, _ := newEngine(t)
	it := seedItem(t, store, "seller", domain.ItemAvailable)
	_, err := svc.Buy(context.Background(), it.ID, "seller")
	assert.ErrorIs(t, err, domain.ErrOwnItem)
}

func TestMarkSoldDirect(t *testing.T) {
	svc, store, _ := newEngine(t)
	ctx := context.Background()
	it := seedItem(t, store, "seller", domain.ItemAvailable)

	assert.ErrorIs(t, svc.MarkSold(ctx, it.ID, "stranger"), domain.ErrNotSeller)

	require.NoError(t, svc.MarkSold(ctx, it.ID, "seller"))
	item, _ := store.ByID(ctx, it.ID)
	assert.Equal(t, domain.ItemSold, item.Status)

	assert.ErrorIs(t, svc.MarkSold(ctx, it.ID, "seller"), domain.ErrAlreadySold)
}

func TestMarkSoldCancelsActiveBooking(t *testing.T) {
	svc, store, pub := newEngine(t)
	ctx := context.Background()
	it := seedItem(t, store, "seller", domain.ItemAvailable)
	b, _ := svc.Reserve(ctx, it.ID, "buyer")

	require.NoError(t, svc.MarkSold(ctx, it.ID, "seller"))

	got, err := svc.Get(ctx, b.ID, "buyer")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, got.Status)

	key, ev := pub.last()
	assert.Equal(t, events.RKBookingCancelled, key)
	assert.Equal(t, "seller", ev.CancelledBy)
}

func TestGetBookingPartyOnly(t *testing.T) {
	svc, store, _ := newEngine(t)
	ctx := context.Background()
	it := seedItem(t, store, "seller", domain.ItemAvailable)
	b, _ := svc.Reserve(ctx, it.ID, "buyer")

	for _, actor := range []string{"buyer", "seller"} {
		got, err := svc.Get(ctx, b.ID, actor)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
	}
	_, err := svc.Get(ctx, b.ID, "stranger")
	assert.ErrorIs(t, err, domain.ErrNotParty)

	_, err = svc.Get(ctx, "missing", "buyer")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestConcurrentReserveSingleWinner(t *testing.T) {
	svc, store, _ := newEngine(t)
	ctx := context.Background()
	it := seedItem(t, store, "seller", domain.ItemAvailable)

	const buyers = 16
	errs := make([]error, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Reserve(ctx, it.ID, "buyer"+string(rune('a'+i)))
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		default:
			assert.ErrorIs(t, err, domain.ErrItemNotAvailable)
			conflicts++
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent reserve must win")
	assert.Equal(t, buyers-1, conflicts)

	active, err := store.ActiveByItem(ctx, it.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, domain.BookingPending, active.Status)
}

func TestConcurrentBuyAndReserve(t *testing.T) {
	svc, store, _ := newEngine(t)
	ctx := context.Background()
	it := seedItem(t, store, "seller", domain.ItemAvailable)

	var wg sync.WaitGroup
	var reserveErr, buyErr error
	wg.Add(2)
	go func() { defer wg.Done(); _, reserveErr = svc.Reserve(ctx, it.ID, "b1") }()
	go func() { defer wg.Done(); _, buyErr = svc.Buy(ctx, it.ID, "b2") }()
	wg.Wait()

	ok := 0
	if reserveErr == nil {
		ok++
	}
	if buyErr == nil {
		ok++
	}
	assert.Equal(t, 1, ok, "reserve and buy must not both succeed")
}
