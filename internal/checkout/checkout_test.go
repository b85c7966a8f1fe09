package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rollshouse/storefront/internal/address"
	"github.com/rollshouse/storefront/internal/cart"
	"github.com/rollshouse/storefront/internal/models"
	"github.com/rollshouse/storefront/internal/storage"
	"github.com/rollshouse/storefront/pkg/orderclient"
)

type fakeOrders struct {
	mu     sync.Mutex
	calls  int
	last   orderclient.Order
	result *orderclient.Result
	err    error
	gate   chan struct{}
}

func (f *fakeOrders) Create(ctx context.Context, order orderclient.Order) (*orderclient.Result, error) {
	f.mu.Lock()
	f.calls++
	f.last = order
	f.mu.Unlock()

	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &orderclient.Result{ID: "order-1"}, nil
}

func (f *fakeOrders) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeOrders) lastOrder() orderclient.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingPublisher) PublishEvent(_ context.Context, topic, _ string, _ interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, topic)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

type env struct {
	book   *address.Book
	cart   *cart.Store
	orders *fakeOrders
	pub    *recordingPublisher
	flow   *Flow
}

func newTestEnv(t *testing.T) *env {
	t.Helper()
	kv, err := storage.Open(context.Background(), "", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	book := address.NewBook(kv)
	book.Restore(context.Background())
	cartStore := cart.NewStore(kv)
	cartStore.Restore(context.Background())

	orders := &fakeOrders{}
	pub := &recordingPublisher{}

	return &env{
		book:   book,
		cart:   cartStore,
		orders: orders,
		pub:    pub,
		flow:   NewFlow(book, cartStore, orders, pub),
	}
}

func (e *env) addDefaultAddress(t *testing.T) {
	t.Helper()
	require.NoError(t, e.book.Add(context.Background(), models.Address{
		ID:        uuid.NewString(),
		Name:      "Дом",
		Street:    "Пушкина",
		House:     "26",
		Apartment: "14",
	}))
}

func (e *env) fillCart(t *testing.T) {
	t.Helper()
	item := models.CartItem{ID: 1, Name: "Филадельфия", Compound: "лосось, сыр", Price: 450, Image: "ph.png"}
	require.NoError(t, e.cart.Add(context.Background(), item, 3))
}

func TestSubmitWithoutAddressRejectsBeforeNetwork(t *testing.T) {
	e := newTestEnv(t)
	e.fillCart(t)

	_, err := e.flow.Submit(context.Background(), "89991234567", "")
	require.ErrorIs(t, err, ErrAddressRequired)
	require.Equal(t, 0, e.orders.callCount(), "no request leaves the device without an address")
	require.Len(t, e.cart.Items(), 1, "cart untouched")
}

func TestSubmitPhoneValidation(t *testing.T) {
	e := newTestEnv(t)
	e.addDefaultAddress(t)
	e.fillCart(t)
	ctx := context.Background()

	_, err := e.flow.Submit(ctx, "", "")
	require.ErrorIs(t, err, ErrPhoneRequired)

	_, err = e.flow.Submit(ctx, "нет цифр", "")
	require.ErrorIs(t, err, ErrPhoneRequired)

	_, err = e.flow.Submit(ctx, "8999123", "")
	require.ErrorIs(t, err, ErrPhoneInvalid)

	require.Equal(t, 0, e.orders.callCount())
}

func TestSubmitSuccessClearsCart(t *testing.T) {
	e := newTestEnv(t)
	e.addDefaultAddress(t)
	e.fillCart(t)

	result, err := e.flow.Submit(context.Background(), "89991234567", "  позвоните заранее  ")
	require.NoError(t, err)
	require.Equal(t, "order-1", result.ID)

	order := e.orders.lastOrder()
	require.Equal(t, "+7 (999) 123-45-67", order.Phone)
	require.Equal(t, "Пушкина, д. 26, кв. 14", order.Address)
	require.Equal(t, int64(1350), order.TotalPrice)
	require.Len(t, order.Items, 1)
	require.Equal(t, int64(3), order.Items[0].Quantity)
	require.Equal(t, "позвоните заранее", order.Comment)

	require.Empty(t, e.cart.Items(), "cart cleared only after confirmed success")
	require.Contains(t, e.pub.events, "order_events")
}

func TestSubmitOmitsBlankComment(t *testing.T) {
	e := newTestEnv(t)
	e.addDefaultAddress(t)
	e.fillCart(t)

	_, err := e.flow.Submit(context.Background(), "89991234567", "   ")
	require.NoError(t, err)
	require.Empty(t, e.orders.lastOrder().Comment)
}

func TestSubmitFailureLeavesStateForRetry(t *testing.T) {
	e := newTestEnv(t)
	e.addDefaultAddress(t)
	e.fillCart(t)
	e.orders.err = &orderclient.APIError{Status: 500, Message: "кухня закрыта"}

	_, err := e.flow.Submit(context.Background(), "89991234567", "")
	require.EqualError(t, err, "кухня закрыта")
	require.Len(t, e.cart.Items(), 1, "cart survives a failed submission")

	// server error without a message falls back to the generic text
	e.orders.err = &orderclient.APIError{Status: 502}
	_, err = e.flow.Submit(context.Background(), "89991234567", "")
	require.ErrorIs(t, err, ErrServer)
}

func TestSubmitGuardAllowsExactlyOneRequest(t *testing.T) {
	e := newTestEnv(t)
	e.addDefaultAddress(t)
	e.fillCart(t)
	e.orders.gate = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := e.flow.Submit(context.Background(), "89991234567", "")
		done <- err
	}()

	require.Eventually(t, e.flow.InFlight, time.Second, time.Millisecond)

	_, err := e.flow.Submit(context.Background(), "89991234567", "")
	require.ErrorIs(t, err, ErrSubmitInFlight)

	close(e.orders.gate)
	require.NoError(t, <-done)
	require.Equal(t, 1, e.orders.callCount(), "rapid double submit sends one order")

	// the guard resets after completion
	e.fillCart(t)
	_, err = e.flow.Submit(context.Background(), "89991234567", "")
	require.NoError(t, err)
	require.Equal(t, 2, e.orders.callCount())
}
