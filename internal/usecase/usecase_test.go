package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/confirmation"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/checkout"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/esim"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/event"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/inbox"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/outbox"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeCheckouts struct {
	mu        sync.Mutex
	records   map[string]*checkout.Record
	createErr error
}

func newFakeCheckouts() *fakeCheckouts {
	return &fakeCheckouts{records: map[string]*checkout.Record{}}
}

func (f *fakeCheckouts) Create(_ context.Context, c *checkout.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.records[c.ID] = c
	return nil
}

func (f *fakeCheckouts) UpdateStatus(_ context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.records[id]
	if !ok {
		return checkout.ErrNotFound
	}
	c.Status = status
	return nil
}

func (f *fakeCheckouts) find(match func(*checkout.Record) bool) (*checkout.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.records {
		if match(c) {
			return c, nil
		}
	}
	return nil, checkout.ErrNotFound
}

func (f *fakeCheckouts) GetByRef(_ context.Context, ref string) (*checkout.Record, error) {
	return f.find(func(c *checkout.Record) bool { return c.RefCommand == ref })
}

func (f *fakeCheckouts) GetByOrderID(_ context.Context, id string) (*checkout.Record, error) {
	return f.find(func(c *checkout.Record) bool { return c.OrderID == id })
}

type fakeOutbox struct {
	events []*outbox.Event
}

func (f *fakeOutbox) Create(_ context.Context, e *outbox.Event) error {
	f.events = append(f.events, e)
	return nil
}

func (f *fakeOutbox) ListByCorrelationID(_ context.Context, id string) ([]*outbox.Event, error) {
	var out []*outbox.Event
	for _, e := range f.events {
		if e.CorrelationID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeInbox struct{}

func (fakeInbox) ListByCorrelationID(context.Context, string) ([]*inbox.Event, error) {
	return nil, nil
}

type fakePackages struct {
	res service.Result[esim.Availability]
}

func (f fakePackages) CheckAvailability(context.Context, string) service.Result[esim.Availability] {
	return f.res
}

type fakeOrders struct {
	res   service.Result[esim.Order]
	calls int
}

func (f *fakeOrders) Create(context.Context, esim.OrderRequest) service.Result[esim.Order] {
	f.calls++
	return f.res
}

type fakePayments struct {
	res service.Result[esim.PaymentInitiation]
}

func (f fakePayments) Initiate(context.Context, string) service.Result[esim.PaymentInitiation] {
	return f.res
}

func available() fakePackages {
	return fakePackages{res: service.Result[esim.Availability]{Success: true, Data: &esim.Availability{Available: true}}}
}

func createdOrder() *fakeOrders {
	return &fakeOrders{res: service.Result[esim.Order]{
		Success: true,
		Data:    &esim.Order{ID: "41", RefCommand: "CMD-41", Amount: decimal.RequireFromString("12.50")},
	}}
}

var validRequest = esim.OrderRequest{PackageID: "7", Email: "traveller@example.com"}

func TestPlaceOrder_RecordsCheckoutAndEvent(t *testing.T) {
	tx := &fakeTx{}
	checkouts := newFakeCheckouts()
	box := &fakeOutbox{}
	uc := NewPlaceOrder(available(), createdOrder(), NewRecorder(tx, checkouts, box), nil)

	res := uc.Execute(context.Background(), validRequest)

	require.True(t, res.Success)
	require.NotEmpty(t, res.CheckoutID)
	assert.Equal(t, 1, tx.calls)

	rec := checkouts.records[res.CheckoutID]
	require.NotNil(t, rec)
	assert.Equal(t, "41", rec.OrderID)
	assert.Equal(t, "CMD-41", rec.RefCommand)
	assert.Equal(t, checkout.StatusPlaced, rec.Status)

	require.Len(t, box.events, 1)
	ev := box.events[0]
	assert.Equal(t, event.TypeOrderPlaced, ev.EventType)
	assert.Equal(t, res.CheckoutID, ev.CorrelationID)

	var payload event.OrderPlaced
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, "12.5", payload.Amount)
	assert.Equal(t, "7", payload.PackageID)
}

func TestPlaceOrder_WithoutRecorder(t *testing.T) {
	uc := NewPlaceOrder(available(), createdOrder(), nil, nil)

	res := uc.Execute(context.Background(), validRequest)
	assert.True(t, res.Success)
	assert.Empty(t, res.CheckoutID)
}

func TestPlaceOrder_RecordFailureKeepsOrder(t *testing.T) {
	checkouts := newFakeCheckouts()
	checkouts.createErr = errors.New("db down")
	box := &fakeOutbox{}
	uc := NewPlaceOrder(available(), createdOrder(), NewRecorder(&fakeTx{}, checkouts, box), nil)

	res := uc.Execute(context.Background(), validRequest)
	assert.True(t, res.Success)
	assert.Empty(t, res.CheckoutID)
	assert.Empty(t, box.events)
}

func TestPlaceOrder_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		req      esim.OrderRequest
		packages fakePackages
		message  string
	}{
		{
			name:     "missing email",
			req:      esim.OrderRequest{PackageID: "7"},
			packages: available(),
			message:  "A package and an email are required",
		},
		{
			name:     "availability failed",
			req:      validRequest,
			packages: fakePackages{res: service.Result[esim.Availability]{Message: "Package unavailable"}},
			message:  "Package unavailable",
		},
		{
			name:     "out of stock",
			req:      validRequest,
			packages: fakePackages{res: service.Result[esim.Availability]{Success: true, Data: &esim.Availability{}}},
			message:  "This package is no longer available",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := createdOrder()
			uc := NewPlaceOrder(tt.packages, orders, nil, nil)

			res := uc.Execute(context.Background(), tt.req)
			assert.False(t, res.Success)
			assert.Equal(t, tt.message, res.Message)
			assert.Zero(t, orders.calls, "no order is created")
		})
	}
}

func TestInitiatePayment_UpdatesCheckout(t *testing.T) {
	checkouts := newFakeCheckouts()
	checkouts.records["c1"] = &checkout.Record{ID: "c1", OrderID: "41", RefCommand: "CMD-41", Status: checkout.StatusPlaced}
	box := &fakeOutbox{}
	payments := fakePayments{res: service.Result[esim.PaymentInitiation]{
		Success: true,
		Data:    &esim.PaymentInitiation{RedirectURL: "https://pay.example.com/x"},
	}}
	uc := NewInitiatePayment(payments, NewRecorder(&fakeTx{}, checkouts, box), nil)

	res := uc.Execute(context.Background(), InitiatePaymentParams{OrderID: "41"})

	require.True(t, res.Success)
	assert.Equal(t, checkout.StatusPaymentInitiated, checkouts.records["c1"].Status)
	require.Len(t, box.events, 1)

	var payload event.PaymentInitiated
	require.NoError(t, json.Unmarshal(box.events[0].Payload, &payload))
	assert.Equal(t, "CMD-41", payload.RefCommand, "falls back to the recorded reference")
	assert.Equal(t, "https://pay.example.com/x", payload.RedirectURL)
}

func TestInitiatePayment_UnknownCheckoutStillSucceeds(t *testing.T) {
	box := &fakeOutbox{}
	payments := fakePayments{res: service.Result[esim.PaymentInitiation]{
		Success: true,
		Data:    &esim.PaymentInitiation{RedirectURL: "https://pay.example.com/x"},
	}}
	uc := NewInitiatePayment(payments, NewRecorder(&fakeTx{}, newFakeCheckouts(), box), nil)

	res := uc.Execute(context.Background(), InitiatePaymentParams{OrderID: "99"})
	assert.True(t, res.Success)
	assert.Empty(t, box.events)
}

func TestInitiatePayment_RequiresOrderID(t *testing.T) {
	uc := NewInitiatePayment(fakePayments{}, nil, nil)
	res := uc.Execute(context.Background(), InitiatePaymentParams{})
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
}

type fakeStatus struct {
	calls int
}

func (f *fakeStatus) Status(_ context.Context, ref string) service.Result[esim.OrderStatus] {
	f.calls++
	return service.Result[esim.OrderStatus]{Success: true, Data: &esim.OrderStatus{
		Order: esim.Order{ID: "41", RefCommand: ref, PaymentStatus: esim.PaymentCompleted},
	}}
}

func TestGetConfirmation_WithoutCache(t *testing.T) {
	status := &fakeStatus{}
	uc := NewGetConfirmation(confirmation.NewFlow(status), nil, 0, nil)

	v := uc.Execute(context.Background(), url.Values{"ref": {"CMD-41"}})
	assert.Equal(t, confirmation.StateFound, v.State)
	assert.True(t, v.Paid)

	v = uc.Execute(context.Background(), url.Values{})
	assert.Equal(t, confirmation.StateNotFound, v.State)
	assert.Equal(t, 1, status.calls)
}

func TestGetCheckoutTrail(t *testing.T) {
	checkouts := newFakeCheckouts()
	checkouts.records["c1"] = &checkout.Record{ID: "c1", OrderID: "41", RefCommand: "CMD-41"}
	box := &fakeOutbox{events: []*outbox.Event{
		{ID: "e1", CorrelationID: "c1", EventType: event.TypeOrderPlaced},
		{ID: "e2", CorrelationID: "other"},
	}}
	uc := NewGetCheckoutTrail(checkouts, box, fakeInbox{})

	trail, err := uc.Execute(context.Background(), "CMD-41")
	require.NoError(t, err)
	assert.Equal(t, "c1", trail.Checkout.ID)
	require.Len(t, trail.Outbox, 1)
	assert.Equal(t, "e1", trail.Outbox[0].ID)
	assert.NotNil(t, trail.Inbox)

	trail, err = uc.Execute(context.Background(), "41")
	require.NoError(t, err, "order id lookup")
	assert.Equal(t, "c1", trail.Checkout.ID)

	_, err = uc.Execute(context.Background(), "missing")
	assert.ErrorIs(t, err, checkout.ErrNotFound)
}

// knownStatus finds only the references in known.
type knownStatus struct {
	calls int
	known map[string]bool
}

func (f *knownStatus) Status(_ context.Context, ref string) service.Result[esim.OrderStatus] {
	f.calls++
	if !f.known[ref] {
		return service.Result[esim.OrderStatus]{Message: "Order not found"}
	}
	return service.Result[esim.OrderStatus]{Success: true, Data: &esim.OrderStatus{
		Order: esim.Order{ID: "41", RefCommand: ref, PaymentStatus: esim.PaymentCompleted},
	}}
}

func TestGetConfirmation_CachesFoundOnly(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	status := &knownStatus{known: map[string]bool{"CMD-41": true}}
	uc := NewGetConfirmation(confirmation.NewFlow(status), client, 5*time.Second, nil)
	ctx := context.Background()

	v := uc.Execute(ctx, url.Values{"ref": {"CMD-41"}})
	require.Equal(t, confirmation.StateFound, v.State)
	v = uc.Execute(ctx, url.Values{"ref_command": {"CMD-41"}})
	assert.Equal(t, confirmation.StateFound, v.State)
	assert.True(t, v.Paid)
	assert.Equal(t, 1, status.calls, "second read served from cache")
	assert.True(t, mr.Exists("confirmation:CMD-41"))

	v = uc.Execute(ctx, url.Values{"ref": {"CMD-99"}})
	assert.Equal(t, confirmation.StateNotFound, v.State)
	assert.False(t, mr.Exists("confirmation:CMD-99"), "not-found is never cached")

	// the order shows up on the next reload
	status.known["CMD-99"] = true
	v = uc.Execute(ctx, url.Values{"ref": {"CMD-99"}})
	assert.Equal(t, confirmation.StateFound, v.State)
	assert.Equal(t, 3, status.calls)

	mr.FastForward(6 * time.Second)
	uc.Execute(ctx, url.Values{"ref": {"CMD-41"}})
	assert.Equal(t, 4, status.calls, "expired entry fetched again")
}
