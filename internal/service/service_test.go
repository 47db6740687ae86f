package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/backend"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/esim"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type route struct {
	status int
	body   string
}

// fakeBackend answers each "METHOD /path" with a fixed status and body.
func fakeBackend(t *testing.T, routes map[string]route) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rt, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(rt.status)
		w.Write([]byte(rt.body))
	}))
	t.Cleanup(srv.Close)
	return backend.New(backend.Config{BaseURL: srv.URL}, nil, quietLogger())
}

func TestPackageService_List_EveryShapeReturnsList(t *testing.T) {
	tests := []struct {
		body string
		want int
	}{
		{`[{"id":1,"price":10}]`, 1},
		{`{"data":[{"id":1,"price":10}]}`, 1},
		{`{"packages":[{"id":1,"price":10},{"id":2,"price":"4.5"}]}`, 2},
		{`{"unexpected":{"id":1}}`, 0},
		{`"just a string"`, 0},
	}

	for _, tt := range tests {
		c := fakeBackend(t, map[string]route{"GET /esim-packages": {200, tt.body}})
		got := NewPackageService(c, quietLogger()).List(context.Background())
		require.NotNil(t, got, tt.body)
		assert.Len(t, got, tt.want, tt.body)
	}
}

func TestPackageService_List_FailureIsEmpty(t *testing.T) {
	c := fakeBackend(t, map[string]route{"GET /esim-packages": {500, `oops`}})
	got := NewPackageService(c, quietLogger()).List(context.Background())
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPackageService_FetchCountry(t *testing.T) {
	c := fakeBackend(t, map[string]route{
		"GET /esim-packages/FR/with-price": {200, `{"data":[{"id":1,"price":"9.99","country_code":"FR"},{"id":2,"price":0}]}`},
		"GET /esim-packages/JP/with-price": {503, ``},
	})
	s := NewPackageService(c, quietLogger())

	pkgs, err := s.FetchCountry(context.Background(), "fr")
	require.NoError(t, err)
	require.Len(t, pkgs, 1, "zero-priced entries are dropped")
	assert.Equal(t, esim.ID("1"), pkgs[0].ID)

	_, err = s.FetchCountry(context.Background(), "JP")
	var httpErr *backend.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 503, httpErr.Status)

	assert.Empty(t, s.ByCountry(context.Background(), "JP"))
}

func TestPackageService_ByID(t *testing.T) {
	c := fakeBackend(t, map[string]route{
		"GET /esim-packages/7": {200, `{"success":true,"package":{"id":7,"price":12}}`},
	})
	s := NewPackageService(c, quietLogger())

	p := s.ByID(context.Background(), "7")
	require.NotNil(t, p)
	assert.Equal(t, esim.ID("7"), p.ID)

	assert.Nil(t, s.ByID(context.Background(), "8"))
}

func TestPackageService_Destinations(t *testing.T) {
	c := fakeBackend(t, map[string]route{
		"GET /esim-purchase/destinations": {200, `{"destinations":[{"id":"fr","name":"France","iso_code":"FR"}]}`},
	})
	got := NewPackageService(c, quietLogger()).Destinations(context.Background())
	require.Len(t, got, 1)
	assert.NotNil(t, got[0].Packages)
	assert.True(t, got[0].ComingSoon())
}

func TestPackageService_CheckAvailability(t *testing.T) {
	c := fakeBackend(t, map[string]route{
		"POST /esim-purchase/check-availability": {200, `{"success":true,"available":true,"stock":4}`},
	})
	res := NewPackageService(c, quietLogger()).CheckAvailability(context.Background(), "7")
	require.True(t, res.Success)
	require.NotNil(t, res.Data)
	assert.True(t, bool(res.Data.Available))
	assert.Equal(t, esim.Count(4), *res.Data.Stock)
}

func TestOrderService_Status(t *testing.T) {
	tests := []struct {
		name    string
		route   route
		success bool
		message string
	}{
		{"data payload", route{200, `{"success":true,"data":{"id":1,"ref_command":"ABC123","payment_status":"paid"}}`}, true, ""},
		{"bare payload", route{200, `{"ref_command":"ABC123","payment_status":"pending"}`}, true, ""},
		{"unsuccessful", route{200, `{"success":false,"message":"Commande introuvable"}`}, false, "Commande introuvable"},
		{"empty success", route{200, `{"success":true}`}, false, msgOrderNotFound},
		{"http 404", route{404, `{}`}, false, msgOrderNotFound},
		{"http 500", route{500, ``}, false, "Unable to retrieve the order status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := fakeBackend(t, map[string]route{"GET /orders/status/ABC123": tt.route})
			res := NewOrderService(c, quietLogger()).Status(context.Background(), "ABC123")
			assert.Equal(t, tt.success, res.Success)
			if tt.success {
				require.NotNil(t, res.Data)
				assert.Equal(t, "ABC123", res.Data.RefCommand)
			} else {
				assert.Equal(t, tt.message, res.Message)
				assert.Nil(t, res.Data)
			}
		})
	}
}

func TestOrderService_Create(t *testing.T) {
	var sent map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"message":"created","order":{"id":55,"ref_command":"REF-55","amount":"19.90"}}`))
	}))
	defer srv.Close()
	c := backend.New(backend.Config{BaseURL: srv.URL}, nil, quietLogger())

	res := NewOrderService(c, quietLogger()).Create(context.Background(), esim.OrderRequest{PackageID: "7", Email: "a@b.c"})
	require.True(t, res.Success)
	assert.Equal(t, "created", res.Message)
	assert.Equal(t, "REF-55", res.Data.RefCommand)
	assert.Equal(t, "7", sent["esim_package_id"])
}

func TestOrderService_Create_BackendMessage(t *testing.T) {
	c := fakeBackend(t, map[string]route{"POST /orders": {422, `{"message":"The email field is required."}`}})
	res := NewOrderService(c, quietLogger()).Create(context.Background(), esim.OrderRequest{})
	assert.False(t, res.Success)
	assert.Equal(t, "The email field is required.", res.Message)
}

func TestOrderService_Lists(t *testing.T) {
	c := fakeBackend(t, map[string]route{
		"GET /user-profile/orders":   {200, `{"orders":[{"id":1},{"id":2}]}`},
		"GET /user-profile/orders/1": {200, `{"data":{"id":1,"status":"active"}}`},
		"GET /orders":                {200, `[{"id":3}]`},
	})
	s := NewOrderService(c, quietLogger())
	ctx := context.Background()

	assert.Len(t, s.UserOrders(ctx), 2)
	assert.Len(t, s.All(ctx), 1)

	o := s.Details(ctx, "1")
	require.NotNil(t, o)
	assert.Equal(t, "active", o.Status)
	assert.Nil(t, s.Details(ctx, "9"))
}

func TestPaymentService_Initiate(t *testing.T) {
	c := fakeBackend(t, map[string]route{
		"POST /payments/initiate": {200, `{"success":true,"redirect_url":"https://pay.test/checkout/xyz","ref_command":"REF-1"}`},
	})
	res := NewPaymentService(c, quietLogger()).Initiate(context.Background(), "55")
	require.True(t, res.Success)
	assert.Equal(t, "https://pay.test/checkout/xyz", res.Data.RedirectURL)
	assert.Equal(t, "REF-1", res.Data.RefCommand)
}

func TestPaymentService_Initiate_NoRedirect(t *testing.T) {
	c := fakeBackend(t, map[string]route{"POST /payments/initiate": {200, `{"success":true}`}})
	res := NewPaymentService(c, quietLogger()).Initiate(context.Background(), "55")
	assert.False(t, res.Success)
}

func TestPaymentService_List(t *testing.T) {
	c := fakeBackend(t, map[string]route{"GET /payments": {200, `{"data":[{"id":"p1","amount":5}]}`}})
	assert.Len(t, NewPaymentService(c, quietLogger()).List(context.Background()), 1)
}

func TestContactService_Submit(t *testing.T) {
	c := fakeBackend(t, map[string]route{"POST /public-contact": {200, `{"success":true}`}})
	s := NewContactService(c, quietLogger())

	res := s.Submit(context.Background(), esim.ContactMessage{Email: "a@b.c", Message: "hello"})
	assert.True(t, res.Success)
	assert.Equal(t, "Message sent", res.Message)

	res = s.Submit(context.Background(), esim.ContactMessage{Email: "a@b.c"})
	assert.False(t, res.Success)
}
