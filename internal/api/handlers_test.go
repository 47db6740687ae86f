package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/backend"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/carousel"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/catalog"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/compat"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/confirmation"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/esim"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/service"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/session"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct{}

func (stubCatalog) Load(context.Context) (catalog.Catalog, error) {
	dests := catalog.Destinations()
	for i := range dests {
		dests[i].Packages = []esim.Package{}
	}
	return catalog.Catalog{Destinations: dests, Failed: 1}, nil
}

type stubPackages struct{}

func (stubPackages) List(context.Context) []esim.Package { return []esim.Package{} }

func (stubPackages) ByID(_ context.Context, id string) *esim.Package {
	if id != "7" {
		return nil
	}
	return &esim.Package{ID: "7", CountryCode: "FR"}
}

func (stubPackages) Destinations(context.Context) []esim.Destination { return []esim.Destination{} }

func (stubPackages) CheckAvailability(context.Context, string) service.Result[esim.Availability] {
	return service.Result[esim.Availability]{Success: true, Data: &esim.Availability{Available: true}}
}

type stubPlacer struct{}

func (stubPlacer) Execute(_ context.Context, req esim.OrderRequest) usecase.PlaceOrderResult {
	if req.Email == "" {
		return usecase.PlaceOrderResult{Message: "A package and an email are required"}
	}
	return usecase.PlaceOrderResult{Success: true, Order: &esim.Order{ID: "41", RefCommand: "CMD-41"}}
}

type stubResolver struct{}

func (stubResolver) Execute(_ context.Context, q url.Values) confirmation.View {
	ref, ok := confirmation.ReferenceFrom(q)
	if !ok {
		return confirmation.View{State: confirmation.StateNotFound, Message: confirmation.MessageNoReference}
	}
	if ref != "CMD-41" {
		return confirmation.View{State: confirmation.StateNotFound, Reference: ref, Message: "Order not found"}
	}
	return confirmation.Render(ref, esim.OrderStatus{Order: esim.Order{RefCommand: ref, PaymentStatus: "paid"}})
}

func newTestServer(t *testing.T) (*httptest.Server, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	h := NewHandlers(Deps{
		Landings:     carousel.NewRegistry(t.Context(), time.Hour),
		Catalog:      stubCatalog{},
		Packages:     stubPackages{},
		PlaceOrder:   stubPlacer{},
		Confirmation: stubResolver{},
	})
	srv := httptest.NewServer(NewRouter(h, RouterConfig{Sessions: store, ContactPerMinute: 60, ContactBurst: 5}))
	t.Cleanup(srv.Close)
	return srv, store
}

// newVisitor returns a client that keeps its own session cookie.
func newVisitor(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, method, rawURL, body string, out any) int {
	t.Helper()
	return doAs(t, http.DefaultClient, method, rawURL, body, out)
}

func doAs(t *testing.T, c *http.Client, method, rawURL, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, rawURL, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestConfirmation_StatusCodes(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		status int
		state  confirmation.State
	}{
		{name: "found", query: "?ref_command=CMD-41", status: http.StatusOK, state: confirmation.StateFound},
		{name: "unknown reference", query: "?ref=NOPE", status: http.StatusNotFound, state: confirmation.StateNotFound},
		{name: "no reference", query: "", status: http.StatusNotFound, state: confirmation.StateNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v confirmation.View
			status := doJSON(t, http.MethodGet, srv.URL+"/api/v1/confirmation"+tt.query, "", &v)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.state, v.State)
		})
	}
}

func TestDestinations_Filter(t *testing.T) {
	srv, _ := newTestServer(t)

	var c catalog.Catalog
	status := doJSON(t, http.MethodGet, srv.URL+"/api/v1/destinations?continent=Africa", "", &c)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, c.Failed)
	require.NotEmpty(t, c.Destinations)
	for _, d := range c.Destinations {
		assert.Equal(t, catalog.Africa, d.Continent)
	}

	c = catalog.Catalog{}
	doJSON(t, http.MethodGet, srv.URL+"/api/v1/destinations?q=fr", "", &c)
	require.Len(t, c.Destinations, 1)
	assert.Equal(t, "FR", c.Destinations[0].ISOCode)
	assert.NotNil(t, c.Destinations[0].Packages)
}

func TestCompatibility(t *testing.T) {
	srv, _ := newTestServer(t)

	var v compat.View
	doJSON(t, http.MethodGet, srv.URL+"/api/v1/compatibility", "", &v)
	assert.Equal(t, compat.StepChooseBrand, v.Step)

	v = compat.View{}
	model := compat.Models("Apple")[0]
	doJSON(t, http.MethodGet, srv.URL+"/api/v1/compatibility?brand=Apple&model="+url.QueryEscape(model), "", &v)
	require.Equal(t, compat.StepResult, v.Step)
	require.NotNil(t, v.Result)
	assert.True(t, v.Result.Compatible)
}

func TestPackages_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	var p esim.Package
	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, srv.URL+"/api/v1/packages/7", "", &p))
	assert.Equal(t, esim.ID("7"), p.ID)
	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodGet, srv.URL+"/api/v1/packages/8", "", nil))
}

func TestCreateOrder(t *testing.T) {
	srv, _ := newTestServer(t)

	var res usecase.PlaceOrderResult
	status := doJSON(t, http.MethodPost, srv.URL+"/api/v1/orders", `{"esim_package_id": 7, "email": "a@b.c"}`, &res)
	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, res.Success)

	res = usecase.PlaceOrderResult{}
	status = doJSON(t, http.MethodPost, srv.URL+"/api/v1/orders", `{"esim_package_id": 7}`, &res)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.False(t, res.Success)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, http.MethodPost, srv.URL+"/api/v1/orders", `{`, nil))
}

func TestSession_PutAndDelete(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()
	visitor := newVisitor(t)

	assert.Equal(t, http.StatusNoContent, doAs(t, visitor, http.MethodPut, srv.URL+"/api/v1/session", `{"token":"tok-1"}`, nil))
	sid := sessionCookie(t, visitor, srv.URL)
	tok, err := store.Get(ctx, sid+":"+session.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	assert.Equal(t, http.StatusBadRequest, doAs(t, visitor, http.MethodPut, srv.URL+"/api/v1/session", `{}`, nil))

	assert.Equal(t, http.StatusNoContent, doAs(t, visitor, http.MethodDelete, srv.URL+"/api/v1/session", "", nil))
	tok, err = store.Get(ctx, sid+":"+session.TokenKey)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func sessionCookie(t *testing.T, c *http.Client, rawURL string) string {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	for _, ck := range c.Jar.Cookies(u) {
		if ck.Name == "esim_sid" {
			return ck.Value
		}
	}
	t.Fatal("no session cookie")
	return ""
}

// tokenBackend answers the user endpoints with the orders of whoever the
// bearer token belongs to, and records every Authorization it sees.
type tokenBackend struct {
	mu   sync.Mutex
	seen []string
}

func (b *tokenBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	b.mu.Lock()
	b.seen = append(b.seen, auth)
	b.mu.Unlock()

	switch auth {
	case "Bearer owner-token":
		w.Write([]byte(`{"orders":[{"id":1,"ref_command":"OWN-1","email":"owner@example.com"}]}`))
	default:
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Unauthenticated."}`))
	}
}

func (b *tokenBackend) last() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seen[len(b.seen)-1]
}

func TestSession_TokensStayWithTheirVisitor(t *testing.T) {
	remote := &tokenBackend{}
	backendSrv := httptest.NewServer(remote)
	t.Cleanup(backendSrv.Close)

	client := backend.New(backend.Config{BaseURL: backendSrv.URL}, nil, nil)
	store := session.NewMemoryStore()
	h := NewHandlers(Deps{
		Landings: carousel.NewRegistry(t.Context(), time.Hour),
		Orders:   service.NewOrderService(client, nil),
		Payments: service.NewPaymentService(client, nil),
	})
	srv := httptest.NewServer(NewRouter(h, RouterConfig{Sessions: store}))
	t.Cleanup(srv.Close)

	owner, stranger := newVisitor(t), newVisitor(t)
	require.Equal(t, http.StatusNoContent, doAs(t, owner, http.MethodPut, srv.URL+"/api/v1/session", `{"token":"owner-token"}`, nil))

	var mine struct {
		Orders []esim.Order `json:"orders"`
	}
	require.Equal(t, http.StatusOK, doAs(t, owner, http.MethodGet, srv.URL+"/api/v1/orders", "", &mine))
	require.Len(t, mine.Orders, 1)
	assert.Equal(t, "OWN-1", mine.Orders[0].RefCommand)
	assert.Equal(t, "Bearer owner-token", remote.last())

	var theirs struct {
		Orders []esim.Order `json:"orders"`
	}
	require.Equal(t, http.StatusOK, doAs(t, stranger, http.MethodGet, srv.URL+"/api/v1/orders", "", &theirs))
	assert.Empty(t, theirs.Orders)
	assert.Empty(t, remote.last(), "a stranger's request carries no token")

	// a stranger logging in or out only touches their own session
	require.Equal(t, http.StatusNoContent, doAs(t, stranger, http.MethodPut, srv.URL+"/api/v1/session", `{"token":"expired-token"}`, nil))
	doAs(t, stranger, http.MethodGet, srv.URL+"/api/v1/payments", "", nil)
	assert.Equal(t, "Bearer expired-token", remote.last())
	require.Equal(t, http.StatusNoContent, doAs(t, stranger, http.MethodDelete, srv.URL+"/api/v1/session", "", nil))

	mine.Orders = nil
	require.Equal(t, http.StatusOK, doAs(t, owner, http.MethodGet, srv.URL+"/api/v1/orders", "", &mine))
	require.Len(t, mine.Orders, 1, "owner unaffected by the stranger's 401 and logout")
	assert.Equal(t, "Bearer owner-token", remote.last())

	// the stranger's 401 cleared only the stranger's token
	tok, err := store.Get(context.Background(), sessionCookie(t, owner, srv.URL)+":"+session.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "owner-token", tok)
}

func TestSession_BearerHeaderPerRequest(t *testing.T) {
	remote := &tokenBackend{}
	backendSrv := httptest.NewServer(remote)
	t.Cleanup(backendSrv.Close)

	client := backend.New(backend.Config{BaseURL: backendSrv.URL}, nil, nil)
	h := NewHandlers(Deps{
		Landings: carousel.NewRegistry(t.Context(), time.Hour),
		Orders:   service.NewOrderService(client, nil),
	})
	srv := httptest.NewServer(NewRouter(h, RouterConfig{}))
	t.Cleanup(srv.Close)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/orders", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer owner-token")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "Bearer owner-token", remote.last())

	doJSON(t, http.MethodGet, srv.URL+"/api/v1/orders", "", nil)
	assert.Empty(t, remote.last(), "header token is not remembered")
}

func TestCarouselControl(t *testing.T) {
	srv, _ := newTestServer(t)

	var out struct {
		Index int            `json:"index"`
		State carousel.State `json:"state"`
	}
	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, srv.URL+"/api/v1/landing/carousels/hero/next", "", &out))
	assert.Equal(t, 1, out.Index)

	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodPost, srv.URL+"/api/v1/landing/carousels/nope/next", "", nil))
	assert.Equal(t, http.StatusBadRequest, doJSON(t, http.MethodPost, srv.URL+"/api/v1/landing/carousels/hero/spin", "", nil))
}

func TestLanding_PerVisitor(t *testing.T) {
	srv, _ := newTestServer(t)
	a, b := newVisitor(t), newVisitor(t)

	require.Equal(t, http.StatusOK, doAs(t, a, http.MethodPost, srv.URL+"/api/v1/landing/carousels/hero/pause", "", nil))

	var va, vb carousel.LandingView
	require.Equal(t, http.StatusOK, doAs(t, a, http.MethodGet, srv.URL+"/api/v1/landing", "", &va))
	require.Equal(t, http.StatusOK, doAs(t, b, http.MethodGet, srv.URL+"/api/v1/landing", "", &vb))
	assert.Equal(t, carousel.Paused, va.Hero.State)
	assert.Equal(t, carousel.Running, vb.Hero.State)
}

func TestCheckoutTrail_Disabled(t *testing.T) {
	srv, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodGet, srv.URL+"/api/v1/checkouts/CMD-41/trail", "", nil))
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
