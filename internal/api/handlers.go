package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/api/middleware"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/carousel"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/catalog"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/compat"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/confirmation"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/checkout"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/esim"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/service"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/session"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/usecase"

	"github.com/go-chi/chi/v5"
)

// LandingSource hands out the landing carousels of one visitor.
type LandingSource interface {
	For(visitorID string) *carousel.Landing
}

type CatalogLoader interface {
	Load(ctx context.Context) (catalog.Catalog, error)
}

type PackageReader interface {
	List(ctx context.Context) []esim.Package
	ByID(ctx context.Context, id string) *esim.Package
	Destinations(ctx context.Context) []esim.Destination
	CheckAvailability(ctx context.Context, packageID string) service.Result[esim.Availability]
}

type OrderReader interface {
	Details(ctx context.Context, id string) *esim.Order
	UserOrders(ctx context.Context) []esim.Order
}

type PaymentLister interface {
	List(ctx context.Context) []esim.Payment
}

type ContactSubmitter interface {
	Submit(ctx context.Context, m esim.ContactMessage) service.Result[struct{}]
}

type OrderPlacer interface {
	Execute(ctx context.Context, req esim.OrderRequest) usecase.PlaceOrderResult
}

type PaymentStarter interface {
	Execute(ctx context.Context, params usecase.InitiatePaymentParams) service.Result[esim.PaymentInitiation]
}

type ConfirmationResolver interface {
	Execute(ctx context.Context, q url.Values) confirmation.View
}

type TrailFinder interface {
	Execute(ctx context.Context, ref string) (*usecase.CheckoutTrail, error)
}

// Deps lists what the handlers serve. Trail may be nil when checkouts are
// not recorded. The visitor's session travels in the request context.
type Deps struct {
	Landings        LandingSource
	Catalog         CatalogLoader
	Packages        PackageReader
	Orders          OrderReader
	Payments        PaymentLister
	Contact         ContactSubmitter
	PlaceOrder      OrderPlacer
	InitiatePayment PaymentStarter
	Confirmation    ConfirmationResolver
	Trail           TrailFinder
	Logger          *slog.Logger
}

type Handlers struct {
	deps Deps
}

func NewHandlers(deps Deps) *Handlers {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Handlers{deps: deps}
}

func (h *Handlers) landing(r *http.Request) *carousel.Landing {
	return h.deps.Landings.For(middleware.SessionID(r))
}

func (h *Handlers) Landing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.landing(r).Snapshot())
}

func (h *Handlers) CarouselControl(w http.ResponseWriter, r *http.Request) {
	rot, ok := h.landing(r).Carousel(chi.URLParam(r, "name"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown carousel")
		return
	}

	switch chi.URLParam(r, "action") {
	case "pause":
		rot.Pause()
	case "resume":
		rot.Resume()
	case "next":
		rot.Next()
	case "prev":
		rot.Prev()
	default:
		writeError(w, http.StatusBadRequest, "action must be pause, resume, next or prev")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"index": rot.Current(), "state": rot.State()})
}

func (h *Handlers) Compatibility(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, compat.Evaluate(q.Get("brand"), q.Get("model")))
}

func (h *Handlers) CompatibilityBrands(w http.ResponseWriter, r *http.Request) {
	brands := compat.Brands()
	out := make(map[string][]string, len(brands))
	for _, b := range brands {
		out[b] = compat.Models(b)
	}
	writeJSON(w, http.StatusOK, map[string]any{"brands": brands, "models": out})
}

func (h *Handlers) Destinations(w http.ResponseWriter, r *http.Request) {
	c, err := h.deps.Catalog.Load(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "catalog unavailable")
		return
	}

	q := r.URL.Query()
	f := catalog.Filter{Continent: q.Get("continent"), Query: q.Get("q")}
	writeJSON(w, http.StatusOK, catalog.Catalog{
		Destinations: f.Apply(c.Destinations),
		Failed:       c.Failed,
		LoadedAt:     c.LoadedAt,
	})
}

func (h *Handlers) RemoteDestinations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"destinations": h.deps.Packages.Destinations(r.Context())})
}

func (h *Handlers) ListPackages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"packages": h.deps.Packages.List(r.Context())})
}

func (h *Handlers) GetPackage(w http.ResponseWriter, r *http.Request) {
	p := h.deps.Packages.ByID(r.Context(), chi.URLParam(r, "id"))
	if p == nil {
		writeError(w, http.StatusNotFound, "package not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	res := h.deps.Packages.CheckAvailability(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, outcomeStatus(res.Success, http.StatusOK), res)
}

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req esim.OrderRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res := h.deps.PlaceOrder.Execute(r.Context(), req)
	writeJSON(w, outcomeStatus(res.Success, http.StatusCreated), res)
}

func (h *Handlers) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	var params usecase.InitiatePaymentParams
	if err := decode(w, r, &params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res := h.deps.InitiatePayment.Execute(r.Context(), params)
	writeJSON(w, outcomeStatus(res.Success, http.StatusOK), res)
}

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"orders": h.deps.Orders.UserOrders(r.Context())})
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	o := h.deps.Orders.Details(r.Context(), chi.URLParam(r, "id"))
	if o == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	noCache(w)
	writeJSON(w, http.StatusOK, o)
}

func (h *Handlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"payments": h.deps.Payments.List(r.Context())})
}

// Confirmation answers 404 with the not-found view so the page can render
// its dedicated error screen.
func (h *Handlers) Confirmation(w http.ResponseWriter, r *http.Request) {
	v := h.deps.Confirmation.Execute(r.Context(), r.URL.Query())
	status := http.StatusOK
	if v.State != confirmation.StateFound {
		status = http.StatusNotFound
	}
	noCache(w)
	writeJSON(w, status, v)
}

func (h *Handlers) CheckoutTrail(w http.ResponseWriter, r *http.Request) {
	if h.deps.Trail == nil {
		writeError(w, http.StatusNotFound, "checkout recording is disabled")
		return
	}

	trail, err := h.deps.Trail.Execute(r.Context(), chi.URLParam(r, "ref"))
	if errors.Is(err, checkout.ErrNotFound) {
		writeError(w, http.StatusNotFound, "checkout not found")
		return
	}
	if err != nil {
		h.deps.Logger.Error("checkout trail failed", "ref", chi.URLParam(r, "ref"), "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	noCache(w)
	writeJSON(w, http.StatusOK, trail)
}

func (h *Handlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var m esim.ContactMessage
	if err := decode(w, r, &m); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res := h.deps.Contact.Submit(r.Context(), m)
	writeJSON(w, outcomeStatus(res.Success, http.StatusOK), res)
}

func (h *Handlers) PutSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decode(w, r, &req); err != nil || req.Token == "" {
		writeError(w, http.StatusBadRequest, "a token is required")
		return
	}

	sess := session.FromContext(r.Context())
	if sess == nil {
		writeError(w, http.StatusInternalServerError, "no session")
		return
	}
	if err := sess.SetToken(r.Context(), req.Token); err != nil {
		h.deps.Logger.Error("store session token failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		writeError(w, http.StatusInternalServerError, "no session")
		return
	}
	if err := sess.Clear(r.Context()); err != nil {
		h.deps.Logger.Error("clear session token failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
