package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/checkout"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/esim"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/event"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/service"

	"github.com/google/uuid"
)

type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, packageID string) service.Result[esim.Availability]
}

type OrderCreator interface {
	Create(ctx context.Context, req esim.OrderRequest) service.Result[esim.Order]
}

type PlaceOrder struct {
	packages AvailabilityChecker
	orders   OrderCreator
	recorder *Recorder
	logger   *slog.Logger
}

func NewPlaceOrder(packages AvailabilityChecker, orders OrderCreator, recorder *Recorder, logger *slog.Logger) *PlaceOrder {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaceOrder{
		packages: packages,
		orders:   orders,
		recorder: recorder,
		logger:   logger,
	}
}

type PlaceOrderResult struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Order      *esim.Order `json:"order,omitempty"`
	CheckoutID string      `json:"checkout_id,omitempty"`
}

// Execute checks stock, creates the order on the backend and records the
// checkout locally. The backend order is the source of truth: a failed local
// write is logged and does not fail the purchase.
func (uc *PlaceOrder) Execute(ctx context.Context, req esim.OrderRequest) PlaceOrderResult {
	if req.PackageID == "" || strings.TrimSpace(req.Email) == "" {
		return PlaceOrderResult{Message: "A package and an email are required"}
	}

	av := uc.packages.CheckAvailability(ctx, string(req.PackageID))
	if !av.Success {
		return PlaceOrderResult{Message: av.Message}
	}
	if av.Data != nil && !av.Data.Available {
		return PlaceOrderResult{Message: orDefault(av.Data.Message, "This package is no longer available")}
	}

	created := uc.orders.Create(ctx, req)
	if !created.Success || created.Data == nil {
		return PlaceOrderResult{Message: created.Message}
	}

	res := PlaceOrderResult{Success: true, Message: created.Message, Order: created.Data}
	if uc.recorder == nil {
		return res
	}

	id, err := uc.record(ctx, req, *created.Data)
	if err != nil {
		uc.logger.Error("place order: checkout not recorded",
			"order_id", created.Data.ID, "ref_command", created.Data.RefCommand, "error", err)
		return res
	}
	res.CheckoutID = id
	return res
}

func (uc *PlaceOrder) record(ctx context.Context, req esim.OrderRequest, o esim.Order) (string, error) {
	now := time.Now().UTC()
	rec := &checkout.Record{
		ID:         uuid.New().String(),
		OrderID:    string(o.ID),
		RefCommand: o.RefCommand,
		PackageID:  string(req.PackageID),
		Email:      req.Email,
		Phone:      req.Phone,
		Amount:     o.Amount,
		Status:     checkout.StatusPlaced,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	ev, err := newOutboxEvent(event.TypeOrderPlaced, rec.ID, event.OrderPlaced{
		CheckoutID: rec.ID,
		OrderID:    rec.OrderID,
		RefCommand: rec.RefCommand,
		PackageID:  rec.PackageID,
		Amount:     rec.Amount.String(),
	})
	if err != nil {
		return "", err
	}

	err = uc.recorder.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.recorder.checkouts.Create(txCtx, rec); err != nil {
			return err
		}
		return uc.recorder.outbox.Create(txCtx, ev)
	})
	if err != nil {
		return "", fmt.Errorf("transaction failed: %w", err)
	}
	return rec.ID, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
