package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/checkout"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/esim"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/event"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/service"
)

type PaymentInitiator interface {
	Initiate(ctx context.Context, orderID string) service.Result[esim.PaymentInitiation]
}

type InitiatePayment struct {
	payments PaymentInitiator
	recorder *Recorder
	logger   *slog.Logger
}

func NewInitiatePayment(payments PaymentInitiator, recorder *Recorder, logger *slog.Logger) *InitiatePayment {
	if logger == nil {
		logger = slog.Default()
	}
	return &InitiatePayment{payments: payments, recorder: recorder, logger: logger}
}

type InitiatePaymentParams struct {
	OrderID string `json:"order_id"`
}

func (uc *InitiatePayment) Execute(ctx context.Context, params InitiatePaymentParams) service.Result[esim.PaymentInitiation] {
	if params.OrderID == "" {
		return service.Result[esim.PaymentInitiation]{Message: "An order id is required"}
	}

	res := uc.payments.Initiate(ctx, params.OrderID)
	if !res.Success || res.Data == nil || uc.recorder == nil {
		return res
	}

	if err := uc.record(ctx, params.OrderID, *res.Data); err != nil {
		if errors.Is(err, checkout.ErrNotFound) {
			uc.logger.Debug("initiate payment: no local checkout", "order_id", params.OrderID)
		} else {
			uc.logger.Error("initiate payment: checkout not updated", "order_id", params.OrderID, "error", err)
		}
	}
	return res
}

func (uc *InitiatePayment) record(ctx context.Context, orderID string, p esim.PaymentInitiation) error {
	rec, err := uc.recorder.checkouts.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	ref := p.RefCommand
	if ref == "" {
		ref = rec.RefCommand
	}
	ev, err := newOutboxEvent(event.TypePaymentInitiated, rec.ID, event.PaymentInitiated{
		CheckoutID:  rec.ID,
		OrderID:     orderID,
		RefCommand:  ref,
		RedirectURL: p.RedirectURL,
	})
	if err != nil {
		return err
	}

	err = uc.recorder.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.recorder.checkouts.UpdateStatus(txCtx, rec.ID, checkout.StatusPaymentInitiated); err != nil {
			return err
		}
		return uc.recorder.outbox.Create(txCtx, ev)
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}
