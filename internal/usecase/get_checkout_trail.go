package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/checkout"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/inbox"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/outbox"
)

type OutboxLister interface {
	ListByCorrelationID(ctx context.Context, correlationID string) ([]*outbox.Event, error)
}

type InboxLister interface {
	ListByCorrelationID(ctx context.Context, correlationID string) ([]*inbox.Event, error)
}

// CheckoutTrail is everything the storefront did for one checkout.
type CheckoutTrail struct {
	Checkout *checkout.Record `json:"checkout"`
	Outbox   []*outbox.Event  `json:"outbox"`
	Inbox    []*inbox.Event   `json:"inbox"`
}

type GetCheckoutTrail struct {
	checkouts  CheckoutStore
	outboxRepo OutboxLister
	inboxRepo  InboxLister
}

func NewGetCheckoutTrail(checkouts CheckoutStore, outboxRepo OutboxLister, inboxRepo InboxLister) *GetCheckoutTrail {
	return &GetCheckoutTrail{
		checkouts:  checkouts,
		outboxRepo: outboxRepo,
		inboxRepo:  inboxRepo,
	}
}

// Execute looks the checkout up by payment reference, then by backend order
// id. It returns checkout.ErrNotFound when neither matches.
func (uc *GetCheckoutTrail) Execute(ctx context.Context, ref string) (*CheckoutTrail, error) {
	rec, err := uc.checkouts.GetByRef(ctx, ref)
	if errors.Is(err, checkout.ErrNotFound) {
		rec, err = uc.checkouts.GetByOrderID(ctx, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("get checkout: %w", err)
	}

	outboxEvents, err := uc.outboxRepo.ListByCorrelationID(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("get outbox events: %w", err)
	}

	inboxEvents, err := uc.inboxRepo.ListByCorrelationID(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("get inbox events: %w", err)
	}

	if outboxEvents == nil {
		outboxEvents = []*outbox.Event{}
	}
	if inboxEvents == nil {
		inboxEvents = []*inbox.Event{}
	}

	return &CheckoutTrail{
		Checkout: rec,
		Outbox:   outboxEvents,
		Inbox:    inboxEvents,
	}, nil
}
