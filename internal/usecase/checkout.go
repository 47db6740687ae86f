package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/checkout"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/outbox"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/infrastructure/postgres"

	"github.com/google/uuid"
)

const producerName = "esim-storefront"

// CheckoutStore is the local checkout log.
type CheckoutStore interface {
	Create(ctx context.Context, c *checkout.Record) error
	UpdateStatus(ctx context.Context, id string, status string) error
	GetByRef(ctx context.Context, ref string) (*checkout.Record, error)
	GetByOrderID(ctx context.Context, orderID string) (*checkout.Record, error)
}

type OutboxWriter interface {
	Create(ctx context.Context, e *outbox.Event) error
}

// Recorder writes checkout rows and their outbox events in one transaction.
// A nil *Recorder records nothing.
type Recorder struct {
	tx        postgres.Transactor
	checkouts CheckoutStore
	outbox    OutboxWriter
}

func NewRecorder(tx postgres.Transactor, checkouts CheckoutStore, outbox OutboxWriter) *Recorder {
	return &Recorder{tx: tx, checkouts: checkouts, outbox: outbox}
}

func newOutboxEvent(eventType, correlationID string, payload any) (*outbox.Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return &outbox.Event{
		ID:            uuid.New().String(),
		EventType:     eventType,
		Payload:       data,
		Status:        outbox.StatusNew,
		CorrelationID: correlationID,
		Producer:      producerName,
		CreatedAt:     time.Now().UTC(),
	}, nil
}
