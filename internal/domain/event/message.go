package event

import (
	"encoding/json"
	"time"
)

// Event types published by the storefront.
const (
	TypeOrderPlaced      = "OrderPlaced"
	TypePaymentInitiated = "PaymentInitiated"
)

// Message is the envelope published to Kafka.
// Payload is kept as raw JSON produced by the originating service.
type Message struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	CorrelationID string          `json:"correlation_id"`
	CausationID   string          `json:"causation_id,omitempty"`
	Producer      string          `json:"producer"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// OrderPlaced is the payload of TypeOrderPlaced; CorrelationID is the
// checkout id.
type OrderPlaced struct {
	CheckoutID string `json:"checkout_id"`
	OrderID    string `json:"order_id"`
	RefCommand string `json:"ref_command"`
	PackageID  string `json:"package_id"`
	Amount     string `json:"amount"`
}

type PaymentInitiated struct {
	CheckoutID  string `json:"checkout_id"`
	OrderID     string `json:"order_id"`
	RefCommand  string `json:"ref_command"`
	RedirectURL string `json:"redirect_url"`
}
