package checkout

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Local checkout lifecycle. The backend owns the real order; this record
// only tracks what the storefront did with it.
const (
	StatusPlaced           = "placed"
	StatusPaymentInitiated = "payment_initiated"
	StatusReconciled       = "reconciled"
)

var ErrNotFound = errors.New("checkout not found")

type Record struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"order_id"`
	RefCommand    string          `json:"ref_command"`
	PackageID     string          `json:"package_id"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
