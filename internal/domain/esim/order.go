package esim

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses the backend reports once a payment has settled.
const (
	PaymentCompleted = "completed"
	PaymentPaid      = "paid"
)

type Order struct {
	ID            ID              `json:"id"`
	RefCommand    string          `json:"ref_command"`
	PackageID     ID              `json:"esim_package_id"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	CreatedAt     *time.Time      `json:"created_at,omitempty"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
}

// OrderStatus is the read projection served by /orders/status/{ref}.
// Empty activation fields mean "not issued yet".
type OrderStatus struct {
	Order
	ActivationCode string `json:"activation_code,omitempty"`
	QRCode         string `json:"qr_code,omitempty"`
}

func (s OrderStatus) Paid() bool { return IsPaid(s.PaymentStatus) }

func IsPaid(paymentStatus string) bool {
	switch strings.ToLower(paymentStatus) {
	case PaymentCompleted, PaymentPaid:
		return true
	}
	return false
}

type OrderRequest struct {
	PackageID ID     `json:"esim_package_id"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

type Payment struct {
	ID        ID              `json:"id"`
	OrderID   ID              `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency,omitempty"`
	Status    string          `json:"status"`
	Method    string          `json:"method,omitempty"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
}

// PaymentInitiation is what the payment provider hands back: a redirect URL
// and the reference the confirmation page will be opened with.
type PaymentInitiation struct {
	RedirectURL string `json:"redirect_url"`
	RefCommand  string `json:"ref_command,omitempty"`
	Token       string `json:"token,omitempty"`
}

type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}
