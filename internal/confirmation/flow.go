// Package confirmation resolves the order-confirmation screen a customer
// lands on after the payment provider redirects back.
//
// The flow is one-shot: Loading, then Found or NotFound. It does not poll,
// so a payment that settles after the page loads shows up only on reload.
package confirmation

import (
	"context"
	"net/url"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/esim"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/service"
)

type State string

const (
	StateLoading  State = "loading"
	StateFound    State = "found"
	StateNotFound State = "not_found"
)

// ReferenceParams are the query parameters that may carry the order
// reference, highest priority first.
var ReferenceParams = []string{"ref_command", "ref", "order_id"}

const (
	HeadlinePaid    = "Payment confirmed, your eSIM is on its way"
	HeadlinePending = "Order received, payment pending"

	MessageNoReference       = "No order reference was provided"
	MessageActivationPending = "Your activation details will be available once the payment is confirmed"
)

// StatusFetcher is the order status lookup the flow depends on.
type StatusFetcher interface {
	Status(ctx context.Context, refCommand string) service.Result[esim.OrderStatus]
}

type Activation struct {
	Code      string `json:"code,omitempty"`
	QRCode    string `json:"qr_code,omitempty"`
	QRPending bool   `json:"qr_pending"`
}

type View struct {
	State      State             `json:"state"`
	Reference  string            `json:"reference,omitempty"`
	Headline   string            `json:"headline,omitempty"`
	Paid       bool              `json:"paid"`
	Message    string            `json:"message,omitempty"`
	Activation *Activation       `json:"activation,omitempty"`
	Order      *esim.OrderStatus `json:"order,omitempty"`
}

// ReferenceFrom returns the first non-empty reference parameter, verbatim.
func ReferenceFrom(q url.Values) (string, bool) {
	for _, name := range ReferenceParams {
		if v := q.Get(name); v != "" {
			return v, true
		}
	}
	return "", false
}

type Flow struct {
	orders StatusFetcher
}

func NewFlow(orders StatusFetcher) *Flow {
	return &Flow{orders: orders}
}

// Resolve runs the flow to a terminal state. Without a reference it stops at
// NotFound and never calls the backend.
func (f *Flow) Resolve(ctx context.Context, q url.Values) View {
	ref, ok := ReferenceFrom(q)
	if !ok {
		return View{State: StateNotFound, Message: MessageNoReference}
	}

	res := f.orders.Status(ctx, ref)
	if !res.Success || res.Data == nil {
		return View{State: StateNotFound, Reference: ref, Message: res.Message}
	}
	return Render(ref, *res.Data)
}

// Render builds the Found view for a status payload.
func Render(ref string, st esim.OrderStatus) View {
	v := View{
		State:     StateFound,
		Reference: ref,
		Paid:      st.Paid(),
		Order:     &st,
	}
	if v.Paid {
		v.Headline = HeadlinePaid
	} else {
		v.Headline = HeadlinePending
	}

	if st.ActivationCode != "" || st.QRCode != "" {
		v.Activation = &Activation{
			Code:      st.ActivationCode,
			QRCode:    st.QRCode,
			QRPending: st.QRCode == "",
		}
	} else {
		v.Message = MessageActivationPending
	}
	return v
}
