package service

import (
	"context"
	"log/slog"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/esim"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/envelope"
)

type PaymentService struct {
	api    Requester
	logger *slog.Logger
}

func NewPaymentService(api Requester, logger *slog.Logger) *PaymentService {
	return &PaymentService{api: api, logger: loggerOrDefault(logger)}
}

func (s *PaymentService) Initiate(ctx context.Context, orderID string) Result[esim.PaymentInitiation] {
	raw, err := s.api.Post(ctx, "/payments/initiate", map[string]string{"order_id": orderID})
	if err != nil {
		s.logger.Error("payments: initiate failed", "order_id", orderID, "error", err)
		return fail[esim.PaymentInitiation](failureMessage(err, "Unable to start the payment"))
	}
	success, msg := envelope.Outcome(raw)
	if !success {
		return fail[esim.PaymentInitiation](orDefault(msg, "Unable to start the payment"))
	}
	p := single[esim.PaymentInitiation](raw, "payment")
	if p == nil || p.RedirectURL == "" {
		return fail[esim.PaymentInitiation]("Payment provider returned no redirect")
	}
	return ok(p, msg)
}

func (s *PaymentService) List(ctx context.Context) []esim.Payment {
	raw, err := s.api.Get(ctx, "/payments")
	if err != nil {
		s.logger.Warn("payments: list failed", "error", err)
		return []esim.Payment{}
	}
	return envelope.List[esim.Payment](raw, "payments")
}
