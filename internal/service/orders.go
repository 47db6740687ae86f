package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/backend"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/esim"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/envelope"
)

const msgOrderNotFound = "Order not found"

type OrderService struct {
	api    Requester
	logger *slog.Logger
}

func NewOrderService(api Requester, logger *slog.Logger) *OrderService {
	return &OrderService{api: api, logger: loggerOrDefault(logger)}
}

func (s *OrderService) Create(ctx context.Context, req esim.OrderRequest) Result[esim.Order] {
	raw, err := s.api.Post(ctx, "/orders", req)
	if err != nil {
		s.logger.Error("orders: create failed", "package_id", req.PackageID, "error", err)
		return fail[esim.Order](failureMessage(err, "Unable to create the order"))
	}
	success, msg := envelope.Outcome(raw)
	if !success {
		return fail[esim.Order](orDefault(msg, "Unable to create the order"))
	}
	o := envelope.One[esim.Order](raw, "order")
	if o == nil {
		s.logger.Error("orders: create returned no order", "package_id", req.PackageID)
		return fail[esim.Order]("Unable to create the order")
	}
	return ok(o, msg)
}

// Status fetches the order behind a payment reference. A missing order, an
// unsuccessful body and a transport failure all come back as Success=false.
func (s *OrderService) Status(ctx context.Context, refCommand string) Result[esim.OrderStatus] {
	raw, err := s.api.Get(ctx, "/orders/status/"+url.PathEscape(refCommand))
	if err != nil {
		var httpErr *backend.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
			return fail[esim.OrderStatus](orDefault(httpErr.Message(), msgOrderNotFound))
		}
		s.logger.Warn("orders: status failed", "ref_command", refCommand, "error", err)
		return fail[esim.OrderStatus](failureMessage(err, "Unable to retrieve the order status"))
	}
	success, msg := envelope.Outcome(raw)
	if !success {
		return fail[esim.OrderStatus](orDefault(msg, msgOrderNotFound))
	}
	st := single[esim.OrderStatus](raw, "order")
	if st == nil || (st.ID == "" && st.RefCommand == "") {
		return fail[esim.OrderStatus](msgOrderNotFound)
	}
	return ok(st, msg)
}

func (s *OrderService) Details(ctx context.Context, id string) *esim.Order {
	raw, err := s.api.Get(ctx, "/user-profile/orders/"+url.PathEscape(id))
	if err != nil {
		s.logger.Warn("orders: details failed", "order_id", id, "error", err)
		return nil
	}
	return envelope.One[esim.Order](raw, "order")
}

func (s *OrderService) UserOrders(ctx context.Context) []esim.Order {
	raw, err := s.api.Get(ctx, "/user-profile/orders")
	if err != nil {
		s.logger.Warn("orders: user orders failed", "error", err)
		return []esim.Order{}
	}
	return envelope.List[esim.Order](raw, "orders")
}

func (s *OrderService) All(ctx context.Context) []esim.Order {
	raw, err := s.api.Get(ctx, "/orders")
	if err != nil {
		s.logger.Warn("orders: list failed", "error", err)
		return []esim.Order{}
	}
	return envelope.List[esim.Order](raw, "orders")
}
