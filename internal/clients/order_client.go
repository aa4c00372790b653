package clients

import (
	"context"
	"net/http"

	"storefront/internal/domain"
)

var _ domain.OrderService = (*OrderClient)(nil)

type OrderClient struct {
	api *API
}

func NewOrderClient(api *API) *OrderClient {
	return &OrderClient{api: api}
}

func (c *OrderClient) Place(ctx context.Context, req domain.PlaceOrderRequest, idempotencyKey string) (*domain.Order, error) {
	var order domain.Order
	r := request{
		method:   http.MethodPost,
		path:     "orders",
		body:     req,
		fallback: "Failed to place order.",
	}
	if idempotencyKey != "" {
		r.headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	if err := c.api.do(ctx, r, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *OrderClient) Mine(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.api.do(ctx, request{method: http.MethodGet, path: "orders/myorders", fallback: "Failed to load orders"}, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}
