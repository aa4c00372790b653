package clients

import (
	"context"
	"net/http"
	"net/url"

	"storefront/internal/domain"
)

var _ domain.CartService = (*CartClient)(nil)

type cartItemBody struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CartClient struct {
	api *API
}

func NewCartClient(api *API) *CartClient {
	return &CartClient{api: api}
}

func (c *CartClient) Fetch(ctx context.Context) (*domain.RemoteCart, error) {
	var cart domain.RemoteCart
	if err := c.api.do(ctx, request{method: http.MethodGet, path: "cart", fallback: "Failed to load cart"}, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *CartClient) Add(ctx context.Context, productID string, quantity int) error {
	return c.api.do(ctx, request{
		method:   http.MethodPost,
		path:     "cart",
		body:     cartItemBody{ProductID: productID, Quantity: quantity},
		fallback: "Failed to add item to cart",
	}, nil)
}

func (c *CartClient) Update(ctx context.Context, productID string, quantity int) error {
	return c.api.do(ctx, request{
		method:   http.MethodPut,
		path:     "cart",
		body:     cartItemBody{ProductID: productID, Quantity: quantity},
		fallback: "Failed to update cart",
	}, nil)
}

func (c *CartClient) Remove(ctx context.Context, productID string) error {
	return c.api.do(ctx, request{
		method:   http.MethodDelete,
		path:     "cart/" + url.PathEscape(productID),
		fallback: "Failed to remove item from cart",
	}, nil)
}

func (c *CartClient) Clear(ctx context.Context) error {
	return c.api.do(ctx, request{method: http.MethodDelete, path: "cart", fallback: "Failed to clear cart"}, nil)
}
