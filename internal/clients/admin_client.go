package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/domain"
)

var _ domain.AdminService = (*AdminClient)(nil)

type AdminClient struct {
	api *API
}

func NewAdminClient(api *API) *AdminClient {
	return &AdminClient{api: api}
}

func (c *AdminClient) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := c.api.do(ctx, request{method: http.MethodGet, path: "admin/dashboard", fallback: "Failed to load dashboard statistics"}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *AdminClient) ListOrders(ctx context.Context, f domain.AdminOrderFilter) (*domain.AdminOrderPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(f.Page))
	params.Set("limit", strconv.Itoa(f.Limit))
	if f.DeliveryStatus != "" {
		params.Set("deliveryStatus", string(f.DeliveryStatus))
	}
	if f.PaymentMethod != "" {
		params.Set("paymentMethod", string(f.PaymentMethod))
	}
	if f.Search != "" {
		params.Set("search", f.Search)
	}

	var page domain.AdminOrderPage
	if err := c.api.do(ctx, request{method: http.MethodGet, path: "admin/orders", query: params, fallback: "Failed to load orders"}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *AdminClient) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	return c.api.do(ctx, request{
		method:   http.MethodPut,
		path:     "admin/orders/" + url.PathEscape(orderID) + "/status",
		body:     map[string]domain.OrderStatus{"status": status},
		fallback: "Failed to update order",
	}, nil)
}

func (c *AdminClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.api.do(ctx, request{method: http.MethodGet, path: "admin/products", fallback: "Failed to load products"}, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *AdminClient) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.api.do(ctx, request{method: http.MethodPost, path: "admin/products", body: input, fallback: "Failed to save product"}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *AdminClient) UpdateProduct(ctx context.Context, id string, input domain.ProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.api.do(ctx, request{method: http.MethodPut, path: "admin/products/" + url.PathEscape(id), body: input, fallback: "Failed to save product"}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *AdminClient) DeleteProduct(ctx context.Context, id string) error {
	return c.api.do(ctx, request{method: http.MethodDelete, path: "admin/products/" + url.PathEscape(id), fallback: "Failed to delete product"}, nil)
}
