package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/domain"
)

var _ domain.ProductService = (*ProductClient)(nil)

type ProductClient struct {
	api *API
}

func NewProductClient(api *API) *ProductClient {
	return &ProductClient{api: api}
}

func (c *ProductClient) List(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("search", q.Search)

	var page domain.ProductPage
	if err := c.api.do(ctx, request{method: http.MethodGet, path: "products", query: params, fallback: "Failed to load products"}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *ProductClient) Get(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := c.api.do(ctx, request{method: http.MethodGet, path: "products/" + url.PathEscape(id), fallback: "Product not found"}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
