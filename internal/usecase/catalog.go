package usecase

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

const ProductsPerPage = 12

type Catalog struct {
	products domain.ProductService
	log      *logrus.Logger
}

func NewCatalog(products domain.ProductService, logger *logrus.Logger) *Catalog {
	return &Catalog{products: products, log: logger}
}

func (uc *Catalog) List(ctx context.Context, page int, search string) (*domain.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	result, err := uc.products.List(ctx, domain.ProductQuery{
		Page:   page,
		Limit:  ProductsPerPage,
		Search: strings.TrimSpace(search),
	})
	if err != nil {
		uc.log.Errorf("Catalog: Error fetching products (page %d): %v", page, err)
		return nil, err
	}
	if result.Products == nil {
		result.Products = []domain.Product{}
	}
	if result.TotalPages < 1 {
		result.TotalPages = 1
	}
	return result, nil
}

func (uc *Catalog) Get(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.Invalid("invalid product ID")
	}
	product, err := uc.products.Get(ctx, id)
	if err != nil {
		uc.log.Warnf("Catalog: Failed to get product %s: %v", id, err)
		return nil, err
	}
	return product, nil
}
