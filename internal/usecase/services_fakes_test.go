package usecase

import (
	"context"
	"sync"

	"storefront/internal/domain"
)

type fakeOrderService struct {
	mu     sync.Mutex
	placed []domain.PlaceOrderRequest
	keys   []string
	orders []domain.Order
	err    error
}

func (f *fakeOrderService) Place(_ context.Context, req domain.PlaceOrderRequest, key string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.placed = append(f.placed, req)
	f.keys = append(f.keys, key)
	return &domain.Order{ID: "o1", County: req.County, Town: req.Town, PaymentMethod: req.PaymentMethod}, nil
}

func (f *fakeOrderService) Mine(context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders, f.err
}

type fakeProductService struct {
	page      *domain.ProductPage
	lastQuery domain.ProductQuery
	err       error
}

func (f *fakeProductService) List(_ context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	page := *f.page
	return &page, nil
}

func (f *fakeProductService) Get(_ context.Context, id string) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Product{ID: id, Name: "Tusker", Price: 1000}, nil
}

type fakeAdminService struct {
	lastFilter domain.AdminOrderFilter
	statuses   map[string]domain.OrderStatus
	created    []domain.ProductInput
	updated    map[string]domain.ProductInput
	deleted    []string
	err        error
}

func newFakeAdminService() *fakeAdminService {
	return &fakeAdminService{
		statuses: make(map[string]domain.OrderStatus),
		updated:  make(map[string]domain.ProductInput),
	}
}

func (f *fakeAdminService) Dashboard(context.Context) (*domain.DashboardStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.DashboardStats{TotalOrders: 3, TotalRevenue: 4500}, nil
}

func (f *fakeAdminService) ListOrders(_ context.Context, filter domain.AdminOrderFilter) (*domain.AdminOrderPage, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return &domain.AdminOrderPage{}, nil
}

func (f *fakeAdminService) UpdateOrderStatus(_ context.Context, id string, status domain.OrderStatus) error {
	if f.err != nil {
		return f.err
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeAdminService) ListProducts(context.Context) ([]domain.Product, error) {
	return nil, f.err
}

func (f *fakeAdminService) CreateProduct(_ context.Context, in domain.ProductInput) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, in)
	return &domain.Product{ID: "new", Name: in.Name, Price: in.Price}, nil
}

func (f *fakeAdminService) UpdateProduct(_ context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updated[id] = in
	return &domain.Product{ID: id, Name: in.Name, Price: in.Price}, nil
}

func (f *fakeAdminService) DeleteProduct(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}
