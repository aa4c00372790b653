package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

const AdminOrdersPerPage = 10

const filterAll = "All"

var statusFilters = map[string]domain.OrderStatus{
	"Pending":    domain.StatusPending,
	"Dispatched": domain.StatusDispatched,
	"Delivered":  domain.StatusDelivered,
	"Cancelled":  domain.StatusCancelled,
}

var paymentFilters = map[string]domain.PaymentMethod{
	"cash":   domain.PaymentCOD,
	"mpesa":  domain.PaymentMpesa,
	"stripe": domain.PaymentStripe,
}

// OrderListRequest uses the labels of the back-office filters.
type OrderListRequest struct {
	Status  string
	Payment string
	Search  string
	Page    int
}

type Admin struct {
	auth    *AuthState
	service domain.AdminService
	log     *logrus.Logger
}

func NewAdmin(auth *AuthState, service domain.AdminService, logger *logrus.Logger) *Admin {
	return &Admin{auth: auth, service: service, log: logger}
}

func (uc *Admin) requireAdmin() error {
	identity := uc.auth.Current()
	if identity == nil {
		return domain.ErrNotAuthenticated
	}
	if !identity.IsAdmin() {
		uc.log.Warnf("Admin: User %s with role %s attempted an admin operation", identity.ID, identity.Role)
		return domain.ErrForbidden
	}
	return nil
}

func (uc *Admin) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	if err := uc.requireAdmin(); err != nil {
		return nil, err
	}
	stats, err := uc.service.Dashboard(ctx)
	if err != nil {
		uc.log.Errorf("Admin: Failed to load dashboard stats: %v", err)
		return nil, err
	}
	return stats, nil
}

// OrderFilter maps back-office filter labels to backend enum values.
func OrderFilter(req OrderListRequest) (domain.AdminOrderFilter, error) {
	filter := domain.AdminOrderFilter{
		Page:   req.Page,
		Limit:  AdminOrdersPerPage,
		Search: strings.TrimSpace(req.Search),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if req.Status != "" && req.Status != filterAll {
		status, ok := statusFilters[req.Status]
		if !ok {
			return filter, domain.Invalid(fmt.Sprintf("invalid status filter '%s'", req.Status))
		}
		filter.DeliveryStatus = status
	}
	if req.Payment != "" && req.Payment != filterAll {
		method, ok := paymentFilters[req.Payment]
		if !ok {
			return filter, domain.Invalid(fmt.Sprintf("invalid payment filter '%s'", req.Payment))
		}
		filter.PaymentMethod = method
	}
	return filter, nil
}

func (uc *Admin) ListOrders(ctx context.Context, req OrderListRequest) (*domain.AdminOrderPage, error) {
	if err := uc.requireAdmin(); err != nil {
		return nil, err
	}
	filter, err := OrderFilter(req)
	if err != nil {
		return nil, err
	}
	page, err := uc.service.ListOrders(ctx, filter)
	if err != nil {
		uc.log.Errorf("Admin: Failed to load orders: %v", err)
		return nil, err
	}
	if page.Orders == nil {
		page.Orders = []domain.Order{}
	}
	if page.TotalPages < 1 {
		page.TotalPages = 1
	}
	return page, nil
}

func (uc *Admin) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if err := uc.requireAdmin(); err != nil {
		return err
	}
	if strings.TrimSpace(orderID) == "" {
		return domain.Invalid("invalid order ID")
	}
	if !domain.IsValidStatus(status) {
		return domain.Invalid(fmt.Sprintf("invalid order status: %s", status))
	}
	uc.log.Infof("Admin: Updating order %s to status %s", orderID, status)
	if err := uc.service.UpdateOrderStatus(ctx, orderID, status); err != nil {
		uc.log.Errorf("Admin: Failed to update order %s: %v", orderID, err)
		return err
	}
	return nil
}

func (uc *Admin) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if err := uc.requireAdmin(); err != nil {
		return nil, err
	}
	products, err := uc.service.ListProducts(ctx)
	if err != nil {
		uc.log.Errorf("Admin: Failed to load products: %v", err)
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// SaveProduct creates the product when id is empty and updates it otherwise.
func (uc *Admin) SaveProduct(ctx context.Context, id string, input domain.ProductInput) (*domain.Product, error) {
	if err := uc.requireAdmin(); err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	var (
		product *domain.Product
		err     error
	)
	if id == "" {
		product, err = uc.service.CreateProduct(ctx, input)
	} else {
		product, err = uc.service.UpdateProduct(ctx, id, input)
	}
	if err != nil {
		uc.log.Errorf("Admin: Failed to save product '%s': %v", input.Name, err)
		return nil, err
	}
	uc.log.Infof("Admin: Product '%s' saved", input.Name)
	return product, nil
}

func (uc *Admin) DeleteProduct(ctx context.Context, id string) error {
	if err := uc.requireAdmin(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return domain.Invalid("invalid product ID")
	}
	if err := uc.service.DeleteProduct(ctx, id); err != nil {
		uc.log.Errorf("Admin: Failed to delete product %s: %v", id, err)
		return err
	}
	uc.log.Infof("Admin: Product %s deleted", id)
	return nil
}

func validateProductInput(in domain.ProductInput) error {
	if in.Name == "" || in.Category == "" || len(in.Images) == 0 {
		return domain.Invalid("Please fill all required fields")
	}
	if in.Price <= 0 {
		return domain.Invalid("product price must be positive")
	}
	if in.CountInStock < 0 {
		return domain.Invalid("product stock cannot be negative")
	}
	return nil
}
