package domain

import "context"

type PaymentBreakdown struct {
	Cash   float64 `json:"cash"`
	Mpesa  float64 `json:"mpesa"`
	Stripe float64 `json:"stripe"`
}

type DashboardStats struct {
	TotalOrders      int              `json:"totalOrders"`
	TotalRevenue     float64          `json:"totalRevenue"`
	TotalProducts    int              `json:"totalProducts"`
	PendingOrders    int              `json:"pendingOrders"`
	PaymentBreakdown PaymentBreakdown `json:"paymentBreakdown"`
}

// AdminOrderFilter uses backend enum values; empty fields are not sent.
type AdminOrderFilter struct {
	Page           int
	Limit          int
	DeliveryStatus OrderStatus
	PaymentMethod  PaymentMethod
	Search         string
}

type AdminOrderPage struct {
	Orders      []Order `json:"orders"`
	TotalOrders int     `json:"totalOrders"`
	TotalPages  int     `json:"totalPages"`
}

type AdminService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	ListOrders(ctx context.Context, filter AdminOrderFilter) (*AdminOrderPage, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) error
	ListProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, id string, input ProductInput) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}
