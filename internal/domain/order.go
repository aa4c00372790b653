package domain

import (
	"context"
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusDispatched OrderStatus = "DISPATCHED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentMpesa  PaymentMethod = "MPESA"
	PaymentStripe PaymentMethod = "STRIPE"
)

type OrderItem struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID             string        `json:"_id"`
	Items          []OrderItem   `json:"orderItems"`
	County         string        `json:"county"`
	Town           string        `json:"town"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	DeliveryStatus OrderStatus   `json:"deliveryStatus"`
	TotalPrice     float64       `json:"totalPrice"`
	Notes          string        `json:"notes,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

type PlaceOrderRequest struct {
	County            string        `json:"county"`
	Town              string        `json:"town"`
	PaymentMethod     PaymentMethod `json:"paymentMethod"`
	Notes             string        `json:"notes"`
	SmsUpdatesEnabled bool          `json:"smsUpdatesEnabled"`
}

func IsValidStatus(status OrderStatus) bool {
	switch status {
	case StatusPending, StatusDispatched, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

type OrderService interface {
	Place(ctx context.Context, req PlaceOrderRequest, idempotencyKey string) (*Order, error)
	Mine(ctx context.Context) ([]Order, error)
}
