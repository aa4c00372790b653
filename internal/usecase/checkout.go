package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

const DeliveryFee = 300.0

// Counties the store delivers to.
var Counties = []string{
	"Nairobi", "Mombasa", "Kisumu", "Nakuru", "Kiambu", "Machakos",
	"Uasin Gishu", "Nyeri", "Kakamega", "Kisii", "Laikipia", "Embu",
	"Kericho", "Meru", "Bungoma", "Kilifi", "Nandi", "Busia",
	"Trans Nzoia", "Migori", "Siaya", "Garissa", "Narok",
}

const PaymentCash = "cash"

type Quote struct {
	Lines       []domain.CartLine `json:"items"`
	Subtotal    float64           `json:"subtotal"`
	DeliveryFee float64           `json:"deliveryFee"`
	Total       float64           `json:"total"`
}

type CheckoutInput struct {
	County        string `json:"county"`
	Town          string `json:"town"`
	PaymentMethod string `json:"paymentMethod"`
}

type Checkout struct {
	auth   *AuthState
	cart   *CartState
	orders domain.OrderService
	log    *logrus.Logger
}

func NewCheckout(auth *AuthState, cart *CartState, orders domain.OrderService, logger *logrus.Logger) *Checkout {
	return &Checkout{auth: auth, cart: cart, orders: orders, log: logger}
}

func (uc *Checkout) Quote() Quote {
	snap := uc.cart.Snapshot()
	return Quote{
		Lines:       snap.Lines,
		Subtotal:    snap.Total,
		DeliveryFee: DeliveryFee,
		Total:       snap.Total + DeliveryFee,
	}
}

// PlaceOrder submits a cash-on-delivery order for the current cart and
// clears the cart once the order service accepts it.
func (uc *Checkout) PlaceOrder(ctx context.Context, in CheckoutInput) (*domain.Order, error) {
	identity := uc.auth.Current()
	if identity == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if uc.cart.IsEmpty() {
		return nil, domain.Invalid("Your cart is empty.")
	}

	county := strings.TrimSpace(in.County)
	town := strings.TrimSpace(in.Town)
	if county == "" || town == "" {
		return nil, domain.Invalid("Please provide your delivery location.")
	}
	if !isKnownCounty(county) {
		return nil, domain.Invalid("Please select a valid county.")
	}

	method := strings.ToLower(strings.TrimSpace(in.PaymentMethod))
	if method == "" {
		method = PaymentCash
	}
	if method != PaymentCash {
		return nil, domain.Invalid("Only Cash on Delivery is available right now.")
	}

	key := uuid.NewString()
	uc.log.Infof("Checkout: Placing order for user %s (%s, %s), idempotency key %s", identity.ID, county, town, key)
	order, err := uc.orders.Place(ctx, domain.PlaceOrderRequest{
		County:            county,
		Town:              town,
		PaymentMethod:     domain.PaymentCOD,
		Notes:             "Cash on delivery",
		SmsUpdatesEnabled: true,
	}, key)
	if err != nil {
		uc.log.Errorf("Checkout: Failed to place order for user %s: %v", identity.ID, err)
		return nil, err
	}

	uc.cart.Clear()
	uc.log.Infof("Checkout: Order %s placed for user %s", order.ID, identity.ID)
	return order, nil
}

func (uc *Checkout) MyOrders(ctx context.Context) ([]domain.Order, error) {
	if !uc.auth.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	orders, err := uc.orders.Mine(ctx)
	if err != nil {
		uc.log.Errorf("Checkout: Failed to load orders: %v", err)
		return nil, err
	}
	return orders, nil
}

func isKnownCounty(county string) bool {
	for _, c := range Counties {
		if strings.EqualFold(c, county) {
			return true
		}
	}
	return false
}
