package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/usecase"
)

type CheckoutHandler struct {
	checkout *usecase.Checkout
	log      *logrus.Logger
}

func NewCheckoutHandler(checkout *usecase.Checkout, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, log: logger}
}

func (h *CheckoutHandler) Quote(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Checkout summary", gin.H{
		"quote":    h.checkout.Quote(),
		"counties": usecase.Counties,
	})
}

func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var in usecase.CheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	order, err := h.checkout.PlaceOrder(c.Request.Context(), in)
	if err != nil {
		failWith(c, err, "Failed to place order.")
		return
	}
	SuccessResponse(c, http.StatusCreated, "Order placed successfully", order)
}

func (h *CheckoutHandler) MyOrders(c *gin.Context) {
	orders, err := h.checkout.MyOrders(c.Request.Context())
	if err != nil {
		failWith(c, err, "Failed to load orders")
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}
