package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/usecase"
)

type CartHandler struct {
	cart    *usecase.CartState
	catalog *usecase.Catalog
	log     *logrus.Logger
}

func NewCartHandler(cart *usecase.CartState, catalog *usecase.Catalog, logger *logrus.Logger) *CartHandler {
	return &CartHandler{cart: cart, catalog: catalog, log: logger}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Cart retrieved successfully", h.cart.Snapshot())
}

// Badge is the item count shown on the navigation bar.
func (h *CartHandler) Badge(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Cart item count", gin.H{"itemCount": h.cart.ItemCount()})
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: productId is required")
		return
	}
	product, err := h.catalog.Get(c.Request.Context(), req.ProductID)
	if err != nil {
		failWith(c, err, "Product not found")
		return
	}
	if err := h.cart.AddItem(*product); err != nil {
		failWith(c, err, "Failed to add item to cart")
		return
	}
	h.log.Infof("Handler: Added product %s to cart", product.ID)
	SuccessResponse(c, http.StatusOK, product.Name+" added to cart", h.cart.Snapshot())
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: quantity is required")
		return
	}
	h.cart.UpdateQuantity(c.Param("id"), *req.Quantity)
	SuccessResponse(c, http.StatusOK, "Cart updated", h.cart.Snapshot())
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.cart.RemoveItem(c.Param("id"))
	SuccessResponse(c, http.StatusOK, "Item removed from cart", h.cart.Snapshot())
}

func (h *CartHandler) Clear(c *gin.Context) {
	h.cart.Clear()
	SuccessResponse(c, http.StatusOK, "Cart cleared", h.cart.Snapshot())
}

func (h *CartHandler) Resync(c *gin.Context) {
	if err := h.cart.Resync(c.Request.Context()); err != nil {
		failWith(c, err, "Failed to load cart")
		return
	}
	SuccessResponse(c, http.StatusOK, "Cart synchronized", h.cart.Snapshot())
}
