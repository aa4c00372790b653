package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	"storefront/internal/usecase"
)

type AdminHandler struct {
	admin *usecase.Admin
	log   *logrus.Logger
}

func NewAdminHandler(admin *usecase.Admin, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, log: logger}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.admin.Dashboard(c.Request.Context())
	if err != nil {
		failWith(c, err, "Failed to load dashboard statistics")
		return
	}
	SuccessResponse(c, http.StatusOK, "Dashboard statistics retrieved", stats)
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	result, err := h.admin.ListOrders(c.Request.Context(), usecase.OrderListRequest{
		Status:  c.DefaultQuery("status", "All"),
		Payment: c.DefaultQuery("payment", "All"),
		Search:  c.Query("search"),
		Page:    page,
	})
	if err != nil {
		failWith(c, err, "Failed to load orders")
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", result)
}

func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := h.admin.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		failWith(c, err, "Failed to update order")
		return
	}
	SuccessResponse(c, http.StatusOK, "Order status updated", gin.H{"status": req.Status})
}

func (h *AdminHandler) ListProducts(c *gin.Context) {
	products, err := h.admin.ListProducts(c.Request.Context())
	if err != nil {
		failWith(c, err, "Failed to load products")
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	h.saveProduct(c, "", http.StatusCreated, "Product created successfully")
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	h.saveProduct(c, c.Param("id"), http.StatusOK, "Product updated successfully")
}

func (h *AdminHandler) saveProduct(c *gin.Context, id string, status int, message string) {
	var input domain.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.log.Warnf("Handler: Failed to bind product form: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	product, err := h.admin.SaveProduct(c.Request.Context(), id, input)
	if err != nil {
		failWith(c, err, "Failed to save product")
		return
	}
	SuccessResponse(c, status, message, product)
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	if err := h.admin.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		failWith(c, err, "Failed to delete product")
		return
	}
	SuccessResponse(c, http.StatusOK, "Product deleted", nil)
}
