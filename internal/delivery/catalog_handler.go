package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/usecase"
)

type CatalogHandler struct {
	catalog *usecase.Catalog
	log     *logrus.Logger
}

func NewCatalogHandler(catalog *usecase.Catalog, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: logger}
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	result, err := h.catalog.List(c.Request.Context(), page, c.Query("search"))
	if err != nil {
		failWith(c, err, "Failed to load products")
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", gin.H{
		"products":   result.Products,
		"page":       page,
		"totalPages": result.TotalPages,
	})
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWith(c, err, "Product not found")
		return
	}
	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}
