package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/middleware"
	"storefront/internal/usecase"
)

type Handlers struct {
	Session  *SessionHandler
	AgeGate  *AgeGateHandler
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Admin    *AdminHandler
}

// Session is what the router needs to know about the current visitor.
type Session interface {
	middleware.ViewerSource
	middleware.AgeVerifier
}

type session struct {
	middleware.ViewerSource
	middleware.AgeVerifier
}

func NewSession(viewer middleware.ViewerSource, age middleware.AgeVerifier) Session {
	return session{ViewerSource: viewer, AgeVerifier: age}
}

const healthPath = "/health"

func NewRouter(h Handlers, sess Session, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))

	router.GET(healthPath, func(c *gin.Context) {
		viewer := sess.Viewer()
		SuccessResponse(c, http.StatusOK, "OK", gin.H{"ready": viewer != usecase.ViewerLoading})
	})
	router.GET(middleware.AgeGatePath, h.AgeGate.Status)
	router.POST(middleware.AgeGatePath, h.AgeGate.Verify)

	guard := func(access usecase.Access) gin.HandlerFunc {
		return middleware.Guard(sess, access, logger)
	}

	gated := router.Group("/")
	gated.Use(middleware.AgeGate(sess, logger, healthPath, middleware.AgeGatePath))
	{
		auth := gated.Group("/auth")
		auth.GET("/me", h.Session.Me)
		auth.POST("/logout", h.Session.Logout)
		auth.POST("/login", guard(usecase.AccessGuestOnly), h.Session.Login)
		auth.POST("/register", guard(usecase.AccessGuestOnly), h.Session.Register)
		auth.POST("/forgot-password", guard(usecase.AccessGuestOnly), h.Session.ForgotPassword)
		auth.POST("/reset-password/:token", guard(usecase.AccessGuestOnly), h.Session.ResetPassword)
		auth.PUT("/profile", guard(usecase.AccessCustomer), h.Session.UpdateProfile)
		auth.DELETE("/account", guard(usecase.AccessCustomer), h.Session.DeleteAccount)

		gated.GET("/products", h.Catalog.ListProducts)
		gated.GET("/products/:id", h.Catalog.GetProduct)

		gated.GET("/cart/badge", h.Cart.Badge)
		gated.GET("/cart", guard(usecase.AccessCustomer), h.Cart.GetCart)
		gated.POST("/cart/resync", guard(usecase.AccessCustomer), h.Cart.Resync)
		items := gated.Group("/cart", guard(usecase.AccessShopper))
		{
			items.POST("/items", h.Cart.AddItem)
			items.PUT("/items/:id", h.Cart.UpdateQuantity)
			items.DELETE("/items/:id", h.Cart.RemoveItem)
			items.DELETE("", h.Cart.Clear)
		}

		customer := gated.Group("/", guard(usecase.AccessCustomer))
		customer.GET("/checkout", h.Checkout.Quote)
		customer.POST("/checkout", h.Checkout.PlaceOrder)
		customer.GET("/orders/mine", h.Checkout.MyOrders)

		admin := gated.Group("/admin", guard(usecase.AccessAdmin))
		{
			admin.GET("/dashboard", h.Admin.Dashboard)
			admin.GET("/orders", h.Admin.ListOrders)
			admin.PUT("/orders/:id/status", h.Admin.UpdateOrderStatus)
			admin.GET("/products", h.Admin.ListProducts)
			admin.POST("/products", h.Admin.CreateProduct)
			admin.PUT("/products/:id", h.Admin.UpdateProduct)
			admin.DELETE("/products/:id", h.Admin.DeleteProduct)
		}
	}

	return router
}
