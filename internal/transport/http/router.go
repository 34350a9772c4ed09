package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shoporbit/storefront/internal/handlers"
	authmw "github.com/shoporbit/storefront/internal/middleware/auth"
)

type Deps struct {
	DB              *gorm.DB
	Auth            *authmw.Middleware
	AuthHandler     *handlers.AuthHandler
	CategoryHandler *handlers.CategoryHandler
	ProductHandler  *handlers.ProductHandler
	PaymentHandler  *handlers.PaymentHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")
	signedIn := d.Auth.RequireSignIn
	admin := d.Auth.AdminOnly

	auth := v1.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/forgot-password", d.AuthHandler.ForgotPassword)
	auth.GET("/test", d.AuthHandler.Test, signedIn, admin)
	auth.GET("/user-auth", d.AuthHandler.Probe, signedIn)
	auth.GET("/admin-auth", d.AuthHandler.Probe, signedIn, admin)
	auth.PUT("/profile", d.AuthHandler.UpdateProfile, signedIn)
	auth.GET("/orders", d.AuthHandler.GetOrders, signedIn)
	auth.GET("/all-orders", d.AuthHandler.GetAllOrders, signedIn, admin)
	auth.PUT("/order-status/:orderId", d.AuthHandler.UpdateOrderStatus, signedIn, admin)

	category := v1.Group("/category")
	category.POST("/create-category", d.CategoryHandler.Create, signedIn, admin)
	category.PUT("/update-category/:id", d.CategoryHandler.Update, signedIn, admin)
	category.GET("/get-categories", d.CategoryHandler.List)
	category.GET("/single-category/:slug", d.CategoryHandler.Single)
	category.DELETE("/delete-category/:id", d.CategoryHandler.Delete, signedIn, admin)

	product := v1.Group("/product")
	product.POST("/create-product", d.ProductHandler.Create, signedIn, admin)
	product.PUT("/update-product/:pid", d.ProductHandler.Update, signedIn, admin)
	product.DELETE("/delete-product/:pid", d.ProductHandler.Delete, signedIn, admin)
	product.GET("/get-products", d.ProductHandler.GetProducts)
	product.GET("/get-product/:slug", d.ProductHandler.GetProduct)
	product.GET("/product-photo/:pid", d.ProductHandler.Photo)
	product.GET("/product-list/:page", d.ProductHandler.List)
	product.GET("/product-count", d.ProductHandler.Count)
	product.GET("/search/:keyword", d.ProductHandler.Search)
	product.POST("/product-filters", d.ProductHandler.Filters)
	product.GET("/related-product/:pid/:cid", d.ProductHandler.Related)
	product.GET("/product-category/:slug", d.ProductHandler.ByCategory)
	product.GET("/braintree/token", d.PaymentHandler.Token)
	product.POST("/braintree/payment", d.PaymentHandler.Payment, signedIn)
}
