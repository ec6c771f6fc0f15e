package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Product *ProductHandler
	Order   *OrderHandler
	Cart    *CartHandler
	Catalog *CatalogHandler
}

// RegisterRoutes mounts the storefront API under /api/v1. Routes under
// /api/v1/admin run behind adminGuard.
func RegisterRoutes(router *gin.Engine, h Handlers, adminGuard gin.HandlerFunc) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		v1.GET("/products", h.Product.ListProducts)
		v1.GET("/products/:id", h.Product.GetProduct)
		v1.GET("/products/:id/options", h.Product.GetOptions)
		v1.GET("/products/:id/related", h.Product.GetRelated)

		v1.GET("/categories", h.Catalog.ListCategories)
		v1.GET("/sizes", h.Catalog.ListSizes)
		v1.GET("/contact", h.Catalog.GetContact)

		v1.GET("/cart", h.Cart.GetCart)
		v1.POST("/cart/items", h.Cart.AddItem)
		v1.POST("/cart/items/increment", h.Cart.IncrementItem)
		v1.POST("/cart/items/decrement", h.Cart.DecrementItem)
		v1.DELETE("/cart/items", h.Cart.RemoveItem)

		v1.POST("/checkout", h.Order.Checkout)
	}

	admin := v1.Group("/admin", adminGuard)
	{
		admin.POST("/products", h.Product.CreateProduct)
		admin.PUT("/products/:id", h.Product.UpdateProduct)
		admin.DELETE("/products/:id", h.Product.DeleteProduct)
		admin.POST("/products/:id/reconcile", h.Product.ReconcileStock)
		admin.POST("/images", h.Product.UploadImage)
		admin.GET("/form-options", h.Catalog.FormOptions)

		admin.GET("/orders", h.Order.ListOrders)
		admin.GET("/orders/:id", h.Order.GetOrder)
		admin.PATCH("/orders/:id/status", h.Order.UpdateStatus)
		admin.DELETE("/orders/:id", h.Order.DeleteOrder)

		admin.POST("/categories", h.Catalog.CreateCategory)
		admin.DELETE("/categories/:id", h.Catalog.DeleteCategory)
		admin.POST("/sizes", h.Catalog.CreateSize)
		admin.DELETE("/sizes/:id", h.Catalog.DeleteSize)
		admin.PUT("/contact", h.Catalog.SaveContact)
	}
}
