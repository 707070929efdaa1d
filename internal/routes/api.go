package routes

import (
	"vibecart/internal/router"
)

// RegisterAPIRoutes registers the storefront JSON API.
// Literal segments (stats, email) are registered alongside {id} patterns;
// ServeMux prefers the more specific route.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	// Catalog
	r.Get("/api/products", deps.ProductHandler.List)
	r.Get("/api/products/{id}", deps.ProductHandler.Get)

	// Shopping cart
	r.Get("/api/cart", deps.CartHandler.Get)
	r.Post("/api/cart/items", deps.CartHandler.AddItem)
	r.Put("/api/cart/items/{productId}", deps.CartHandler.UpdateItem)
	r.Delete("/api/cart/items/{productId}", deps.CartHandler.RemoveItem)
	r.Delete("/api/cart", deps.CartHandler.Clear)

	// Checkout
	r.Post("/api/checkout", deps.CheckoutHandler.Checkout)
	r.Get("/api/checkout/receipt/{orderId}", deps.CheckoutHandler.GetReceipt)

	// Orders
	r.Get("/api/orders", deps.OrderHandler.List)
	r.Get("/api/orders/stats", deps.OrderHandler.Stats)
	r.Get("/api/orders/email/{email}", deps.OrderHandler.ListByEmail)
	r.Get("/api/orders/{id}", deps.OrderHandler.Get)
	r.Put("/api/orders/{id}/status", deps.OrderHandler.UpdateStatus)
	r.Delete("/api/orders/{id}", deps.OrderHandler.Delete)

	// Probes
	r.Get("/healthz", deps.HealthHandler.Healthz)
}
