package routes

import (
	"vibecart/internal/handler/api"
)

// APIDeps contains the handlers behind the JSON storefront API.
type APIDeps struct {
	ProductHandler  *api.ProductHandler
	CartHandler     *api.CartHandler
	CheckoutHandler *api.CheckoutHandler
	OrderHandler    *api.OrderHandler
	HealthHandler   *api.HealthHandler
}
