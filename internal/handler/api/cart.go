package api

import (
	"net/http"

	"vibecart/internal/domain"
	"vibecart/internal/handler"
	"vibecart/internal/service"
	"vibecart/internal/telemetry"
)

// CustomerIDHeader names the customer whose cart a request operates on.
// Absent the header, requests fall back to the configured default customer.
const CustomerIDHeader = "X-Customer-ID"

// CartHandler handles cart routes
type CartHandler struct {
	cartService       service.CartService
	metrics           *telemetry.BusinessMetrics
	defaultCustomerID string
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService service.CartService, metrics *telemetry.BusinessMetrics, defaultCustomerID string) *CartHandler {
	return &CartHandler{
		cartService:       cartService,
		metrics:           metrics,
		defaultCustomerID: defaultCustomerID,
	}
}

func (h *CartHandler) customerID(r *http.Request) string {
	if id := r.Header.Get(CustomerIDHeader); id != "" {
		return id
	}
	return h.defaultCustomerID
}

// Get handles GET /api/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartService.Get(r.Context(), h.customerID(r))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("cart.add", "Invalid request body"))
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	cart, err := h.cartService.AddItem(r.Context(), h.customerID(r), body.ProductID, body.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.metrics.CartItemsAdded.Inc()
	handler.WriteJSON(w, http.StatusOK, cart)
}

// UpdateItem handles PUT /api/cart/items/{productId}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity *int `json:"quantity"`
	}
	if err := handler.DecodeJSON(r, &body); err != nil || body.Quantity == nil {
		handler.ErrorResponse(w, r, service.ErrInvalidQuantity)
		return
	}

	cart, err := h.cartService.UpdateQuantity(r.Context(), h.customerID(r), r.PathValue("productId"), *body.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartService.RemoveItem(r.Context(), h.customerID(r), r.PathValue("productId"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.metrics.CartItemRemoved.Inc()
	handler.WriteJSON(w, http.StatusOK, cart)
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartService.Clear(r.Context(), h.customerID(r))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, cart)
}
