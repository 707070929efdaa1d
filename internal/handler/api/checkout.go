package api

import (
	"errors"
	"net/http"

	"vibecart/internal/domain"
	"vibecart/internal/handler"
	"vibecart/internal/service"
	"vibecart/internal/telemetry"
)

// CheckoutHandler handles checkout and receipt routes
type CheckoutHandler struct {
	checkoutService   service.CheckoutService
	metrics           *telemetry.BusinessMetrics
	defaultCustomerID string
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService service.CheckoutService, metrics *telemetry.BusinessMetrics, defaultCustomerID string) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService:   checkoutService,
		metrics:           metrics,
		defaultCustomerID: defaultCustomerID,
	}
}

func (h *CheckoutHandler) customerID(r *http.Request) string {
	if id := r.Header.Get(CustomerIDHeader); id != "" {
		return id
	}
	return h.defaultCustomerID
}

// Checkout handles POST /api/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var input service.CheckoutInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		h.metrics.CheckoutFailures.WithLabelValues("validation").Inc()
		handler.ErrorResponse(w, r, domain.Invalid("checkout", "Invalid request body"))
		return
	}

	receipt, err := h.checkoutService.Checkout(r.Context(), h.customerID(r), input)
	if err != nil {
		h.metrics.CheckoutFailures.WithLabelValues(checkoutFailureReason(err)).Inc()
		if domain.IsValidationError(err) {
			handler.ValidationErrorResponse(w, r, err)
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	h.metrics.OrdersCreated.Inc()
	h.metrics.OrderValue.Observe(receipt.Total)
	h.metrics.OrderItemCount.Observe(float64(len(receipt.Items)))

	handler.WriteJSON(w, http.StatusCreated, receipt)
}

// GetReceipt handles GET /api/checkout/receipt/{orderId}
func (h *CheckoutHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.checkoutService.GetReceipt(r.Context(), r.PathValue("orderId"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, receipt)
}

func checkoutFailureReason(err error) string {
	switch {
	case domain.IsValidationError(err):
		return "validation"
	case errors.Is(err, service.ErrEmptyCart):
		return "empty_cart"
	case domain.IsCode(err, domain.EINVALID):
		return "out_of_stock"
	case domain.IsCode(err, domain.ECONFLICT):
		return "conflict"
	default:
		return "internal"
	}
}
