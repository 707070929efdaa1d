package api

import (
	"net/http"
	"time"

	"vibecart/internal/domain"
	"vibecart/internal/handler"
	"vibecart/internal/service"
	"vibecart/internal/telemetry"
)

// OrderHandler handles order management and reporting routes
type OrderHandler struct {
	orderService service.OrderService
	statsService service.StatsService
	metrics      *telemetry.BusinessMetrics
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService service.OrderService, statsService service.StatsService, metrics *telemetry.BusinessMetrics) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		statsService: statsService,
		metrics:      metrics,
	}
}

// List handles GET /api/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := service.OrderListParams{
		Email:  q.Get("email"),
		Status: domain.OrderStatus(q.Get("status")),
		Page:   intQuery(q.Get("page")),
		Limit:  intQuery(q.Get("limit")),
	}
	if t, ok := dateQuery(q.Get("startDate")); ok {
		params.StartDate = &t
	}
	if t, ok := dateQuery(q.Get("endDate")); ok {
		params.EndDate = &t
	}

	page, err := h.orderService.List(r.Context(), params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, page)
}

// Get handles GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, order)
}

// ListByEmail handles GET /api/orders/email/{email}
func (h *OrderHandler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := h.orderService.ListByEmail(r.Context(), r.PathValue("email"),
		intQuery(q.Get("page")), intQuery(q.Get("limit")))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, page)
}

// UpdateStatus handles PUT /api/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("order.updateStatus", "Invalid request body"))
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), r.PathValue("id"), body.Status)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.metrics.OrderStatusUpdates.WithLabelValues(string(order.Status)).Inc()

	handler.WriteJSON(w, http.StatusOK, map[string]any{
		"id":           order.ID,
		"orderNumber":  order.OrderNumber,
		"status":       order.Status,
		"customerInfo": order.CustomerInfo,
		"total":        order.Total,
		"orderDate":    order.OrderDate,
	})
}

// Delete handles DELETE /api/orders/{id}
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.metrics.OrdersDeleted.Inc()

	handler.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Order deleted successfully",
		"order":   order.Summary(),
	})
}

// Stats handles GET /api/orders/stats
func (h *OrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Summary(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, stats)
}

func dateQuery(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
