package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level observability.
type BusinessMetrics struct {
	// Cart
	CartItemsAdded  prometheus.Counter
	CartItemRemoved prometheus.Counter

	// Checkout funnel
	OrdersCreated    prometheus.Counter
	OrderValue       prometheus.Histogram
	OrderItemCount   prometheus.Histogram
	CheckoutFailures *prometheus.CounterVec

	// Order lifecycle
	OrderStatusUpdates *prometheus.CounterVec
	OrdersDeleted      prometheus.Counter
}

// NewBusinessMetrics creates and registers all business metrics
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "vibecart"
	}

	subsystem := "business"

	return &BusinessMetrics{
		CartItemsAdded: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_items_added_total",
				Help:      "Total add to cart actions",
			},
		),
		CartItemRemoved: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_items_removed_total",
				Help:      "Total cart line removals",
			},
		),
		OrdersCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_created_total",
				Help:      "Total orders placed through checkout",
			},
		),
		OrderValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value_dollars",
				Help:      "Order totals in dollars",
				Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000},
			},
		),
		OrderItemCount: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_item_count",
				Help:      "Number of line items per order",
				Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
			},
		),
		CheckoutFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_failures_total",
				Help:      "Checkout attempts rejected before an order was placed",
			},
			[]string{"reason"}, // validation, empty_cart, out_of_stock, conflict, internal
		),
		OrderStatusUpdates: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_status_updates_total",
				Help:      "Order status transitions by target status",
			},
			[]string{"status"},
		),
		OrdersDeleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_deleted_total",
				Help:      "Orders removed from the ledger",
			},
		),
	}
}
