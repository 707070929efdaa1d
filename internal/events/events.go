// Package events defines the storefront's outbound event contract and the
// publishers that carry it. Events are versioned envelopes keyed by order
// ID so all events for one order stay in arrival order.
package events

import (
	"time"

	"github.com/google/uuid"

	"vibecart/internal/domain"
)

// Event types carried on the order stream.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

const producerName = "vibecart"

// Envelope is the wire format shared by every published event.
type Envelope struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	EventVersion  string    `json:"event_version"`
	OccurredAt    time.Time `json:"occurred_at"`
	Producer      string    `json:"producer"`
	CorrelationID string    `json:"correlation_id"`
	Key           string    `json:"-"`
	Payload       any       `json:"payload"`
}

// OrderCreatedPayload describes a newly placed order.
type OrderCreatedPayload struct {
	OrderID     string             `json:"orderId"`
	OrderNumber string             `json:"orderNumber"`
	Email       string             `json:"email"`
	Total       float64            `json:"total"`
	Status      domain.OrderStatus `json:"status"`
	ItemCount   int                `json:"itemCount"`
}

// OrderStatusChangedPayload describes an order moving between statuses.
type OrderStatusChangedPayload struct {
	OrderID     string             `json:"orderId"`
	OrderNumber string             `json:"orderNumber"`
	OldStatus   domain.OrderStatus `json:"oldStatus"`
	NewStatus   domain.OrderStatus `json:"newStatus"`
}

// NewOrderCreated builds the envelope published when checkout completes.
func NewOrderCreated(order *domain.Order) Envelope {
	return newEnvelope(EventOrderCreated, order.ID, OrderCreatedPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Email:       order.CustomerInfo.Email,
		Total:       order.Total,
		Status:      order.Status,
		ItemCount:   len(order.Items),
	})
}

// NewOrderStatusChanged builds the envelope published on a status update.
func NewOrderStatusChanged(order *domain.Order, oldStatus domain.OrderStatus) Envelope {
	return newEnvelope(EventOrderStatusChanged, order.ID, OrderStatusChangedPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		OldStatus:   oldStatus,
		NewStatus:   order.Status,
	})
}

func newEnvelope(eventType, key string, payload any) Envelope {
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  "1.0",
		OccurredAt:    time.Now().UTC(),
		Producer:      producerName,
		CorrelationID: uuid.NewString(),
		Key:           key,
		Payload:       payload,
	}
}
