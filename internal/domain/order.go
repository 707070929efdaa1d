package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// OrderStatus is the lifecycle state of an order.
// The mock checkout flow commits orders directly as StatusCompleted,
// bypassing the pending/processing path.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusCompleted  OrderStatus = "completed"
)

// OrderStatuses lists every valid order status, in lifecycle order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		StatusPending, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusCompleted,
	}
}

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// CountsAsRevenue reports whether orders in this status contribute to
// total revenue (completed and delivered only).
func (s OrderStatus) CountsAsRevenue() bool {
	return s == StatusCompleted || s == StatusDelivered
}

// PaymentStatus records the mock payment outcome. No gateway is called;
// checkout records StatusPaid directly.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Valid reports whether p is one of the known payment statuses.
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// DefaultCountry is applied to addresses that omit a country.
const DefaultCountry = "United States"

// Address is a postal address attached to a customer or shipment.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// Normalize fills in defaults for an address.
func (a *Address) Normalize() {
	if a.Country == "" {
		a.Country = DefaultCountry
	}
}

// CustomerInfo identifies the person placing an order. Name and email are
// required; email is stored lowercased.
type CustomerInfo struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone,omitempty"`
	Address Address `json:"address"`
}

// emailPattern accepts addr-spec shapes of the form local@domain.tld with
// no whitespace. Deliberately loose; real deliverability is not checked.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

const (
	// MaxCustomerNameLen bounds the customer name field.
	MaxCustomerNameLen = 100

	// MaxNotesLen bounds the free-form order notes field.
	MaxNotesLen = 500
)

// Normalize trims the name, lowercases the email and applies address
// defaults. Called once at commit time.
func (c *CustomerInfo) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address.Normalize()
}

// OrderItem is an immutable snapshot of a purchased line: the price the
// customer saw in the cart plus the catalog name and image current at
// commit time. Once written it survives any later catalog change.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
}

// DefaultPaymentMethod is recorded on every order; there is no gateway.
const DefaultPaymentMethod = "mock_payment"

// Order is the immutable committed record of a completed checkout.
// The field names below are a durable contract shared with reporting,
// receipts and support tooling.
type Order struct {
	ID              string        `json:"id"`
	OrderNumber     string        `json:"orderNumber"`
	CustomerInfo    CustomerInfo  `json:"customerInfo"`
	Items           []OrderItem   `json:"items"`
	Total           float64       `json:"total"`
	Subtotal        float64       `json:"subtotal"`
	Tax             float64       `json:"tax"`
	Shipping        float64       `json:"shipping"`
	OrderDate       time.Time     `json:"orderDate"`
	Status          OrderStatus   `json:"status"`
	ShippingAddress Address       `json:"shippingAddress"`
	PaymentMethod   string        `json:"paymentMethod"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	Notes           string        `json:"notes,omitempty"`
	ShippedDate     *time.Time    `json:"shippedDate,omitempty"`
	DeliveredDate   *time.Time    `json:"deliveredDate,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// OrderNumberPrefix is the fixed store code prepended to every order number.
const OrderNumberPrefix = "VC-"

// FormatOrderNumber derives the human-readable order number from the
// order's internal identity: the last six characters of the canonical ID,
// uppercased, behind the store code. Deterministic given the identity;
// uniqueness is bounded by the ID generator's own guarantee. Assigned
// exactly once at first persistence and never regenerated.
func FormatOrderNumber(id string) string {
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return OrderNumberPrefix + strings.ToUpper(id)
}

// EstimatedDeliveryWindow is the promised delivery lead time on receipts.
const EstimatedDeliveryWindow = 7 * 24 * time.Hour

// EstimatedDelivery returns the projected delivery date, seven days from
// the order date.
func (o *Order) EstimatedDelivery() time.Time {
	return o.OrderDate.Add(EstimatedDeliveryWindow)
}

// ApplyStatus sets the order status and stamps milestone dates: entering
// shipped or delivered records the corresponding timestamp if it has not
// been recorded already. Transitions are not validated against a
// predecessor whitelist; any status may follow any other.
func (o *Order) ApplyStatus(status OrderStatus, now time.Time) {
	o.Status = status
	if status == StatusShipped && o.ShippedDate == nil {
		t := now
		o.ShippedDate = &t
	}
	if status == StatusDelivered && o.DeliveredDate == nil {
		t := now
		o.DeliveredDate = &t
	}
	o.UpdatedAt = now
}

// Validate checks the order record invariants the way the persisted schema
// would, aggregating every field failure into one ValidationError.
func (o *Order) Validate() error {
	var err error

	if o.CustomerInfo.Name == "" {
		err = AddFieldError(err, "customerInfo.name", "Customer name is required")
	} else if len(o.CustomerInfo.Name) > MaxCustomerNameLen {
		err = AddFieldError(err, "customerInfo.name",
			fmt.Sprintf("Name cannot be more than %d characters", MaxCustomerNameLen))
	}

	if o.CustomerInfo.Email == "" {
		err = AddFieldError(err, "customerInfo.email", "Customer email is required")
	} else if !ValidEmail(o.CustomerInfo.Email) {
		err = AddFieldError(err, "customerInfo.email", "Please enter a valid email")
	}

	if o.Total < 0 {
		err = AddFieldError(err, "total", "Total cannot be negative")
	}

	if !o.Status.Valid() {
		err = AddFieldError(err, "status", "Status must be one of: "+JoinStatuses())
	}

	if !o.PaymentStatus.Valid() {
		err = AddFieldError(err, "paymentStatus", "Invalid payment status")
	}

	if len(o.Notes) > MaxNotesLen {
		err = AddFieldError(err, "notes",
			fmt.Sprintf("Notes cannot be more than %d characters", MaxNotesLen))
	}

	for i, item := range o.Items {
		if item.Quantity < 1 {
			err = AddFieldError(err, fmt.Sprintf("items[%d].quantity", i), "Quantity must be at least 1")
		}
		if item.Price < 0 {
			err = AddFieldError(err, fmt.Sprintf("items[%d].price", i), "Price cannot be negative")
		}
		if item.ProductID == "" {
			err = AddFieldError(err, fmt.Sprintf("items[%d].productId", i), "Product reference is required")
		}
	}

	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ve.Op = "order.validate"
		}
		return err
	}
	return nil
}

// JoinStatuses renders the valid order statuses as a comma-separated list
// for error messages.
func JoinStatuses() string {
	statuses := OrderStatuses()
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// OrderSummary is the condensed view of an order used in listings and
// event payloads.
type OrderSummary struct {
	OrderNumber string      `json:"orderNumber"`
	Total       float64     `json:"total"`
	Status      OrderStatus `json:"status"`
	ItemCount   int         `json:"itemCount"`
	OrderDate   time.Time   `json:"orderDate"`
}

// Summary condenses the order for listings and events.
func (o *Order) Summary() OrderSummary {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return OrderSummary{
		OrderNumber: o.OrderNumber,
		Total:       o.Total,
		Status:      o.Status,
		ItemCount:   n,
		OrderDate:   o.OrderDate,
	}
}

// Receipt is the read-only projection of an order returned to the caller
// immediately after checkout.
type Receipt struct {
	OrderID           string       `json:"orderId"`
	OrderNumber       string       `json:"orderNumber"`
	CustomerInfo      CustomerInfo `json:"customerInfo"`
	Items             []OrderItem  `json:"items"`
	Total             float64      `json:"total"`
	Subtotal          float64      `json:"subtotal"`
	OrderDate         time.Time    `json:"orderDate"`
	EstimatedDelivery time.Time    `json:"estimatedDelivery"`
	Status            OrderStatus  `json:"status"`
	ShippingAddress   Address      `json:"shippingAddress"`
	Timestamp         time.Time    `json:"timestamp"`
}

// NewReceipt projects an order into its checkout receipt.
func NewReceipt(o *Order, now time.Time) *Receipt {
	return &Receipt{
		OrderID:           o.ID,
		OrderNumber:       o.OrderNumber,
		CustomerInfo:      o.CustomerInfo,
		Items:             o.Items,
		Total:             o.Total,
		Subtotal:          o.Subtotal,
		OrderDate:         o.OrderDate,
		EstimatedDelivery: o.EstimatedDelivery(),
		Status:            o.Status,
		ShippingAddress:   o.ShippingAddress,
		Timestamp:         now,
	}
}
