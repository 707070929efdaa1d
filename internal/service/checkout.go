package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"vibecart/internal/catalog"
	"vibecart/internal/domain"
	"vibecart/internal/events"
)

// CheckoutInput carries what the customer submits at checkout. Everything
// rides inside the customerInfo block: identity, the customer's own
// address, the shipping address and free-form order notes.
type CheckoutInput struct {
	CustomerInfo CheckoutCustomer `json:"customerInfo"`
}

// CheckoutCustomer is the customerInfo block of a checkout request.
type CheckoutCustomer struct {
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone"`
	Address         domain.Address `json:"address"`
	ShippingAddress domain.Address `json:"shippingAddress"`
	Notes           string         `json:"notes"`
}

// CheckoutService converts a cart into a placed order and issues receipts.
type CheckoutService interface {
	Checkout(ctx context.Context, userID string, input CheckoutInput) (*domain.Receipt, error)
	GetReceipt(ctx context.Context, orderID string) (*domain.Receipt, error)
}

type checkoutService struct {
	carts     CartStore
	orders    OrderStore
	catalog   catalog.Lookup
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewCheckoutService creates a new CheckoutService instance.
func NewCheckoutService(carts CartStore, orders OrderStore, catalog catalog.Lookup, publisher events.Publisher, logger *slog.Logger) CheckoutService {
	return &checkoutService{
		carts:     carts,
		orders:    orders,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Checkout places an order from the user's cart. Either the order is
// written and the cart emptied, or neither happens: the order insert and
// the cart reset share one transaction, and a cart modified concurrently
// aborts the whole attempt.
func (s *checkoutService) Checkout(ctx context.Context, userID string, input CheckoutInput) (*domain.Receipt, error) {
	info := domain.CustomerInfo{
		Name:    input.CustomerInfo.Name,
		Email:   input.CustomerInfo.Email,
		Phone:   input.CustomerInfo.Phone,
		Address: input.CustomerInfo.Address,
	}
	if err := validateCustomerInfo(&info); err != nil {
		return nil, err
	}
	shipping := input.CustomerInfo.ShippingAddress
	shipping.Normalize()

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	items, err := s.buildItems(ctx, cart)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &domain.Order{
		ID:              uuid.NewString(),
		CustomerInfo:    info,
		Items:           items,
		Total:           cart.Total,
		Subtotal:        cart.Total,
		OrderDate:       now,
		Status:          domain.StatusCompleted,
		ShippingAddress: shipping,
		PaymentMethod:   domain.DefaultPaymentMethod,
		PaymentStatus:   domain.PaymentPaid,
		Notes:           input.CustomerInfo.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	order.OrderNumber = domain.FormatOrderNumber(order.ID)

	if err := order.Validate(); err != nil {
		return nil, err
	}

	if err := s.orders.Create(ctx, order, cart); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.NewOrderCreated(order)); err != nil {
		s.logger.Error("failed to publish order created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()))
	}

	s.logger.Info("order placed",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.Float64("total", order.Total))

	return domain.NewReceipt(order, s.now()), nil
}

// GetReceipt rebuilds the receipt for an already placed order.
func (s *checkoutService) GetReceipt(ctx context.Context, orderID string) (*domain.Receipt, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return domain.NewReceipt(order, s.now()), nil
}

// buildItems turns cart lines into order lines. Each product is re-checked
// against the catalog: anything missing or out of stock fails the whole
// checkout. Names and images come from the catalog's current state while
// prices stay as captured in the cart.
func (s *checkoutService) buildItems(ctx context.Context, cart *domain.Cart) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		name, image := line.Name, line.Image

		product, err := s.catalog.Get(ctx, line.ProductID)
		switch {
		case err == nil:
			if !product.InStock {
				return nil, domain.Errorf(domain.EINVALID, "checkout", "Product %q is out of stock", product.Name)
			}
			name, image = product.Name, product.Image
		case domain.IsCode(err, domain.ENOTFOUND):
			return nil, domain.Errorf(domain.EINVALID, "checkout", "Product %q is no longer available", name)
		default:
			return nil, fmt.Errorf("failed to get product %s: %w", line.ProductID, err)
		}

		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Name:      name,
			Image:     image,
		})
	}
	return items, nil
}

func validateCustomerInfo(info *domain.CustomerInfo) error {
	info.Normalize()

	var err error
	if info.Name == "" {
		err = domain.AddFieldError(err, "name", "Name is required")
	} else if len(info.Name) > domain.MaxCustomerNameLen {
		err = domain.AddFieldError(err, "name",
			fmt.Sprintf("Name must be %d characters or less", domain.MaxCustomerNameLen))
	}
	if info.Email == "" {
		err = domain.AddFieldError(err, "email", "Email is required")
	} else if !domain.ValidEmail(info.Email) {
		err = domain.AddFieldError(err, "email", "Email format is invalid")
	}

	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			ve.Op = "checkout"
		}
		return err
	}
	return nil
}
