package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vibecart/internal/domain"
	"vibecart/internal/events"
)

// OrderPage is one page of the order list with paging metadata.
type OrderPage struct {
	Orders      []domain.Order `json:"orders"`
	TotalOrders int            `json:"totalOrders"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
}

// OrderService provides business logic for managing placed orders.
type OrderService interface {
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	List(ctx context.Context, params OrderListParams) (*OrderPage, error)
	ListByEmail(ctx context.Context, email string, page, limit int) (*OrderPage, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, orderID string) (*domain.Order, error)
}

type orderService struct {
	orders    OrderStore
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewOrderService creates a new OrderService instance.
func NewOrderService(orders OrderStore, publisher events.Publisher, logger *slog.Logger) OrderService {
	return &orderService{
		orders:    orders,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Get retrieves a single order by ID.
func (s *orderService) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// List returns a page of orders matching the filters, newest first.
func (s *orderService) List(ctx context.Context, params OrderListParams) (*OrderPage, error) {
	if params.Status != "" && !params.Status.Valid() {
		return nil, domain.Errorf(domain.EINVALID, "order.list",
			"Invalid status. Valid statuses: %s", domain.JoinStatuses())
	}

	orders, total, err := s.orders.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	limit := params.Limit
	if limit < 1 {
		limit = 10
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	totalPages := (total + limit - 1) / limit

	return &OrderPage{
		Orders:      orders,
		TotalOrders: total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

// ListByEmail returns a page of orders placed under the given email,
// newest first. The match is case-insensitive and partial.
func (s *orderService) ListByEmail(ctx context.Context, email string, page, limit int) (*OrderPage, error) {
	if email == "" {
		return nil, domain.Errorf(domain.EINVALID, "order.listByEmail", "Email is required")
	}
	return s.List(ctx, OrderListParams{Email: email, Page: page, Limit: limit})
}

// UpdateStatus moves an order to a new status. Reaching shipped or
// delivered stamps the matching milestone date the first time only. Any
// valid status can follow any other.
func (s *orderService) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.Errorf(domain.EINVALID, "order.updateStatus",
			"Invalid status. Valid statuses: %s", domain.JoinStatuses())
	}

	before, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	oldStatus := before.Status

	order, err := s.orders.UpdateStatus(ctx, orderID, status, s.now())
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if oldStatus != order.Status {
		if err := s.publisher.Publish(ctx, events.NewOrderStatusChanged(order, oldStatus)); err != nil {
			s.logger.Error("failed to publish status changed event",
				slog.String("order_id", order.ID),
				slog.String("error", err.Error()))
		}
	}

	s.logger.Info("order status updated",
		slog.String("order_id", order.ID),
		slog.String("old_status", string(oldStatus)),
		slog.String("new_status", string(order.Status)))

	return order, nil
}

// Delete removes an order permanently and returns the removed order.
func (s *orderService) Delete(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.Delete(ctx, orderID)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to delete order: %w", err)
	}

	s.logger.Info("order deleted",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber))
	return order, nil
}
