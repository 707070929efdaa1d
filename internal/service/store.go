package service

import (
	"context"
	"time"

	"vibecart/internal/domain"
)

// CartStore persists carts. Save writes the whole cart and must fail with
// ErrCartConflict when the stored version no longer matches the cart's.
type CartStore interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
}

// OrderListParams filters and pages the order list. Email matches as a
// case-insensitive substring. Zero values mean "no filter".
type OrderListParams struct {
	Email     string
	Status    domain.OrderStatus
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

// OrderDigest is the minimal per-order row reporting aggregates over.
type OrderDigest struct {
	Status    domain.OrderStatus
	Total     float64
	OrderDate time.Time
}

// OrderStore persists orders. Create must atomically write the order and
// empty the source cart, failing with ErrCartConflict if the cart changed
// since it was read.
type OrderStore interface {
	Create(ctx context.Context, order *domain.Order, cart *domain.Cart) error
	GetByID(ctx context.Context, orderID string) (*domain.Order, error)
	List(ctx context.Context, params OrderListParams) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, now time.Time) (*domain.Order, error)
	Delete(ctx context.Context, orderID string) (*domain.Order, error)
	Digests(ctx context.Context) ([]OrderDigest, error)
	Recent(ctx context.Context, limit int) ([]domain.Order, error)
}
