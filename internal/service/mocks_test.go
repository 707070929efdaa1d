package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"vibecart/internal/domain"
	"vibecart/internal/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// memCartStore keeps carts in memory with the same version semantics the
// real store has: Save only lands when the caller's version matches.
type memCartStore struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart

	saveErr error
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: make(map[string]*domain.Cart)}
}

func (s *memCartStore) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		now := time.Now()
		cart = &domain.Cart{
			ID:        uuid.NewString(),
			UserID:    userID,
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.carts[userID] = cart
	}
	return copyCart(cart), nil
}

func (s *memCartStore) Save(ctx context.Context, cart *domain.Cart) error {
	if s.saveErr != nil {
		return s.saveErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.carts[cart.UserID]
	if !ok || stored.Version != cart.Version {
		return ErrCartConflict
	}

	saved := copyCart(cart)
	saved.Version++
	saved.UpdatedAt = time.Now()
	s.carts[cart.UserID] = saved
	cart.Version = saved.Version
	return nil
}

func copyCart(cart *domain.Cart) *domain.Cart {
	out := *cart
	out.Items = append([]domain.CartItem(nil), cart.Items...)
	return &out
}

// memCatalog serves products from a map.
type memCatalog struct {
	products map[string]domain.Product

	getErr error
}

func newMemCatalog(products ...domain.Product) *memCatalog {
	m := make(map[string]domain.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &memCatalog{products: m}
}

func (c *memCatalog) Get(ctx context.Context, productID string) (*domain.Product, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	p, ok := c.products[productID]
	if !ok {
		return nil, domain.NotFound("product.get", "Product", productID)
	}
	out := p
	return &out, nil
}

// memOrderStore keeps orders in memory. Create clears the source cart the
// way the transactional store does; conflictOnCreate simulates the cart
// moving underneath the checkout.
type memOrderStore struct {
	mu     sync.Mutex
	orders []*domain.Order

	carts            *memCartStore
	conflictOnCreate bool
	createErr        error
}

func newMemOrderStore(carts *memCartStore) *memOrderStore {
	return &memOrderStore{carts: carts}
}

func (s *memOrderStore) Create(ctx context.Context, order *domain.Order, cart *domain.Cart) error {
	if s.createErr != nil {
		return s.createErr
	}
	if s.conflictOnCreate {
		return ErrCartConflict
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *order
	copied.Items = append([]domain.OrderItem(nil), order.Items...)
	s.orders = append(s.orders, &copied)

	if s.carts != nil {
		if stored, ok := s.carts.carts[cart.UserID]; ok && stored.Version == cart.Version {
			stored.Items = nil
			stored.Total = 0
			stored.Version++
		}
	}
	cart.Items = nil
	cart.Total = 0
	cart.Version++
	return nil
}

func (s *memOrderStore) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == orderID {
			out := *o
			return &out, nil
		}
	}
	return nil, domain.NotFound("order.get", "Order", orderID)
}

func (s *memOrderStore) List(ctx context.Context, params OrderListParams) ([]domain.Order, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []domain.Order
	for _, o := range s.orders {
		if params.Email != "" && !strings.Contains(strings.ToLower(o.CustomerInfo.Email), strings.ToLower(params.Email)) {
			continue
		}
		if params.Status != "" && o.Status != params.Status {
			continue
		}
		if params.StartDate != nil && o.OrderDate.Before(*params.StartDate) {
			continue
		}
		if params.EndDate != nil && o.OrderDate.After(*params.EndDate) {
			continue
		}
		matched = append(matched, *o)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].OrderDate.After(matched[j].OrderDate)
	})

	total := len(matched)
	page, limit := params.Page, params.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *memOrderStore) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, now time.Time) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == orderID {
			o.ApplyStatus(status, now)
			out := *o
			return &out, nil
		}
	}
	return nil, domain.NotFound("order.updateStatus", "Order", orderID)
}

func (s *memOrderStore) Delete(ctx context.Context, orderID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.orders {
		if o.ID == orderID {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return o, nil
		}
	}
	return nil, domain.NotFound("order.delete", "Order", orderID)
}

func (s *memOrderStore) Digests(ctx context.Context) ([]OrderDigest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	digests := make([]OrderDigest, 0, len(s.orders))
	for _, o := range s.orders {
		digests = append(digests, OrderDigest{Status: o.Status, Total: o.Total, OrderDate: o.OrderDate})
	}
	return digests, nil
}

func (s *memOrderStore) Recent(ctx context.Context, limit int) ([]domain.Order, error) {
	orders, _, err := s.List(ctx, OrderListParams{Limit: limit})
	return orders, err
}

// capturingPublisher records every published envelope.
type capturingPublisher struct {
	mu         sync.Mutex
	published  []events.Envelope
	publishErr error
}

func (p *capturingPublisher) Publish(ctx context.Context, event events.Envelope) error {
	if p.publishErr != nil {
		return p.publishErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, event)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func (p *capturingPublisher) events() []events.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Envelope(nil), p.published...)
}
