package service

import (
	"context"
	"fmt"

	"vibecart/internal/catalog"
	"vibecart/internal/domain"
)

// CartService provides business logic for shopping cart operations.
// Every mutation recomputes the cart total and persists the whole cart.
type CartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, productID string, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, userID string, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID string, productID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) (*domain.Cart, error)
}

type cartService struct {
	carts   CartStore
	catalog catalog.Lookup
}

// NewCartService creates a new CartService instance.
func NewCartService(carts CartStore, catalog catalog.Lookup) CartService {
	return &cartService{carts: carts, catalog: catalog}
}

// Get retrieves the user's cart, creating an empty one on first access.
func (s *cartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}

// AddItem adds a product to the cart or increments its quantity if already
// present. The line keeps the price and name captured when the product was
// first added; later adds only grow the quantity.
func (s *cartService) AddItem(ctx context.Context, userID string, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if i := cart.FindItem(productID); i >= 0 {
		cart.Items[i].Quantity += quantity
	} else {
		product, err := s.catalog.Get(ctx, productID)
		if err != nil {
			if domain.IsCode(err, domain.ENOTFOUND) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("failed to get product: %w", err)
		}

		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: product.ID,
			Quantity:  quantity,
			Price:     product.Price,
			Name:      product.Name,
			Image:     product.Image,
		})
	}

	cart.Recalculate()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets the quantity of a cart line. A quantity of zero or
// less removes the line; updating a product that is not in the cart
// changes nothing.
func (s *cartService) UpdateQuantity(ctx context.Context, userID string, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	i := cart.FindItem(productID)
	if i < 0 {
		return cart, nil
	}

	cart.Items[i].Quantity = quantity
	cart.Recalculate()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes a product's line from the cart. Removing a product
// that is not in the cart is not an error.
func (s *cartService) RemoveItem(ctx context.Context, userID string, productID string) (*domain.Cart, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if !cart.RemoveItem(productID) {
		return cart, nil
	}

	cart.Recalculate()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear removes every line from the cart.
func (s *cartService) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if cart.IsEmpty() {
		return cart, nil
	}

	cart.Items = nil
	cart.Recalculate()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}
