package api

import (
	"context"

	"vibecart/internal/domain"
	"vibecart/internal/service"
	"vibecart/internal/telemetry"
)

// One registry per test binary; promauto registers globally.
var testMetrics = telemetry.NewBusinessMetrics("apitest")

type fakeCheckoutService struct {
	receipt *domain.Receipt
	err     error

	gotUserID string
	gotInput  service.CheckoutInput
}

func (f *fakeCheckoutService) Checkout(ctx context.Context, userID string, input service.CheckoutInput) (*domain.Receipt, error) {
	f.gotUserID = userID
	f.gotInput = input
	if f.err != nil {
		return nil, f.err
	}
	return f.receipt, nil
}

func (f *fakeCheckoutService) GetReceipt(ctx context.Context, orderID string) (*domain.Receipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.receipt, nil
}

type fakeCartService struct {
	cart *domain.Cart
	err  error

	gotUserID    string
	gotProductID string
	gotQuantity  int
}

func (f *fakeCartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	f.gotUserID = userID
	return f.cart, f.err
}

func (f *fakeCartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	f.gotUserID, f.gotProductID, f.gotQuantity = userID, productID, quantity
	if f.err != nil {
		return nil, f.err
	}
	return f.cart, nil
}

func (f *fakeCartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	f.gotUserID, f.gotProductID, f.gotQuantity = userID, productID, quantity
	if f.err != nil {
		return nil, f.err
	}
	return f.cart, nil
}

func (f *fakeCartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	f.gotUserID, f.gotProductID = userID, productID
	if f.err != nil {
		return nil, f.err
	}
	return f.cart, nil
}

func (f *fakeCartService) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	f.gotUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.cart, nil
}
