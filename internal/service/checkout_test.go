package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibecart/internal/domain"
	"vibecart/internal/events"
)

type checkoutFixture struct {
	svc       CheckoutService
	cartSvc   CartService
	carts     *memCartStore
	orders    *memOrderStore
	catalog   *memCatalog
	publisher *capturingPublisher
}

func newCheckoutFixture(products ...domain.Product) *checkoutFixture {
	carts := newMemCartStore()
	orders := newMemOrderStore(carts)
	catalog := newMemCatalog(products...)
	publisher := &capturingPublisher{}

	return &checkoutFixture{
		svc:       NewCheckoutService(carts, orders, catalog, publisher, testLogger()),
		cartSvc:   NewCartService(carts, catalog),
		carts:     carts,
		orders:    orders,
		catalog:   catalog,
		publisher: publisher,
	}
}

func validInput() CheckoutInput {
	return CheckoutInput{
		CustomerInfo: CheckoutCustomer{
			Name:  "Ada Lovelace",
			Email: "Ada@Example.com",
			ShippingAddress: domain.Address{
				Street:  "1 Analytical Way",
				City:    "London",
				ZipCode: "E1 6AN",
			},
		},
	}
}

func TestCheckout_PlacesOrder(t *testing.T) {
	f := newCheckoutFixture(domain.Product{
		ID: "p1", Name: "Pour Over Kettle", Price: 9.99, InStock: true,
	})
	ctx := context.Background()

	_, err := f.cartSvc.AddItem(ctx, "user-1", "p1", 2)
	require.NoError(t, err)

	receipt, err := f.svc.Checkout(ctx, "user-1", validInput())
	require.NoError(t, err)

	assert.Equal(t, 19.98, receipt.Total)
	assert.Equal(t, 19.98, receipt.Subtotal)
	assert.True(t, len(receipt.OrderNumber) == len(domain.OrderNumberPrefix)+6)
	assert.Equal(t, domain.OrderNumberPrefix, receipt.OrderNumber[:len(domain.OrderNumberPrefix)])
	assert.Equal(t, domain.StatusCompleted, receipt.Status)
	assert.Equal(t, "ada@example.com", receipt.CustomerInfo.Email)
	assert.Equal(t, domain.DefaultCountry, receipt.ShippingAddress.Country)
	assert.Equal(t, receipt.OrderDate.Add(7*24*time.Hour), receipt.EstimatedDelivery)

	require.Len(t, f.orders.orders, 1)
	order := f.orders.orders[0]
	assert.Equal(t, domain.PaymentPaid, order.PaymentStatus)
	assert.Equal(t, domain.DefaultPaymentMethod, order.PaymentMethod)

	cart, err := f.cartSvc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0.0, cart.Total)
}

func TestCheckout_KeepsCustomerAndShippingAddressesDistinct(t *testing.T) {
	f := newCheckoutFixture(domain.Product{ID: "p1", Name: "Kettle", Price: 5, InStock: true})
	ctx := context.Background()

	_, err := f.cartSvc.AddItem(ctx, "user-1", "p1", 1)
	require.NoError(t, err)

	input := validInput()
	input.CustomerInfo.Address = domain.Address{
		Street: "12 Billing Rd", City: "Leeds", ZipCode: "LS1 4AP",
	}
	input.CustomerInfo.Notes = "leave at the door"

	receipt, err := f.svc.Checkout(ctx, "user-1", input)
	require.NoError(t, err)

	assert.Equal(t, "12 Billing Rd", receipt.CustomerInfo.Address.Street)
	assert.Equal(t, "1 Analytical Way", receipt.ShippingAddress.Street)

	require.Len(t, f.orders.orders, 1)
	order := f.orders.orders[0]
	assert.Equal(t, "12 Billing Rd", order.CustomerInfo.Address.Street)
	assert.Equal(t, "Leeds", order.CustomerInfo.Address.City)
	assert.Equal(t, domain.DefaultCountry, order.CustomerInfo.Address.Country)
	assert.Equal(t, "1 Analytical Way", order.ShippingAddress.Street)
	assert.Equal(t, "leave at the door", order.Notes)
}

func TestCheckout_PublishesOrderCreated(t *testing.T) {
	f := newCheckoutFixture(domain.Product{ID: "p1", Name: "Kettle", Price: 5, InStock: true})
	ctx := context.Background()

	_, err := f.cartSvc.AddItem(ctx, "user-1", "p1", 1)
	require.NoError(t, err)

	receipt, err := f.svc.Checkout(ctx, "user-1", validInput())
	require.NoError(t, err)

	published := f.publisher.events()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventOrderCreated, published[0].EventType)
	assert.Equal(t, receipt.OrderID, published[0].Key)

	payload, ok := published[0].Payload.(events.OrderCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, receipt.OrderNumber, payload.OrderNumber)
	assert.Equal(t, receipt.Total, payload.Total)
}

func TestCheckout_PublishFailureDoesNotFailOrder(t *testing.T) {
	f := newCheckoutFixture(domain.Product{ID: "p1", Name: "Kettle", Price: 5, InStock: true})
	f.publisher.publishErr = assert.AnError
	ctx := context.Background()

	_, err := f.cartSvc.AddItem(ctx, "user-1", "p1", 1)
	require.NoError(t, err)

	_, err = f.svc.Checkout(ctx, "user-1", validInput())
	require.NoError(t, err)
	assert.Len(t, f.orders.orders, 1)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.svc.Checkout(context.Background(), "user-1", validInput())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_ValidatesCustomerInfo(t *testing.T) {
	f := newCheckoutFixture(domain.Product{ID: "p1", Price: 5, InStock: true})
	ctx := context.Background()

	_, err := f.cartSvc.AddItem(ctx, "user-1", "p1", 1)
	require.NoError(t, err)

	input := validInput()
	input.CustomerInfo.Name = "   "
	input.CustomerInfo.Email = "not-an-email"

	_, err = f.svc.Checkout(ctx, "user-1", input)
	require.Error(t, err)
	require.True(t, domain.IsValidationError(err))

	fields := domain.GetValidationFields(err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Empty(t, f.orders.orders)
}

func TestCheckout_OutOfStockFailsWholeOrder(t *testing.T) {
	f := newCheckoutFixture(
		domain.Product{ID: "p1", Name: "Kettle", Price: 5, InStock: true},
		domain.Product{ID: "p2", Name: "Grinder", Price: 30, InStock: true},
	)
	ctx := context.Background()

	_, err := f.cartSvc.AddItem(ctx, "user-1", "p1", 1)
	require.NoError(t, err)
	_, err = f.cartSvc.AddItem(ctx, "user-1", "p2", 1)
	require.NoError(t, err)

	p := f.catalog.products["p2"]
	p.InStock = false
	f.catalog.products["p2"] = p

	_, err = f.svc.Checkout(ctx, "user-1", validInput())
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.EINVALID))
	assert.Contains(t, err.Error(), "Grinder")

	assert.Empty(t, f.orders.orders)

	cart, err := f.cartSvc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestCheckout_RemovedProductFailsOrder(t *testing.T) {
	f := newCheckoutFixture(domain.Product{ID: "p1", Name: "Kettle", Price: 5, InStock: true})
	ctx := context.Background()

	_, err := f.cartSvc.AddItem(ctx, "user-1", "p1", 1)
	require.NoError(t, err)

	delete(f.catalog.products, "p1")

	_, err = f.svc.Checkout(ctx, "user-1", validInput())
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.EINVALID))
	assert.Contains(t, err.Error(), "Kettle")
}

func TestCheckout_UsesCurrentNameAndCapturedPrice(t *testing.T) {
	f := newCheckoutFixture(domain.Product{ID: "p1", Name: "Kettle", Price: 5, InStock: true})
	ctx := context.Background()

	_, err := f.cartSvc.AddItem(ctx, "user-1", "p1", 1)
	require.NoError(t, err)

	f.catalog.products["p1"] = domain.Product{ID: "p1", Name: "Kettle v2", Price: 8, InStock: true}

	receipt, err := f.svc.Checkout(ctx, "user-1", validInput())
	require.NoError(t, err)

	require.Len(t, receipt.Items, 1)
	assert.Equal(t, "Kettle v2", receipt.Items[0].Name)
	assert.Equal(t, 5.0, receipt.Items[0].Price)
	assert.Equal(t, 5.0, receipt.Total)
}

func TestCheckout_CartConflictAbortsOrder(t *testing.T) {
	f := newCheckoutFixture(domain.Product{ID: "p1", Name: "Kettle", Price: 5, InStock: true})
	f.orders.conflictOnCreate = true
	ctx := context.Background()

	_, err := f.cartSvc.AddItem(ctx, "user-1", "p1", 1)
	require.NoError(t, err)

	_, err = f.svc.Checkout(ctx, "user-1", validInput())
	assert.ErrorIs(t, err, ErrCartConflict)
	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.publisher.events())
}

func TestGetReceipt(t *testing.T) {
	f := newCheckoutFixture(domain.Product{ID: "p1", Name: "Kettle", Price: 5, InStock: true})
	ctx := context.Background()

	_, err := f.cartSvc.AddItem(ctx, "user-1", "p1", 2)
	require.NoError(t, err)

	placed, err := f.svc.Checkout(ctx, "user-1", validInput())
	require.NoError(t, err)

	receipt, err := f.svc.GetReceipt(ctx, placed.OrderID)
	require.NoError(t, err)
	assert.Equal(t, placed.OrderNumber, receipt.OrderNumber)
	assert.Equal(t, placed.Total, receipt.Total)
}

func TestGetReceipt_NotFound(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.svc.GetReceipt(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCheckout_OrderIDsUnique(t *testing.T) {
	f := newCheckoutFixture(domain.Product{ID: "p1", Name: "Kettle", Price: 5, InStock: true})
	ctx := context.Background()

	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		_, err := f.cartSvc.AddItem(ctx, "user-1", "p1", 1)
		require.NoError(t, err)

		receipt, err := f.svc.Checkout(ctx, "user-1", validInput())
		require.NoError(t, err)

		assert.False(t, seen[receipt.OrderID], "duplicate order ID %s", receipt.OrderID)
		seen[receipt.OrderID] = true
		assert.Equal(t, domain.FormatOrderNumber(receipt.OrderID), receipt.OrderNumber)
	}
}
