package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vibecart/internal/domain"
	"vibecart/internal/service"
)

const orderColumns = `id, order_number, customer_name, customer_email, customer_phone,
	customer_street, customer_city, customer_state, customer_zip_code, customer_country,
	ship_street, ship_city, ship_state, ship_zip_code, ship_country,
	total, subtotal, tax, shipping, order_date, status,
	payment_method, payment_status, notes, shipped_date, delivered_date,
	created_at, updated_at`

// OrderStore implements service.OrderStore against the orders and
// order_items tables.
type OrderStore struct {
	db *pgxpool.Pool
}

var _ service.OrderStore = (*OrderStore)(nil)

// NewOrderStore creates a PostgreSQL-backed order store.
func NewOrderStore(db *pgxpool.Pool) *OrderStore {
	return &OrderStore{db: db}
}

// Create persists the order and empties the source cart in one transaction.
// The cart clear is guarded by the cart's version: if the cart changed
// between the checkout read and this write, the whole transaction aborts
// with service.ErrCartConflict and no order is created.
func (s *OrderStore) Create(ctx context.Context, order *domain.Order, cart *domain.Cart) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Internal(err, "order.create", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, order_number, customer_name, customer_email, customer_phone,
			customer_street, customer_city, customer_state, customer_zip_code, customer_country,
			ship_street, ship_city, ship_state, ship_zip_code, ship_country,
			total, subtotal, tax, shipping, order_date, status,
			payment_method, payment_status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26)`,
		order.ID, order.OrderNumber,
		order.CustomerInfo.Name, order.CustomerInfo.Email, order.CustomerInfo.Phone,
		order.CustomerInfo.Address.Street, order.CustomerInfo.Address.City, order.CustomerInfo.Address.State,
		order.CustomerInfo.Address.ZipCode, order.CustomerInfo.Address.Country,
		order.ShippingAddress.Street, order.ShippingAddress.City, order.ShippingAddress.State,
		order.ShippingAddress.ZipCode, order.ShippingAddress.Country,
		order.Total, order.Subtotal, order.Tax, order.Shipping,
		order.OrderDate, string(order.Status), order.PaymentMethod, string(order.PaymentStatus),
		order.Notes, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return domain.Internal(err, "order.create", "failed to insert order")
	}

	for i, item := range order.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price, name, image, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			order.ID, item.ProductID, item.Quantity, item.Price, item.Name, item.Image, i)
		if err != nil {
			return domain.Internal(err, "order.create", "failed to insert order item")
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE carts
		SET total = 0, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2`,
		cart.ID, cart.Version)
	if err != nil {
		return domain.Internal(err, "order.create", "failed to reset cart")
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCartConflict
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); err != nil {
		return domain.Internal(err, "order.create", "failed to clear cart items")
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, "order.create", "failed to commit order")
	}

	cart.Items = nil
	cart.Total = 0
	cart.Version++
	return nil
}

// GetByID returns a single order with its line items.
func (s *OrderStore) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("order.get", "Order", orderID)
		}
		return nil, domain.Internal(err, "order.get", "failed to get order")
	}

	if err := s.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// List returns a page of orders matching params, newest first, together
// with the total match count.
func (s *OrderStore) List(ctx context.Context, params service.OrderListParams) ([]domain.Order, int, error) {
	var (
		where []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if params.Email != "" {
		where = append(where, "customer_email ILIKE "+next("%"+params.Email+"%"))
	}
	if params.Status != "" {
		where = append(where, "status = "+next(string(params.Status)))
	}
	if params.StartDate != nil {
		where = append(where, "order_date >= "+next(*params.StartDate))
	}
	if params.EndDate != nil {
		where = append(where, "order_date <= "+next(*params.EndDate))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders"+clause, args...).Scan(&total); err != nil {
		return nil, 0, domain.Internal(err, "order.list", "failed to count orders")
	}

	page, limit := normalizePage(params.Page, params.Limit)
	query := `SELECT ` + orderColumns + ` FROM orders` + clause +
		` ORDER BY order_date DESC` +
		` LIMIT ` + next(limit) + ` OFFSET ` + next((page-1)*limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, domain.Internal(err, "order.list", "failed to list orders")
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, domain.Internal(err, "order.list", "failed to scan orders")
	}
	return orders, total, nil
}

// UpdateStatus sets the order's status and stamps the matching milestone
// date if it is not already set. The update and readback happen in one
// statement so concurrent updates cannot interleave.
func (s *OrderStore) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, now time.Time) (*domain.Order, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE orders
		SET status = $2,
			shipped_date = CASE WHEN $2 = 'shipped' THEN COALESCE(shipped_date, $3) ELSE shipped_date END,
			delivered_date = CASE WHEN $2 = 'delivered' THEN COALESCE(delivered_date, $3) ELSE delivered_date END,
			updated_at = $3
		WHERE id = $1
		RETURNING `+orderColumns,
		orderID, string(status), now)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("order.updateStatus", "Order", orderID)
		}
		return nil, domain.Internal(err, "order.updateStatus", "failed to update order status")
	}

	if err := s.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes the order and returns the removed row. Line items go with
// it via the foreign key cascade.
func (s *OrderStore) Delete(ctx context.Context, orderID string) (*domain.Order, error) {
	row := s.db.QueryRow(ctx,
		`DELETE FROM orders WHERE id = $1 RETURNING `+orderColumns, orderID)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("order.delete", "Order", orderID)
		}
		return nil, domain.Internal(err, "order.delete", "failed to delete order")
	}
	return order, nil
}

// Digests returns the minimal per-order rows the reporting service
// aggregates over.
func (s *OrderStore) Digests(ctx context.Context) ([]service.OrderDigest, error) {
	rows, err := s.db.Query(ctx, `SELECT status, total, order_date FROM orders`)
	if err != nil {
		return nil, domain.Internal(err, "order.digests", "failed to read orders")
	}
	defer rows.Close()

	var digests []service.OrderDigest
	for rows.Next() {
		var d service.OrderDigest
		if err := rows.Scan(&d.Status, &d.Total, &d.OrderDate); err != nil {
			return nil, domain.Internal(err, "order.digests", "failed to scan order")
		}
		digests = append(digests, d)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "order.digests", "failed to read orders")
	}
	return digests, nil
}

// Recent returns the newest orders with their items.
func (s *OrderStore) Recent(ctx context.Context, limit int) ([]domain.Order, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY order_date DESC LIMIT $1`, limit)
	if err != nil {
		return nil, domain.Internal(err, "order.recent", "failed to list orders")
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, domain.Internal(err, "order.recent", "failed to scan orders")
	}

	for i := range orders {
		if err := s.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *OrderStore) loadItems(ctx context.Context, order *domain.Order) error {
	rows, err := s.db.Query(ctx, `
		SELECT product_id, quantity, price, name, image
		FROM order_items WHERE order_id = $1
		ORDER BY position`, order.ID)
	if err != nil {
		return domain.Internal(err, "order.get", "failed to get order items")
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price, &item.Name, &item.Image); err != nil {
			return domain.Internal(err, "order.get", "failed to scan order item")
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return domain.Internal(err, "order.get", "failed to read order items")
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber,
		&o.CustomerInfo.Name, &o.CustomerInfo.Email, &o.CustomerInfo.Phone,
		&o.CustomerInfo.Address.Street, &o.CustomerInfo.Address.City, &o.CustomerInfo.Address.State,
		&o.CustomerInfo.Address.ZipCode, &o.CustomerInfo.Address.Country,
		&o.ShippingAddress.Street, &o.ShippingAddress.City, &o.ShippingAddress.State,
		&o.ShippingAddress.ZipCode, &o.ShippingAddress.Country,
		&o.Total, &o.Subtotal, &o.Tax, &o.Shipping, &o.OrderDate, &o.Status,
		&o.PaymentMethod, &o.PaymentStatus, &o.Notes, &o.ShippedDate, &o.DeliveredDate,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
