package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vibecart/internal/domain"
	"vibecart/internal/service"
)

// CartStore implements service.CartStore against the carts and cart_items
// tables. A cart is read and written as a whole: Save rewrites every line
// inside one transaction, guarded by the cart's version column.
type CartStore struct {
	db *pgxpool.Pool
}

var _ service.CartStore = (*CartStore)(nil)

// NewCartStore creates a PostgreSQL-backed cart store.
func NewCartStore(db *pgxpool.Pool) *CartStore {
	return &CartStore{db: db}
}

// GetOrCreate returns the cart for userID, creating an empty one on first
// access. Creation is race-safe: concurrent first reads converge on one row.
func (s *CartStore) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.get(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !domain.IsCode(err, domain.ENOTFOUND) {
		return nil, err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO carts (id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING`,
		uuid.NewString(), userID)
	if err != nil {
		return nil, domain.Internal(err, "cart.create", "failed to create cart")
	}

	return s.get(ctx, userID)
}

func (s *CartStore) get(ctx context.Context, userID string) (*domain.Cart, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, total, version, created_at, updated_at
		FROM carts WHERE user_id = $1`, userID)

	var c domain.Cart
	err := row.Scan(&c.ID, &c.UserID, &c.Total, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("cart.get", "Cart", userID)
		}
		return nil, domain.Internal(err, "cart.get", "failed to get cart")
	}

	rows, err := s.db.Query(ctx, `
		SELECT product_id, quantity, price, name, image
		FROM cart_items WHERE cart_id = $1
		ORDER BY position`, c.ID)
	if err != nil {
		return nil, domain.Internal(err, "cart.get", "failed to get cart items")
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price, &item.Name, &item.Image); err != nil {
			return nil, domain.Internal(err, "cart.get", "failed to scan cart item")
		}
		c.Items = append(c.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "cart.get", "failed to read cart items")
	}

	return &c, nil
}

// Save persists the whole cart atomically. The write only lands if the
// cart's version has not moved since it was read; a stale version returns
// service.ErrCartConflict and the caller retries from a fresh read. On
// success the in-memory version is advanced to match the stored row.
func (s *CartStore) Save(ctx context.Context, cart *domain.Cart) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Internal(err, "cart.save", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE carts
		SET total = $2, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $3`,
		cart.ID, cart.Total, cart.Version)
	if err != nil {
		return domain.Internal(err, "cart.save", "failed to update cart")
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCartConflict
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); err != nil {
		return domain.Internal(err, "cart.save", "failed to clear cart items")
	}

	for i, item := range cart.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO cart_items (cart_id, product_id, quantity, price, name, image, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			cart.ID, item.ProductID, item.Quantity, item.Price, item.Name, item.Image, i)
		if err != nil {
			return domain.Internal(err, "cart.save", "failed to insert cart item")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, "cart.save", "failed to commit cart")
	}

	cart.Version++
	return nil
}
