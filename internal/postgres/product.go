package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vibecart/internal/catalog"
	"vibecart/internal/domain"
)

// ProductStore implements catalog.Store against the products table.
type ProductStore struct {
	db *pgxpool.Pool
}

// Compile-time check that ProductStore satisfies the catalog read surface.
var _ catalog.Store = (*ProductStore)(nil)

// NewProductStore creates a PostgreSQL-backed catalog store.
func NewProductStore(db *pgxpool.Pool) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, name, price, description, image, category, in_stock, created_at, updated_at`

// Get resolves a product reference into a current catalog snapshot.
func (s *ProductStore) Get(ctx context.Context, productID string) (*domain.Product, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, productID)

	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Image,
		&p.Category, &p.InStock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("product.get", "Product", productID)
		}
		return nil, domain.Internal(err, "product.get", "failed to get product")
	}

	return &p, nil
}

// List returns a page of products matching the filter plus the total
// match count.
func (s *ProductStore) List(ctx context.Context, params catalog.ListParams) ([]domain.Product, int, error) {
	where := ``
	args := []any{}
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	and := func(clause string) {
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}

	if params.Category != "" {
		and(`category ILIKE ` + next("%"+params.Category+"%"))
	}
	if params.InStock != nil {
		and(`in_stock = ` + next(*params.InStock))
	}
	if params.Search != "" {
		p := next("%" + params.Search + "%")
		and(`(name ILIKE ` + p + ` OR description ILIKE ` + p + `)`)
	}

	var total int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, domain.Internal(err, "product.list", "failed to count products")
	}

	page, limit := normalizePage(params.Page, params.Limit)
	query := `SELECT ` + productColumns + ` FROM products` + where +
		` ORDER BY created_at DESC` +
		` LIMIT ` + next(limit) + ` OFFSET ` + next((page-1)*limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, domain.Internal(err, "product.list", "failed to list products")
	}
	defer rows.Close()

	products := make([]domain.Product, 0, limit)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Image,
			&p.Category, &p.InStock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, domain.Internal(err, "product.list", "failed to scan product")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.Internal(err, "product.list", "failed to read products")
	}

	return products, total, nil
}

// Insert adds a catalog record. Used by the seed utility only; the
// storefront never writes to the catalog.
func (s *ProductStore) Insert(ctx context.Context, p *domain.Product) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO products (id, name, price, description, image, category, in_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.Price, p.Description, p.Image, p.Category, p.InStock)
	if err != nil {
		return domain.Internal(err, "product.insert", "failed to insert product")
	}
	return nil
}

// Count returns the number of catalog records.
func (s *ProductStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&n); err != nil {
		return 0, domain.Internal(err, "product.count", "failed to count products")
	}
	return n, nil
}

// normalizePage clamps paging parameters to sane defaults.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
