// Package catalog defines the read surface of the product catalog. The
// catalog itself is an external collaborator: cart and checkout only ever
// resolve a product reference into a point-in-time snapshot of price,
// name, image and stock flag.
package catalog

import (
	"context"

	"vibecart/internal/domain"
)

// Lookup resolves a product reference into a current catalog snapshot.
// Implementations return a domain error with code ENOTFOUND when the
// reference does not resolve.
type Lookup interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
}

// Store is the full read surface used by the storefront: lookup by ID
// plus paged listing.
type Store interface {
	Lookup
	List(ctx context.Context, params ListParams) ([]domain.Product, int, error)
}

// ListParams filters and pages a catalog listing.
type ListParams struct {
	// Category filters by category, case-insensitively, when non-empty.
	Category string

	// InStock filters on the stock flag when non-nil.
	InStock *bool

	// Search matches name or description, case-insensitively, when non-empty.
	Search string

	Page  int
	Limit int
}
