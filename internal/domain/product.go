package domain

import "time"

// Product is a read-only snapshot of a catalog item. The catalog is an
// external collaborator: this service only ever reads price, name, image
// and the stock flag, and never mutates a product through cart or order
// operations.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	InStock     bool      `json:"inStock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
