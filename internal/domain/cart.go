package domain

import "time"

// CartItem is one pending line in a cart. Price, name and image are
// snapshots captured from the catalog when the line was first added;
// repeated adds of the same product increment the quantity but keep the
// original snapshot (stable cart pricing).
type CartItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
}

// Cart is the mutable per-customer collection of pending line items.
// Every mutation rewrites the whole cart as one versioned write; a stale
// Version is rejected with a conflict so concurrent writers cannot
// silently lose updates.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	Version   int64      `json:"version"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Recalculate recomputes the cached total from the current lines.
// Must be called after every mutation; the total is derived state.
func (c *Cart) Recalculate() {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	c.Total = total
}

// FindItem returns the index of the line for productID, or -1.
func (c *Cart) FindItem(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// RemoveItem drops the line for productID if present. Removing an absent
// line is not an error; the second return reports whether anything changed.
func (c *Cart) RemoveItem(productID string) bool {
	i := c.FindItem(productID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}
