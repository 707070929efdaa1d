package service

import (
	"vibecart/internal/domain"
)

// Lookup errors - use domain.ENOTFOUND
var (
	ErrProductNotFound = domain.Errorf(domain.ENOTFOUND, "", "Product not found")
	ErrCartNotFound    = domain.Errorf(domain.ENOTFOUND, "", "Cart not found")
	ErrOrderNotFound   = domain.Errorf(domain.ENOTFOUND, "", "Order not found")
)

// Validation errors - use domain.EINVALID
var (
	ErrInvalidQuantity = domain.Errorf(domain.EINVALID, "", "Quantity must be greater than 0")
	ErrEmptyCart       = domain.Errorf(domain.EINVALID, "", "Cart is empty")
)

// Concurrency errors - use domain.ECONFLICT
var (
	ErrCartConflict = domain.Errorf(domain.ECONFLICT, "", "Cart was modified concurrently")
)
