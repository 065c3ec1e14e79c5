package services

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput covers missing or badly shaped request fields.
	ErrMalformedInput = errors.New("malformed input")
	// ErrVariantNotFound is deliberately the same for an unknown product, size, color,
	// variant or line item; callers never learn which lookup missed.
	ErrVariantNotFound   = errors.New("Invalid product details. This product variant does not exist.")
	ErrInsufficientStock = errors.New("Quantity specified is more than the quantity available in stock")
	ErrItemNotFound      = errors.New("Item not found in your cart.")
)

// InsufficientStockError reports a request larger than the variant's current stock.
// It matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s (requested %d, available %d)", ErrInsufficientStock.Error(), e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}
