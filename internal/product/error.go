package product

import "errors"

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotAvailable      = errors.New("product is not available")
)
