package cart

import "errors"

var (
	ErrInvalidQuantity = errors.New("invalid cart quantity")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrCartEmpty       = errors.New("cart is empty")
)
