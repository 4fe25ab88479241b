package order

import "errors"

var (
	ErrInvalidTransition = errors.New("order status change not allowed")
	ErrUnauthorized      = errors.New("unauthorized")
)
