package seller

import "errors"

var ErrInvalidTransition = errors.New("seller status change not allowed")
