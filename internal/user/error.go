package user

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrBanned             = errors.New("account is banned")
	ErrAlreadyBanned      = errors.New("user already banned")
	ErrNotBanned          = errors.New("user is not banned")
)
