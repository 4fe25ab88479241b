package crud

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound   = errors.New("item not found")
	ErrInFlight   = errors.New("another change to this item is still in progress")
	ErrValidation = errors.New("validation failed")
	ErrDuplicate  = errors.New("item with this id already exists")
)

// ValidationError lists the offending fields by their JSON name. It is
// reported before any state is touched.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
