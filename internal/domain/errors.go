package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrSizeNotFound       = errors.New("size not found")
	ErrVariantNotFound    = errors.New("variant not found")
	ErrVariantUnavailable = errors.New("variant unavailable")
	ErrCartLineNotFound   = errors.New("cart line not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrVersionConflict    = errors.New("version conflict")
	ErrCategoryExists     = errors.New("category already exists")
	ErrSizeExists         = errors.New("size already exists")
)

// ValidationError carries per-field messages for input that was rejected
// before any write was attempted.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}
