// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountDisabled      = errors.New("account is disabled")
)

// FieldError reports a single invalid field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationErrors collects every field that failed validation so the admin
// UI can highlight all of them at once.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msg := "validation failed: " + e[0].Error()
	for _, fe := range e[1:] {
		msg += "; " + fe.Error()
	}
	return msg
}

// ConflictError reports a name or SKU collision with an existing product.
type ConflictError struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("a product with %s %q already exists", e.Field, e.Value)
}
