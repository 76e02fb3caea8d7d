// Package apperr defines the error taxonomy shared by the domain services.
// Handlers map these onto HTTP status codes; services always surface the
// most specific error and never continue past a failed precondition.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports missing or malformed input (HTTP 400)
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on '%s': %s", e.Field, e.Message)
	}
	return "validation failed: " + e.Message
}

// NotFoundError reports a referenced entity that does not exist (HTTP 404)
type NotFoundError struct {
	Entity string `json:"entity"`
	ID     string `json:"id"`
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s '%s' not found", e.Entity, e.ID)
	}
	return e.Entity + " not found"
}

// InvalidStateError reports an operation that would violate a domain
// invariant (HTTP 400)
type InvalidStateError struct {
	Message string `json:"message"`
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

// InsufficientStockError is the stock-specific invalid state: the requested
// movement exceeds what the pool holds (HTTP 400)
type InsufficientStockError struct {
	Available string `json:"available"`
	Requested string `json:"requested"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %s, available %s", e.Requested, e.Available)
}

// StoreError wraps a failure from the relational store (HTTP 500).
// Transient failures are reported as-is; nothing retries automatically.
type StoreError struct {
	Operation string `json:"operation"`
	Cause     error  `json:"-"`
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store failure during %s: %v", e.Operation, e.Cause)
	}
	return "store failure during " + e.Operation
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func NewNotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func NewInvalidState(message string) *InvalidStateError {
	return &InvalidStateError{Message: message}
}

func NewInsufficientStock(requested, available string) *InsufficientStockError {
	return &InsufficientStockError{Requested: requested, Available: available}
}

func NewStore(operation string, cause error) *StoreError {
	return &StoreError{Operation: operation, Cause: cause}
}

// StatusCode maps an error to the HTTP status the handlers should return
func StatusCode(err error) int {
	var (
		validation   *ValidationError
		notFound     *NotFoundError
		invalidState *InvalidStateError
		insufficient *InsufficientStockError
		store        *StoreError
	)

	switch {
	case errors.As(err, &notFound):
		return 404
	case errors.As(err, &validation), errors.As(err, &invalidState), errors.As(err, &insufficient):
		return 400
	case errors.As(err, &store):
		return 500
	}
	return 500
}
