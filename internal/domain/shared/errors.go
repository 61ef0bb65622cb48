package shared

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Error codes for machine-readable classification across layers
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeTotalsMismatch    = "TOTALS_MISMATCH"
	CodeNotFound          = "NOT_FOUND"
	CodeStateConflict     = "STATE_CONFLICT"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInfrastructure    = "INFRASTRUCTURE_ERROR"
)

// DomainError is implemented by all typed domain errors
type DomainError interface {
	error
	Code() string
}

// ValidationError signals a malformed payload or a violated business
// precondition. It is always raised before any durable mutation.
type ValidationError struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Code returns the error classification code
func (e *ValidationError) Code() string { return CodeValidation }

// NewValidationError creates a validation error for a specific field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// TotalsSide identifies which sum diverged from the declared total
type TotalsSide string

const (
	TotalsSideItems    TotalsSide = "line_items"
	TotalsSidePayments TotalsSide = "payment_splits"
)

// TotalsMismatchError reports a divergence between the declared document
// total and the sum of line-item subtotals or payment-split amounts.
type TotalsMismatchError struct {
	Side     TotalsSide      `json:"side"`
	Declared decimal.Decimal `json:"declared"`
	Actual   decimal.Decimal `json:"actual"`
}

func (e *TotalsMismatchError) Error() string {
	return fmt.Sprintf("%s sum %s diverges from declared total %s by %s",
		e.Side, e.Actual, e.Declared, e.Actual.Sub(e.Declared).Abs())
}

// Code returns the error classification code
func (e *TotalsMismatchError) Code() string { return CodeTotalsMismatch }

// Diff returns the absolute divergence
func (e *TotalsMismatchError) Diff() decimal.Decimal {
	return e.Actual.Sub(e.Declared).Abs()
}

// NotFoundError signals that a referenced resource does not exist
type NotFoundError struct {
	Resource string    `json:"resource"`
	ID       uuid.UUID `json:"id"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Code returns the error classification code
func (e *NotFoundError) Code() string { return CodeNotFound }

// NewNotFoundError creates a not-found error for a resource
func NewNotFoundError(resource string, id uuid.UUID) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// StateConflictError signals an attempt to mutate a document whose state
// forbids the requested action (a cancelled document is terminal).
type StateConflictError struct {
	OrderID uuid.UUID `json:"order_id"`
	Status  string    `json:"status"`
	Action  string    `json:"action"`
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("cannot %s order %s in %s status", e.Action, e.OrderID, e.Status)
}

// Code returns the error classification code
func (e *StateConflictError) Code() string { return CodeStateConflict }

// InsufficientStockError signals that a decrement would drive quantity on
// hand negative. No partial decrement is applied.
type InsufficientStockError struct {
	ProductID   uuid.UUID `json:"product_id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Available   int64     `json:"available"`
	Requested   int64     `json:"requested"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s in warehouse %s: available %d, requested %d",
		e.ProductID, e.WarehouseID, e.Available, e.Requested)
}

// Code returns the error classification code
func (e *InsufficientStockError) Code() string { return CodeInsufficientStock }

// InfrastructureError wraps a persistence failure with the step that was
// executing when it occurred. The surrounding transaction is rolled back.
type InfrastructureError struct {
	Step string
	Err  error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("infrastructure failure at %s: %v", e.Step, e.Err)
}

// Code returns the error classification code
func (e *InfrastructureError) Code() string { return CodeInfrastructure }

// Unwrap returns the underlying error
func (e *InfrastructureError) Unwrap() error { return e.Err }

// NewInfrastructureError wraps err with the name of the failing step
func NewInfrastructureError(step string, err error) *InfrastructureError {
	return &InfrastructureError{Step: step, Err: err}
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsStateConflict reports whether err is a StateConflictError
func IsStateConflict(err error) bool {
	var sc *StateConflictError
	return errors.As(err, &sc)
}

// IsInsufficientStock reports whether err is an InsufficientStockError
func IsInsufficientStock(err error) bool {
	var is *InsufficientStockError
	return errors.As(err, &is)
}

// IsValidation reports whether err is a ValidationError or TotalsMismatchError
func IsValidation(err error) bool {
	var ve *ValidationError
	var te *TotalsMismatchError
	return errors.As(err, &ve) || errors.As(err, &te)
}

// ErrorCode extracts the classification code from err, or CodeInfrastructure
// for errors that are not domain errors.
func ErrorCode(err error) string {
	var de DomainError
	if errors.As(err, &de) {
		return de.Code()
	}
	return CodeInfrastructure
}
