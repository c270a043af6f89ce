package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of a resource.
var ErrConflict = errors.New("resource conflict")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrUnavailable indicates that an optional capability is not configured.
var ErrUnavailable = errors.New("service unavailable")

// AppError wraps an underlying error with a status code and context message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with the given status code, message and cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that unwraps to ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// UnbalancedEntryError is returned when a journal entry's postings do not sum
// to zero at 2 decimal places, or fewer than two postings were supplied.
// It signals a caller bug and is never retried.
type UnbalancedEntryError struct {
	Sum          decimal.Decimal
	PostingCount int
}

func (e *UnbalancedEntryError) Error() string {
	if e.PostingCount < 2 {
		return fmt.Sprintf("journal entry requires at least 2 book entries, got %d", e.PostingCount)
	}
	return fmt.Sprintf("book entries must sum to zero, got %s", e.Sum.String())
}

// OwnerNotOnPropertyError is returned when a payment or transfer references an
// owner without an ownership link on the relevant property.
type OwnerNotOnPropertyError struct {
	OwnerID    string
	PropertyID string
}

func (e *OwnerNotOnPropertyError) Error() string {
	return fmt.Sprintf("owner %s does not own property %s", e.OwnerID, e.PropertyID)
}

// InsufficientEquityError is returned when a transfer requests more equity
// than the source capital account holds.
type InsufficientEquityError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientEquityError) Error() string {
	return fmt.Sprintf("insufficient equity: %s available, %s requested", e.Available.String(), e.Requested.String())
}
