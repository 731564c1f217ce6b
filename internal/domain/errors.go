// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError is a bad caller input. Its message is safe to show to users.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// PersistenceError wraps a store failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }

func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// NotificationDeliveryError is a failed push. Never returned to API callers.
type NotificationDeliveryError struct {
	UserID int64
	Event  string
	Err    error
}

func (e *NotificationDeliveryError) Error() string {
	return fmt.Sprintf("deliver %s to user %d: %v", e.Event, e.UserID, e.Err)
}
func (e *NotificationDeliveryError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

const (
	// AmountScale is the number of decimal places an amount may carry.
	AmountScale  = 2
	maxAmountLen = 32
	maxExponent  = 12
)

// MaxAmount caps a single saving entry.
var MaxAmount = decimal.NewFromInt(1_000_000_000_000)

// ParseAmount accepts a decimal string and requires it to be strictly positive,
// at most MaxAmount and with no more than AmountScale decimal places.
// Exponent bounds are checked before any arithmetic so values like "1e20000000"
// are rejected without expanding them.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxAmountLen {
		return decimal.Zero, NewValidationError("amount", "Please enter a valid amount")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, NewValidationError("amount", "Please enter a valid amount")
	}
	if !d.IsPositive() {
		return decimal.Zero, NewValidationError("amount", "Amount must be greater than zero")
	}
	if exp := d.Exponent(); exp > maxExponent {
		return decimal.Zero, NewValidationError("amount", "Amount is too large")
	} else if exp < -maxExponent {
		return decimal.Zero, NewValidationError("amount", "Amount can have at most 2 decimal places")
	}
	if d.GreaterThan(MaxAmount) {
		return decimal.Zero, NewValidationError("amount", "Amount is too large")
	}
	if !d.Equal(d.Truncate(AmountScale)) {
		return decimal.Zero, NewValidationError("amount", "Amount can have at most 2 decimal places")
	}
	return d, nil
}
