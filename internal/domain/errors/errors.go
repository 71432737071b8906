package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists          = errors.New("already exists")
	ErrNotFound               = errors.New("not found")
	ErrValidation             = errors.New("validation failed")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrIncompleteShippingInfo = errors.New("shipping info is incomplete")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrMissingEvidence        = errors.New("payment evidence is missing")
	ErrUnknownRegion          = errors.New("unknown region")
	ErrPersistence            = errors.New("persistence failure")
	ErrSideEffectFailed       = errors.New("post-transition side effect failed")
	ErrRemainderPending       = errors.New("remainder payment already requested")
)

// ValidationError reports malformed input for a single field.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

// NewValidationError builds ValidationError without a more specific cause.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.Err }

// EmptyCartError is returned when checkout is attempted with no lines.
func EmptyCartError() error {
	return &ValidationError{Field: "lines", Reason: "cart must contain at least one line", Err: ErrEmptyCart}
}

// IncompleteShippingInfoError is returned when a shipping field is blank.
func IncompleteShippingInfoError(field string) error {
	return &ValidationError{Field: field, Reason: "is required", Err: ErrIncompleteShippingInfo}
}

// InvalidTransitionError names the attempted action and the state it was attempted from.
type InvalidTransitionError struct {
	Entity string
	Action string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	if e.To != "" {
		return fmt.Sprintf("%s: cannot %s (%s -> %s)", e.Entity, e.Action, e.From, e.To)
	}
	return fmt.Sprintf("%s: cannot %s from status %s", e.Entity, e.Action, e.From)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// UnknownRegionError is returned by FX lookups for regions outside the rate table.
type UnknownRegionError struct {
	Region string
}

func (e *UnknownRegionError) Error() string {
	return fmt.Sprintf("unknown region %q", e.Region)
}

func (e *UnknownRegionError) Is(target error) bool { return target == ErrUnknownRegion }

// PersistenceError wraps an opaque storage failure.
type PersistenceError struct {
	Op  string
	Err error
}

// Persistence wraps err unless it is nil or already a domain-level storage outcome.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrPersistence) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }
