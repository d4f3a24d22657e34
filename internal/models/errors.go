package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("models: no matching record found")
	ErrForbidden        = errors.New("models: forbidden")
	ErrInvalidInput     = errors.New("models: invalid input")
	ErrConflict         = errors.New("models: conflict")
	ErrCapacityExceeded = errors.New("models: daily wear capacity exceeded")
	ErrNotFriends       = errors.New("not friends")
	ErrAlreadyFriends   = errors.New("already friends")
	ErrRateLimited      = errors.New("rate limited")
	ErrAIDisabled       = errors.New("ai features are not configured")
)

// ValidationError reports a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// CapacityError is returned when a wear entry would push a day past one full day.
type CapacityError struct {
	Date      Date
	Requested float64
	Remaining float64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("wear capacity exceeded for %s: requested %.2f day(s), %.2f remaining",
		e.Date, e.Requested, e.Remaining)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }
