package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrBudgetExists  = errors.New("a budget already exists for this event")
	ErrEmailExists   = errors.New("email already registered")
	ErrVenueConflict = errors.New("venue is already booked for the selected date and time")
	ErrInUse         = errors.New("record is still referenced")
	ErrForbidden     = errors.New("forbidden")

	ErrInvalidDay          = errors.New("invalid day")
	ErrInvalidMonth        = errors.New("invalid month")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidTime         = errors.New("invalid time")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidPhone        = errors.New("invalid phone number (minimum 10 digits)")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrInvalidAvailability = errors.New("invalid availability")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidRole         = errors.New("invalid role")
	ErrEmptyName           = errors.New("empty name")
	ErrEmptyVenue          = errors.New("empty venue")
	ErrEmptyServices       = errors.New("empty services")
	ErrEmptyDescription    = errors.New("empty description")
	ErrDescriptionTooLong  = errors.New("description too long (max 200 characters)")
	ErrMissingClient       = errors.New("missing client")
	ErrMissingEvent        = errors.New("missing event")
	ErrMissingBudget       = errors.New("missing budget")
)

// ValidationError reports which input field failed and why.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
