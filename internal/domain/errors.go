package domain

import "errors"

// Business rule violations. Callers wrap these with context via fmt.Errorf("%w: ...").
var (
	ErrApplianceUnavailable = errors.New("appliance unavailable")
	ErrDurationOutOfRange   = errors.New("duration out of range")
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrMissingReason        = errors.New("missing reason")
	ErrAlreadyPaid          = errors.New("installment already paid")
	ErrInvalidAmount        = errors.New("invalid amount")

	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)
