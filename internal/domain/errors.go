package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAgreementNotFound = errors.New("agreement not found")
	ErrPitchNotFound     = errors.New("pitch not found")
	ErrUserNotFound      = errors.New("user not found")

	ErrForbidden = errors.New("actor is not permitted to perform this operation")

	ErrInvalidTransition = errors.New("invalid status transition")

	ErrValidation = errors.New("validation failed")

	// Eligibility violations.
	ErrDuplicateRequest = errors.New("an active agreement already exists for this pitch")
	ErrOwnResource      = errors.New("cannot request an agreement on your own pitch")

	ErrUnavailable = errors.New("backing store unavailable")
)

// NewInvalidTransition wraps ErrInvalidTransition with the current and
// requested states so callers see exactly which guard refused.
func NewInvalidTransition(from, to AgreementStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

func NewValidationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
