package domain

import "errors"

var (
	// ErrValidation marks input rejected locally, before any network call.
	ErrValidation = errors.New("validation failed")
	// ErrNotAuthenticated is returned by operations that need a resident identity.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
)

// ErrIncompleteIdentity is returned when the identity service answers
// without an id or token.
var ErrIncompleteIdentity = errors.New("identity service returned an incomplete identity")

// ValidationError carries a message meant for the user. It matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func Invalid(message string) error {
	return &ValidationError{Message: message}
}
