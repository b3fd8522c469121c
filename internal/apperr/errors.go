// Package apperr holds error types shared across services.
package apperr

import "errors"

// ValidationError rejects a request before any processing starts. It is
// shown to the user as-is and never collected into a run's error list.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
