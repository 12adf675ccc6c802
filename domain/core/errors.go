package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound          = errors.New("resource not found")
	ErrSessionNotFound   = fmt.Errorf("%w: session", ErrNotFound)
	ErrColumnNotFound    = fmt.Errorf("%w: column", ErrNotFound)
	ErrSubmissionExpired = fmt.Errorf("%w: submission expired", ErrNotFound)

	// Validation errors
	ErrValidation        = errors.New("validation failed")
	ErrMissingData       = fmt.Errorf("%w: dataset contains missing values", ErrValidation)
	ErrUnknownStrategy   = fmt.Errorf("%w: unknown missing-data strategy", ErrValidation)
	ErrInvalidAnnotation = fmt.Errorf("%w: invalid variable type annotation", ErrValidation)
	ErrMalformedDataset  = fmt.Errorf("%w: malformed dataset", ErrValidation)

	// Execution errors raised inside a single pairwise test
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrDegenerateInput  = errors.New("degenerate input")

	// Payment errors
	ErrPaymentRequired = errors.New("payment not completed")
)

// NewValidationError builds an error matching ErrValidation with a user-facing reason.
func NewValidationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}

// NewDegenerateError reports a statistical routine that cannot run on its input.
func NewDegenerateError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrDegenerateInput, fmt.Sprintf(format, args...))
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsExecutionError(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrDegenerateInput)
}
