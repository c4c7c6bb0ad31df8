// internal/app/system/apperr/apperr.go

// Package apperr defines the error taxonomy the whole service reports
// through: validation, forbidden, not-found, and persistence. Handlers
// never branch on error strings; they wrap one of the sentinels here
// and httpjson maps it to a status code.
//
// Denials are ordinary error values. Nothing in this package panics,
// retries, or swallows a category.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel categories. Use errors.Is to classify a wrapped error.
var (
	// ErrValidation: missing required field, malformed date, bad enum.
	// The request was not applied and caused no partial state change.
	ErrValidation = errors.New("validation error")

	// ErrForbidden: scope violation, self-delete, cross-department
	// write, non-author mutation. Distinct from validation so callers
	// can render 403 vs 400, and never degraded to a narrower success.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound: referenced id absent. Checked before owner-based
	// authorization, since ownership of a missing resource cannot be
	// evaluated.
	ErrNotFound = errors.New("not found")
)

// Validationf wraps ErrValidation with a caller-facing message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrValidation, args)...)
}

// Forbiddenf wraps ErrForbidden with a caller-facing message.
func Forbiddenf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrForbidden, args)...)
}

// NotFoundf wraps ErrNotFound with a caller-facing message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrNotFound, args)...)
}

func prepend(err error, args []any) []any {
	return append([]any{err}, args...)
}

// IsValidation reports whether err is in the validation category.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsForbidden reports whether err is in the forbidden category.
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }

// IsNotFound reports whether err is in the not-found category.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
