package ledger

import "github.com/cockroachdb/errors"

// Failure kinds. Concrete errors are marked with one of these so callers can
// select on the kind with errors.Is while still showing a specific message.
var (
	ErrValidation   = errors.New("validation failed")
	ErrDuplicate    = errors.New("already registered")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrNotAllowed   = errors.New("not allowed")
)

func validationf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrValidation)
}

func notFoundf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}

func notAllowedf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotAllowed)
}

// Validationf builds a validation error for callers outside the ledger.
func Validationf(format string, args ...any) error {
	return validationf(format, args...)
}

// NotFoundf builds a not-found error for callers outside the ledger.
func NotFoundf(format string, args ...any) error {
	return notFoundf(format, args...)
}

// Unauthorizedf builds an unauthorized error.
func Unauthorizedf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrUnauthorized)
}

// NotAllowedf builds a not-allowed error for callers outside the ledger.
func NotAllowedf(format string, args ...any) error {
	return notAllowedf(format, args...)
}

var errDuplicate = errors.Mark(
	errors.New("A player with this name or phone number is already registered."),
	ErrDuplicate,
)
