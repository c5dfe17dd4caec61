package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrExists     = errors.New("already exists")
	ErrValidation = errors.New("validation failed")

	ErrAlreadyActive       = errors.New("already has an active session")
	ErrNoActiveSession     = errors.New("no active session")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

func NewError(model string, err error) error {
	return fmt.Errorf("%s: %w", strings.ToLower(model), err)
}

// IsNotFound reports whether err is a not-found error for the given entity.
func IsNotFound(err error, model string) bool {
	return errors.Is(err, ErrNotFound) && strings.HasPrefix(err.Error(), strings.ToLower(model)+": ")
}

func Unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
