package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Failure taxonomy for the write procedures. Callers match with
// errors.Is; the wrapped message carries the human-readable detail.
var (
	// ErrConstraintViolation covers uniqueness, foreign-key and check
	// failures: duplicate ticker, non-positive launch price, negative
	// quantity.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrNotFound means a referenced ticker is absent where presence
	// is required.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks business-rule failures raised deliberately
	// by a procedure, with a message meant for the end user.
	ErrValidation = errors.New("validation failed")
)

// isUniqueViolation reports whether err is a uniqueness failure from
// the store. The string check covers sqlite drivers that don't
// translate into gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
