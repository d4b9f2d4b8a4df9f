package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row. It is an expected
// outcome, not a storage failure.
var ErrNotFound = errors.New("record not found")

// ValidationError is a recoverable input problem (duplicate username, missing
// required field). It is surfaced to the caller for correction.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// StorageError wraps a failed statement: constraint violation, connectivity
// loss, or any other database-level failure. Inside a composite transaction it
// always follows a full rollback.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func storage(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// translate maps a gorm lookup error onto the repository taxonomy.
func translate(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return storage(op, err)
}
