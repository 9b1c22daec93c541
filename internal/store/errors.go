package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError reports an id the store no longer has.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resume not found: %s", e.ID)
}

// PersistenceError wraps a failed store operation.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to %s resume: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("failed to %s resume", e.Op)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Wrap returns err as a *PersistenceError unless it already is one of this
// package's error types.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Cause: err}
}
