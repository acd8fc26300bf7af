// Package apperr defines the error kinds returned by the domain services.
// Handlers translate them into HTTP statuses; nothing below the HTTP layer
// should need to know about status codes.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports missing or malformed input. Fields names the
// offending request fields when known.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(e.Fields, ", "))
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// ConflictError reports a uniqueness or referential-consistency violation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// StorageError wraps a persistence failure. Its message is for logs only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

// Validation builds a *ValidationError.
func Validation(msg string, fields ...string) error {
	return &ValidationError{Message: msg, Fields: fields}
}

// NotFound builds a *NotFoundError.
func NotFound(entity string, id any) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// Conflict builds a *ConflictError.
func Conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// Storage wraps err as a *StorageError, leaving nil and already
// classified errors untouched.
func Storage(op string, err error) error {
	if err == nil || Classified(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// Classified reports whether err already carries one of the kinds above.
func Classified(err error) bool {
	var (
		v *ValidationError
		n *NotFoundError
		c *ConflictError
		s *StorageError
	)
	return errors.As(err, &v) || errors.As(err, &n) || errors.As(err, &c) || errors.As(err, &s)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
