package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound covers reports, versions, schedules, templates and share
// links whose id does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict signals a stale base version on report update.
var ErrConflict = errors.New("version conflict")

// ValidationError rejects a bad column/filter/sort/format reference before
// any query or mutation runs. Field names the offending key.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %q: %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// UnknownDataSourceError is returned when a data source key is not in the
// catalog.
type UnknownDataSourceError struct {
	Key string
}

func (e *UnknownDataSourceError) Error() string {
	return fmt.Sprintf("unknown data source: %s", e.Key)
}

// UnsupportedFormatError is returned when an export or schedule names a
// format no renderer implements.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %s", e.Format)
}

// UnavailableReason is the only detail a non-resolvable share link exposes.
type UnavailableReason string

const (
	UnavailableExpired  UnavailableReason = "expired"
	UnavailableInactive UnavailableReason = "inactive"
)

// UnavailableError is returned for expired, revoked and unknown share
// tokens alike. Unknown tokens report UnavailableInactive so a caller
// cannot tell a never-issued token from a revoked one.
type UnavailableError struct {
	Reason UnavailableReason
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("share link unavailable: %s", e.Reason)
}

// RenderError wraps a runtime failure while producing an artifact.
type RenderError struct {
	Format string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s failed: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// ExecutionError wraps a failure from the backing data source.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("query execution failed: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
