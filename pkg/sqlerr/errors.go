// Package sqlerr defines the error kinds shared by buffers, large objects,
// content sources and cursors.
//
// Every error returned by this module wraps exactly one of the sentinels
// below, so callers match with errors.Is.
package sqlerr

import (
	"github.com/pkg/errors"
)

// Argument errors
var (
	ErrInvalidArgument = errors.New("invalid argument")
)

// Range errors
var (
	ErrPositionOutOfRange = errors.New("position out of range")
	ErrRowOutOfRange      = errors.New("row out of range")
	ErrColumnOutOfRange   = errors.New("column out of range")
)

// Operation and cursor state errors
var (
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrInvalidCursorState   = errors.New("invalid cursor state")
	ErrCursorClosed         = errors.New("cursor closed")
	ErrNoCurrentRow         = errors.New("no current row")
)

// Collaborator errors
var (
	ErrConversionUnsupported     = errors.New("conversion unsupported")
	ErrUnsupportedRepresentation = errors.New("unsupported representation")
)

// OutOfRange wraps kind with the offending value and the valid bounds.
func OutOfRange(kind error, value, min, max int64) error {
	if max < min {
		return errors.Wrapf(kind, "value [%d] outside the empty range", value)
	}
	return errors.Wrapf(kind, "value [%d] outside the range %d..%d", value, min, max)
}

// InvalidArgument wraps ErrInvalidArgument with a formatted description.
func InvalidArgument(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

// Unsupported wraps ErrUnsupportedOperation with a formatted description.
func Unsupported(format string, args ...interface{}) error {
	return errors.Wrapf(ErrUnsupportedOperation, format, args...)
}
