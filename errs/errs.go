// Package errs holds the sentinel errors the codec returns, and the mapping
// from each one to the public format.ErrorCode a Context.Error() call reports.
package errs

import (
	"errors"

	"github.com/octmgo/octm/format"
)

var (
	// Programmer errors: the call is a no-op except for latching the error.
	ErrInvalidContext   = errors.New("octm: context is not in a valid state for this call")
	ErrInvalidArgument  = errors.New("octm: invalid argument")
	ErrInvalidOperation = errors.New("octm: operation not valid in the current mode/state")

	// Resource errors: recoverable by the caller, all scratch state released.
	ErrOutOfMemory = errors.New("octm: allocation failed")
	ErrFileError   = errors.New("octm: stream read/write returned a short count")

	// Data errors: the input is rejected.
	ErrInvalidMesh              = errors.New("octm: mesh fails validation")
	ErrBadFormat                = errors.New("octm: malformed stream")
	ErrUnsupportedFormatVersion = errors.New("octm: unsupported file format version")

	// Subsystem errors.
	ErrLZMAError            = errors.New("octm: lzma compress/decompress failed")
	ErrUnsupportedOperation = errors.New("octm: operation not supported by this build")

	// Internal errors: an invariant the codec expected to hold did not.
	ErrInternalError = errors.New("octm: internal invariant violated")
)

// CodeOf maps a sentinel error (optionally wrapped) to its format.ErrorCode.
// Unrecognized errors map to format.ErrorInternalError, since every error this
// codec itself returns wraps one of the sentinels above.
func CodeOf(err error) format.ErrorCode {
	switch {
	case err == nil:
		return format.ErrorNone
	case errors.Is(err, ErrInvalidContext):
		return format.ErrorInvalidContext
	case errors.Is(err, ErrInvalidArgument):
		return format.ErrorInvalidArgument
	case errors.Is(err, ErrInvalidOperation):
		return format.ErrorInvalidOperation
	case errors.Is(err, ErrInvalidMesh):
		return format.ErrorInvalidMesh
	case errors.Is(err, ErrOutOfMemory):
		return format.ErrorOutOfMemory
	case errors.Is(err, ErrFileError):
		return format.ErrorFileError
	case errors.Is(err, ErrBadFormat):
		return format.ErrorBadFormat
	case errors.Is(err, ErrLZMAError):
		return format.ErrorLZMAError
	case errors.Is(err, ErrUnsupportedOperation):
		return format.ErrorUnsupportedOperation
	case errors.Is(err, ErrUnsupportedFormatVersion):
		return format.ErrorUnsupportedFormatVersion
	default:
		return format.ErrorInternalError
	}
}
