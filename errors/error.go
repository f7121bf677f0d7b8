// Package errors defines the error taxonomy shared by every metanode
// component (spec §7). It follows the teacher's Error shape: a numeric
// code, a message, an optional wrapped cause and optional structured data,
// with Is/As/Unwrap so callers can errors.Is/As through the wrapping chain.
package errors

import (
	"errors"
	"fmt"
)

// ERR enumerates the error kinds from spec §7. Unlike the teacher's
// protobuf-generated ERR enum, this is a plain Go enum: no protoc/buf
// toolchain is available to regenerate a .pb.go file for this exercise
// (see DESIGN.md), so the codes are hand-declared instead of generated.
type ERR int32

const (
	ERR_UNKNOWN ERR = iota
	ERR_VALIDATION
	ERR_CAPACITY_EXCEEDED
	ERR_QUORUM_FAILURE
	ERR_CHAIN_CONTINUITY
	ERR_CRYPTOGRAPHIC_FAILURE
	ERR_INTEGRITY_FAILURE
	ERR_TIMEOUT
	ERR_PERMISSION_DENIED
	ERR_INTERNAL
	ERR_NOT_FOUND
	ERR_INVALID_ARGUMENT
)

var errName = map[ERR]string{
	ERR_UNKNOWN:               "UNKNOWN",
	ERR_VALIDATION:            "VALIDATION",
	ERR_CAPACITY_EXCEEDED:     "CAPACITY_EXCEEDED",
	ERR_QUORUM_FAILURE:        "QUORUM_FAILURE",
	ERR_CHAIN_CONTINUITY:      "CHAIN_CONTINUITY",
	ERR_CRYPTOGRAPHIC_FAILURE: "CRYPTOGRAPHIC_FAILURE",
	ERR_INTEGRITY_FAILURE:     "INTEGRITY_FAILURE",
	ERR_TIMEOUT:               "TIMEOUT",
	ERR_PERMISSION_DENIED:     "PERMISSION_DENIED",
	ERR_INTERNAL:              "INTERNAL",
	ERR_NOT_FOUND:             "NOT_FOUND",
	ERR_INVALID_ARGUMENT:      "INVALID_ARGUMENT",
}

func (c ERR) String() string {
	if n, ok := errName[c]; ok {
		return n
	}
	return "UNKNOWN"
}

// ErrData lets an Error carry a structured payload (e.g. a spent-output
// detail) in addition to its message, the same role the teacher's ErrData
// interface plays.
type ErrData interface {
	Error() string
}

// Error is the concrete error type returned by every metanode package.
type Error struct {
	Code       ERR
	Message    string
	WrappedErr error
	Data       ErrData
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	dataMsg := ""
	if e.Data != nil {
		dataMsg = e.Data.Error()
	}

	if e.WrappedErr == nil {
		if dataMsg == "" {
			return fmt.Sprintf("%s: %s", e.Code, e.Message)
		}
		return fmt.Sprintf("%s: %s, data: %s", e.Code, e.Message, dataMsg)
	}

	if dataMsg == "" {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.WrappedErr)
	}
	return fmt.Sprintf("%s: %s: %v, data: %s", e.Code, e.Message, e.WrappedErr, dataMsg)
}

// Is reports whether error codes match, walking the wrap chain.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}

	var ue *Error
	if errors.As(target, &ue) {
		if e.Code == ue.Code {
			return true
		}
	}

	if unwrapped := errors.Unwrap(e); unwrapped != nil {
		return errors.Is(unwrapped, target)
	}

	return false
}

func (e *Error) As(target interface{}) bool {
	if e == nil {
		return false
	}

	if targetErr, ok := target.(**Error); ok {
		*targetErr = e
		return true
	}

	if e.Data != nil {
		if data, ok := e.Data.(error); ok && errors.As(data, target) {
			return true
		}
	}

	if e.WrappedErr != nil {
		return errors.As(e.WrappedErr, target)
	}

	return false
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.WrappedErr
}

// New builds an Error. A trailing error/*Error argument in params is taken
// as the wrapped cause rather than a format argument, matching the
// teacher's convention.
func New(code ERR, message string, params ...interface{}) *Error {
	var wrapped error

	if len(params) > 0 {
		last := params[len(params)-1]
		if err, ok := last.(error); ok {
			wrapped = err
			params = params[:len(params)-1]
		}
	}

	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}

	return &Error{Code: code, Message: message, WrappedErr: wrapped}
}

func Is(err, target error) bool  { return errors.Is(err, target) }
func As(err error, target any) bool { return errors.As(err, target) }
func Unwrap(err error) error     { return errors.Unwrap(err) }

// Per-domain convenience constructors, mirroring the teacher's
// NewXxxError helpers (e.g. NewBlockInvalidError).

func NewValidationError(format string, params ...interface{}) *Error {
	return New(ERR_VALIDATION, format, params...)
}

func NewCapacityExceededError(format string, params ...interface{}) *Error {
	return New(ERR_CAPACITY_EXCEEDED, format, params...)
}

func NewQuorumFailureError(format string, params ...interface{}) *Error {
	return New(ERR_QUORUM_FAILURE, format, params...)
}

func NewChainContinuityError(format string, params ...interface{}) *Error {
	return New(ERR_CHAIN_CONTINUITY, format, params...)
}

func NewCryptographicFailureError(format string, params ...interface{}) *Error {
	return New(ERR_CRYPTOGRAPHIC_FAILURE, format, params...)
}

func NewIntegrityFailureError(format string, params ...interface{}) *Error {
	return New(ERR_INTEGRITY_FAILURE, format, params...)
}

func NewTimeoutError(format string, params ...interface{}) *Error {
	return New(ERR_TIMEOUT, format, params...)
}

func NewPermissionDeniedError(format string, params ...interface{}) *Error {
	return New(ERR_PERMISSION_DENIED, format, params...)
}

func NewInternalError(format string, params ...interface{}) *Error {
	return New(ERR_INTERNAL, format, params...)
}

func NewNotFoundError(format string, params ...interface{}) *Error {
	return New(ERR_NOT_FOUND, format, params...)
}

func NewInvalidArgumentError(format string, params ...interface{}) *Error {
	return New(ERR_INVALID_ARGUMENT, format, params...)
}

// Sentinel instances for errors.Is comparisons where no extra context is needed.
var (
	ErrNotFound         = New(ERR_NOT_FOUND, "not found")
	ErrCapacityExceeded = New(ERR_CAPACITY_EXCEEDED, "capacity exceeded")
	ErrQuorumFailure    = New(ERR_QUORUM_FAILURE, "quorum not reached")
	ErrPermissionDenied = New(ERR_PERMISSION_DENIED, "permission denied")
)
