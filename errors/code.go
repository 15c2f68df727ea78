package errors

import (
	"errors"
)

const (
	// SuccessCode is returned for a nil error.
	SuccessCode uint32 = 0

	// All unclassified errors that do not provide a code are clubbed under
	// an internal error code and a generic message.
	internalCode uint32 = 1
	internalLog         = "internal error"
)

type coder interface {
	Code() uint32
}

// Code returns the classification of given error. Any error that does not
// wrap a registered root error is classified as internal (code 1). A
// combined error takes the code of its first error.
func Code(err error) uint32 {
	if isNilErr(err) {
		return SuccessCode
	}
	code, done := internalCode, false
	walk(err, func(x error) bool {
		if done {
			return false
		}
		if c, ok := x.(coder); ok {
			code, done = c.Code(), true
		}
		return !done
	})
	return code
}

// Redact replaces all errors that are not classified with a generic internal
// error instance. Panics are always redacted.
//
// This is a no-operation function when running in debug mode.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) {
		return errors.New(internalLog)
	}
	if Code(err) == internalCode {
		return errors.New(internalLog)
	}
	return err
}
