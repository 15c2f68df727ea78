/*
Package errors implements the error classification used by mintgate programs
and the host runtime.

Every failure returned by a program must wrap one of the root errors declared
in this package (or one registered with Register). The root error is the
classification the caller sees: ErrUnauthorized when a required signature is
missing, ErrDuplicate when an account is already in use and so on. Use
Code to read the numeric classification of any error.

Create errors at the point of failure with ErrXyz.New("...") or
errors.Wrap(err, "..."), so that a stack trace is attached once, at the
innermost frame.

	%s  the error message
	%+v the message and the stack trace of the creation point
*/
package errors
