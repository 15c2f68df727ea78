package errors

import (
	"fmt"
	"strings"
)

// Append combines all given errors into a single error. Nil errors are
// ignored and nil is returned if no error is left. Appending to a result of
// Append flattens the list.
//
// The combined error is classified by its first error.
func Append(errs ...error) error {
	var res []error
	for _, err := range errs {
		if isNilErr(err) {
			continue
		}
		if m, ok := err.(*multiErr); ok {
			res = append(res, m.errs...)
			continue
		}
		res = append(res, err)
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return &multiErr{errs: res}
	}
}

// AppendField is a shortcut for appending a field error.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

type unpacker interface {
	Unpack() []error
}

type multiErr struct {
	errs []error
}

var _ unpacker = (*multiErr)(nil)
var _ causer = (*multiErr)(nil)

func (m *multiErr) Error() string {
	points := make([]string, len(m.errs))
	for i, err := range m.errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(m.errs), strings.Join(points, "\n\t"))
}

// Unpack returns all combined errors.
func (m *multiErr) Unpack() []error {
	return append([]error(nil), m.errs...)
}

// Cause returns the first error.
func (m *multiErr) Cause() error {
	return m.errs[0]
}
