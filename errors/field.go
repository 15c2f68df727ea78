package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field marks err as caused by the value of the named attribute. The result
// is nil if err is nil. Attribute names follow Go naming, for example Admin
// or Rent.BurnPercent.
func Field(name string, err error, desc string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if len(args) != 0 {
		desc = fmt.Sprintf(desc, args...)
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &attrError{name: name, desc: desc, err: err}
}

// attrError is an error bound to a single attribute.
type attrError struct {
	name string
	desc string
	err  error
}

func (a *attrError) Error() string {
	if a.desc == "" {
		return fmt.Sprintf("%s: %s", a.name, a.err)
	}
	return fmt.Sprintf("%s %s: %s", a.name, a.desc, a.err)
}

func (a *attrError) Cause() error {
	return a.err
}

// FieldErrors collects the errors created by Field for the given attribute
// name, searching through wrapped and appended errors.
func FieldErrors(err error, name string) []error {
	var found []error
	walk(err, func(e error) bool {
		a, ok := e.(*attrError)
		if ok && a.name == name {
			found = append(found, e)
			return false
		}
		return true
	})
	return found
}

// walk visits err and every error it wraps, depth first. Children of an
// error are skipped when visit returns false.
func walk(err error, visit func(error) bool) {
	for !isNilErr(err) && visit(err) {
		if u, ok := err.(unpacker); ok {
			for _, child := range u.Unpack() {
				walk(child, visit)
			}
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}
