package assert

import (
	"reflect"
	"strings"

	"github.com/iov-one/mintgate/errors"
)

// Tester is the part of testing.TB used by the assertions.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
	Logf(string, ...interface{})
}

// Nil fails unless value is nil or a typed nil. Errors are printed with
// their stack trace.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("want nil, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

// Equal fails unless want and got are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("want a panic")
		}
	}()
	fn()
}

// IsErr fails unless got is or wraps want. A nil want matches nil only.
func IsErr(t Tester, want *errors.Error, got error) {
	t.Helper()
	if !want.Is(got) {
		t.Fatalf("want %v error, got %+v", want, got)
	}
}

// FieldError checks the errors reported for a single attribute. With a nil
// want there must be none, otherwise exactly one of the wanted kind.
func FieldError(t Tester, err error, name string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, name)
	switch {
	case want == nil && len(errs) != 0:
		t.Fatalf("want no %s error, got %v", name, errs)
	case want == nil:
	case len(errs) == 0:
		t.Fatalf("want %v error for %s, got none", want, name)
	case len(errs) > 1:
		for i, e := range errs {
			t.Logf("%s error %d: %v", name, i, e)
		}
		t.Fatalf("want one %s error, got %d", name, len(errs))
	case !want.Is(errs[0]):
		t.Fatalf("want %v error for %s, got %+v", want, name, errs[0])
	}
}

// LogContains fails unless every want line is a substring of a log line, in
// the given order. Other lines may appear in between.
func LogContains(t Tester, logs []string, want ...string) {
	t.Helper()
	next := 0
	for _, line := range logs {
		if next < len(want) && strings.Contains(line, want[next]) {
			next++
		}
	}
	if next < len(want) {
		for i, line := range logs {
			t.Logf("log %d: %s", i, line)
		}
		t.Fatalf("log line %q not found", want[next])
	}
}
