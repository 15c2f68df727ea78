package errors

import (
	stdlib "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	std := stdlib.New("this is a stdlib error")

	cases := map[string]struct {
		err  error
		root error
	}{
		"Errors are self-causing": {
			err:  ErrNotFound,
			root: ErrNotFound,
		},
		"Wrap reveals root cause": {
			err:  Wrap(ErrNotFound, "foo"),
			root: ErrNotFound,
		},
		"Cause works for stderr as root": {
			err:  Wrap(std, "Some helpful text"),
			root: std,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrNotFound,
			b:      ErrNotFound,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrNotFound,
			b:      ErrDuplicate,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrUnauthorized,
			b:      Wrap(Wrap(ErrUnauthorized, "second signer"), "gate"),
			wantIs: true,
		},
		"pkg/errors wrapped error": {
			a:      ErrNotFound,
			b:      errors.Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"stdlib error is not a root error": {
			a:      ErrHuman,
			b:      stdlib.New("human"),
			wantIs: false,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is not an error": {
			a:      nil,
			b:      ErrState,
			wantIs: false,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result - got: %v", got)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "nothing"); err != nil {
		t.Fatalf("want nil, got %+v", err)
	}
	if err := Wrapf(nil, "nothing %d", 1); err != nil {
		t.Fatalf("want nil, got %+v", err)
	}
}

func TestCode(t *testing.T) {
	cases := map[string]struct {
		err  error
		want uint32
	}{
		"nil":           {err: nil, want: SuccessCode},
		"root":          {err: ErrUnauthorized, want: 2},
		"wrapped root":  {err: ErrDuplicate.New("mint"), want: 6},
		"double wrap":   {err: Wrap(ErrOwner.New("token"), "step"), want: 18},
		"stdlib":        {err: stdlib.New("boom"), want: internalCode},
		"wrapped stdlb": {err: Wrap(stdlib.New("boom"), "io"), want: internalCode},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := Code(tc.err); got != tc.want {
				t.Fatalf("want %d, got %d", tc.want, got)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(ErrUnauthorized.New("admin"), false); !ErrUnauthorized.Is(err) {
		t.Fatalf("classified error must not be redacted: %v", err)
	}
	if err := Redact(stdlib.New("secret path"), false); err.Error() != internalLog {
		t.Fatalf("want redacted error, got %q", err)
	}
	var err error
	func() {
		defer Recover(&err)
		panic("at the disco")
	}()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
	if got := Redact(err, false); got.Error() != internalLog {
		t.Fatalf("panic must be redacted, got %q", got)
	}
	if got := Redact(err, true); got != err {
		t.Fatal("debug mode must not redact")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	Register(ErrUnauthorized.Code(), "again")
}

func TestStackTraceAttachedOnce(t *testing.T) {
	err := Wrap(Wrap(ErrState, "inner"), "outer")
	full := fmt.Sprintf("%+v", err)
	if !strings.Contains(full, "TestStackTraceAttachedOnce") {
		t.Fatalf("stack trace missing: %s", full)
	}
	if got := err.Error(); got != "outer: inner: invalid state" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestFieldErrors(t *testing.T) {
	err := Wrap(Field("Admin", ErrEmpty, "required"), "configuration")
	if errs := FieldErrors(err, "Admin"); len(errs) != 1 || !ErrEmpty.Is(errs[0]) {
		t.Fatalf("want one Admin field error, got %v", errs)
	}
	if errs := FieldErrors(err, "SecondSigner"); len(errs) != 0 {
		t.Fatalf("want no SecondSigner errors, got %v", errs)
	}
	if Field("Admin", nil, "nothing") != nil {
		t.Fatal("nil error must produce nil field error")
	}
}

func TestAppend(t *testing.T) {
	if Append(nil, nil) != nil {
		t.Fatal("appending nil errors must produce nil")
	}
	if err := Append(nil, ErrEmpty); err != ErrEmpty {
		t.Fatalf("single error must be returned as is, got %v", err)
	}

	err := AppendField(nil, "Admin", ErrEmpty)
	err = AppendField(err, "SecondSigner", ErrInput)
	err = Append(err, nil)
	if !ErrEmpty.Is(err) || !ErrInput.Is(err) {
		t.Fatalf("both errors must match, got %v", err)
	}
	if ErrState.Is(err) {
		t.Fatal("unexpected match")
	}
	if Code(err) != ErrEmpty.Code() {
		t.Fatalf("want the first error code, got %d", Code(err))
	}
	if errs := FieldErrors(err, "SecondSigner"); len(errs) != 1 || !ErrInput.Is(errs[0]) {
		t.Fatalf("want one SecondSigner error, got %v", errs)
	}
}
