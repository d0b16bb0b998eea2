// Package assert holds the few assertions used across weave tests that
// know about weave errors. Every failing assertion stops the test.
package assert

import (
	"reflect"
	"testing"

	"github.com/mintbase/weave/errors"
)

// Tester is the part of testing.TB the assertions need.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails unless value is nil or a nil pointer, map, slice, channel,
// function or interface.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// %+v prints the stack of weave errors.
		t.Fatalf("want nil, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
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
		t.Fatalf("values not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	panicked := func() (p bool) {
		defer func() { p = recover() != nil }()
		fn()
		return false
	}()
	if !panicked {
		t.Fatal("panic expected")
	}
}

// IsErr fails unless got is want or, when want is a weave error, got
// wraps it.
func IsErr(t testing.TB, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if w, ok := want.(interface{ Is(error) bool }); ok && w.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}

// FieldError fails unless err holds exactly one error for fieldName and
// that error is want. A nil want asserts that fieldName has no error.
func FieldError(t testing.TB, err error, fieldName string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, fieldName)
	if want == nil {
		if len(errs) != 0 {
			logErrors(t, errs)
			t.Fatalf("want no %s error, got %d", fieldName, len(errs))
		}
		return
	}
	switch len(errs) {
	case 0:
		t.Fatalf("no %s error found", fieldName)
	case 1:
		if !want.Is(errs[0]) {
			t.Fatalf("%s: want %q, got %q", fieldName, want, errs[0])
		}
	default:
		logErrors(t, errs)
		t.Fatalf("want one %s error, got %d", fieldName, len(errs))
	}
}

func logErrors(t testing.TB, errs []error) {
	t.Helper()
	for i, e := range errs {
		t.Logf("\terror %d: %q", i+1, e)
	}
}
