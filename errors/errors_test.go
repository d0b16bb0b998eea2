package errors

import (
	stdlib "errors"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCause(t *testing.T) {
	std := stdlib.New("disk full")

	cases := map[string]struct {
		err  error
		want error
	}{
		"root error":   {err: ErrNotFound, want: ErrNotFound},
		"wrapped root": {err: Wrap(ErrNotFound, "token 3"), want: ErrNotFound},
		"stdlib root":  {err: Wrap(Wrap(std, "set"), "flush"), want: std},
		"field error":  {err: Field("Owner", ErrEmpty, ""), want: ErrEmpty},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, errors.Cause(tc.err))
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		target *Error
		err    error
		want   bool
	}{
		"same root":                {target: ErrNotFound, err: ErrNotFound, want: true},
		"different root":           {target: ErrNotFound, err: ErrModel},
		"pkg/errors wrap":          {target: ErrNotFound, err: errors.Wrap(ErrNotFound, "token"), want: true},
		"pkg/errors wrap of other": {target: ErrNotFound, err: errors.Wrap(ErrOverflow, "id")},
		"stdlib error":             {target: ErrNotFound, err: fmt.Errorf("not found")},
		"nil target and nil":       {err: nil, want: true},
		"nil target and typed nil": {err: (*customError)(nil), want: true},
		"nil target and error":     {err: ErrNotFound},
		"target and nil":           {target: ErrNotFound},
		"multi error first":        {target: ErrNotFound, err: Append(ErrNotFound, ErrState), want: true},
		"multi error last":         {target: ErrNotFound, err: Append(ErrState, ErrNotFound), want: true},
		"multi error wrapped":      {target: ErrNotFound, err: Append(ErrState, Wrap(ErrNotFound, "x")), want: true},
		"multi error without":      {target: ErrNotFound, err: Append(ErrState, ErrInput)},
		"nil target and multi":     {err: Append(ErrState)},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.target.Is(tc.err))
		})
	}
}

func TestRegisterDuplicateCode(t *testing.T) {
	assert.Panics(t, func() { Register(ErrNotFound.code, "again") })
}

type customError struct{}

func (*customError) Error() string {
	return "custom error"
}

func TestWrapEmpty(t *testing.T) {
	if err := Wrap(nil, "wrapping <nil>"); err != nil {
		t.Fatal(err)
	}
}

func TestCode(t *testing.T) {
	cases := map[string]struct {
		err  error
		want uint32
	}{
		"nil":           {err: nil, want: 0},
		"root error":    {err: ErrNotFound, want: 3},
		"wrapped error": {err: Wrap(Wrap(ErrUnauthorized, "a"), "b"), want: 2},
		"stdlib error":  {err: fmt.Errorf("std"), want: 1},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := Code(tc.err); got != tc.want {
				t.Fatalf("want %d, got %d", tc.want, got)
			}
		})
	}
}

func TestAppend(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := Append(nil, ErrEmpty); err != ErrEmpty {
		t.Fatalf("single error must not be wrapped, got %v", err)
	}
	err := Append(ErrEmpty, Append(ErrState, ErrInput))
	u, ok := err.(unpacker)
	if !ok {
		t.Fatalf("want a multi error, got %T", err)
	}
	if n := len(u.Unpack()); n != 3 {
		t.Fatalf("want flattened 3 errors, got %d", n)
	}
}
