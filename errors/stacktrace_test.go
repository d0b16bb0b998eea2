package errors

import (
	stdlib "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTokenErr() error {
	return Wrapf(ErrNotFound, "token %d", 7)
}

func TestStackTrace(t *testing.T) {
	cases := map[string]struct {
		err      error
		wantMsg  string
		wantFunc string
	}{
		"registered error": {
			err:      Wrap(ErrDuplicate, "mint id"),
			wantMsg:  "mint id: duplicate",
			wantFunc: "TestStackTrace",
		},
		"stdlib error": {
			err:      Wrap(stdlib.New("closed"), "store"),
			wantMsg:  "store: closed",
			wantFunc: "TestStackTrace",
		},
		"fmt error": {
			err:      Wrap(fmt.Errorf("no such file"), "genesis"),
			wantMsg:  "genesis: no such file",
			wantFunc: "TestStackTrace",
		},
		"created in a helper": {
			err:      newTokenErr(),
			wantMsg:  "token 7: not found",
			wantFunc: "newTokenErr",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantMsg, tc.err.Error())
			assert.NotNil(t, stackTrace(tc.err))

			full := fmt.Sprintf("%+v", tc.err)
			assert.Contains(t, full, tc.wantMsg)
			assert.Contains(t, full, tc.wantFunc)
			assert.Contains(t, full, "errors/stacktrace_test.go")

			short := fmt.Sprintf("%v", tc.err)
			assert.True(t, strings.HasPrefix(short, tc.wantMsg), short)
			assert.NotContains(t, short, "\n")
			assert.Contains(t, short, "errors/stacktrace_test.go:")
		})
	}
}

func TestStackTraceRecordedOnce(t *testing.T) {
	inner := Wrap(ErrEmpty, "inner")
	outer := Wrap(inner, "outer")
	assert.Equal(t, stackTrace(inner), stackTrace(outer))
}
