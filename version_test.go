package weave_test

import (
	"testing"

	"github.com/mintbase/weave"
	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	defer func(c string) { weave.GitCommit = c }(weave.GitCommit)

	weave.GitCommit = ""
	assert.Equal(t, "v0.1.0-dev", weave.Version())

	weave.GitCommit = "12345678"
	assert.Equal(t, "v0.1.0-dev 12345678", weave.Version())
}
