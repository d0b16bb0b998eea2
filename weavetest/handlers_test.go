package weavetest

import (
	"testing"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/stretchr/testify/assert"
)

func TestHandler(t *testing.T) {
	h := Handler{
		CheckResult:   weave.CheckResult{Data: []byte("check"), GasAllocated: 5},
		DeliverResult: weave.DeliverResult{Data: []byte("deliver"), GasUsed: 824},
	}

	cres, err := h.Check(nil, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, &h.CheckResult, cres)

	dres, err := h.Deliver(nil, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, &h.DeliverResult, dres)

	// Results are copies, callers cannot change the mock.
	dres.Log = "changed"
	assert.Empty(t, h.DeliverResult.Log)

	h.CheckErr = errors.ErrUnauthorized
	h.DeliverErr = errors.ErrNotFound
	_, err = h.Check(nil, nil, nil)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = h.Deliver(nil, nil, nil)
	assert.True(t, errors.ErrNotFound.Is(err))

	assertCalls(t, &h.calls, 2, 2)
}
