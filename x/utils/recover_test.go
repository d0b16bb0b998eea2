package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/store"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestRecovery(t *testing.T) {
	var h panicHandler
	var logs bytes.Buffer
	ctx := weave.WithLogger(context.Background(), log.NewTMLogger(&logs))
	db := store.MemStore()

	assert.Panics(t, func() { _, _ = h.Check(ctx, db, nil) })
	assert.Panics(t, func() { _, _ = h.Deliver(ctx, db, nil) })

	r := NewRecovery()
	_, err := r.Check(ctx, db, nil, h)
	assert.True(t, errors.ErrPanic.Is(err), "got %v", err)
	assert.Contains(t, err.Error(), "check panic")

	_, err = r.Deliver(ctx, db, nil, h)
	assert.True(t, errors.ErrPanic.Is(err), "got %v", err)
	assert.Contains(t, logs.String(), "deliver panic")
}

func TestRecoveryPassesThrough(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	r := NewRecovery()

	_, err := r.Deliver(ctx, db, nil, failHandler{err: errors.ErrUnauthorized})
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %v", err)

	res, err := r.Check(ctx, db, nil, failHandler{})
	assert.NoError(t, err)
	assert.NotNil(t, res)
}

type panicHandler struct{}

var _ weave.Handler = panicHandler{}

func (panicHandler) Check(weave.Context, weave.KVStore, weave.Tx) (*weave.CheckResult, error) {
	panic("check panic")
}

func (panicHandler) Deliver(weave.Context, weave.KVStore, weave.Tx) (*weave.DeliverResult, error) {
	panic("deliver panic")
}

type failHandler struct {
	err error
}

func (f failHandler) Check(weave.Context, weave.KVStore, weave.Tx) (*weave.CheckResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &weave.CheckResult{}, nil
}

func (f failHandler) Deliver(weave.Context, weave.KVStore, weave.Tx) (*weave.DeliverResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &weave.DeliverResult{}, nil
}
