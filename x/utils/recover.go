package utils

import (
	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
)

// Recovery converts a panic raised further down the stack into an
// ErrPanic error, so a single broken call cannot halt the registry.
type Recovery struct{}

var _ weave.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (_ *weave.CheckResult, err error) {
	defer recoverPanic(ctx, &err)
	return next.Check(ctx, store, tx)
}

func (Recovery) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (_ *weave.DeliverResult, err error) {
	defer recoverPanic(ctx, &err)
	return next.Deliver(ctx, store, tx)
}

// recoverPanic must be deferred directly for recover to see the panic.
func recoverPanic(ctx weave.Context, err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", r)
	weave.GetLogger(ctx).Error("recovered from panic", "panic", r)
}
