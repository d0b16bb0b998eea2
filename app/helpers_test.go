package app

import "github.com/mintbase/weave"

// traceDecorator appends "<name>>" to trace when a call enters and
// "<name><" when it returns.
type traceDecorator struct {
	name  string
	trace *[]string
}

var _ weave.Decorator = traceDecorator{}

func (d traceDecorator) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	*d.trace = append(*d.trace, d.name+">")
	defer func() { *d.trace = append(*d.trace, d.name+"<") }()
	return next.Check(ctx, store, tx)
}

func (d traceDecorator) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	*d.trace = append(*d.trace, d.name+">")
	defer func() { *d.trace = append(*d.trace, d.name+"<") }()
	return next.Deliver(ctx, store, tx)
}

// heightLimit panics for blocks at or above max.
type heightLimit struct {
	max int64
}

func (h heightLimit) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	h.enforce(ctx)
	return next.Check(ctx, store, tx)
}

func (h heightLimit) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	h.enforce(ctx)
	return next.Deliver(ctx, store, tx)
}

func (h heightLimit) enforce(ctx weave.Context) {
	if height, _ := weave.GetHeight(ctx); height >= h.max {
		panic("height limit reached")
	}
}
