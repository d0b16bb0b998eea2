package app

import (
	"reflect"

	"github.com/mintbase/weave"
)

// Decorators is an ordered list of decorators waiting for the handler
// they will wrap.
type Decorators struct {
	chain []weave.Decorator
}

/*
ChainDecorators returns the given decorators as a chain. The first one
runs first. Nil entries are dropped, so optional decorators can be
passed unconditionally.

	app.ChainDecorators(
	  utils.NewLogging(),
	  utils.NewRecovery(),
	  auth.NewDecorator(),
	  utils.NewSavepoint().OnDeliver(),
	).WithHandler(router)
*/
func ChainDecorators(chain ...weave.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new chain with the given decorators appended.
func (d Decorators) Chain(chain ...weave.Decorator) Decorators {
	next := make([]weave.Decorator, 0, len(d.chain)+len(chain))
	next = append(next, d.chain...)
	for _, dec := range chain {
		if !isNil(dec) {
			next = append(next, dec)
		}
	}
	return Decorators{chain: next}
}

func isNil(d weave.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the chain with h. Every call passes through all
// decorators, in order, before it reaches h.
func (d Decorators) WithHandler(h weave.Handler) weave.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step binds a decorator to the handler it wraps.
type step struct {
	d    weave.Decorator
	next weave.Handler
}

var _ weave.Handler = step{}

func (s step) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

func (s step) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
