/*
Package auth attributes a caller identity to every call.

The surrounding host is responsible for proving who issued a call. It
declares that identity on the transaction and the Decorator exposes it
to the rest of the stack through the Authenticate authenticator.
*/
package auth

import (
	"context"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/x"
)

type contextKey int // local to the auth module

const (
	contextKeyCallers contextKey = iota
)

// CallerTx is implemented by transactions that carry the identity of the
// account that issued them.
type CallerTx interface {
	weave.Tx
	GetCaller() weave.Condition
}

// withCallers is a private method, as only this module
// can attribute a caller
func withCallers(ctx weave.Context, callers []weave.Condition) weave.Context {
	return context.WithValue(ctx, contextKeyCallers, callers)
}

// GetCallers returns the identities attributed to the current context,
// may be empty
func GetCallers(ctx weave.Context) []weave.Condition {
	val, _ := ctx.Value(contextKeyCallers).([]weave.Condition)
	return val
}

// Authenticate implements x.Authenticator and provides the identity
// attributed by the Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns all identities attributed to the call.
func (Authenticate) GetConditions(ctx weave.Context) []weave.Condition {
	return GetCallers(ctx)
}

// HasAddress returns true if the given address was attributed to the
// call.
func (Authenticate) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, c := range GetCallers(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}

// Decorator reads the caller declared on the transaction and stores it in
// the context. Transactions that do not implement CallerTx pass through
// anonymous.
type Decorator struct{}

var _ weave.Decorator = Decorator{}

// NewDecorator returns a default authentication decorator.
func NewDecorator() Decorator {
	return Decorator{}
}

// Check attributes the caller and calls down the stack.
func (d Decorator) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	ctx, err := attribute(ctx, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, store, tx)
}

// Deliver attributes the caller and calls down the stack.
func (d Decorator) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	ctx, err := attribute(ctx, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, store, tx)
}

func attribute(ctx weave.Context, tx weave.Tx) (weave.Context, error) {
	ctx = withCallers(ctx, nil)
	callerTx, ok := tx.(CallerTx)
	if !ok {
		return ctx, nil
	}
	caller := callerTx.GetCaller()
	if caller == nil {
		return ctx, nil
	}
	if err := caller.Validate(); err != nil {
		return nil, errors.Wrap(err, "caller")
	}
	ctx = weave.WithLogInfo(ctx, "caller", caller.Address().String())
	return withCallers(ctx, []weave.Condition{caller}), nil
}
