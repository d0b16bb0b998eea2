package x

import (
	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
)

// Authenticator tells an extension which conditions a call is
// authorized by. Handlers receive one in their constructor instead of
// depending on x/auth directly.
type Authenticator interface {
	// GetConditions returns every condition the call satisfies, the
	// main signer first.
	GetConditions(weave.Context) []weave.Condition
	// HasAddress reports whether any satisfied condition has addr.
	HasAddress(weave.Context, weave.Address) bool
}

// MultiAuth merges the conditions of several authenticators.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

// ChainAuth combines impls, in order, into one Authenticator.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth(impls)
}

// GetConditions lists the conditions of every authenticator, skipping
// duplicates.
func (m MultiAuth) GetConditions(ctx weave.Context) []weave.Condition {
	var conds []weave.Condition
	for _, impl := range m {
	next:
		for _, c := range impl.GetConditions(ctx) {
			for _, seen := range conds {
				if seen.Equals(c) {
					continue next
				}
			}
			conds = append(conds, c)
		}
	}
	return conds
}

func (m MultiAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, impl := range m {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// Caller returns the address of the main signer of the call. Account
// scoped operations act on behalf of this address. ErrUnauthorized is
// returned for a call without any signer.
func Caller(ctx weave.Context, auth Authenticator) (weave.Address, error) {
	conds := auth.GetConditions(ctx)
	if len(conds) == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no caller")
	}
	return conds[0].Address(), nil
}
