package utils

import (
	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
)

// Savepoint runs the rest of the stack on a cache wrap of the store.
// The cache is written only when the call succeeds, so a failing call
// leaves no partial state behind. It is disabled for both phases until
// OnCheck or OnDeliver is called.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ weave.Decorator = Savepoint{}

func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a copy that also isolates the check phase.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a copy that also isolates the deliver phase.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	cache, ok := cacheWrap(s.onCheck, store)
	if !ok {
		return next.Check(ctx, store, tx)
	}
	res, err := next.Check(ctx, cache, tx)
	if err := commit(cache, err); err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	cache, ok := cacheWrap(s.onDeliver, store)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}
	res, err := next.Deliver(ctx, cache, tx)
	if err := commit(cache, err); err != nil {
		return nil, err
	}
	return res, nil
}

// cacheWrap returns false when the savepoint is disabled or the store
// cannot be wrapped.
func cacheWrap(enabled bool, store weave.KVStore) (weave.KVCacheWrap, bool) {
	if !enabled {
		return nil, false
	}
	cstore, ok := store.(weave.CacheableKVStore)
	if !ok {
		return nil, false
	}
	return cstore.CacheWrap(), true
}

// commit writes the cache if the call succeeded and discards it
// otherwise.
func commit(cache weave.KVCacheWrap, callErr error) error {
	if callErr != nil {
		cache.Discard()
		return callErr
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write savepoint")
	}
	return nil
}
