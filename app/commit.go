package app

import (
	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
)

// CommitStore wraps the persistent store with two scratch pads. Calls
// being checked write to the check pad, delivered calls to the deliver
// pad. Only the deliver pad is persisted on Commit.
type CommitStore struct {
	committed weave.CommitKVStore
	deliver   weave.KVCacheWrap
	check     weave.KVCacheWrap
}

// NewCommitStore loads the latest version of store and opens both
// scratch pads on top of it. It panics if the store cannot be loaded.
func NewCommitStore(store weave.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{committed: store}
	cs.reset()
	return cs
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the version and hash of the last commit.
func (cs *CommitStore) CommitInfo() (weave.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit writes the delivered state as a new version and drops
// everything written while checking. It must not run concurrently with
// a call.
func (cs *CommitStore) Commit() (weave.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return weave.CommitID{}, errors.Wrap(err, "flush delivered state")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.reset()
	return id, nil
}

// CheckStore returns the scratch pad used when checking calls.
func (cs *CommitStore) CheckStore() weave.CacheableKVStore {
	return cs.check
}

// DeliverStore returns the scratch pad used when delivering calls.
func (cs *CommitStore) DeliverStore() weave.CacheableKVStore {
	return cs.deliver
}

// chainIDKey holds the chain id. The "_wv:" prefix is reserved for data
// owned by the application itself.
const chainIDKey = "_wv:chainID"

// mustLoadChainID returns the stored chain id, or an empty string before
// the chain was initialized.
func mustLoadChainID(kv weave.KVStore) string {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		panic(err)
	}
	return string(v)
}

// saveChainID stores the chain id. It can be set only once.
func saveChainID(kv weave.KVStore, chainID string) error {
	if !weave.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	switch exists, err := kv.Has([]byte(chainIDKey)); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case exists:
		return errors.Wrap(errors.ErrImmutable, "chain id is set at genesis")
	}
	if err := kv.Set([]byte(chainIDKey), []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
