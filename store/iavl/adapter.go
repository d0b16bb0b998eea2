package iavl

import (
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DefaultCacheSize is the number of iavl nodes held in memory.
const DefaultCacheSize = 10000

// CommitStore manages a iavl committed state
type CommitStore struct {
	tree *iavl.MutableTree
	db   dbm.DB
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore creates a new store with a goleveldb backing, kept in
// the dir directory under the given name.
func NewCommitStore(dir, name string) (*CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %s in %s: %s", name, dir, err)
	}
	return newCommitStore(db), nil
}

// NewMemCommitStore creates a store that keeps everything in memory.
func NewMemCommitStore() *CommitStore {
	return newCommitStore(dbm.NewMemDB())
}

func newCommitStore(db dbm.DB) *CommitStore {
	return &CommitStore{
		tree: iavl.NewMutableTree(db, DefaultCacheSize),
		db:   db,
	}
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist. Panics on nil key.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

// Commit the next version to disk, and returns info
func (s *CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s *CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// Close releases the backing database.
func (s *CommitStore) Close() {
	s.db.Close()
}

// CacheWrap gives us a savepoint to perform actions. Writing the cache
// applies all changes to the working tree, visible to every following
// CacheWrap but not persisted until Commit.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return s.Adapter().CacheWrap()
}

// Adapter returns a store that reads and writes the working tree
// directly.
func (s *CommitStore) Adapter() store.CacheableKVStore {
	return store.BTreeCacheable{KVStore: &treeAdapter{tree: s.tree}}
}

// treeAdapter exposes the working iavl tree as a KVStore.
type treeAdapter struct {
	tree *iavl.MutableTree
}

var _ store.KVStore = (*treeAdapter)(nil)

func (a *treeAdapter) Get(key []byte) ([]byte, error) {
	_, val := a.tree.Get(key)
	return val, nil
}

func (a *treeAdapter) Has(key []byte) (bool, error) {
	return a.tree.Has(key), nil
}

func (a *treeAdapter) Set(key, value []byte) error {
	a.tree.Set(key, value)
	return nil
}

func (a *treeAdapter) Delete(key []byte) error {
	a.tree.Remove(key)
	return nil
}

func (a *treeAdapter) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(a)
}

func (a *treeAdapter) Iterator(start, end []byte) (store.Iterator, error) {
	return a.iterate(start, end, true), nil
}

func (a *treeAdapter) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return a.iterate(start, end, false), nil
}

// iterate loads the whole range eagerly, as iavl only offers a callback
// based traversal.
func (a *treeAdapter) iterate(start, end []byte, ascending bool) store.Iterator {
	var data []store.Model
	a.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		data = append(data, store.Model{Key: key, Value: value})
		return false
	})
	return store.NewSliceIterator(data)
}
