package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/mintbase/weave/errors"
)

// btreeDegree keeps the nodes small, a cache wrap rarely holds more
// than the writes of a single block.
const btreeDegree = 2

// BTreeCacheable gives any KVStore a CacheWrap method backed by an in
// memory btree.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap buffers all writes until Write is called.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns a store that lives only in memory. Tests and the
// in memory commit store build on it.
func MemStore() CacheableKVStore {
	var empty EmptyKVStore
	return NewBTreeCacheWrap(empty, empty.NewBatch(), nil)
}

// BTreeCacheWrap keeps pending writes in a btree on top of a read only
// parent. Reads consult the btree first and fall back to the parent.
type BTreeCacheWrap struct {
	tree   *btree.BTree
	free   *btree.FreeList
	parent ReadOnlyKVStore
	batch  Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap creates a cache over parent. Every write is also
// recorded in batch, which must write to the parent store.
//
// Passing a non nil free list shares btree nodes between caches.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		tree:   btree.NewWithFreeList(btreeDegree, free),
		free:   free,
		parent: parent,
		batch:  batch,
	}
}

// CacheWrap stacks another cache on top of this one. Both share the
// same free list.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch writing into this cache.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all pending operations to the parent and empties the
// cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all pending operations. Released nodes go back to the
// free list.
func (b BTreeCacheWrap) Discard() {
	for b.tree.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.tree.ReplaceOrInsert(setItem{bkey: bkey{key}, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.tree.ReplaceOrInsert(deletedItem{bkey{key}})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	value, cached, err := b.lookup(key)
	if err != nil || cached {
		return value, err
	}
	return b.parent.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	value, cached, err := b.lookup(key)
	if err != nil {
		return false, err
	}
	if cached {
		return value != nil, nil
	}
	return b.parent.Has(key)
}

// lookup returns the cached value of key. cached is false when the key
// was never written to this cache. A deleted key is cached with a nil
// value.
func (b BTreeCacheWrap) lookup(key []byte) (value []byte, cached bool, err error) {
	switch item := b.tree.Get(bkey{key}).(type) {
	case nil:
		return nil, false, nil
	case setItem:
		// Has must report an empty value as present.
		if item.value == nil {
			return []byte{}, true, nil
		}
		return item.value, true, nil
	case deletedItem:
		return nil, true, nil
	default:
		return nil, false, errors.Wrapf(errors.ErrDatabase, "unexpected btree item %T", item)
	}
}

// Iterator walks [start, end) in ascending order, merging the cache with
// the parent store.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergedIterator(ascendBtree(b.tree, start, end), parent, true)
}

// ReverseIterator walks [start, end) in descending order, merging the
// cache with the parent store.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergedIterator(descendBtree(b.tree, start, end), parent, false)
}

// keyer is implemented by every item stored in the btree.
type keyer interface {
	Key() []byte
}

// bkey orders btree items by their key. On its own it is used as a
// search pivot.
type bkey struct {
	key []byte
}

var _ btree.Item = bkey{}

func (k bkey) Key() []byte {
	return k.key
}

// Less panics if item is not a keyer.
func (k bkey) Less(item btree.Item) bool {
	return bytes.Compare(k.key, item.(keyer).Key()) < 0
}

// deletedItem marks a key removed in this cache but maybe still present
// in the parent.
type deletedItem struct {
	bkey
}

type setItem struct {
	bkey
	value []byte
}
