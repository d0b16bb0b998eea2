// Package store provides the in memory cache layers the app stacks on
// top of a persistent CommitKVStore.
package store

import "github.com/mintbase/weave"

// Aliases so that store implementations can refer to the interfaces
// they satisfy without the weave prefix.
type (
	ReadOnlyKVStore  = weave.ReadOnlyKVStore
	SetDeleter       = weave.SetDeleter
	KVStore          = weave.KVStore
	Batch            = weave.Batch
	Iterator         = weave.Iterator
	CacheableKVStore = weave.CacheableKVStore
	KVCacheWrap      = weave.KVCacheWrap
	CommitKVStore    = weave.CommitKVStore
	CommitID         = weave.CommitID
	Model            = weave.Model
)
