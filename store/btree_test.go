package store

import (
	"testing"

	"github.com/mintbase/weave/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGet(t testing.TB, kv ReadOnlyKVStore, key []byte) []byte {
	t.Helper()
	v, err := kv.Get(key)
	require.NoError(t, err)
	return v
}

func mustHas(t testing.TB, kv ReadOnlyKVStore, key []byte) bool {
	t.Helper()
	ok, err := kv.Has(key)
	require.NoError(t, err)
	return ok
}

func consume(t testing.TB, it Iterator) []Model {
	t.Helper()
	defer it.Release()
	var res []Model
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		require.NoError(t, err)
		res = append(res, Model{Key: k, Value: v})
	}
}

// TestBTreeCacheGetSet does basic sanity checks on our cache
//
// Other tests should handle deletes, setting same value,
// iterating over ranges, and general fuzzing
func TestBTreeCacheGetSet(t *testing.T) {
	// devnull is a black hole... just to keep our types proper
	devnull := BTreeCacheable{EmptyKVStore{}}

	// base is the root of our data, we can layer on top and
	// all queries should work
	base := devnull.CacheWrap()

	k, v := []byte("french"), []byte("fry")
	assert.Nil(t, mustGet(t, base, k))
	assert.False(t, mustHas(t, base, k))
	require.NoError(t, base.Set(k, v))
	assert.Equal(t, v, mustGet(t, base, k))
	assert.True(t, mustHas(t, base, k))

	// now layer another btree on top and make sure that we get
	// base data
	cache := base.CacheWrap()
	assert.Equal(t, v, mustGet(t, cache, k))

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	require.NoError(t, cache.Set(k2, v2))
	assert.Equal(t, v2, mustGet(t, cache, k2))
	assert.Nil(t, mustGet(t, base, k2))
	assert.False(t, mustHas(t, base, k2))

	// we can write the cache to the base layer...
	require.NoError(t, cache.Write())
	assert.Equal(t, v2, mustGet(t, base, k2))
	assert.True(t, mustHas(t, base, k2))

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	require.NoError(t, c2.Set(k3, v3))
	require.NoError(t, c2.Delete(k2))
	assert.Equal(t, v3, mustGet(t, c2, k3))
	assert.Nil(t, mustGet(t, c2, k2))
	c2.Discard()
	assert.Nil(t, mustGet(t, base, k3))
	assert.Equal(t, v2, mustGet(t, base, k2))
}

func TestBTreeCacheIterator(t *testing.T) {
	base := MemStore()
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, base.Set([]byte(k), []byte("base-"+k)))
	}

	cache := base.CacheWrap()
	require.NoError(t, cache.Delete([]byte("b")))
	require.NoError(t, cache.Set([]byte("c"), []byte("cache-c")))
	require.NoError(t, cache.Set([]byte("bb"), []byte("cache-bb")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		wantKeys   []string
		wantValues []string
	}{
		"full range": {
			wantKeys:   []string{"a", "bb", "c", "d", "e"},
			wantValues: []string{"base-a", "cache-bb", "cache-c", "base-d", "base-e"},
		},
		"bounded range": {
			start:      []byte("b"),
			end:        []byte("d"),
			wantKeys:   []string{"bb", "c"},
			wantValues: []string{"cache-bb", "cache-c"},
		},
		"reverse full range": {
			reverse:    true,
			wantKeys:   []string{"e", "d", "c", "bb", "a"},
			wantValues: []string{"base-e", "base-d", "cache-c", "cache-bb", "base-a"},
		},
		"reverse open end": {
			start:      []byte("c"),
			reverse:    true,
			wantKeys:   []string{"e", "d", "c"},
			wantValues: []string{"base-e", "base-d", "cache-c"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			models := consume(t, it)
			require.Len(t, models, len(tc.wantKeys))
			for i, m := range models {
				assert.Equal(t, tc.wantKeys[i], string(m.Key))
				assert.Equal(t, tc.wantValues[i], string(m.Value))
			}
		})
	}
}

func TestBTreeCacheEmptyValue(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("k"), nil))
	assert.True(t, mustHas(t, db, []byte("k")))

	cache := db.CacheWrap()
	require.NoError(t, cache.Delete([]byte("k")))
	assert.False(t, mustHas(t, cache, []byte("k")))
	assert.True(t, mustHas(t, db, []byte("k")))
}

func TestNonAtomicBatchWrite(t *testing.T) {
	db := MemStore()
	b := db.NewBatch()
	require.NoError(t, b.Set([]byte("k"), []byte("v")))
	assert.Nil(t, mustGet(t, db, []byte("k")))
	require.NoError(t, b.Write())
	assert.Equal(t, []byte("v"), mustGet(t, db, []byte("k")))
}
