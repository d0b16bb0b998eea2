/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* It has a primary index, and may possess secondary indexes (1:N).
* Easy queries for one and iteration.

For inspiration, look at [storm](https://github.com/asdine/storm) built on top of [bolt kvstore](https://github.com/boltdb/bolt#using-buckets).
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_.]{3,20}$`).MatchString
)

// Bucket is a prefixed subspace of the DB. It stores raw values and knows
// nothing about their encoding. Use ModelBucket to store typed entities.
type Bucket struct {
	name   string
	prefix []byte
}

var _ weave.QueryHandler = Bucket{}

// NewBucket creates a bucket to store data
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name of this bucket
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consequetive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	res := make([]byte, l+len(key))
	copy(res, b.prefix)
	copy(res[l:], key)
	return res
}

// Get returns the raw value stored under given key or nil.
func (b Bucket) Get(db weave.ReadOnlyKVStore, key []byte) ([]byte, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "bucket %s: %s", b.name, err)
	}
	return raw, nil
}

// Has returns true if the key exists in this bucket.
func (b Bucket) Has(db weave.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrapf(errors.ErrDatabase, "bucket %s: %s", b.name, err)
	}
	return ok, nil
}

// Set writes the value under given key.
func (b Bucket) Set(db weave.KVStore, key, value []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	return db.Set(b.DBKey(key), value)
}

// Delete removes the key from the bucket. Deleting a missing key is a
// noop.
func (b Bucket) Delete(db weave.KVStore, key []byte) error {
	return db.Delete(b.DBKey(key))
}

// PrefixScan returns all entries whose key starts with given prefix. The
// returned keys have the bucket prefix removed.
func (b Bucket) PrefixScan(db weave.ReadOnlyKVStore, prefix []byte, reverse bool) ([]weave.Model, error) {
	start, end := prefixRange(b.DBKey(prefix))
	var (
		it  weave.Iterator
		err error
	)
	if reverse {
		it, err = db.ReverseIterator(start, end)
	} else {
		it, err = db.Iterator(start, end)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "bucket %s: %s", b.name, err)
	}
	models, err := consumeIterator(it)
	if err != nil {
		return nil, err
	}
	for i := range models {
		models[i].Key = models[i].Key[len(b.prefix):]
	}
	return models, nil
}

// Query handles queries from the QueryRouter. Returned keys are without
// the bucket prefix.
func (b Bucket) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		value, err := b.Get(db, data)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []weave.Model{weave.Pair(data, value)}, nil
	case weave.PrefixQueryMod:
		return b.PrefixScan(db, data, false)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

// prefixRange turns a prefix into (start, end) to create
// and iterator
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}
