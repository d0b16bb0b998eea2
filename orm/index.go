package orm

import (
	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
)

// IndexerFunc returns the index value of given model. A nil value means
// the model is not indexed.
type IndexerFunc func(Model) ([]byte, error)

// Index is a secondary index. It maps each index value to the set of
// primary keys of all models that share it.
type Index struct {
	name   string
	bucket Bucket
	index  IndexerFunc
}

var _ weave.QueryHandler = Index{}

// NewIndex constructs an index stored in the "_i.<bucket>_<name>" bucket.
func NewIndex(bucketName, name string, indexer IndexerFunc) Index {
	return Index{
		name:   name,
		bucket: NewBucket("_i." + bucketName + "_" + name),
		index:  indexer,
	}
}

// Name returns the name of this index.
func (i Index) Name() string {
	return i.name
}

// Update adjusts the index for the model stored under the primary key pk.
// Use nil for prev when creating and nil for next when deleting.
func (i Index) Update(db weave.KVStore, pk []byte, prev, next Model) error {
	var prevVal, nextVal []byte
	var err error
	if prev != nil {
		if prevVal, err = i.index(prev); err != nil {
			return errors.Wrapf(err, "index %s", i.name)
		}
	}
	if next != nil {
		if nextVal, err = i.index(next); err != nil {
			return errors.Wrapf(err, "index %s", i.name)
		}
	}
	if prevVal != nil && nextVal != nil && string(prevVal) == string(nextVal) {
		return nil
	}
	if prevVal != nil {
		if err := i.remove(db, prevVal, pk); err != nil {
			return err
		}
	}
	if nextVal != nil {
		if err := i.add(db, nextVal, pk); err != nil {
			return err
		}
	}
	return nil
}

func (i Index) refs(db weave.ReadOnlyKVStore, value []byte) (*MultiRef, error) {
	raw, err := i.bucket.Get(db, value)
	if err != nil {
		return nil, err
	}
	var refs MultiRef
	if raw == nil {
		return &refs, nil
	}
	if err := refs.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "index %s: %s", i.name, err)
	}
	return &refs, nil
}

func (i Index) add(db weave.KVStore, value, pk []byte) error {
	refs, err := i.refs(db, value)
	if err != nil {
		return err
	}
	if err := refs.Add(pk); err != nil {
		return errors.Wrapf(err, "index %s", i.name)
	}
	return i.save(db, value, refs)
}

func (i Index) remove(db weave.KVStore, value, pk []byte) error {
	refs, err := i.refs(db, value)
	if err != nil {
		return err
	}
	if err := refs.Remove(pk); err != nil {
		return errors.Wrapf(err, "index %s", i.name)
	}
	if len(refs.Refs) == 0 {
		return i.bucket.Delete(db, value)
	}
	return i.save(db, value, refs)
}

func (i Index) save(db weave.KVStore, value []byte, refs *MultiRef) error {
	raw, err := refs.Marshal()
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "index %s: %s", i.name, err)
	}
	return i.bucket.Set(db, value, raw)
}

// Keys returns primary keys of all models indexed under value, in
// ascending order.
func (i Index) Keys(db weave.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	refs, err := i.refs(db, value)
	if err != nil {
		return nil, err
	}
	return refs.Refs, nil
}

// Query returns the list of primary keys for the given index value, each
// as the value of a model keyed by the index value.
func (i Index) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	if mod != weave.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported mod: %s", mod)
	}
	keys, err := i.Keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]weave.Model, len(keys))
	for n, k := range keys {
		res[n] = weave.Pair(data, k)
	}
	return res, nil
}
