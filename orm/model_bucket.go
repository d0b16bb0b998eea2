package orm

import (
	"reflect"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
)

// ModelBucket is implemented by buckets that operates on Models rather than
// raw values.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db weave.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key exists, and
	// ErrNotFound otherwise.
	Has(db weave.ReadOnlyKVStore, key []byte) error

	// ByIndex returns all entities that are indexed under given value, in
	// primary key order, appended to dest. Primary keys are returned.
	ByIndex(db weave.ReadOnlyKVStore, indexName string, value []byte, dest ModelSlicePtr) ([][]byte, error)

	// Put saves given model in the database, updating all indexes.
	Put(db weave.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db weave.KVStore, key []byte) error

	// Register registers this bucket and all indexes for queries under
	// "/<name>" and "/<name>/<index>".
	Register(name string, r weave.QueryRouter)
}

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities stored in the bucket are indexed using value returned by the
// indexer function.
func WithIndex(name string, indexer IndexerFunc) ModelBucketOption {
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic("duplicate index name: " + name)
		}
		mb.indexes[name] = NewIndex(mb.b.Name(), name, indexer)
	}
}

// NewModelBucket returns a ModelBucket instance storing models of the
// same type as the given prototype.
func NewModelBucket(name string, proto Model, opts ...ModelBucketOption) ModelBucket {
	if reflect.TypeOf(proto).Kind() != reflect.Ptr {
		panic("model prototype must be a pointer")
	}
	mb := &modelBucket{
		b:       NewBucket(name),
		proto:   proto,
		indexes: make(map[string]Index),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	b       Bucket
	proto   Model
	indexes map[string]Index
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) One(db weave.ReadOnlyKVStore, key []byte, dest Model) error {
	if !reflect.TypeOf(mb.proto).AssignableTo(reflect.TypeOf(dest)) {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %T", mb.proto, dest)
	}
	raw, err := mb.b.Get(db, key)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}

func (mb *modelBucket) Has(db weave.ReadOnlyKVStore, key []byte) error {
	ok, err := mb.b.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", mb.proto)
	}
	return nil
}

func (mb *modelBucket) ByIndex(db weave.ReadOnlyKVStore, indexName string, value []byte, dest ModelSlicePtr) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidIndex, "name %q", indexName)
	}
	keys, err := idx.Keys(db, value)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		m := newModel(mb.proto)
		if err := mb.One(db, key, m); err != nil {
			return nil, errors.Wrapf(err, "index %s points to a missing entity", indexName)
		}
		if err := appendModel(dest, m); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func (mb *modelBucket) Put(db weave.KVStore, key []byte, m Model) error {
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "cannot marshal %T: %s", m, err)
	}
	if err := mb.b.Set(db, key, raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	for _, idx := range mb.indexes {
		if err := idx.Update(db, key, prev, m); err != nil {
			return err
		}
	}
	return nil
}

func (mb *modelBucket) Delete(db weave.KVStore, key []byte) error {
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", mb.proto)
	}
	if err := mb.b.Delete(db, key); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	for _, idx := range mb.indexes {
		if err := idx.Update(db, key, prev, nil); err != nil {
			return err
		}
	}
	return nil
}

// load returns the stored model or nil if it does not exist.
func (mb *modelBucket) load(db weave.ReadOnlyKVStore, key []byte) (Model, error) {
	m := newModel(mb.proto)
	switch err := mb.One(db, key, m); {
	case err == nil:
		return m, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

func (mb *modelBucket) Register(name string, r weave.QueryRouter) {
	if name == "" {
		name = mb.b.Name()
	}
	root := "/" + name
	r.Register(root, mb.b)
	for iname, idx := range mb.indexes {
		r.Register(root+"/"+iname, idx)
	}
}
