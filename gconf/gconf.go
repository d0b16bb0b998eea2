package gconf

import (
	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
)

// ReadStore is the part of weave.ReadOnlyKVStore that Load needs.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of weave.KVStore that Save needs.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// Configuration is a package configuration singleton.
type Configuration interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
	Validate() error
}

// Key returns the database key of the configuration owned by pkg.
func Key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates conf and stores it as the configuration of pkg,
// replacing any previous value.
func Save(db Store, pkg string, conf Configuration) error {
	key := Key(pkg)
	if err := conf.Validate(); err != nil {
		return errors.Wrapf(err, "validate %q", key)
	}
	raw, err := conf.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal %q", key)
	}
	if err := db.Set(key, raw); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "set %q: %s", key, err)
	}
	return nil
}

// Load reads the configuration of pkg into dst. ErrNotFound is returned
// when nothing was saved yet.
func Load(db ReadStore, pkg string, dst Configuration) error {
	key := Key(pkg)
	raw, err := db.Get(key)
	switch {
	case err != nil:
		return errors.Wrapf(errors.ErrDatabase, "get %q: %s", key, err)
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "key %q", key)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal %q", key)
	}
	return nil
}

// InitConfig saves the genesis value found under conf.<pkg>. A missing
// section is an error, every package using gconf must be configured.
func InitConfig(db Store, opts weave.Options, pkg string, conf Configuration) error {
	var all weave.Options
	if err := opts.ReadOptions("conf", &all); err != nil {
		return errors.Wrap(err, "conf")
	}
	if _, ok := all[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "genesis has no conf.%s", pkg)
	}
	if err := all.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "conf.%s", pkg)
	}
	return Save(db, pkg, conf)
}
