package orm

import (
	"encoding/binary"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
)

// Sequence maintains a counter, and generates a
// series of keys. Each key is greater than the last,
// both NextInt() as well as bytes.Compare() on NextVal().
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//
//	_s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// NextVal increments the sequence and returns its state as 8 bytes.
func (s *Sequence) NextVal(db weave.KVStore) ([]byte, error) {
	val, err := s.Increment(db, 1)
	return EncodeSequence(val), err
}

// NextInt increments the sequence and returns its state as int.
func (s *Sequence) NextInt(db weave.KVStore) (int64, error) {
	return s.Increment(db, 1)
}

// Increment moves the sequence forward by inc and returns its new state.
// A sequence never decreases.
func (s *Sequence) Increment(db weave.KVStore, inc int64) (int64, error) {
	if inc < 0 {
		return 0, errors.Wrap(errors.ErrInput, "negative sequence increment")
	}
	val, err := s.Latest(db)
	if err != nil {
		return 0, err
	}
	if val+inc < val {
		return 0, errors.Wrap(errors.ErrOverflow, "sequence")
	}
	val += inc
	if err := db.Set(s.id, EncodeSequence(val)); err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return val, nil
}

// Latest returns the recently returned value of the sequence. This method does
// not modify the sequence state. Use NextVal or NextInt to acquire a sequence
// value that was not given to anyone else.
func (s *Sequence) Latest(db weave.ReadOnlyKVStore) (int64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return DecodeSequence(raw), nil
}

func DecodeSequence(bz []byte) int64 {
	if bz == nil {
		return 0
	}
	val := binary.BigEndian.Uint64(bz)
	return int64(val)
}

func EncodeSequence(val int64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(val))
	return bz
}
