package orm

import (
	"bytes"
	"sort"

	"github.com/mintbase/weave/errors"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// MultiRef holds the primary keys sharing one index value, for example
// every token of one owner. Refs is kept sorted and free of duplicates.
type MultiRef struct {
	Refs [][]byte
}

func NewMultiRef(refs ...[]byte) (*MultiRef, error) {
	m := &MultiRef{}
	for _, r := range refs {
		if err := m.Add(r); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add inserts ref at its sorted position. ErrDuplicate is returned if
// ref is already present.
func (m *MultiRef) Add(ref []byte) error {
	i, found := m.search(ref)
	if found {
		return errors.Wrapf(errors.ErrDuplicate, "ref %X", ref)
	}
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

// Remove deletes ref. ErrNotFound is returned if ref is not present.
func (m *MultiRef) Remove(ref []byte) error {
	i, found := m.search(ref)
	if !found {
		return errors.Wrapf(errors.ErrNotFound, "ref %X", ref)
	}
	m.Refs = append(m.Refs[:i], m.Refs[i+1:]...)
	return nil
}

// search returns the position of ref, or where it would be inserted.
func (m *MultiRef) search(ref []byte) (int, bool) {
	i := sort.Search(len(m.Refs), func(i int) bool {
		return bytes.Compare(m.Refs[i], ref) >= 0
	})
	return i, i < len(m.Refs) && bytes.Equal(m.Refs[i], ref)
}

// Validate rejects an empty set, an index entry without references must
// be deleted instead.
func (m *MultiRef) Validate() error {
	if len(m.Refs) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no references")
	}
	return nil
}

func (m *MultiRef) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *MultiRef) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}
