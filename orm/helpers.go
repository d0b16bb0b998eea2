package orm

import (
	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
)

// ValidateSequence returns an error if this is not an 8-byte
// as expected for orm.Sequence
func ValidateSequence(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "sequence missing")
	}
	if len(id) != 8 {
		return errors.Wrap(errors.ErrInput, "sequence is invalid length (expect 8 bytes)")
	}
	return nil
}

// consumeIterator will read all remaining data into an
// array and release the iterator
func consumeIterator(it weave.Iterator) ([]weave.Model, error) {
	defer it.Release()

	var res []weave.Model
	for {
		key, value, err := it.Next()
		if err != nil {
			if errors.ErrIteratorDone.Is(err) {
				return res, nil
			}
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		res = append(res, weave.Pair(key, value))
	}
}
