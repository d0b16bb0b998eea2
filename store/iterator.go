package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/mintbase/weave/errors"
)

///////////////////////////////////////////////////////
// From Items to Iterator

// ascendBtree collects all cached items within [start, end) in
// ascending order. A nil start or end leaves that side open.
func ascendBtree(bt *btree.BTree, start, end []byte) []keyer {
	var items []keyer
	collect := func(item btree.Item) bool {
		items = append(items, item.(keyer))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// descendBtree is ascendBtree in reverse order.
func descendBtree(bt *btree.BTree, start, end []byte) []keyer {
	items := ascendBtree(bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// mergedIterator joins our cached items with those of the parent,
// taking into consideration overwrites and deletes.
type mergedIterator struct {
	items     []keyer
	idx       int
	parent    Iterator
	ascending bool

	// next pending parent entry
	pkey, pvalue []byte
	pdone        bool
}

var _ Iterator = (*mergedIterator)(nil)

func newMergedIterator(items []keyer, parent Iterator, ascending bool) (*mergedIterator, error) {
	it := &mergedIterator{
		items:     items,
		parent:    parent,
		ascending: ascending,
	}
	if err := it.advanceParent(); err != nil {
		parent.Release()
		return nil, err
	}
	return it, nil
}

func (m *mergedIterator) advanceParent() error {
	if m.pdone {
		return nil
	}
	key, value, err := m.parent.Next()
	if err != nil {
		if errors.ErrIteratorDone.Is(err) {
			m.pdone = true
			m.pkey, m.pvalue = nil, nil
			return nil
		}
		return err
	}
	m.pkey, m.pvalue = key, value
	return nil
}

// Next returns the next entry in iteration order, with cached values
// shadowing the parent.
func (m *mergedIterator) Next() (key, value []byte, err error) {
	for {
		hasOwn := m.idx < len(m.items)
		if !hasOwn && m.pdone {
			return nil, nil, errors.Wrap(errors.ErrIteratorDone, "merged iterator")
		}

		if !hasOwn {
			key, value = m.pkey, m.pvalue
			if err := m.advanceParent(); err != nil {
				return nil, nil, err
			}
			return key, value, nil
		}

		own := m.items[m.idx]
		if !m.pdone {
			cmp := bytes.Compare(own.Key(), m.pkey)
			if !m.ascending {
				cmp = -cmp
			}
			if cmp > 0 {
				key, value = m.pkey, m.pvalue
				if err := m.advanceParent(); err != nil {
					return nil, nil, err
				}
				return key, value, nil
			}
			if cmp == 0 {
				// Cached entry overwrites the parent one.
				if err := m.advanceParent(); err != nil {
					return nil, nil, err
				}
			}
		}

		m.idx++
		switch t := own.(type) {
		case setItem:
			return t.key, t.value, nil
		case deletedItem:
			continue
		default:
			return nil, nil, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", own)
		}
	}
}

// Release releases the parent iterator and drops cached items.
func (m *mergedIterator) Release() {
	m.parent.Release()
	m.items = nil
}
