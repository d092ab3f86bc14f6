package store

import (
	storetypes "cosmossdk.io/store/types"
)

var _ storetypes.Iterator = (*mergedIterator)(nil)

// mergedIterator walks a materialized, already ordered snapshot of the merged overlays.
type mergedIterator struct {
	start, end []byte
	keys       []string
	values     map[string][]byte
	pos        int
}

func newMergedIterator(start, end []byte, keys []string, values map[string][]byte) *mergedIterator {
	return &mergedIterator{
		start:  start,
		end:    end,
		keys:   keys,
		values: values,
	}
}

func (it *mergedIterator) Domain() ([]byte, []byte) {
	return it.start, it.end
}

func (it *mergedIterator) Valid() bool {
	return it.pos < len(it.keys)
}

func (it *mergedIterator) Next() {
	it.assertValid()
	it.pos++
}

func (it *mergedIterator) Key() []byte {
	it.assertValid()
	return []byte(it.keys[it.pos])
}

func (it *mergedIterator) Value() []byte {
	it.assertValid()
	return it.values[it.keys[it.pos]]
}

func (it *mergedIterator) Error() error {
	return nil
}

func (it *mergedIterator) Close() error {
	it.keys = nil
	it.values = nil
	return nil
}

func (it *mergedIterator) assertValid() {
	if !it.Valid() {
		panic("iterator is invalid")
	}
}
