package store

import (
	"sort"

	dbm "github.com/cosmos/cosmos-db"
)

// kvWriter is the part of a store a committed overlay is merged into.
type kvWriter interface {
	Set(key, value []byte)
	Delete(key []byte)
}

// layer holds the writes of one checkpoint. A key is either written or tombstoned, never both.
type layer struct {
	writes  *dbm.MemDB
	deletes map[string]struct{}
}

func newLayer() *layer {
	return &layer{
		writes:  dbm.NewMemDB(),
		deletes: make(map[string]struct{}),
	}
}

// get returns the value held by this layer and whether the layer decides the key at all.
func (l *layer) get(key []byte) ([]byte, bool) {
	if _, ok := l.deletes[string(key)]; ok {
		return nil, true
	}
	value, err := l.writes.Get(key)
	if err != nil {
		panic(err)
	}
	return value, value != nil
}

func (l *layer) Set(key, value []byte) {
	delete(l.deletes, string(key))
	if err := l.writes.Set(key, value); err != nil {
		panic(err)
	}
}

func (l *layer) Delete(key []byte) {
	if err := l.writes.Delete(key); err != nil {
		panic(err)
	}
	l.deletes[string(key)] = struct{}{}
}

// mergeInto replays the layer on its parent. Tombstones are applied in key order so traced
// parents see a deterministic sequence.
func (l *layer) mergeInto(parent kvWriter) {
	deleted := make([]string, 0, len(l.deletes))
	for key := range l.deletes {
		deleted = append(deleted, key)
	}
	sort.Strings(deleted)
	for _, key := range deleted {
		parent.Delete([]byte(key))
	}

	it, err := l.writes.Iterator(nil, nil)
	if err != nil {
		panic(err)
	}
	defer it.Close()
	for ; it.Valid(); it.Next() {
		parent.Set(it.Key(), it.Value())
	}
}
