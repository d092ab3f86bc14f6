package store

import (
	"bytes"
	"io"
	"sort"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/store/cachekv"
	"cosmossdk.io/store/dbadapter"
	"cosmossdk.io/store/tracekv"
	storetypes "cosmossdk.io/store/types"
	dbm "github.com/cosmos/cosmos-db"

	"github.com/CosmWasm/wasmsim/types"
)

var _ types.CheckpointStore = (*Store)(nil)

// Stats are the lifetime counters of a Store.
type Stats struct {
	Depth       int
	Checkpoints uint64
	Commits     uint64
	Rollbacks   uint64
}

// Store is an arena of copy-on-write overlays on top of a base KVStore. The overlay at index i
// has the overlay at index i-1 as parent, the first overlay has the base store as parent.
// Writes always go to the top overlay, or straight to the base when no checkpoint is open.
type Store struct {
	base   storetypes.KVStore
	layers []*layer
	stats  Stats
}

// NewStore returns a store backed by an in-memory database.
func NewStore() *Store {
	return NewStoreWithBase(dbadapter.Store{DB: dbm.NewMemDB()})
}

// NewStoreWithBase returns a store on top of the given base.
func NewStoreWithBase(base storetypes.KVStore) *Store {
	return &Store{base: base}
}

// Checkpoint opens a new overlay.
func (s *Store) Checkpoint() {
	s.layers = append(s.layers, newLayer())
	s.stats.Checkpoints++
}

// Commit merges the top overlay into its parent. Committing without an open checkpoint is an
// unbalanced pairing and panics.
func (s *Store) Commit() {
	top := s.pop("commit")
	if n := len(s.layers); n > 0 {
		top.mergeInto(s.layers[n-1])
	} else {
		top.mergeInto(s.base)
	}
	s.stats.Commits++
}

// Rollback discards the top overlay. Rolling back without an open checkpoint is an unbalanced
// pairing and panics.
func (s *Store) Rollback() {
	s.pop("rollback")
	s.stats.Rollbacks++
}

// RollbackTo discards overlays until the given depth is reached.
func (s *Store) RollbackTo(depth int) {
	if depth < 0 || depth > len(s.layers) {
		panic(errorsmod.Wrapf(types.ErrInvariantViolation, "rollback to depth %d with %d open checkpoints", depth, len(s.layers)))
	}
	for len(s.layers) > depth {
		s.Rollback()
	}
}

// Depth returns the number of open checkpoints.
func (s *Store) Depth() int {
	return len(s.layers)
}

// Stats returns a snapshot of the store counters.
func (s *Store) Stats() Stats {
	stats := s.stats
	stats.Depth = len(s.layers)
	return stats
}

func (s *Store) pop(op string) *layer {
	n := len(s.layers)
	if n == 0 {
		panic(errorsmod.Wrapf(types.ErrInvariantViolation, "%s without checkpoint", op))
	}
	top := s.layers[n-1]
	s.layers[n-1] = nil
	s.layers = s.layers[:n-1]
	return top
}

// Get implements KVStore. The nearest overlay holding the key wins.
func (s *Store) Get(key []byte) []byte {
	storetypes.AssertValidKey(key)
	for i := len(s.layers) - 1; i >= 0; i-- {
		if value, found := s.layers[i].get(key); found {
			return value
		}
	}
	return s.base.Get(key)
}

// Has implements KVStore.
func (s *Store) Has(key []byte) bool {
	return s.Get(key) != nil
}

// Set implements KVStore.
func (s *Store) Set(key, value []byte) {
	storetypes.AssertValidKey(key)
	storetypes.AssertValidValue(value)
	value = bytes.Clone(value)
	if n := len(s.layers); n > 0 {
		s.layers[n-1].Set(key, value)
		return
	}
	s.base.Set(key, value)
}

// Delete implements KVStore.
func (s *Store) Delete(key []byte) {
	storetypes.AssertValidKey(key)
	if n := len(s.layers); n > 0 {
		s.layers[n-1].Delete(key)
		return
	}
	s.base.Delete(key)
}

// Iterator implements KVStore.
func (s *Store) Iterator(start, end []byte) storetypes.Iterator {
	return s.iterator(start, end, true)
}

// ReverseIterator implements KVStore.
func (s *Store) ReverseIterator(start, end []byte) storetypes.Iterator {
	return s.iterator(start, end, false)
}

// iterator materializes the merged view of the domain. Overlays are applied bottom up so the
// most recent write or tombstone wins.
func (s *Store) iterator(start, end []byte, ascending bool) storetypes.Iterator {
	merged := make(map[string][]byte)
	collect(s.base.Iterator(start, end), merged)
	for _, l := range s.layers {
		for key := range l.deletes {
			delete(merged, key)
		}
		it, err := l.writes.Iterator(start, end)
		if err != nil {
			panic(err)
		}
		collect(it, merged)
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	if ascending {
		sort.Strings(keys)
	} else {
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	}
	return newMergedIterator(start, end, keys, merged)
}

func collect(it storetypes.Iterator, into map[string][]byte) {
	defer it.Close()
	for ; it.Valid(); it.Next() {
		into[string(it.Key())] = it.Value()
	}
}

// GetStoreType implements Store.
func (s *Store) GetStoreType() storetypes.StoreType {
	return storetypes.StoreTypeMemory
}

// CacheWrap implements CacheWrapper.
func (s *Store) CacheWrap() storetypes.CacheWrap {
	return cachekv.NewStore(s)
}

// CacheWrapWithTrace implements CacheWrapper.
func (s *Store) CacheWrapWithTrace(w io.Writer, tc storetypes.TraceContext) storetypes.CacheWrap {
	return cachekv.NewStore(tracekv.NewStore(s, w, tc))
}
