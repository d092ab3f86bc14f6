package store

import (
	"bytes"
	"testing"

	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CosmWasm/wasmsim/types"
)

func TestCheckpointCommitRollback(t *testing.T) {
	specs := map[string]struct {
		do     func(s *Store)
		expVal []byte
	}{
		"commit keeps write": {
			do: func(s *Store) {
				s.Checkpoint()
				s.Set([]byte("k"), []byte("new"))
				s.Commit()
			},
			expVal: []byte("new"),
		},
		"rollback drops write": {
			do: func(s *Store) {
				s.Checkpoint()
				s.Set([]byte("k"), []byte("new"))
				s.Rollback()
			},
			expVal: []byte("base"),
		},
		"rollback drops delete": {
			do: func(s *Store) {
				s.Checkpoint()
				s.Delete([]byte("k"))
				s.Rollback()
			},
			expVal: []byte("base"),
		},
		"commit keeps delete": {
			do: func(s *Store) {
				s.Checkpoint()
				s.Delete([]byte("k"))
				s.Commit()
			},
		},
		"nested commit then outer rollback": {
			do: func(s *Store) {
				s.Checkpoint()
				s.Checkpoint()
				s.Set([]byte("k"), []byte("inner"))
				s.Commit()
				s.Rollback()
			},
			expVal: []byte("base"),
		},
		"nested rollback then outer commit": {
			do: func(s *Store) {
				s.Checkpoint()
				s.Set([]byte("k"), []byte("outer"))
				s.Checkpoint()
				s.Set([]byte("k"), []byte("inner"))
				s.Rollback()
				s.Commit()
			},
			expVal: []byte("outer"),
		},
		"set after delete in same layer": {
			do: func(s *Store) {
				s.Checkpoint()
				s.Delete([]byte("k"))
				s.Set([]byte("k"), []byte("again"))
				s.Commit()
			},
			expVal: []byte("again"),
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			s := NewStore()
			s.Set([]byte("k"), []byte("base"))

			spec.do(s)

			assert.Equal(t, spec.expVal, s.Get([]byte("k")))
			assert.Equal(t, 0, s.Depth())
		})
	}
}

func TestReadsSeeNearestOverlay(t *testing.T) {
	s := NewStore()
	s.Set([]byte("a"), []byte("0"))

	s.Checkpoint()
	s.Set([]byte("a"), []byte("1"))
	s.Checkpoint()
	assert.Equal(t, []byte("1"), s.Get([]byte("a")))
	s.Delete([]byte("a"))
	assert.Nil(t, s.Get([]byte("a")))
	assert.False(t, s.Has([]byte("a")))
	s.Checkpoint()
	s.Set([]byte("a"), []byte("3"))
	assert.Equal(t, []byte("3"), s.Get([]byte("a")))
	assert.Equal(t, 3, s.Depth())

	s.Rollback()
	assert.Nil(t, s.Get([]byte("a")))
	s.Rollback()
	assert.Equal(t, []byte("1"), s.Get([]byte("a")))
	s.Rollback()
	assert.Equal(t, []byte("0"), s.Get([]byte("a")))
}

func TestUnbalancedPairingPanics(t *testing.T) {
	s := NewStore()
	assertInvariantPanic(t, s.Commit)
	assertInvariantPanic(t, s.Rollback)

	s.Checkpoint()
	s.Rollback()
	assertInvariantPanic(t, s.Rollback)
	assertInvariantPanic(t, func() { s.RollbackTo(1) })
}

func assertInvariantPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, types.ErrInvariantViolation)
	}()
	fn()
}

func TestRollbackTo(t *testing.T) {
	s := NewStore()
	s.Checkpoint()
	s.Set([]byte("x"), []byte("1"))
	s.Commit()
	for i := 0; i < 4; i++ {
		s.Checkpoint()
		s.Set([]byte("x"), []byte{byte('2' + i)})
	}
	s.RollbackTo(1)
	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, []byte("2"), s.Get([]byte("x")))
	s.RollbackTo(0)
	assert.Equal(t, []byte("1"), s.Get([]byte("x")))

	stats := s.Stats()
	assert.Equal(t, uint64(5), stats.Checkpoints)
	assert.Equal(t, uint64(1), stats.Commits)
	assert.Equal(t, uint64(4), stats.Rollbacks)
}

func TestIteratorMergesLayers(t *testing.T) {
	s := NewStore()
	s.Set([]byte("a"), []byte("base-a"))
	s.Set([]byte("b"), []byte("base-b"))
	s.Set([]byte("d"), []byte("base-d"))

	s.Checkpoint()
	s.Delete([]byte("b"))
	s.Set([]byte("c"), []byte("l1-c"))
	s.Checkpoint()
	s.Set([]byte("b"), []byte("l2-b"))
	s.Set([]byte("e"), []byte("l2-e"))
	s.Delete([]byte("d"))

	specs := map[string]struct {
		start, end []byte
		reverse    bool
		exp        []string
	}{
		"all ascending": {
			exp: []string{"a=base-a", "b=l2-b", "c=l1-c", "e=l2-e"},
		},
		"all descending": {
			reverse: true,
			exp:     []string{"e=l2-e", "c=l1-c", "b=l2-b", "a=base-a"},
		},
		"bounded": {
			start: []byte("b"),
			end:   []byte("e"),
			exp:   []string{"b=l2-b", "c=l1-c"},
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			var it storetypes.Iterator
			if spec.reverse {
				it = s.ReverseIterator(spec.start, spec.end)
			} else {
				it = s.Iterator(spec.start, spec.end)
			}
			defer it.Close()
			var got []string
			for ; it.Valid(); it.Next() {
				got = append(got, string(it.Key())+"="+string(it.Value()))
			}
			assert.Equal(t, spec.exp, got)
		})
	}
}

func TestPrefixNamespacesAreIsolated(t *testing.T) {
	s := NewStore()
	s.Checkpoint()
	alice := prefix.NewStore(s, []byte("alice/"))
	bob := prefix.NewStore(s, []byte("bob/"))
	alice.Set([]byte("k"), []byte("a"))
	bob.Set([]byte("k"), []byte("b"))
	s.Commit()

	assert.Equal(t, []byte("a"), alice.Get([]byte("k")))
	assert.Equal(t, []byte("b"), bob.Get([]byte("k")))

	it := alice.Iterator(nil, nil)
	defer it.Close()
	var keys [][]byte
	for ; it.Valid(); it.Next() {
		keys = append(keys, it.Key())
	}
	assert.Equal(t, [][]byte{[]byte("k")}, keys)
}

func TestSetCopiesValue(t *testing.T) {
	s := NewStore()
	s.Checkpoint()
	val := []byte("abc")
	s.Set([]byte("k"), val)
	val[0] = 'x'
	assert.True(t, bytes.Equal([]byte("abc"), s.Get([]byte("k"))))
}

func TestCacheWrapWritesThroughTopLayer(t *testing.T) {
	s := NewStore()
	s.Checkpoint()
	cache := s.CacheWrap()
	kv, ok := cache.(storetypes.KVStore)
	require.True(t, ok)
	kv.Set([]byte("k"), []byte("v"))
	assert.Nil(t, s.Get([]byte("k")))
	cache.Write()
	assert.Equal(t, []byte("v"), s.Get([]byte("k")))
	s.Rollback()
	assert.Nil(t, s.Get([]byte("k")))
}

func TestCacheWrapWithTrace(t *testing.T) {
	s := NewStore()
	var buf bytes.Buffer
	cache := s.CacheWrapWithTrace(&buf, storetypes.TraceContext{"height": 1})
	kv := cache.(storetypes.KVStore)
	kv.Set([]byte("k"), []byte("v"))
	cache.Write()
	assert.Equal(t, []byte("v"), s.Get([]byte("k")))
	assert.Contains(t, buf.String(), `"operation":"write"`)
}
