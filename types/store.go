package types

import (
	storetypes "cosmossdk.io/store/types"
)

// StoreKey names the namespace a module owns inside the root store.
type StoreKey string

// Prefix returns the key prefix of the namespace. No registered key is a prefix of another
// because every prefix is terminated by a slash.
func (k StoreKey) Prefix() []byte {
	return append([]byte(k), '/')
}

func (k StoreKey) String() string {
	return string(k)
}

// CheckpointStore is a KVStore with nested checkpoint support.
type CheckpointStore interface {
	storetypes.KVStore

	// Checkpoint opens a new overlay on top of the current state.
	Checkpoint()
	// Commit merges the active overlay into its parent.
	Commit()
	// Rollback discards the active overlay.
	Rollback()
	// Depth returns the number of open checkpoints.
	Depth() int
	// RollbackTo discards overlays until Depth() == depth.
	RollbackTo(depth int)
}
