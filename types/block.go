package types

import (
	"time"

	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"
)

const (
	DefaultChainID = "cosmos-testnet-14002"
	DefaultHeight  = 12_345
	// DefaultBlockInterval is the time step applied by a plain block advance.
	DefaultBlockInterval = 5 * time.Second
)

// DefaultBlockTime is the genesis time used when none is configured.
var DefaultBlockTime = time.Unix(0, 1_571_797_419_879_305_533).UTC()

// BlockInfo is the block metadata visible to modules and contracts.
type BlockInfo struct {
	Height  uint64    `json:"height"`
	Time    time.Time `json:"time"`
	ChainID string    `json:"chain_id"`
}

// DefaultBlockInfo returns the block the simulator starts with.
func DefaultBlockInfo() BlockInfo {
	return BlockInfo{
		Height:  DefaultHeight,
		Time:    DefaultBlockTime,
		ChainID: DefaultChainID,
	}
}

// Next returns the block following b after the given interval.
func (b BlockInfo) Next(interval time.Duration) BlockInfo {
	return BlockInfo{
		Height:  b.Height + 1,
		Time:    b.Time.Add(interval),
		ChainID: b.ChainID,
	}
}

// ToWasmVM converts to the block info contracts see in their env.
func (b BlockInfo) ToWasmVM() wasmvmtypes.BlockInfo {
	return wasmvmtypes.BlockInfo{
		Height:  b.Height,
		Time:    wasmvmtypes.Uint64(b.Time.UnixNano()),
		ChainID: b.ChainID,
	}
}
