package app

import (
	"time"

	simtypes "github.com/CosmWasm/wasmsim/types"
	stakingtypes "github.com/CosmWasm/wasmsim/x/staking/types"
	wasmkeeper "github.com/CosmWasm/wasmsim/x/wasm/keeper"
)

type options struct {
	block         simtypes.BlockInfo
	blockInterval time.Duration
	modules       map[string]simtypes.Module
	wasmOpts      []wasmkeeper.Option
	stakingInfo   *stakingtypes.StakingInfo
}

// Option configures an App at construction
type Option func(*options)

// WithBlock sets the block the App starts at
func WithBlock(block simtypes.BlockInfo) Option {
	return func(o *options) {
		o.block = block
	}
}

// WithBlockInterval sets the time a NextBlock call adds
func WithBlockInterval(d time.Duration) Option {
	return func(o *options) {
		o.blockInterval = d
	}
}

// WithModule registers the module for the kind instead of the default one. Use
// simtypes.FailingModule to disable a kind.
func WithModule(kind string, m simtypes.Module) Option {
	return func(o *options) {
		o.modules[kind] = m
	}
}

// WithWasmOptions passes options to the wasm keeper
func WithWasmOptions(opts ...wasmkeeper.Option) Option {
	return func(o *options) {
		o.wasmOpts = append(o.wasmOpts, opts...)
	}
}

// WithStakingInfo sets the staking parameters at genesis
func WithStakingInfo(info stakingtypes.StakingInfo) Option {
	return func(o *options) {
		o.stakingInfo = &info
	}
}

// WithMetrics makes the wasm keeper report to the given metrics
func WithMetrics(m *wasmkeeper.Metrics) Option {
	return WithWasmOptions(wasmkeeper.WithMetrics(m))
}
