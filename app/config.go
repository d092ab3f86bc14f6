package app

import (
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cast"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	simtypes "github.com/CosmWasm/wasmsim/types"
	stakingtypes "github.com/CosmWasm/wasmsim/x/staking/types"
	wasmkeeper "github.com/CosmWasm/wasmsim/x/wasm/keeper"
)

// Config keys as read from AppOptions
const (
	FlagChainID            = "chain-id"
	FlagStartHeight        = "start-height"
	FlagStartTime          = "start-time"
	FlagBlockInterval      = "block-interval"
	FlagMaxCallDepth       = "max-call-depth"
	FlagMaxQueryStackSize  = "max-query-stack-size"
	FlagAllowDuplicateCode = "allow-duplicate-code"
	FlagBondedDenom        = "bonded-denom"
	FlagUnbondingTime      = "unbonding-time"
	FlagAPR                = "apr"
)

// AppOptions is the source of the configuration. *viper.Viper implements it.
type AppOptions interface {
	Get(string) interface{}
}

// Config holds the settings of an App.
type Config struct {
	ChainID            string
	StartHeight        uint64
	StartTime          time.Time
	BlockInterval      time.Duration
	MaxCallDepth       uint32
	MaxQueryStackSize  uint32
	AllowDuplicateCode bool
	BondedDenom        string
	UnbondingTime      time.Duration
	APR                sdkmath.LegacyDec
}

func DefaultConfig() Config {
	staking := stakingtypes.DefaultStakingInfo()
	return Config{
		ChainID:            simtypes.DefaultChainID,
		StartHeight:        simtypes.DefaultHeight,
		StartTime:          simtypes.DefaultBlockTime,
		BlockInterval:      simtypes.DefaultBlockInterval,
		MaxCallDepth:       wasmkeeper.DefaultMaxCallDepth,
		MaxQueryStackSize:  wasmkeeper.DefaultMaxQueryStackSize,
		AllowDuplicateCode: true,
		BondedDenom:        staking.BondedDenom,
		UnbondingTime:      staking.UnbondingTime,
		APR:                staking.APR,
	}
}

// ReadConfig overrides the defaults with every key set in the options.
func ReadConfig(appOpts AppOptions) (Config, error) {
	cfg := DefaultConfig()
	var err error
	read := func(key string, fn func(v interface{}) error) {
		if err != nil {
			return
		}
		v := appOpts.Get(key)
		if v == nil {
			return
		}
		if e := fn(v); e != nil {
			err = errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "%s: %s", key, e)
		}
	}
	read(FlagChainID, func(v interface{}) (e error) {
		cfg.ChainID, e = cast.ToStringE(v)
		return
	})
	read(FlagStartHeight, func(v interface{}) (e error) {
		cfg.StartHeight, e = cast.ToUint64E(v)
		return
	})
	read(FlagStartTime, func(v interface{}) (e error) {
		cfg.StartTime, e = cast.ToTimeE(v)
		cfg.StartTime = cfg.StartTime.UTC()
		return
	})
	read(FlagBlockInterval, func(v interface{}) (e error) {
		cfg.BlockInterval, e = cast.ToDurationE(v)
		return
	})
	read(FlagMaxCallDepth, func(v interface{}) (e error) {
		cfg.MaxCallDepth, e = cast.ToUint32E(v)
		return
	})
	read(FlagMaxQueryStackSize, func(v interface{}) (e error) {
		cfg.MaxQueryStackSize, e = cast.ToUint32E(v)
		return
	})
	read(FlagAllowDuplicateCode, func(v interface{}) (e error) {
		cfg.AllowDuplicateCode, e = cast.ToBoolE(v)
		return
	})
	read(FlagBondedDenom, func(v interface{}) (e error) {
		cfg.BondedDenom, e = cast.ToStringE(v)
		return
	})
	read(FlagUnbondingTime, func(v interface{}) (e error) {
		cfg.UnbondingTime, e = cast.ToDurationE(v)
		return
	})
	read(FlagAPR, func(v interface{}) error {
		s, e := cast.ToStringE(v)
		if e != nil {
			return e
		}
		cfg.APR, e = sdkmath.LegacyNewDecFromStr(s)
		return e
	})
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.ValidateBasic()
}

// ValidateBasic checks the values without any state
func (c Config) ValidateBasic() error {
	if c.ChainID == "" {
		return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "empty chain id")
	}
	if c.BlockInterval <= 0 {
		return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "block interval must be positive")
	}
	if c.MaxCallDepth == 0 || c.MaxQueryStackSize == 0 {
		return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "call depth and query stack limits must be positive")
	}
	return c.stakingInfo().ValidateBasic()
}

func (c Config) stakingInfo() stakingtypes.StakingInfo {
	return stakingtypes.StakingInfo{
		BondedDenom:   c.BondedDenom,
		UnbondingTime: c.UnbondingTime,
		APR:           c.APR,
	}
}

// Options returns the App options that apply the config.
func (c Config) Options() []Option {
	return []Option{
		WithBlock(simtypes.BlockInfo{Height: c.StartHeight, Time: c.StartTime, ChainID: c.ChainID}),
		WithBlockInterval(c.BlockInterval),
		WithStakingInfo(c.stakingInfo()),
		WithWasmOptions(
			wasmkeeper.WithMaxCallDepth(c.MaxCallDepth),
			wasmkeeper.WithMaxQueryStackSize(c.MaxQueryStackSize),
			wasmkeeper.WithDuplicateCodePolicy(c.AllowDuplicateCode),
		),
	}
}

// NewAppFromOptions builds an App from the configuration in appOpts. Additional options are
// applied after the configured ones.
func NewAppFromOptions(logger log.Logger, appOpts AppOptions, opts ...Option) (*App, error) {
	cfg, err := ReadConfig(appOpts)
	if err != nil {
		return nil, err
	}
	return NewApp(logger, append(cfg.Options(), opts...)...), nil
}
