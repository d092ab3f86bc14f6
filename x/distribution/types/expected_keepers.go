package types

import (
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	simtypes "github.com/CosmWasm/wasmsim/types"
)

// StakingKeeper defines a subset of methods implemented by the staking keeper
type StakingKeeper interface {
	// BondedDenom returns the denom rewards are paid in
	BondedDenom(ctx simtypes.Context) string
	// GetRewards returns the rewards of the delegator at the validator, false without delegation
	GetRewards(ctx simtypes.Context, delegator sdk.AccAddress, validator string) (sdk.Coin, bool, error)
	// RemoveRewards clears the rewards of the delegator at the validator and returns the amount
	RemoveRewards(ctx simtypes.Context, delegator sdk.AccAddress, validator string) (sdkmath.Int, error)
	// DelegatorValidators returns the validators the delegator has stake with
	DelegatorValidators(ctx simtypes.Context, delegator sdk.AccAddress) []string
}
