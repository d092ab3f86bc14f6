package types

import (
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

const (
	// DefaultBondedDenom is the denom of the staking token
	DefaultBondedDenom = "TOKEN"
	// DefaultUnbondingTime is the delay between undelegating and the payout
	DefaultUnbondingTime = 60 * time.Second
)

// DefaultAPR is 10%
var DefaultAPR = sdkmath.LegacyNewDecWithPrec(10, 2)

// StakingInfo holds the general staking parameters.
type StakingInfo struct {
	BondedDenom   string        `json:"bonded_denom"`
	UnbondingTime time.Duration `json:"unbonding_time"`
	// APR is the annual reward rate paid on the stake
	APR sdkmath.LegacyDec `json:"apr"`
}

// DefaultStakingInfo returns the staking parameters used when none were set up.
func DefaultStakingInfo() StakingInfo {
	return StakingInfo{
		BondedDenom:   DefaultBondedDenom,
		UnbondingTime: DefaultUnbondingTime,
		APR:           DefaultAPR,
	}
}

// ValidateBasic performs basic validation
func (s StakingInfo) ValidateBasic() error {
	if s.BondedDenom == "" {
		return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "empty bonded denom")
	}
	if s.UnbondingTime < 0 {
		return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "negative unbonding time")
	}
	if s.APR.IsNil() || s.APR.IsNegative() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "apr must not be negative")
	}
	return nil
}
