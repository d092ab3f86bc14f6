package types

import (
	"slices"
	"time"

	sdkmath "cosmossdk.io/math"
)

// YearSeconds is the reward period the APR refers to
const YearSeconds int64 = 60 * 60 * 24 * 365

// Shares is what a delegator holds at a validator. Both parts can be fractional after slashing.
type Shares struct {
	Stake   sdkmath.LegacyDec `json:"stake"`
	Rewards sdkmath.LegacyDec `json:"rewards"`
}

// NewShares returns empty shares
func NewShares() Shares {
	return Shares{Stake: sdkmath.LegacyZeroDec(), Rewards: sdkmath.LegacyZeroDec()}
}

// ShareOfRewards returns the part of the validator rewards that belongs to these shares.
func (s Shares) ShareOfRewards(info ValidatorInfo, rewards sdkmath.LegacyDec) sdkmath.LegacyDec {
	if info.Stake.IsZero() {
		return sdkmath.LegacyZeroDec()
	}
	return rewards.Mul(s.Stake).Quo(sdkmath.LegacyNewDecFromInt(info.Stake))
}

// ValidatorInfo is the bookkeeping data of a validator.
type ValidatorInfo struct {
	// Stakers are the bech32 delegator addresses, sorted
	Stakers []string `json:"stakers"`
	// Stake is the sum of all delegations
	Stake                  sdkmath.Int `json:"stake"`
	LastRewardsCalculation time.Time   `json:"last_rewards_calculation"`
}

// NewValidatorInfo constructor
func NewValidatorInfo(blockTime time.Time) ValidatorInfo {
	return ValidatorInfo{Stake: sdkmath.ZeroInt(), LastRewardsCalculation: blockTime}
}

// AddStaker inserts the delegator keeping the list sorted and free of duplicates.
func (v *ValidatorInfo) AddStaker(delegator string) {
	pos, found := slices.BinarySearch(v.Stakers, delegator)
	if !found {
		v.Stakers = slices.Insert(v.Stakers, pos, delegator)
	}
}

// RemoveStaker removes the delegator if present.
func (v *ValidatorInfo) RemoveStaker(delegator string) {
	if pos, found := slices.BinarySearch(v.Stakers, delegator); found {
		v.Stakers = slices.Delete(v.Stakers, pos, pos+1)
	}
}

// Unbonding is an undelegated amount waiting for its payout.
type Unbonding struct {
	Delegator string      `json:"delegator"`
	Validator string      `json:"validator"`
	Amount    sdkmath.Int `json:"amount"`
	PayoutAt  time.Time   `json:"payout_at"`
}

// CalculateRewards returns the rewards a validator stake earned in the period, after commission.
func CalculateRewards(now, since time.Time, apr, commission sdkmath.LegacyDec, stake sdkmath.Int) sdkmath.LegacyDec {
	seconds := now.Unix() - since.Unix()
	if seconds <= 0 {
		return sdkmath.LegacyZeroDec()
	}
	reward := sdkmath.LegacyNewDecFromInt(stake).
		Mul(apr).
		MulInt64(seconds).
		QuoInt64(YearSeconds)
	return reward.Sub(reward.Mul(commission))
}
