package types

import (
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// Vote options as they appear in contract messages
const (
	OptionYes        = "yes"
	OptionNo         = "no"
	OptionAbstain    = "abstain"
	OptionNoWithVeto = "no_with_veto"
)

// WeightedVoteOption is one option of a vote with its share of the voting power.
type WeightedVoteOption struct {
	Option string            `json:"option"`
	Weight sdkmath.LegacyDec `json:"weight"`
}

// Vote is what a voter cast on a proposal.
type Vote struct {
	ProposalID uint64               `json:"proposal_id"`
	Voter      string               `json:"voter"`
	Options    []WeightedVoteOption `json:"options"`
}

// NewNonSplitVoteOption returns the single option with full weight.
func NewNonSplitVoteOption(option string) []WeightedVoteOption {
	return []WeightedVoteOption{{Option: option, Weight: sdkmath.LegacyOneDec()}}
}

// ValidVoteOption returns true for the known options.
func ValidVoteOption(option string) bool {
	switch option {
	case OptionYes, OptionNo, OptionAbstain, OptionNoWithVeto:
		return true
	}
	return false
}

// ValidateWeightedOptions requires known, unique options with positive weights summing to one.
func ValidateWeightedOptions(options []WeightedVoteOption) error {
	if len(options) == 0 {
		return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "no vote options")
	}
	seen := make(map[string]struct{}, len(options))
	total := sdkmath.LegacyZeroDec()
	for _, o := range options {
		if !ValidVoteOption(o.Option) {
			return errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "invalid vote option %q", o.Option)
		}
		if _, ok := seen[o.Option]; ok {
			return errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "duplicate vote option %q", o.Option)
		}
		seen[o.Option] = struct{}{}
		if o.Weight.IsNil() || !o.Weight.IsPositive() || o.Weight.GT(sdkmath.LegacyOneDec()) {
			return errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "invalid weight for %q", o.Option)
		}
		total = total.Add(o.Weight)
	}
	if !total.Equal(sdkmath.LegacyOneDec()) {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "total weight %s is not 1", total)
	}
	return nil
}

// OptionsString renders the options the way the proposal_vote event carries them.
func OptionsString(options []WeightedVoteOption) string {
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = fmt.Sprintf("option:%s weight:%s", o.Option, o.Weight)
	}
	return strings.Join(out, "\n")
}
