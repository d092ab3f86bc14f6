package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	simtypes "github.com/CosmWasm/wasmsim/types"
	"github.com/CosmWasm/wasmsim/x/gov/types"
)

var _ simtypes.Module = msgServer{}

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns the router facing module of the keeper
func NewMsgServerImpl(k Keeper) simtypes.Module {
	return msgServer{Keeper: k}
}

func (k msgServer) Execute(ctx simtypes.Context, sender sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
	if msg.Gov == nil {
		return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "not a gov message")
	}
	vote, err := parseVote(*msg.Gov)
	if err != nil {
		return nil, err
	}
	vote.Voter = sender.String()
	k.setVote(ctx, sender, vote)
	k.Logger(ctx).Debug("vote cast", "proposal", vote.ProposalID, "voter", vote.Voter)
	return &simtypes.AppResponse{Events: sdk.Events{sdk.NewEvent(
		types.EventTypeProposalVote,
		sdk.NewAttribute(types.AttributeKeyProposalID, strconv.FormatUint(vote.ProposalID, 10)),
		sdk.NewAttribute(types.AttributeKeyVoter, vote.Voter),
		sdk.NewAttribute(types.AttributeKeyOption, types.OptionsString(vote.Options)),
	)}}, nil
}

func parseVote(msg wasmvmtypes.GovMsg) (types.Vote, error) {
	switch {
	case msg.Vote != nil:
		option := msg.Vote.Option.String()
		if !types.ValidVoteOption(option) {
			return types.Vote{}, errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "invalid vote option %q", option)
		}
		return types.Vote{
			ProposalID: msg.Vote.ProposalId,
			Options:    types.NewNonSplitVoteOption(option),
		}, nil
	case msg.VoteWeighted != nil:
		options := make([]types.WeightedVoteOption, 0, len(msg.VoteWeighted.Options))
		for _, o := range msg.VoteWeighted.Options {
			weight, err := sdkmath.LegacyNewDecFromStr(o.Weight)
			if err != nil {
				return types.Vote{}, errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "weight: %s", err)
			}
			options = append(options, types.WeightedVoteOption{Option: o.Option.String(), Weight: weight})
		}
		if err := types.ValidateWeightedOptions(options); err != nil {
			return types.Vote{}, err
		}
		return types.Vote{
			ProposalID: msg.VoteWeighted.ProposalId,
			Options:    options,
		}, nil
	}
	return types.Vote{}, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "unknown variant of Gov")
}

// Query fails always. There is no gov query for contracts.
func (k msgServer) Query(_ simtypes.Context, _ wasmvmtypes.QueryRequest) ([]byte, error) {
	return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "gov has no queries")
}
