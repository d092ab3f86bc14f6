package keeper

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	simtypes "github.com/CosmWasm/wasmsim/types"
	"github.com/CosmWasm/wasmsim/x/distribution/types"
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
	if msg.Distribution == nil {
		return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "not a distribution message")
	}
	switch {
	case msg.Distribution.WithdrawDelegatorReward != nil:
		return k.withdrawDelegatorReward(ctx, sender, msg.Distribution.WithdrawDelegatorReward.Validator)
	case msg.Distribution.SetWithdrawAddress != nil:
		withdrawAddr, err := sdk.AccAddressFromBech32(msg.Distribution.SetWithdrawAddress.Address)
		if err != nil {
			return nil, errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, "withdraw address: %s", err)
		}
		k.SetWithdrawAddress(ctx, sender, withdrawAddr)
		return &simtypes.AppResponse{Events: sdk.Events{sdk.NewEvent(
			types.EventTypeSetWithdrawAddress,
			sdk.NewAttribute(types.AttributeKeyWithdrawAddress, withdrawAddr.String()),
		)}}, nil
	}
	return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "unknown variant of Distribution")
}

func (k msgServer) withdrawDelegatorReward(ctx simtypes.Context, sender sdk.AccAddress, validator string) (*simtypes.AppResponse, error) {
	rewards, err := k.staking.RemoveRewards(ctx, sender, validator)
	if err != nil {
		return nil, err
	}
	reward := sdk.NewCoin(k.staking.BondedDenom(ctx), rewards)
	receiver := k.GetWithdrawAddress(ctx, sender)
	// rewards are minted directly to the receiver
	if !reward.IsZero() {
		if ctx.Router() == nil {
			return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "no router")
		}
		_, err := ctx.Router().Sudo(ctx, simtypes.SudoMsg{Bank: &simtypes.BankSudo{Mint: &simtypes.MintSudo{
			ToAddress: receiver.String(),
			Amount:    wasmvmtypes.Array[wasmvmtypes.Coin]{simtypes.ConvertSdkCoinToWasmCoin(reward)},
		}}})
		if err != nil {
			return nil, err
		}
	}
	k.Logger(ctx).Debug("rewards withdrawn", "delegator", sender.String(), "validator", validator, "amount", reward.String())
	return &simtypes.AppResponse{Events: sdk.Events{sdk.NewEvent(
		types.EventTypeWithdrawRewards,
		sdk.NewAttribute(types.AttributeKeyValidator, validator),
		sdk.NewAttribute(types.AttributeKeySender, sender.String()),
		sdk.NewAttribute(sdk.AttributeKeyAmount, reward.String()),
	)}}, nil
}

func (k msgServer) Query(ctx simtypes.Context, req wasmvmtypes.QueryRequest) ([]byte, error) {
	if req.Distribution == nil {
		return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "not a distribution query")
	}
	q := req.Distribution
	switch {
	case q.DelegatorWithdrawAddress != nil:
		delegator, err := parseDelegator(q.DelegatorWithdrawAddress.DelegatorAddress)
		if err != nil {
			return nil, err
		}
		return json.Marshal(wasmvmtypes.DelegatorWithdrawAddressResponse{WithdrawAddress: k.GetWithdrawAddress(ctx, delegator).String()})
	case q.DelegationRewards != nil:
		delegator, err := parseDelegator(q.DelegationRewards.DelegatorAddress)
		if err != nil {
			return nil, err
		}
		rewards := wasmvmtypes.Array[wasmvmtypes.DecCoin]{}
		reward, found, err := k.staking.GetRewards(ctx, delegator, q.DelegationRewards.ValidatorAddress)
		if err != nil {
			return nil, err
		}
		if found {
			rewards = append(rewards, toDecCoin(reward.Denom, sdkmath.LegacyNewDecFromInt(reward.Amount)))
		}
		return json.Marshal(wasmvmtypes.DelegationRewardsResponse{Rewards: rewards})
	case q.DelegationTotalRewards != nil:
		delegator, err := parseDelegator(q.DelegationTotalRewards.DelegatorAddress)
		if err != nil {
			return nil, err
		}
		return k.queryTotalRewards(ctx, delegator)
	case q.DelegatorValidators != nil:
		delegator, err := parseDelegator(q.DelegatorValidators.DelegatorAddress)
		if err != nil {
			return nil, err
		}
		return json.Marshal(wasmvmtypes.DelegatorValidatorsResponse{Validators: k.staking.DelegatorValidators(ctx, delegator)})
	}
	return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "unknown DistributionQuery variant")
}

func (k msgServer) queryTotalRewards(ctx simtypes.Context, delegator sdk.AccAddress) ([]byte, error) {
	perValidator := wasmvmtypes.Array[wasmvmtypes.DelegatorReward]{}
	total := sdk.NewDecCoins()
	for _, validator := range k.staking.DelegatorValidators(ctx, delegator) {
		reward, found, err := k.staking.GetRewards(ctx, delegator, validator)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		amount := sdkmath.LegacyNewDecFromInt(reward.Amount)
		perValidator = append(perValidator, wasmvmtypes.DelegatorReward{
			ValidatorAddress: validator,
			Reward:           wasmvmtypes.Array[wasmvmtypes.DecCoin]{toDecCoin(reward.Denom, amount)},
		})
		total = total.Add(sdk.NewDecCoinFromDec(reward.Denom, amount))
	}
	totalRewards := wasmvmtypes.Array[wasmvmtypes.DecCoin]{}
	for _, c := range total {
		totalRewards = append(totalRewards, toDecCoin(c.Denom, c.Amount))
	}
	return json.Marshal(wasmvmtypes.DelegationTotalRewardsResponse{Rewards: perValidator, Total: totalRewards})
}

func toDecCoin(denom string, amount sdkmath.LegacyDec) wasmvmtypes.DecCoin {
	return wasmvmtypes.DecCoin{Denom: denom, Amount: amount.String()}
}

func parseDelegator(addr string) (sdk.AccAddress, error) {
	delegator, err := sdk.AccAddressFromBech32(addr)
	if err != nil {
		return nil, errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, "delegator: %s", err)
	}
	return delegator, nil
}
