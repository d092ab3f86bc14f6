package keeper

import (
	"encoding/json"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	simtypes "github.com/CosmWasm/wasmsim/types"
	"github.com/CosmWasm/wasmsim/x/staking/types"
)

var _ simtypes.SudoModule = msgServer{}

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns the router facing module of the keeper
func NewMsgServerImpl(k Keeper) simtypes.SudoModule {
	return msgServer{Keeper: k}
}

func (k msgServer) Execute(ctx simtypes.Context, sender sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
	if msg.Staking == nil {
		return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "not a staking message")
	}
	switch {
	case msg.Staking.Delegate != nil:
		return k.delegate(ctx, sender, msg.Staking.Delegate.Validator, msg.Staking.Delegate.Amount)
	case msg.Staking.Undelegate != nil:
		return k.undelegate(ctx, sender, msg.Staking.Undelegate.Validator, msg.Staking.Undelegate.Amount)
	case msg.Staking.Redelegate != nil:
		m := msg.Staking.Redelegate
		return k.redelegate(ctx, sender, m.SrcValidator, m.DstValidator, m.Amount)
	}
	return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "unknown variant of Staking")
}

func (k msgServer) delegate(ctx simtypes.Context, sender sdk.AccAddress, validator string, wasmAmount wasmvmtypes.Coin) (*simtypes.AppResponse, error) {
	amount, err := simtypes.ConvertWasmCoinToSdkCoin(wasmAmount)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "invalid delegation amount")
	}
	if err := k.addStake(ctx, sender, validator, amount); err != nil {
		return nil, err
	}
	// move the tokens from the delegator to the module account
	if _, err := k.send(ctx, sender, types.ModuleAddress, amount); err != nil {
		return nil, err
	}
	return &simtypes.AppResponse{Events: sdk.Events{sdk.NewEvent(
		types.EventTypeDelegate,
		sdk.NewAttribute(types.AttributeKeyValidator, validator),
		sdk.NewAttribute(sdk.AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(types.AttributeKeyNewShares, amount.Amount.String()),
	)}}, nil
}

func (k msgServer) undelegate(ctx simtypes.Context, sender sdk.AccAddress, validator string, wasmAmount wasmvmtypes.Coin) (*simtypes.AppResponse, error) {
	amount, err := simtypes.ConvertWasmCoinToSdkCoin(wasmAmount)
	if err != nil {
		return nil, err
	}
	if err := k.validateDenom(ctx, amount); err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "invalid shares amount")
	}
	if err := k.removeStake(ctx, sender, validator, amount); err != nil {
		return nil, err
	}
	payoutAt := ctx.BlockTime().Add(k.GetStakingInfo(ctx).UnbondingTime)
	k.setUnbondingQueue(ctx, append(k.getUnbondingQueue(ctx), types.Unbonding{
		Delegator: sender.String(),
		Validator: validator,
		Amount:    amount.Amount,
		PayoutAt:  payoutAt,
	}))
	return &simtypes.AppResponse{Events: sdk.Events{sdk.NewEvent(
		types.EventTypeUnbond,
		sdk.NewAttribute(types.AttributeKeyValidator, validator),
		sdk.NewAttribute(sdk.AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(types.AttributeKeyCompletionTime, payoutAt.Format(time.RFC3339)),
	)}}, nil
}

func (k msgServer) redelegate(ctx simtypes.Context, sender sdk.AccAddress, src, dst string, wasmAmount wasmvmtypes.Coin) (*simtypes.AppResponse, error) {
	amount, err := simtypes.ConvertWasmCoinToSdkCoin(wasmAmount)
	if err != nil {
		return nil, err
	}
	if err := k.removeStake(ctx, sender, src, amount); err != nil {
		return nil, err
	}
	if err := k.addStake(ctx, sender, dst, amount); err != nil {
		return nil, err
	}
	return &simtypes.AppResponse{Events: sdk.Events{sdk.NewEvent(
		types.EventTypeRedelegate,
		sdk.NewAttribute(types.AttributeKeySrcValidator, src),
		sdk.NewAttribute(types.AttributeKeyDstValidator, dst),
		sdk.NewAttribute(sdk.AttributeKeyAmount, amount.String()),
	)}}, nil
}

func (k msgServer) Query(ctx simtypes.Context, req wasmvmtypes.QueryRequest) ([]byte, error) {
	if req.Staking == nil {
		return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "not a staking query")
	}
	q := req.Staking
	switch {
	case q.BondedDenom != nil:
		return json.Marshal(wasmvmtypes.BondedDenomResponse{Denom: k.BondedDenom(ctx)})
	case q.AllDelegations != nil:
		delegator, err := sdk.AccAddressFromBech32(q.AllDelegations.Delegator)
		if err != nil {
			return nil, errorsmod.Wrap(sdkerrors.ErrInvalidAddress, err.Error())
		}
		delegations := wasmvmtypes.Array[wasmvmtypes.Delegation]{}
		for _, v := range k.GetValidators(ctx) {
			stake, found := k.GetStake(ctx, delegator, v.Address)
			if !found {
				continue
			}
			delegations = append(delegations, wasmvmtypes.Delegation{
				Delegator: delegator.String(),
				Validator: v.Address,
				Amount:    simtypes.ConvertSdkCoinToWasmCoin(stake),
			})
		}
		return json.Marshal(wasmvmtypes.AllDelegationsResponse{Delegations: delegations})
	case q.Delegation != nil:
		return k.queryDelegation(ctx, q.Delegation.Delegator, q.Delegation.Validator)
	case q.AllValidators != nil:
		return json.Marshal(wasmvmtypes.AllValidatorsResponse{Validators: k.GetValidators(ctx)})
	case q.Validator != nil:
		return json.Marshal(wasmvmtypes.ValidatorResponse{Validator: k.GetValidator(ctx, q.Validator.Address)})
	}
	return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "unknown StakingQuery variant")
}

func (k msgServer) queryDelegation(ctx simtypes.Context, delegatorAddr, validator string) ([]byte, error) {
	validatorObj := k.GetValidator(ctx, validator)
	if validatorObj == nil {
		return nil, errorsmod.Wrapf(sdkerrors.ErrNotFound, "non-existent validator %s", validator)
	}
	delegator, err := sdk.AccAddressFromBech32(delegatorAddr)
	if err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrInvalidAddress, err.Error())
	}
	shares, _ := k.getShares(ctx, delegator, validator)
	info, _ := k.getValidatorInfo(ctx, validator)
	reward := k.rewards(ctx, shares, *validatorObj, info)
	amount := sdk.NewCoin(k.BondedDenom(ctx), shares.Stake.TruncateInt())
	if amount.IsZero() {
		return json.Marshal(wasmvmtypes.DelegationResponse{})
	}
	rewards := wasmvmtypes.Array[wasmvmtypes.Coin]{}
	if !reward.IsZero() {
		rewards = append(rewards, simtypes.ConvertSdkCoinToWasmCoin(reward))
	}
	return json.Marshal(wasmvmtypes.DelegationResponse{Delegation: &wasmvmtypes.FullDelegation{
		Delegator:          delegator.String(),
		Validator:          validator,
		Amount:             simtypes.ConvertSdkCoinToWasmCoin(amount),
		AccumulatedRewards: rewards,
		CanRedelegate:      simtypes.ConvertSdkCoinToWasmCoin(amount),
	}})
}

func (k msgServer) Sudo(ctx simtypes.Context, msg simtypes.SudoMsg) (*simtypes.AppResponse, error) {
	if msg.Staking == nil || msg.Staking.Slash == nil {
		return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "not a staking sudo message")
	}
	percentage, err := sdkmath.LegacyNewDecFromStr(msg.Staking.Slash.Percentage)
	if err != nil {
		return nil, errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "percentage: %s", err)
	}
	if err := k.Slash(ctx, msg.Staking.Slash.Validator, percentage); err != nil {
		return nil, err
	}
	return &simtypes.AppResponse{Events: sdk.Events{sdk.NewEvent(
		types.EventTypeSlash,
		sdk.NewAttribute(types.AttributeKeyValidator, msg.Staking.Slash.Validator),
		sdk.NewAttribute(types.AttributeKeyFraction, percentage.String()),
	)}}, nil
}
