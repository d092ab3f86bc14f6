package keeper

import (
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store/prefix"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	simtypes "github.com/CosmWasm/wasmsim/types"
	"github.com/CosmWasm/wasmsim/x/staking/types"
)

// Keeper manages validators, delegations, rewards and the unbonding queue.
// All staked tokens are held by the module account.
type Keeper struct {
	storeKey simtypes.StoreKey
}

func NewKeeper(storeKey simtypes.StoreKey) Keeper {
	return Keeper{storeKey: storeKey}
}

// Setup stores the staking parameters
func (k Keeper) Setup(ctx simtypes.Context, info types.StakingInfo) error {
	if err := info.ValidateBasic(); err != nil {
		return err
	}
	ctx.KVStore(k.storeKey).Set(types.ParamsKey, mustMarshal(info))
	return nil
}

// GetStakingInfo returns the stored parameters or the defaults
func (k Keeper) GetStakingInfo(ctx simtypes.Context) types.StakingInfo {
	bz := ctx.KVStore(k.storeKey).Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultStakingInfo()
	}
	var info types.StakingInfo
	mustUnmarshal(bz, &info)
	return info
}

// BondedDenom returns the denom of the staking token
func (k Keeper) BondedDenom(ctx simtypes.Context) string {
	return k.GetStakingInfo(ctx).BondedDenom
}

// AddValidator makes a new validator available for staking.
func (k Keeper) AddValidator(ctx simtypes.Context, validator wasmvmtypes.Validator) error {
	if validator.Address == "" {
		return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "empty validator address")
	}
	if _, err := sdkmath.LegacyNewDecFromStr(validator.Commission); err != nil {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "commission: %s", err)
	}
	store := ctx.KVStore(k.storeKey)
	if store.Has(types.GetValidatorPositionKey(validator.Address)) {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "cannot add validator %s, since a validator with that address already exists", validator.Address)
	}
	var pos uint64
	if bz := store.Get(types.ValidatorCountKey); bz != nil {
		pos = types.ParsePosition(bz)
	}
	store.Set(types.ValidatorCountKey, sdk.Uint64ToBigEndian(pos+1))
	store.Set(types.GetValidatorKey(pos), mustMarshal(validator))
	store.Set(types.GetValidatorPositionKey(validator.Address), sdk.Uint64ToBigEndian(pos))
	k.setValidatorInfo(ctx, validator.Address, types.NewValidatorInfo(ctx.BlockTime()))
	k.Logger(ctx).Debug("validator added", "validator", validator.Address)
	return nil
}

// GetValidator returns nil when the validator does not exist
func (k Keeper) GetValidator(ctx simtypes.Context, address string) *wasmvmtypes.Validator {
	store := ctx.KVStore(k.storeKey)
	posBz := store.Get(types.GetValidatorPositionKey(address))
	if posBz == nil {
		return nil
	}
	var validator wasmvmtypes.Validator
	mustUnmarshal(store.Get(types.GetValidatorKey(types.ParsePosition(posBz))), &validator)
	return &validator
}

// GetValidators returns all validators in the order they were added
func (k Keeper) GetValidators(ctx simtypes.Context) []wasmvmtypes.Validator {
	iter := prefix.NewStore(ctx.KVStore(k.storeKey), types.ValidatorsPrefix).Iterator(nil, nil)
	defer iter.Close()

	res := []wasmvmtypes.Validator{}
	for ; iter.Valid(); iter.Next() {
		var validator wasmvmtypes.Validator
		mustUnmarshal(iter.Value(), &validator)
		res = append(res, validator)
	}
	return res
}

func (k Keeper) getValidatorInfo(ctx simtypes.Context, validator string) (types.ValidatorInfo, bool) {
	bz := ctx.KVStore(k.storeKey).Get(types.GetValidatorInfoKey(validator))
	if bz == nil {
		return types.ValidatorInfo{}, false
	}
	var info types.ValidatorInfo
	mustUnmarshal(bz, &info)
	return info, true
}

func (k Keeper) setValidatorInfo(ctx simtypes.Context, validator string, info types.ValidatorInfo) {
	ctx.KVStore(k.storeKey).Set(types.GetValidatorInfoKey(validator), mustMarshal(info))
}

func (k Keeper) getShares(ctx simtypes.Context, delegator sdk.AccAddress, validator string) (types.Shares, bool) {
	bz := ctx.KVStore(k.storeKey).Get(types.GetSharesKey(delegator, validator))
	if bz == nil {
		return types.NewShares(), false
	}
	var shares types.Shares
	mustUnmarshal(bz, &shares)
	return shares, true
}

func (k Keeper) setShares(ctx simtypes.Context, delegator sdk.AccAddress, validator string, shares types.Shares) {
	ctx.KVStore(k.storeKey).Set(types.GetSharesKey(delegator, validator), mustMarshal(shares))
}

func (k Keeper) deleteShares(ctx simtypes.Context, delegator sdk.AccAddress, validator string) {
	ctx.KVStore(k.storeKey).Delete(types.GetSharesKey(delegator, validator))
}

// GetStake returns the delegated amount, rounded down.
func (k Keeper) GetStake(ctx simtypes.Context, delegator sdk.AccAddress, validator string) (sdk.Coin, bool) {
	shares, found := k.getShares(ctx, delegator, validator)
	if !found {
		return sdk.Coin{}, false
	}
	return sdk.NewCoin(k.BondedDenom(ctx), shares.Stake.TruncateInt()), true
}

// GetRewards returns the rewards of the delegator at the validator, including those not yet
// booked. The bool is false when there is no delegation.
func (k Keeper) GetRewards(ctx simtypes.Context, delegator sdk.AccAddress, validator string) (sdk.Coin, bool, error) {
	validatorObj := k.GetValidator(ctx, validator)
	if validatorObj == nil {
		return sdk.Coin{}, false, errorsmod.Wrapf(sdkerrors.ErrNotFound, "validator %s", validator)
	}
	shares, found := k.getShares(ctx, delegator, validator)
	if !found {
		return sdk.Coin{}, false, nil
	}
	info, _ := k.getValidatorInfo(ctx, validator)
	return k.rewards(ctx, shares, *validatorObj, info), true, nil
}

func (k Keeper) rewards(ctx simtypes.Context, shares types.Shares, validator wasmvmtypes.Validator, info types.ValidatorInfo) sdk.Coin {
	params := k.GetStakingInfo(ctx)
	// calculate missing rewards without updating the validator
	newRewards := types.CalculateRewards(ctx.BlockTime(), info.LastRewardsCalculation, params.APR, commission(validator), info.Stake)
	total := shares.Rewards.Add(shares.ShareOfRewards(info, newRewards))
	return sdk.NewCoin(params.BondedDenom, total.TruncateInt())
}

// UpdateRewards books the rewards earned since the last calculation to the stakers of the validator.
// It must be called before anything that changes future rewards.
func (k Keeper) UpdateRewards(ctx simtypes.Context, validator string) error {
	info, found := k.getValidatorInfo(ctx, validator)
	if !found {
		return errorsmod.Wrapf(sdkerrors.ErrNotFound, "validator %s does not exist", validator)
	}
	if !info.LastRewardsCalculation.Before(ctx.BlockTime()) {
		return nil
	}
	validatorObj := k.GetValidator(ctx, validator)
	params := k.GetStakingInfo(ctx)
	newRewards := types.CalculateRewards(ctx.BlockTime(), info.LastRewardsCalculation, params.APR, commission(*validatorObj), info.Stake)

	info.LastRewardsCalculation = ctx.BlockTime()
	k.setValidatorInfo(ctx, validator, info)
	if newRewards.IsZero() {
		return nil
	}
	for _, staker := range info.Stakers {
		delegator := sdk.MustAccAddressFromBech32(staker)
		shares, found := k.getShares(ctx, delegator, validator)
		if !found {
			panic(errorsmod.Wrapf(simtypes.ErrInvariantViolation, "staker %s without shares at %s", staker, validator))
		}
		shares.Rewards = shares.Rewards.Add(shares.ShareOfRewards(info, newRewards))
		k.setShares(ctx, delegator, validator, shares)
	}
	return nil
}

// RemoveRewards books and then clears the rewards of the delegator at the validator. It returns the
// amount removed.
func (k Keeper) RemoveRewards(ctx simtypes.Context, delegator sdk.AccAddress, validator string) (sdkmath.Int, error) {
	if err := k.UpdateRewards(ctx, validator); err != nil {
		return sdkmath.Int{}, err
	}
	shares, found := k.getShares(ctx, delegator, validator)
	if !found {
		return sdkmath.Int{}, errorsmod.Wrap(sdkerrors.ErrNotFound, "no delegation for (address, validator) tuple")
	}
	rewards := shares.Rewards.TruncateInt()
	shares.Rewards = sdkmath.LegacyZeroDec()
	k.setShares(ctx, delegator, validator, shares)
	return rewards, nil
}

// DelegatorValidators returns the validators the delegator has shares at, ordered by address.
func (k Keeper) DelegatorValidators(ctx simtypes.Context, delegator sdk.AccAddress) []string {
	iter := prefix.NewStore(ctx.KVStore(k.storeKey), types.GetDelegatorSharesPrefix(delegator)).Iterator(nil, nil)
	defer iter.Close()

	res := []string{}
	for ; iter.Valid(); iter.Next() {
		res = append(res, string(iter.Key()))
	}
	return res
}

// addStake and removeStake change the delegation after booking the rewards earned so far.
func (k Keeper) addStake(ctx simtypes.Context, delegator sdk.AccAddress, validator string, amount sdk.Coin) error {
	if err := k.validateDenom(ctx, amount); err != nil {
		return err
	}
	return k.updateStake(ctx, delegator, validator, amount.Amount, false)
}

func (k Keeper) removeStake(ctx simtypes.Context, delegator sdk.AccAddress, validator string, amount sdk.Coin) error {
	if err := k.validateDenom(ctx, amount); err != nil {
		return err
	}
	return k.updateStake(ctx, delegator, validator, amount.Amount, true)
}

func (k Keeper) updateStake(ctx simtypes.Context, delegator sdk.AccAddress, validator string, amount sdkmath.Int, sub bool) error {
	if err := k.UpdateRewards(ctx, validator); err != nil {
		return err
	}
	info, _ := k.getValidatorInfo(ctx, validator)
	shares, found := k.getShares(ctx, delegator, validator)
	amountDec := sdkmath.LegacyNewDecFromInt(amount)
	if sub {
		if !found {
			return errorsmod.Wrap(sdkerrors.ErrNotFound, "no delegation for (address, validator) tuple")
		}
		if amountDec.GT(shares.Stake) {
			return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "invalid shares amount")
		}
		shares.Stake = shares.Stake.Sub(amountDec)
		info.Stake = info.Stake.Sub(amount)
	} else {
		shares.Stake = shares.Stake.Add(amountDec)
		info.Stake = info.Stake.Add(amount)
	}

	if shares.Stake.IsZero() {
		k.deleteShares(ctx, delegator, validator)
		info.RemoveStaker(delegator.String())
	} else {
		k.setShares(ctx, delegator, validator, shares)
		info.AddStaker(delegator.String())
	}
	k.setValidatorInfo(ctx, validator, info)
	return nil
}

// Slash burns the fraction of the stake of the validator, its delegations and pending unbondings.
func (k Keeper) Slash(ctx simtypes.Context, validator string, percentage sdkmath.LegacyDec) error {
	if percentage.IsNegative() || percentage.GT(sdkmath.LegacyOneDec()) {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "expected percentage, got %s", percentage)
	}
	if err := k.UpdateRewards(ctx, validator); err != nil {
		return err
	}
	info, _ := k.getValidatorInfo(ctx, validator)
	remaining := sdkmath.LegacyOneDec().Sub(percentage)
	info.Stake = sdkmath.LegacyNewDecFromInt(info.Stake).Mul(remaining).TruncateInt()

	for _, staker := range info.Stakers {
		delegator := sdk.MustAccAddressFromBech32(staker)
		if info.Stake.IsZero() {
			k.deleteShares(ctx, delegator, validator)
			continue
		}
		shares, _ := k.getShares(ctx, delegator, validator)
		shares.Stake = shares.Stake.Mul(remaining)
		k.setShares(ctx, delegator, validator, shares)
	}
	if info.Stake.IsZero() {
		info.Stakers = nil
	}
	k.setValidatorInfo(ctx, validator, info)

	queue := k.getUnbondingQueue(ctx)
	for i := range queue {
		if queue[i].Validator == validator {
			queue[i].Amount = sdkmath.LegacyNewDecFromInt(queue[i].Amount).Mul(remaining).TruncateInt()
		}
	}
	k.setUnbondingQueue(ctx, queue)
	k.Logger(ctx).Info("validator slashed", "validator", validator, "percentage", percentage.String())
	return nil
}

func (k Keeper) validateDenom(ctx simtypes.Context, amount sdk.Coin) error {
	if denom := k.BondedDenom(ctx); amount.Denom != denom {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidCoins, "cannot delegate coins of denominator %s, only of %s", amount.Denom, denom)
	}
	return nil
}

func (k Keeper) getUnbondingQueue(ctx simtypes.Context) []types.Unbonding {
	var queue []types.Unbonding
	if bz := ctx.KVStore(k.storeKey).Get(types.UnbondingQueueKey); bz != nil {
		mustUnmarshal(bz, &queue)
	}
	return queue
}

func (k Keeper) setUnbondingQueue(ctx simtypes.Context, queue []types.Unbonding) {
	store := ctx.KVStore(k.storeKey)
	if len(queue) == 0 {
		store.Delete(types.UnbondingQueueKey)
		return
	}
	store.Set(types.UnbondingQueueKey, mustMarshal(queue))
}

// GetUnbondings returns the pending unbondings of the delegator in payout order.
func (k Keeper) GetUnbondings(ctx simtypes.Context, delegator sdk.AccAddress) []types.Unbonding {
	var res []types.Unbonding
	for _, u := range k.getUnbondingQueue(ctx) {
		if u.Delegator == delegator.String() {
			res = append(res, u)
		}
	}
	return res
}

// ProcessQueue pays out all unbondings that matured at the current block time. It is called
// after every block change.
func (k Keeper) ProcessQueue(ctx simtypes.Context) (*simtypes.AppResponse, error) {
	queue := k.getUnbondingQueue(ctx)
	denom := k.BondedDenom(ctx)
	rsp := &simtypes.AppResponse{}
	for len(queue) != 0 && !queue[0].PayoutAt.After(ctx.BlockTime()) {
		unbonding := queue[0]
		queue = queue[1:]
		delegator, err := sdk.AccAddressFromBech32(unbonding.Delegator)
		if err != nil {
			return nil, errorsmod.Wrap(sdkerrors.ErrInvalidAddress, err.Error())
		}

		// drop a delegation that only holds slashed fractions
		if stake, found := k.GetStake(ctx, delegator, unbonding.Validator); found {
			pending := stake.Amount
			for _, u := range queue {
				if u.Delegator == unbonding.Delegator && u.Validator == unbonding.Validator {
					pending = pending.Add(u.Amount)
				}
			}
			if pending.IsZero() {
				k.deleteShares(ctx, delegator, unbonding.Validator)
				if info, ok := k.getValidatorInfo(ctx, unbonding.Validator); ok {
					info.RemoveStaker(unbonding.Delegator)
					k.setValidatorInfo(ctx, unbonding.Validator, info)
				}
			}
		}

		if unbonding.Amount.IsZero() {
			continue
		}
		sendRsp, err := k.send(ctx, types.ModuleAddress, delegator, sdk.NewCoin(denom, unbonding.Amount))
		if err != nil {
			return nil, err
		}
		rsp.Events = append(rsp.Events, sendRsp.Events...)
		k.Logger(ctx).Debug("unbonding paid out", "delegator", unbonding.Delegator, "amount", unbonding.Amount.String())
	}
	k.setUnbondingQueue(ctx, queue)
	return rsp, nil
}

// send moves the coin through the bank module of the router.
func (k Keeper) send(ctx simtypes.Context, from, to sdk.AccAddress, amount sdk.Coin) (*simtypes.AppResponse, error) {
	if ctx.Router() == nil {
		return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "no router")
	}
	return ctx.Router().Execute(ctx, from, wasmvmtypes.CosmosMsg{Bank: &wasmvmtypes.BankMsg{Send: &wasmvmtypes.SendMsg{
		ToAddress: to.String(),
		Amount:    wasmvmtypes.Array[wasmvmtypes.Coin]{simtypes.ConvertSdkCoinToWasmCoin(amount)},
	}}})
}

func commission(validator wasmvmtypes.Validator) sdkmath.LegacyDec {
	c, err := sdkmath.LegacyNewDecFromStr(validator.Commission)
	if err != nil {
		return sdkmath.LegacyZeroDec()
	}
	return c
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx simtypes.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

func mustMarshal(v any) []byte {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bz
}

func mustUnmarshal(bz []byte, v any) {
	if err := json.Unmarshal(bz, v); err != nil {
		panic(err)
	}
}
