package keeper

import (
	"encoding/json"
	"testing"
	"time"

	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/CosmWasm/wasmsim/testutil"
	simtypes "github.com/CosmWasm/wasmsim/types"
	bankkeeper "github.com/CosmWasm/wasmsim/x/bank/keeper"
	banktypes "github.com/CosmWasm/wasmsim/x/bank/types"
	"github.com/CosmWasm/wasmsim/x/distribution/types"
	stakingkeeper "github.com/CosmWasm/wasmsim/x/staking/keeper"
	stakingtypes "github.com/CosmWasm/wasmsim/x/staking/types"
)

const validatorAddr = "testvaloper1"

type testInput struct {
	bank    bankkeeper.Keeper
	keeper  Keeper
	server  simtypes.Module
	staking simtypes.Module
}

// setupDistribution returns a context one year after the delegator staked 100 tokens at a
// validator without commission
func setupDistribution(t *testing.T, delegator sdk.AccAddress) (simtypes.Context, testInput) {
	t.Helper()
	bank := bankkeeper.NewKeeper(banktypes.StoreKey)
	staking := stakingkeeper.NewKeeper(stakingtypes.StoreKey)
	keeper := NewKeeper(types.StoreKey, staking)
	in := testInput{
		bank:    bank,
		keeper:  keeper,
		server:  NewMsgServerImpl(keeper),
		staking: stakingkeeper.NewMsgServerImpl(staking),
	}
	ctx := testutil.NewContext(t).WithRouter(testutil.Router{
		simtypes.KindBank:         bankkeeper.NewMsgServerImpl(bank),
		simtypes.KindStaking:      in.staking,
		simtypes.KindDistribution: in.server,
	})
	require.NoError(t, staking.AddValidator(ctx, wasmvmtypes.Validator{Address: validatorAddr, Commission: "0", MaxCommission: "1", MaxChangeRate: "1"}))
	require.NoError(t, bank.InitBalance(ctx, delegator, sdk.NewCoins(sdk.NewInt64Coin("TOKEN", 100))))
	_, err := in.staking.Execute(ctx, delegator, wasmvmtypes.CosmosMsg{Staking: &wasmvmtypes.StakingMsg{Delegate: &wasmvmtypes.DelegateMsg{
		Validator: validatorAddr,
		Amount:    wasmvmtypes.Coin{Denom: "TOKEN", Amount: "100"},
	}}})
	require.NoError(t, err)
	return ctx.WithBlockInfo(ctx.BlockInfo().Next(365 * 24 * time.Hour)), in
}

func withdrawMsg() wasmvmtypes.CosmosMsg {
	return wasmvmtypes.CosmosMsg{Distribution: &wasmvmtypes.DistributionMsg{
		WithdrawDelegatorReward: &wasmvmtypes.WithdrawDelegatorRewardMsg{Validator: validatorAddr},
	}}
}

func TestWithdrawDelegatorReward(t *testing.T) {
	delegator := testutil.RandomAccountAddress(t)
	ctx, in := setupDistribution(t, delegator)

	rsp, err := in.server.Execute(ctx, delegator, withdrawMsg())
	require.NoError(t, err)
	assert.Equal(t, sdk.Events{sdk.NewEvent("withdraw_delegator_reward",
		sdk.NewAttribute("validator", validatorAddr),
		sdk.NewAttribute("sender", delegator.String()),
		sdk.NewAttribute("amount", "10TOKEN"),
	)}, rsp.Events)
	assert.Equal(t, sdk.NewCoins(sdk.NewInt64Coin("TOKEN", 10)), in.bank.GetAllBalances(ctx, delegator))

	// nothing left in the same block
	rsp, err = in.server.Execute(ctx, delegator, withdrawMsg())
	require.NoError(t, err)
	assert.Equal(t, "0TOKEN", rsp.Events[0].Attributes[2].Value)
	assert.Equal(t, sdk.NewCoins(sdk.NewInt64Coin("TOKEN", 10)), in.bank.GetAllBalances(ctx, delegator))
}

func TestWithdrawToWithdrawAddress(t *testing.T) {
	delegator, receiver := testutil.RandomAccountAddress(t), testutil.RandomAccountAddress(t)
	ctx, in := setupDistribution(t, delegator)

	rsp, err := in.server.Execute(ctx, delegator, wasmvmtypes.CosmosMsg{Distribution: &wasmvmtypes.DistributionMsg{
		SetWithdrawAddress: &wasmvmtypes.SetWithdrawAddressMsg{Address: receiver.String()},
	}})
	require.NoError(t, err)
	assert.Equal(t, sdk.Events{sdk.NewEvent("set_withdraw_address", sdk.NewAttribute("withdraw_address", receiver.String()))}, rsp.Events)
	assert.Equal(t, receiver, in.keeper.GetWithdrawAddress(ctx, delegator))

	_, err = in.server.Execute(ctx, delegator, withdrawMsg())
	require.NoError(t, err)
	assert.Equal(t, sdk.NewCoins(sdk.NewInt64Coin("TOKEN", 10)), in.bank.GetAllBalances(ctx, receiver))
	assert.True(t, in.bank.GetAllBalances(ctx, delegator).IsZero())

	// setting itself clears the entry
	in.keeper.SetWithdrawAddress(ctx, delegator, delegator)
	assert.Equal(t, delegator, in.keeper.GetWithdrawAddress(ctx, delegator))
}

func TestDistributionMsgFailures(t *testing.T) {
	delegator := testutil.RandomAccountAddress(t)
	specs := map[string]struct {
		sender sdk.AccAddress
		msg    wasmvmtypes.CosmosMsg
		expErr error
	}{
		"withdraw without delegation": {
			sender: testutil.RandomAccountAddress(t),
			msg:    withdrawMsg(),
			expErr: sdkerrors.ErrNotFound,
		},
		"withdraw from unknown validator": {
			sender: delegator,
			msg: wasmvmtypes.CosmosMsg{Distribution: &wasmvmtypes.DistributionMsg{
				WithdrawDelegatorReward: &wasmvmtypes.WithdrawDelegatorRewardMsg{Validator: "unknown"},
			}},
			expErr: sdkerrors.ErrNotFound,
		},
		"invalid withdraw address": {
			sender: delegator,
			msg: wasmvmtypes.CosmosMsg{Distribution: &wasmvmtypes.DistributionMsg{
				SetWithdrawAddress: &wasmvmtypes.SetWithdrawAddressMsg{Address: "invalid"},
			}},
			expErr: sdkerrors.ErrInvalidAddress,
		},
		"unsupported variant": {
			sender: delegator,
			msg:    wasmvmtypes.CosmosMsg{Distribution: &wasmvmtypes.DistributionMsg{}},
			expErr: simtypes.ErrUnsupportedMessage,
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			ctx, in := setupDistribution(t, delegator)
			_, err := in.server.Execute(ctx, spec.sender, spec.msg)
			require.ErrorIs(t, err, spec.expErr)
		})
	}
}

func TestDistributionQueries(t *testing.T) {
	delegator := testutil.RandomAccountAddress(t)
	ctx, in := setupDistribution(t, delegator)

	specs := map[string]struct {
		req wasmvmtypes.DistributionQuery
		exp string
	}{
		"withdraw address": {
			req: wasmvmtypes.DistributionQuery{DelegatorWithdrawAddress: &wasmvmtypes.DelegatorWithdrawAddressQuery{DelegatorAddress: delegator.String()}},
			exp: `{"withdraw_address":"` + delegator.String() + `"}`,
		},
		"rewards": {
			req: wasmvmtypes.DistributionQuery{DelegationRewards: &wasmvmtypes.DelegationRewardsQuery{DelegatorAddress: delegator.String(), ValidatorAddress: validatorAddr}},
			exp: `{"rewards":[{"denom":"TOKEN","amount":"10.000000000000000000"}]}`,
		},
		"total rewards": {
			req: wasmvmtypes.DistributionQuery{DelegationTotalRewards: &wasmvmtypes.DelegationTotalRewardsQuery{DelegatorAddress: delegator.String()}},
			exp: `{"rewards":[{"validator_address":"testvaloper1","reward":[{"denom":"TOKEN","amount":"10.000000000000000000"}]}],"total":[{"denom":"TOKEN","amount":"10.000000000000000000"}]}`,
		},
		"validators": {
			req: wasmvmtypes.DistributionQuery{DelegatorValidators: &wasmvmtypes.DelegatorValidatorsQuery{DelegatorAddress: delegator.String()}},
			exp: `{"validators":["testvaloper1"]}`,
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			req := spec.req
			bz, err := in.server.Query(ctx, wasmvmtypes.QueryRequest{Distribution: &req})
			require.NoError(t, err)
			assert.JSONEq(t, spec.exp, string(bz))
		})
	}

	_, err := in.server.Query(ctx, wasmvmtypes.QueryRequest{Distribution: &wasmvmtypes.DistributionQuery{
		DelegatorWithdrawAddress: &wasmvmtypes.DelegatorWithdrawAddressQuery{DelegatorAddress: "invalid"},
	}})
	require.ErrorIs(t, err, sdkerrors.ErrInvalidAddress)

	// the rewards query does not book anything
	var rsp wasmvmtypes.DelegationRewardsResponse
	bz, err := in.server.Query(ctx, wasmvmtypes.QueryRequest{Distribution: &wasmvmtypes.DistributionQuery{
		DelegationRewards: &wasmvmtypes.DelegationRewardsQuery{DelegatorAddress: delegator.String(), ValidatorAddress: validatorAddr},
	}})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(bz, &rsp))
	assert.Len(t, rsp.Rewards, 1)
}
