package keeper

import (
	"testing"

	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/CosmWasm/wasmsim/testutil"
	"github.com/CosmWasm/wasmsim/x/wasm/contracts"
	"github.com/CosmWasm/wasmsim/x/wasm/types"
)

// test handing of submessages with the reflect contract

func setKey(key, value string) *contracts.KeyValue {
	return &contracts.KeyValue{Key: key, Value: value}
}

// Try a simple send for a sanity check before trying table tests
func TestDispatchSubMsgSuccessCase(t *testing.T) {
	ctx, keepers := CreateTestInput(t)
	k := keepers.WasmKeeper
	creator := testutil.RandomAccountAddress(t)
	fred := testutil.RandomAccountAddress(t)
	contractStart := sdk.NewCoins(sdk.NewInt64Coin("denom", 40000))
	FundAccount(t, ctx, keepers.BankKeeper, creator, contractStart)

	codeID := StoreReflectContract(t, ctx, keepers)
	contractAddr, _, err := k.Instantiate(ctx, codeID, creator, nil, nil, "reflect contract 1", contractStart)
	require.NoError(t, err)

	// creator can send contract's tokens to fred
	msg := wasmvmtypes.CosmosMsg{Bank: &wasmvmtypes.BankMsg{Send: &wasmvmtypes.SendMsg{
		ToAddress: fred.String(),
		Amount:    wasmvmtypes.Array[wasmvmtypes.Coin]{{Denom: "denom", Amount: "15000"}},
	}}}
	_, err = k.Execute(ctx, contractAddr, creator, contracts.ReflectMsg{
		SubMsgs: []wasmvmtypes.SubMsg{{ID: 7, Msg: msg, ReplyOn: wasmvmtypes.ReplyAlways}},
	}.Bytes(), nil)
	require.NoError(t, err)

	// fred got coins
	assert.Equal(t, sdk.NewCoins(sdk.NewInt64Coin("denom", 15000)), keepers.BankKeeper.GetAllBalances(ctx, fred))
	assert.Equal(t, sdk.NewCoins(sdk.NewInt64Coin("denom", 25000)), keepers.BankKeeper.GetAllBalances(ctx, contractAddr))

	// and the reply was recorded
	replies := QueryReflectReplies(t, ctx, k, contractAddr)
	require.Len(t, replies, 1)
	assert.Equal(t, uint64(7), replies[0].ID)
	require.NotNil(t, replies[0].Result.Ok)
	require.Empty(t, replies[0].Result.Err)
	require.Len(t, replies[0].Result.Ok.Events, 1)
	assert.Equal(t, "transfer", replies[0].Result.Ok.Events[0].Type)
}

// A executes B with a reply on every outcome and B succeeds
func TestReplyAlwaysOnSuccess(t *testing.T) {
	ctx, keepers := CreateTestInput(t)
	k := keepers.WasmKeeper
	creator := testutil.RandomAccountAddress(t)
	contractA := InstantiateReflectContract(t, ctx, keepers, creator)
	contractB := InstantiateReflectContract(t, ctx, keepers, creator)

	_, err := k.Execute(ctx, contractA, creator, contracts.ReflectMsg{
		Set: setKey("a", "executed"),
		SubMsgs: []wasmvmtypes.SubMsg{{
			ID:      1,
			ReplyOn: wasmvmtypes.ReplyAlways,
			Msg:     ReflectExecuteMsg(contractB, contracts.ReflectMsg{Set: setKey("b", "executed"), Data: []byte("b data")}),
		}},
	}.Bytes(), nil)
	require.NoError(t, err)

	replies := QueryReflectReplies(t, ctx, k, contractA)
	require.Len(t, replies, 1)
	require.NotNil(t, replies[0].Result.Ok)
	assert.Equal(t, []byte("b data"), replies[0].Result.Ok.Data)
	assert.Equal(t, "executed", QueryReflectValue(t, ctx, k, contractA, "a"))
	assert.Equal(t, "executed", QueryReflectValue(t, ctx, k, contractB, "b"))
}

// A executes B with a reply on success only and B fails
func TestReplySuccessOnFailure(t *testing.T) {
	ctx, keepers := CreateTestInput(t)
	k := keepers.WasmKeeper
	creator := testutil.RandomAccountAddress(t)
	contractA := InstantiateReflectContract(t, ctx, keepers, creator)
	contractB := InstantiateReflectContract(t, ctx, keepers, creator)

	_, err := k.Execute(ctx, contractA, creator, contracts.ReflectMsg{
		Set: setKey("a", "executed"),
		SubMsgs: []wasmvmtypes.SubMsg{{
			ID:      1,
			ReplyOn: wasmvmtypes.ReplySuccess,
			Msg:     ReflectExecuteMsg(contractB, contracts.ReflectMsg{Set: setKey("b", "executed"), Fail: "b failed"}),
		}},
	}.Bytes(), nil)
	require.ErrorIs(t, err, types.ErrContractExecutionFailed)

	assert.Empty(t, QueryReflectReplies(t, ctx, k, contractA))
	assert.Equal(t, "", QueryReflectValue(t, ctx, k, contractA, "a"))
	assert.Equal(t, "", QueryReflectValue(t, ctx, k, contractB, "b"))
}

func TestDispatchSubMsgConditionalReplyOn(t *testing.T) {
	specs := map[string]struct {
		replyOn    wasmvmtypes.SubMsg
		subFails   bool
		expReplies int
		expErr     bool
	}{
		"always - success":  {replyOn: wasmvmtypes.SubMsg{ReplyOn: wasmvmtypes.ReplyAlways}, expReplies: 1},
		"always - failure":  {replyOn: wasmvmtypes.SubMsg{ReplyOn: wasmvmtypes.ReplyAlways}, subFails: true, expReplies: 1},
		"success - success": {replyOn: wasmvmtypes.SubMsg{ReplyOn: wasmvmtypes.ReplySuccess}, expReplies: 1},
		"success - failure": {replyOn: wasmvmtypes.SubMsg{ReplyOn: wasmvmtypes.ReplySuccess}, subFails: true, expErr: true},
		"error - success":   {replyOn: wasmvmtypes.SubMsg{ReplyOn: wasmvmtypes.ReplyError}},
		"error - failure":   {replyOn: wasmvmtypes.SubMsg{ReplyOn: wasmvmtypes.ReplyError}, subFails: true, expReplies: 1},
		"never - success":   {replyOn: wasmvmtypes.SubMsg{ReplyOn: wasmvmtypes.ReplyNever}},
		"never - failure":   {replyOn: wasmvmtypes.SubMsg{ReplyOn: wasmvmtypes.ReplyNever}, subFails: true, expErr: true},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			ctx, keepers := CreateTestInput(t)
			k := keepers.WasmKeeper
			creator := testutil.RandomAccountAddress(t)
			contractA := InstantiateReflectContract(t, ctx, keepers, creator)
			contractB := InstantiateReflectContract(t, ctx, keepers, creator)

			subMsg := spec.replyOn
			subMsg.ID = 1
			bMsg := contracts.ReflectMsg{Set: setKey("b", "executed")}
			if spec.subFails {
				bMsg.Fail = "b failed"
			}
			subMsg.Msg = ReflectExecuteMsg(contractB, bMsg)

			// when
			_, err := k.Execute(ctx, contractA, creator, contracts.ReflectMsg{
				Set:     setKey("a", "executed"),
				SubMsgs: []wasmvmtypes.SubMsg{subMsg},
			}.Bytes(), nil)

			// then
			if spec.expErr {
				require.Error(t, err)
				assert.Equal(t, "", QueryReflectValue(t, ctx, k, contractA, "a"))
				assert.Empty(t, QueryReflectReplies(t, ctx, k, contractA))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "executed", QueryReflectValue(t, ctx, k, contractA, "a"))
			replies := QueryReflectReplies(t, ctx, k, contractA)
			require.Len(t, replies, spec.expReplies)
			if spec.subFails {
				assert.Equal(t, "", QueryReflectValue(t, ctx, k, contractB, "b"))
				if spec.expReplies == 1 {
					assert.Nil(t, replies[0].Result.Ok)
					assert.Contains(t, replies[0].Result.Err, "b failed")
				}
				return
			}
			assert.Equal(t, "executed", QueryReflectValue(t, ctx, k, contractB, "b"))
			if spec.expReplies == 1 {
				assert.NotNil(t, replies[0].Result.Ok)
			}
		})
	}
}

func TestSubMsgDepthFirstOrdering(t *testing.T) {
	ctx, keepers := CreateTestInput(t)
	k := keepers.WasmKeeper
	creator := testutil.RandomAccountAddress(t)
	contractA := InstantiateReflectContract(t, ctx, keepers, creator)
	contractB := InstantiateReflectContract(t, ctx, keepers, creator)
	contractC := InstantiateReflectContract(t, ctx, keepers, creator)
	contractD := InstantiateReflectContract(t, ctx, keepers, creator)

	rsp, err := k.Execute(ctx, contractA, creator, contracts.ReflectMsg{
		SubMsgs: []wasmvmtypes.SubMsg{{
			ID:      1,
			ReplyOn: wasmvmtypes.ReplyAlways,
			Msg: ReflectExecuteMsg(contractB, contracts.ReflectMsg{
				Msgs: []wasmvmtypes.CosmosMsg{ReflectExecuteMsg(contractC, contracts.ReflectMsg{})},
			}),
		}, {
			ID:      2,
			ReplyOn: wasmvmtypes.ReplyNever,
			Msg:     ReflectExecuteMsg(contractD, contracts.ReflectMsg{}),
		}},
	}.Bytes(), nil)
	require.NoError(t, err)

	type call struct {
		typ, contract string
	}
	var got []call
	for _, e := range rsp.Events {
		if e.Type != types.EventTypeExecute && e.Type != types.EventTypeReply {
			continue
		}
		got = append(got, call{typ: e.Type, contract: e.Attributes[0].Value})
	}
	exp := []call{
		{typ: "execute", contract: contractA.String()},
		{typ: "execute", contract: contractB.String()},
		{typ: "execute", contract: contractC.String()},
		{typ: "reply", contract: contractA.String()},
		{typ: "execute", contract: contractD.String()},
	}
	assert.Equal(t, exp, got)
}

func TestReentrancyRejected(t *testing.T) {
	ctx, keepers := CreateTestInput(t)
	k := keepers.WasmKeeper
	creator := testutil.RandomAccountAddress(t)
	contractA := InstantiateReflectContract(t, ctx, keepers, creator)
	contractB := InstantiateReflectContract(t, ctx, keepers, creator)

	// A -> B -> A
	reenter := func(replyOn wasmvmtypes.SubMsg) []byte {
		replyOn.Msg = ReflectExecuteMsg(contractB, contracts.ReflectMsg{
			Set:  setKey("b", "executed"),
			Msgs: []wasmvmtypes.CosmosMsg{ReflectExecuteMsg(contractA, contracts.ReflectMsg{Set: setKey("a", "reentered")})},
		})
		return contracts.ReflectMsg{Set: setKey("a", "executed"), SubMsgs: []wasmvmtypes.SubMsg{replyOn}}.Bytes()
	}

	_, err := k.Execute(ctx, contractA, creator, reenter(wasmvmtypes.SubMsg{ReplyOn: wasmvmtypes.ReplyNever}), nil)
	require.ErrorIs(t, err, types.ErrReentrancy)
	assert.Equal(t, "", QueryReflectValue(t, ctx, k, contractA, "a"))
	assert.Equal(t, "", QueryReflectValue(t, ctx, k, contractB, "b"))

	// caught by the reply of A
	_, err = k.Execute(ctx, contractA, creator, reenter(wasmvmtypes.SubMsg{ID: 9, ReplyOn: wasmvmtypes.ReplyError}), nil)
	require.NoError(t, err)
	assert.Equal(t, "executed", QueryReflectValue(t, ctx, k, contractA, "a"))
	assert.Equal(t, "", QueryReflectValue(t, ctx, k, contractB, "b"))
	replies := QueryReflectReplies(t, ctx, k, contractA)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Result.Err, types.ErrReentrancy.Error())
}

func TestMigrateRejectsReentrancy(t *testing.T) {
	ctx, keepers := CreateTestInput(t)
	k := keepers.WasmKeeper
	creator := testutil.RandomAccountAddress(t)
	codeID := StoreReflectContract(t, ctx, keepers)
	contractA, _, err := k.Instantiate(ctx, codeID, creator, creator, nil, "a", nil)
	require.NoError(t, err)

	// the contract is its own admin and migrates itself while executing
	_, err = k.UpdateContractAdmin(ctx, contractA, creator, contractA)
	require.NoError(t, err)
	_, err = k.Execute(ctx, contractA, creator, contracts.ReflectMsg{
		Msgs: []wasmvmtypes.CosmosMsg{{Wasm: &wasmvmtypes.WasmMsg{Migrate: &wasmvmtypes.MigrateMsg{
			ContractAddr: contractA.String(),
			NewCodeID:    codeID,
			Msg:          contracts.ReflectMsg{}.Bytes(),
		}}}},
	}.Bytes(), nil)
	require.ErrorIs(t, err, types.ErrReentrancy)
}

func TestReplyData(t *testing.T) {
	specs := map[string]struct {
		subMsgs []wasmvmtypes.SubMsg
		expData []byte
	}{
		"no reply - own data": {
			subMsgs: []wasmvmtypes.SubMsg{{ID: 1, ReplyOn: wasmvmtypes.ReplyNever}},
			expData: []byte("own data"),
		},
		"reply without data - own data": {
			subMsgs: []wasmvmtypes.SubMsg{{ID: 1, ReplyOn: wasmvmtypes.ReplyAlways}},
			expData: []byte("own data"),
		},
		"reply with data overrides": {
			subMsgs: []wasmvmtypes.SubMsg{{
				ID: 1, ReplyOn: wasmvmtypes.ReplyAlways,
				Payload: contracts.ReflectMsg{Data: []byte("reply data")}.Bytes(),
			}},
			expData: []byte("reply data"),
		},
		"last reply with data wins": {
			subMsgs: []wasmvmtypes.SubMsg{{
				ID: 1, ReplyOn: wasmvmtypes.ReplyAlways,
				Payload: contracts.ReflectMsg{Data: []byte("first")}.Bytes(),
			}, {
				ID: 2, ReplyOn: wasmvmtypes.ReplyAlways,
				Payload: contracts.ReflectMsg{Data: []byte("second")}.Bytes(),
			}, {
				ID: 3, ReplyOn: wasmvmtypes.ReplyAlways,
			}},
			expData: []byte("second"),
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			ctx, keepers := CreateTestInput(t)
			k := keepers.WasmKeeper
			creator := testutil.RandomAccountAddress(t)
			contractA := InstantiateReflectContract(t, ctx, keepers, creator)
			contractB := InstantiateReflectContract(t, ctx, keepers, creator)
			for i := range spec.subMsgs {
				spec.subMsgs[i].Msg = ReflectExecuteMsg(contractB, contracts.ReflectMsg{Data: []byte("b data")})
			}

			rsp, err := k.Execute(ctx, contractA, creator, contracts.ReflectMsg{
				SubMsgs: spec.subMsgs,
				Data:    []byte("own data"),
			}.Bytes(), nil)
			require.NoError(t, err)
			assert.Equal(t, spec.expData, rsp.Data)
		})
	}
}

func TestReplyFailureAbortsCall(t *testing.T) {
	ctx, keepers := CreateTestInput(t)
	k := keepers.WasmKeeper
	creator := testutil.RandomAccountAddress(t)
	contractA := InstantiateReflectContract(t, ctx, keepers, creator)
	contractB := InstantiateReflectContract(t, ctx, keepers, creator)

	_, err := k.Execute(ctx, contractA, creator, contracts.ReflectMsg{
		Set: setKey("a", "executed"),
		SubMsgs: []wasmvmtypes.SubMsg{{
			ID:      1,
			ReplyOn: wasmvmtypes.ReplyAlways,
			Msg:     ReflectExecuteMsg(contractB, contracts.ReflectMsg{Set: setKey("b", "executed")}),
			Payload: contracts.ReflectMsg{Fail: "reply failed"}.Bytes(),
		}},
	}.Bytes(), nil)
	require.ErrorIs(t, err, types.ErrContractExecutionFailed)
	assert.Contains(t, err.Error(), "reply failed")

	assert.Equal(t, "", QueryReflectValue(t, ctx, k, contractA, "a"))
	assert.Equal(t, "", QueryReflectValue(t, ctx, k, contractB, "b"))
	assert.Empty(t, QueryReflectReplies(t, ctx, k, contractA))
}
