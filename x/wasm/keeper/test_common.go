package keeper

import (
	"encoding/json"

	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"
	"github.com/stretchr/testify/require"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/CosmWasm/wasmsim/testutil"
	simtypes "github.com/CosmWasm/wasmsim/types"
	bankkeeper "github.com/CosmWasm/wasmsim/x/bank/keeper"
	banktypes "github.com/CosmWasm/wasmsim/x/bank/types"
	"github.com/CosmWasm/wasmsim/x/wasm/contracts"
	"github.com/CosmWasm/wasmsim/x/wasm/types"
)

type TestingT interface {
	Errorf(format string, args ...interface{})
	FailNow()
	Helper()
}

type TestKeepers struct {
	WasmKeeper *Keeper
	BankKeeper bankkeeper.Keeper
	Router     testutil.Router
}

// CreateTestInput returns a context with a router over the bank and wasm modules
func CreateTestInput(t TestingT, opts ...Option) (simtypes.Context, TestKeepers) {
	bankKeeper := bankkeeper.NewKeeper(banktypes.StoreKey)
	wasmKeeper := NewKeeper(types.StoreKey, opts...)
	router := testutil.Router{
		simtypes.KindBank: bankkeeper.NewMsgServerImpl(bankKeeper),
		simtypes.KindWasm: NewMsgServerImpl(wasmKeeper),
	}
	ctx := testutil.NewContext(t).WithRouter(router)
	return ctx, TestKeepers{
		WasmKeeper: wasmKeeper,
		BankKeeper: bankKeeper,
		Router:     router,
	}
}

// FundAccount mints the coins to the address
func FundAccount(t TestingT, ctx simtypes.Context, bank bankkeeper.Keeper, addr sdk.AccAddress, coins sdk.Coins) {
	require.NoError(t, bank.MintCoins(ctx, addr, coins))
}

// StoreReflectContract uploads the reflect contract and returns its code id
func StoreReflectContract(t TestingT, ctx simtypes.Context, keepers TestKeepers) uint64 {
	codeID, _, err := keepers.WasmKeeper.StoreCode(ctx, testutil.RandomAccountAddress(t), contracts.Reflect{})
	require.NoError(t, err)
	return codeID
}

// InstantiateReflectContract uploads and instantiates a reflect contract with the creator as admin
func InstantiateReflectContract(t TestingT, ctx simtypes.Context, keepers TestKeepers, creator sdk.AccAddress) sdk.AccAddress {
	codeID := StoreReflectContract(t, ctx, keepers)
	addr, _, err := keepers.WasmKeeper.Instantiate(ctx, codeID, creator, creator, nil, "reflect", nil)
	require.NoError(t, err)
	return addr
}

// ReflectExecuteMsg wraps a reflect message into a wasm execute message for the contract
func ReflectExecuteMsg(contractAddr sdk.AccAddress, msg contracts.ReflectMsg) wasmvmtypes.CosmosMsg {
	return wasmvmtypes.CosmosMsg{Wasm: &wasmvmtypes.WasmMsg{Execute: &wasmvmtypes.ExecuteMsg{
		ContractAddr: contractAddr.String(),
		Msg:          msg.Bytes(),
	}}}
}

// QueryReflectValue reads a key the reflect contract stored
func QueryReflectValue(t TestingT, ctx simtypes.Context, k *Keeper, contractAddr sdk.AccAddress, key string) string {
	bz, err := k.QuerySmart(ctx, contractAddr, []byte(`{"get":{"key":"`+key+`"}}`))
	require.NoError(t, err)
	var rsp contracts.ValueResponse
	require.NoError(t, json.Unmarshal(bz, &rsp))
	return rsp.Value
}

// QueryReflectReplies returns the replies the reflect contract received, in order
func QueryReflectReplies(t TestingT, ctx simtypes.Context, k *Keeper, contractAddr sdk.AccAddress) []wasmvmtypes.Reply {
	bz, err := k.QuerySmart(ctx, contractAddr, []byte(`{"replies":{}}`))
	require.NoError(t, err)
	var rsp []wasmvmtypes.Reply
	require.NoError(t, json.Unmarshal(bz, &rsp))
	return rsp
}
