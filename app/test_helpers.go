package app

import (
	"cosmossdk.io/log"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"
	"github.com/stretchr/testify/require"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/CosmWasm/wasmsim/testutil"
	"github.com/CosmWasm/wasmsim/x/wasm/contracts"
)

// EmptyAppOptions is a stub implementing AppOptions
type EmptyAppOptions struct{}

// Get implements AppOptions
func (ao EmptyAppOptions) Get(_ string) interface{} {
	return nil
}

// MapAppOptions serves the options from a map
type MapAppOptions map[string]interface{}

// Get implements AppOptions
func (m MapAppOptions) Get(key string) interface{} {
	return m[key]
}

// Setup returns an App with a nop logger
func Setup(t testutil.TestingT, opts ...Option) *App {
	t.Helper()
	return NewApp(log.NewNopLogger(), opts...)
}

// FundAccount sets the genesis balance of a new address and returns it
func FundAccount(t testutil.TestingT, app *App, coins sdk.Coins) sdk.AccAddress {
	t.Helper()
	addr := testutil.RandomAccountAddress(t)
	require.NoError(t, app.InitBalance(addr, coins))
	return addr
}

// InstantiateReflect stores and instantiates a reflect contract owned by the creator
func InstantiateReflect(t testutil.TestingT, app *App, creator sdk.AccAddress) sdk.AccAddress {
	t.Helper()
	codeID, err := app.StoreCode(contracts.Reflect{})
	require.NoError(t, err)
	addr, _, err := app.InstantiateContract(codeID, creator, nil, nil, "reflect", creator)
	require.NoError(t, err)
	return addr
}

// ReflectSubMsg wraps a reflect message for the contract into a sub message that is always
// replied to
func ReflectSubMsg(id uint64, contractAddr sdk.AccAddress, msg contracts.ReflectMsg, payload []byte) wasmvmtypes.SubMsg {
	return wasmvmtypes.SubMsg{
		ID:      id,
		Payload: payload,
		Msg: wasmvmtypes.CosmosMsg{Wasm: &wasmvmtypes.WasmMsg{Execute: &wasmvmtypes.ExecuteMsg{
			ContractAddr: contractAddr.String(),
			Msg:          msg.Bytes(),
		}}},
		ReplyOn: wasmvmtypes.ReplyAlways,
	}
}

// StoredValue returns a key the reflect contract stored, empty when not set
func StoredValue(app *App, contractAddr sdk.AccAddress, key string) string {
	return string(app.QueryRaw(contractAddr, []byte(key)))
}
