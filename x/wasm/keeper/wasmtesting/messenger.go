package wasmtesting

import (
	"errors"

	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	sdk "github.com/cosmos/cosmos-sdk/types"

	simtypes "github.com/CosmWasm/wasmsim/types"
)

type MockMessageHandler struct {
	DispatchMsgFn func(ctx simtypes.Context, contractAddr sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error)
}

func (m *MockMessageHandler) DispatchMsg(ctx simtypes.Context, contractAddr sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
	if m.DispatchMsgFn == nil {
		panic("not expected to be called")
	}
	return m.DispatchMsgFn(ctx, contractAddr, msg)
}

// NewCapturingMessageHandler records all dispatched messages and returns the data {1} for each
func NewCapturingMessageHandler() (*MockMessageHandler, *[]wasmvmtypes.CosmosMsg) {
	var messages []wasmvmtypes.CosmosMsg
	return &MockMessageHandler{
		DispatchMsgFn: func(_ simtypes.Context, _ sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
			messages = append(messages, msg)
			return &simtypes.AppResponse{Data: []byte{1}}, nil
		},
	}, &messages
}

func NewErroringMessageHandler() *MockMessageHandler {
	return &MockMessageHandler{
		DispatchMsgFn: func(_ simtypes.Context, _ sdk.AccAddress, _ wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
			return nil, errors.New("test, ignore")
		},
	}
}

// NewStoreWritingMessageHandler writes the given key to the store before returning the result
func NewStoreWritingMessageHandler(key simtypes.StoreKey, rsp *simtypes.AppResponse, err error) *MockMessageHandler {
	return &MockMessageHandler{
		DispatchMsgFn: func(ctx simtypes.Context, _ sdk.AccAddress, _ wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
			ctx.KVStore(key).Set([]byte("written"), []byte("yes"))
			return rsp, err
		},
	}
}

// MockModule is a router module with pluggable execute and query functions
type MockModule struct {
	ExecuteFn func(ctx simtypes.Context, sender sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error)
	QueryFn   func(ctx simtypes.Context, req wasmvmtypes.QueryRequest) ([]byte, error)
}

var _ simtypes.Module = MockModule{}

func (m MockModule) Execute(ctx simtypes.Context, sender sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
	if m.ExecuteFn == nil {
		panic("not expected to be called")
	}
	return m.ExecuteFn(ctx, sender, msg)
}

func (m MockModule) Query(ctx simtypes.Context, req wasmvmtypes.QueryRequest) ([]byte, error) {
	if m.QueryFn == nil {
		panic("not expected to be called")
	}
	return m.QueryFn(ctx, req)
}
