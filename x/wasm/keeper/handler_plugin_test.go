package keeper

import (
	"errors"
	"testing"

	errorsmod "cosmossdk.io/errors"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/CosmWasm/wasmsim/testutil"
	simtypes "github.com/CosmWasm/wasmsim/types"
	"github.com/CosmWasm/wasmsim/x/wasm/keeper/wasmtesting"
	"github.com/CosmWasm/wasmsim/x/wasm/types"
)

func TestMessageHandlerChainDispatch(t *testing.T) {
	capturingHandler, gotMsgs := wasmtesting.NewCapturingMessageHandler()

	alwaysUnknownMsgHandler := &wasmtesting.MockMessageHandler{
		DispatchMsgFn: func(_ simtypes.Context, _ sdk.AccAddress, _ wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
			return nil, simtypes.ErrUnsupportedMessage
		},
	}

	assertNotCalledHandler := &wasmtesting.MockMessageHandler{
		DispatchMsgFn: func(_ simtypes.Context, _ sdk.AccAddress, _ wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
			t.Fatal("not expected to be called")
			return nil, nil
		},
	}

	myMsg := wasmvmtypes.CosmosMsg{Custom: []byte(`{}`)}
	specs := map[string]struct {
		handlers  []Messenger
		expErr    *errorsmod.Error
		expEvents sdk.Events
	}{
		"single handler": {
			handlers: []Messenger{capturingHandler},
		},
		"passed to next handler": {
			handlers: []Messenger{alwaysUnknownMsgHandler, capturingHandler},
		},
		"stops iteration when handled": {
			handlers: []Messenger{capturingHandler, assertNotCalledHandler},
		},
		"stops iteration on handler error": {
			handlers: []Messenger{&wasmtesting.MockMessageHandler{
				DispatchMsgFn: func(_ simtypes.Context, _ sdk.AccAddress, _ wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
					return nil, sdkerrors.ErrInvalidRequest
				},
			}, assertNotCalledHandler},
			expErr: sdkerrors.ErrInvalidRequest,
		},
		"return events when handled": {
			handlers: []Messenger{
				MessageHandlerFunc(func(ctx simtypes.Context, contractAddr sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
					rsp, err := capturingHandler.DispatchMsg(ctx, contractAddr, msg)
					rsp.Events = sdk.Events{sdk.NewEvent("myEvent", sdk.NewAttribute("foo", "bar"))}
					return rsp, err
				}),
			},
			expEvents: sdk.Events{sdk.NewEvent("myEvent", sdk.NewAttribute("foo", "bar"))},
		},
		"return error when none can handle": {
			handlers: []Messenger{alwaysUnknownMsgHandler},
			expErr:   simtypes.ErrUnsupportedMessage,
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			*gotMsgs = make([]wasmvmtypes.CosmosMsg, 0)

			// when
			h := MessageHandlerChain{spec.handlers}
			gotRsp, gotErr := h.DispatchMsg(testutil.NewContext(t), testutil.RandomAccountAddress(t), myMsg)

			// then
			require.True(t, spec.expErr.Is(gotErr), "exp %v but got %#+v", spec.expErr, gotErr)
			if spec.expErr != nil {
				return
			}
			assert.Equal(t, []wasmvmtypes.CosmosMsg{myMsg}, *gotMsgs)
			assert.Equal(t, []byte{1}, gotRsp.Data) // {1} is default in capturing handler
			assert.Equal(t, spec.expEvents, gotRsp.Events)
		})
	}
}

func TestNewMessageHandlerChainRejectsNil(t *testing.T) {
	capturingHandler, _ := wasmtesting.NewCapturingMessageHandler()
	assert.Panics(t, func() {
		NewMessageHandlerChain(capturingHandler, nil)
	})
}

func TestRouterMessageHandler(t *testing.T) {
	myAddr := testutil.RandomAccountAddress(t)
	myMsg := wasmvmtypes.CosmosMsg{Custom: []byte(`{"foo":{}}`)}
	var gotSender sdk.AccAddress
	router := testutil.Router{
		simtypes.KindCustom: simtypes.FailingModule{Kind: simtypes.KindCustom},
	}
	specs := map[string]struct {
		ctx    simtypes.Context
		expErr error
	}{
		"without router": {
			ctx:    testutil.NewContext(t),
			expErr: simtypes.ErrUnsupportedMessage,
		},
		"delegates to router": {
			ctx:    testutil.NewContext(t).WithRouter(router),
			expErr: simtypes.ErrUnsupportedMessage,
		},
		"contract is sender": {
			ctx: testutil.NewContext(t).WithRouter(testutil.Router{
				simtypes.KindCustom: wasmtesting.MockModule{ExecuteFn: func(_ simtypes.Context, sender sdk.AccAddress, _ wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
					gotSender = sender
					return &simtypes.AppResponse{}, nil
				}},
			}),
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			gotSender = nil
			_, gotErr := NewDefaultMessageHandler().DispatchMsg(spec.ctx, myAddr, myMsg)
			if spec.expErr != nil {
				require.ErrorIs(t, gotErr, spec.expErr)
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, myAddr, gotSender)
		})
	}
}

func TestCallDepthMessageHandler(t *testing.T) {
	capturingHandler, gotMsgs := wasmtesting.NewCapturingMessageHandler()
	h := callDepthMessageHandler{Messenger: capturingHandler, MaxCallDepth: 2}
	myMsg := wasmvmtypes.CosmosMsg{Custom: []byte(`{}`)}

	specs := map[string]struct {
		depth  uint32
		expErr error
	}{
		"first call":      {},
		"within limit":    {depth: 1},
		"exceeding limit": {depth: 2, expErr: types.ErrExceedMaxCallDepth},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			*gotMsgs = nil
			ctx := testutil.NewContext(t)
			if spec.depth != 0 {
				ctx = types.WithCallDepth(ctx, spec.depth)
			}
			_, gotErr := h.DispatchMsg(ctx, testutil.RandomAccountAddress(t), myMsg)
			if spec.expErr != nil {
				require.True(t, errors.Is(gotErr, spec.expErr), "got %v", gotErr)
				assert.Empty(t, *gotMsgs)
				return
			}
			require.NoError(t, gotErr)
			assert.Len(t, *gotMsgs, 1)
		})
	}
}
