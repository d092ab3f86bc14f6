package keeper

import (
	"errors"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	sdk "github.com/cosmos/cosmos-sdk/types"

	simtypes "github.com/CosmWasm/wasmsim/types"
)

// NewDefaultMessageHandler constructor. Additional handlers are tried before the router.
func NewDefaultMessageHandler(handlers ...Messenger) Messenger {
	all := append(handlers, RouterMessageHandler{})
	return NewMessageHandlerChain(all[0], all[1:]...)
}

// RouterMessageHandler dispatches contract messages through the router of the context,
// with the contract as sender.
type RouterMessageHandler struct{}

func (h RouterMessageHandler) DispatchMsg(ctx simtypes.Context, contractAddr sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
	if ctx.Router() == nil {
		return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "no router")
	}
	return ctx.Router().Execute(ctx, contractAddr, msg)
}

type callDepthMessageHandler struct {
	Messenger
	MaxCallDepth uint32
}

func (h callDepthMessageHandler) DispatchMsg(ctx simtypes.Context, contractAddr sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
	ctx, err := checkAndIncreaseCallDepth(ctx, h.MaxCallDepth)
	if err != nil {
		return nil, errorsmod.Wrap(err, "dispatch")
	}

	return h.Messenger.DispatchMsg(ctx, contractAddr, msg)
}

// MessageHandlerChain defines a chain of handlers that are called one by one until it can be handled.
type MessageHandlerChain struct {
	handlers []Messenger
}

func NewMessageHandlerChain(first Messenger, others ...Messenger) *MessageHandlerChain {
	r := &MessageHandlerChain{handlers: append([]Messenger{first}, others...)}
	for i := range r.handlers {
		if r.handlers[i] == nil {
			panic(fmt.Sprintf("handler must not be nil at position : %d", i))
		}
	}
	return r
}

// DispatchMsg dispatch message and calls chained handlers one after another in
// order to find the right one to process given message. If a handler cannot
// process given message (returns ErrUnsupportedMessage), its result is ignored and the
// next handler is executed.
func (m MessageHandlerChain) DispatchMsg(ctx simtypes.Context, contractAddr sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
	var unsupported error
	for _, h := range m.handlers {
		rsp, err := h.DispatchMsg(ctx, contractAddr, msg)
		switch {
		case err == nil:
			return rsp, nil
		case errors.Is(err, simtypes.ErrUnsupportedMessage):
			unsupported = err
			continue
		default:
			return rsp, err
		}
	}
	if unsupported != nil {
		return nil, unsupported
	}
	return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "no handler found")
}

// MessageHandlerFunc is a type alias that implements Messenger
type MessageHandlerFunc func(ctx simtypes.Context, contractAddr sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error)

// DispatchMsg delegates dispatching of provided message into the MessageHandlerFunc.
func (m MessageHandlerFunc) DispatchMsg(ctx simtypes.Context, contractAddr sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
	return m(ctx, contractAddr, msg)
}
