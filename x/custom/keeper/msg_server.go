package keeper

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	sdk "github.com/cosmos/cosmos-sdk/types"

	simtypes "github.com/CosmWasm/wasmsim/types"
	"github.com/CosmWasm/wasmsim/x/custom/types"
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
	if len(msg.Custom) == 0 {
		return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "not a custom message")
	}
	return k.handle(ctx, k.handlers, sender, msg.Custom)
}

func (k msgServer) Sudo(ctx simtypes.Context, msg simtypes.SudoMsg) (*simtypes.AppResponse, error) {
	if len(msg.Custom) == 0 {
		return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "not a custom sudo message")
	}
	return k.handle(ctx, k.sudoHandlers, nil, msg.Custom)
}

func (k msgServer) handle(ctx simtypes.Context, handlers map[string]Handler, sender sdk.AccAddress, msg json.RawMessage) (*simtypes.AppResponse, error) {
	name, err := handlerName(msg)
	if err != nil {
		return nil, err
	}
	h, ok := handlers[name]
	if !ok {
		return nil, errorsmod.Wrapf(simtypes.ErrUnsupportedMessage, "no custom handler for %q", name)
	}
	rsp, err := h(ctx, sender, msg)
	if err != nil {
		return nil, err
	}
	entry := types.ExecutedMessage{Handler: name, Msg: msg}
	if sender != nil {
		entry.Sender = sender.String()
	}
	k.appendExecuted(ctx, entry)
	k.Logger(ctx).Debug("custom message executed", "handler", name)
	if rsp == nil {
		rsp = &simtypes.AppResponse{}
	}
	return rsp, nil
}

func (k msgServer) Query(ctx simtypes.Context, req wasmvmtypes.QueryRequest) ([]byte, error) {
	if len(req.Custom) == 0 {
		return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "not a custom query")
	}
	name, err := handlerName(req.Custom)
	if err != nil {
		return nil, err
	}
	q, ok := k.queriers[name]
	if !ok {
		return nil, errorsmod.Wrapf(simtypes.ErrUnsupportedMessage, "no custom querier for %q", name)
	}
	return q(ctx, req.Custom)
}
