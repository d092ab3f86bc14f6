package keeper

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	simtypes "github.com/CosmWasm/wasmsim/types"
	"github.com/CosmWasm/wasmsim/x/wasm/types"
)

var _ types.Querier = QueryHandler{}

// QueryHandler answers the queries of a single contract through the router of its context.
type QueryHandler struct {
	Ctx    simtypes.Context
	Caller sdk.AccAddress
}

// NewQueryHandler constructor
func NewQueryHandler(ctx simtypes.Context, caller sdk.AccAddress) QueryHandler {
	return QueryHandler{Ctx: ctx, Caller: caller}
}

// Query routes the request. State written while answering is discarded.
func (q QueryHandler) Query(request wasmvmtypes.QueryRequest) ([]byte, error) {
	if q.Ctx.Router() == nil {
		return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "no router")
	}
	var res []byte
	err := q.Ctx.RunDiscarded(func(ctx simtypes.Context) (err error) {
		res, err = q.Ctx.Router().Query(ctx, request)
		return err
	})
	return res, err
}

// handleQuery answers the wasm variants of a query request.
func (k Keeper) handleQuery(ctx simtypes.Context, request *wasmvmtypes.WasmQuery) ([]byte, error) {
	switch {
	case request.Smart != nil:
		addr, err := sdk.AccAddressFromBech32(request.Smart.ContractAddr)
		if err != nil {
			return nil, errorsmod.Wrap(sdkerrors.ErrInvalidAddress, request.Smart.ContractAddr)
		}
		return k.QuerySmart(ctx, addr, request.Smart.Msg)
	case request.Raw != nil:
		addr, err := sdk.AccAddressFromBech32(request.Raw.ContractAddr)
		if err != nil {
			return nil, errorsmod.Wrap(sdkerrors.ErrInvalidAddress, request.Raw.ContractAddr)
		}
		return k.QueryRaw(ctx, addr, request.Raw.Key), nil
	case request.ContractInfo != nil:
		addr, err := sdk.AccAddressFromBech32(request.ContractInfo.ContractAddr)
		if err != nil {
			return nil, errorsmod.Wrap(sdkerrors.ErrInvalidAddress, request.ContractInfo.ContractAddr)
		}
		info := k.GetContractInfo(ctx, addr)
		if info == nil {
			return nil, types.ErrUnknownContract.Wrapf("address %s", addr)
		}
		res := types.ContractInfoResponse{
			CodeID:  info.CodeID,
			Creator: info.Creator.String(),
		}
		if !info.Admin.Empty() {
			res.Admin = info.Admin.String()
		}
		return json.Marshal(res)
	case request.CodeInfo != nil:
		info := k.GetCodeInfo(request.CodeInfo.CodeID)
		if info == nil {
			return nil, types.ErrUnknownCode.Wrapf("code id %d", request.CodeInfo.CodeID)
		}
		return json.Marshal(types.CodeInfoResponse{
			CodeID:   info.CodeID,
			Creator:  info.Creator.String(),
			Checksum: info.Checksum,
		})
	}
	return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "unknown WasmQuery variant")
}
