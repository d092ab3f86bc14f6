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

var _ simtypes.SudoModule = msgServer{}

// msgServer exposes the keeper to the router as the module of the wasm kind.
type msgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl returns the router facing module of the keeper
func NewMsgServerImpl(k *Keeper) simtypes.SudoModule {
	return msgServer{keeper: k}
}

func (m msgServer) Execute(ctx simtypes.Context, sender sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
	if msg.Wasm == nil {
		return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "not a wasm message")
	}
	wasmMsg := msg.Wasm
	switch {
	case wasmMsg.Execute != nil:
		contractAddr, err := parseAddress(wasmMsg.Execute.ContractAddr, "contract")
		if err != nil {
			return nil, err
		}
		coins, err := simtypes.ConvertWasmCoinsToSdkCoins(wasmMsg.Execute.Funds)
		if err != nil {
			return nil, err
		}
		return m.keeper.Execute(ctx, contractAddr, sender, wasmMsg.Execute.Msg, coins)
	case wasmMsg.Instantiate != nil:
		adminAddr, err := parseOptionalAddress(wasmMsg.Instantiate.Admin, "admin")
		if err != nil {
			return nil, err
		}
		coins, err := simtypes.ConvertWasmCoinsToSdkCoins(wasmMsg.Instantiate.Funds)
		if err != nil {
			return nil, err
		}
		contractAddr, rsp, err := m.keeper.Instantiate(ctx, wasmMsg.Instantiate.CodeID, sender, adminAddr, wasmMsg.Instantiate.Msg, wasmMsg.Instantiate.Label, coins)
		if err != nil {
			return nil, err
		}
		return instantiateResponse(contractAddr, rsp)
	case wasmMsg.Instantiate2 != nil:
		adminAddr, err := parseOptionalAddress(wasmMsg.Instantiate2.Admin, "admin")
		if err != nil {
			return nil, err
		}
		coins, err := simtypes.ConvertWasmCoinsToSdkCoins(wasmMsg.Instantiate2.Funds)
		if err != nil {
			return nil, err
		}
		contractAddr, rsp, err := m.keeper.Instantiate2(ctx, wasmMsg.Instantiate2.CodeID, sender, adminAddr, wasmMsg.Instantiate2.Msg, wasmMsg.Instantiate2.Label, coins, wasmMsg.Instantiate2.Salt, false)
		if err != nil {
			return nil, err
		}
		return instantiateResponse(contractAddr, rsp)
	case wasmMsg.Migrate != nil:
		contractAddr, err := parseAddress(wasmMsg.Migrate.ContractAddr, "contract")
		if err != nil {
			return nil, err
		}
		return m.keeper.Migrate(ctx, contractAddr, sender, wasmMsg.Migrate.NewCodeID, wasmMsg.Migrate.Msg)
	case wasmMsg.UpdateAdmin != nil:
		contractAddr, err := parseAddress(wasmMsg.UpdateAdmin.ContractAddr, "contract")
		if err != nil {
			return nil, err
		}
		newAdmin, err := parseAddress(wasmMsg.UpdateAdmin.Admin, "admin")
		if err != nil {
			return nil, err
		}
		return m.keeper.UpdateContractAdmin(ctx, contractAddr, sender, newAdmin)
	case wasmMsg.ClearAdmin != nil:
		contractAddr, err := parseAddress(wasmMsg.ClearAdmin.ContractAddr, "contract")
		if err != nil {
			return nil, err
		}
		return m.keeper.ClearContractAdmin(ctx, contractAddr, sender)
	}
	return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "unknown variant of Wasm")
}

func (m msgServer) Query(ctx simtypes.Context, req wasmvmtypes.QueryRequest) ([]byte, error) {
	if req.Wasm == nil {
		return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "not a wasm query")
	}
	return m.keeper.handleQuery(ctx, req.Wasm)
}

func (m msgServer) Sudo(ctx simtypes.Context, msg simtypes.SudoMsg) (*simtypes.AppResponse, error) {
	if msg.Wasm == nil {
		return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "not a wasm sudo message")
	}
	contractAddr, err := parseAddress(msg.Wasm.ContractAddr, "contract")
	if err != nil {
		return nil, err
	}
	return m.keeper.Sudo(ctx, contractAddr, msg.Wasm.Msg)
}

// instantiateResponse sets the new address and the contract data as the message result.
func instantiateResponse(contractAddr sdk.AccAddress, rsp *simtypes.AppResponse) (*simtypes.AppResponse, error) {
	data, err := json.Marshal(types.InstantiateResponse{
		ContractAddress: contractAddr.String(),
		Data:            rsp.Data,
	})
	if err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalid, err.Error())
	}
	return &simtypes.AppResponse{Events: rsp.Events, Data: data}, nil
}

func parseAddress(addr, field string) (sdk.AccAddress, error) {
	acc, err := sdk.AccAddressFromBech32(addr)
	if err != nil {
		return nil, errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, "%s: %s", field, err)
	}
	return acc, nil
}

func parseOptionalAddress(addr, field string) (sdk.AccAddress, error) {
	if addr == "" {
		return nil, nil
	}
	return parseAddress(addr, field)
}
