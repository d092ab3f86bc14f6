package keeper

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	simtypes "github.com/CosmWasm/wasmsim/types"
	"github.com/CosmWasm/wasmsim/x/bank/types"
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
	if msg.Bank == nil {
		return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "not a bank message")
	}
	switch {
	case msg.Bank.Send != nil:
		toAddr, err := sdk.AccAddressFromBech32(msg.Bank.Send.ToAddress)
		if err != nil {
			return nil, errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, "recipient: %s", err)
		}
		amount, err := simtypes.ConvertWasmCoinsToSdkCoins(msg.Bank.Send.Amount)
		if err != nil {
			return nil, err
		}
		if err := k.SendCoins(ctx, sender, toAddr, amount); err != nil {
			return nil, err
		}
		return &simtypes.AppResponse{Events: sdk.Events{sdk.NewEvent(
			types.EventTypeTransfer,
			sdk.NewAttribute(types.AttributeKeyRecipient, toAddr.String()),
			sdk.NewAttribute(types.AttributeKeySender, sender.String()),
			sdk.NewAttribute(sdk.AttributeKeyAmount, amount.String()),
		)}}, nil
	case msg.Bank.Burn != nil:
		amount, err := simtypes.ConvertWasmCoinsToSdkCoins(msg.Bank.Burn.Amount)
		if err != nil {
			return nil, err
		}
		if err := k.BurnCoins(ctx, sender, amount); err != nil {
			return nil, err
		}
		return &simtypes.AppResponse{}, nil
	}
	return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "unknown variant of Bank")
}

func (k msgServer) Query(ctx simtypes.Context, req wasmvmtypes.QueryRequest) ([]byte, error) {
	if req.Bank == nil {
		return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "not a bank query")
	}
	switch {
	case req.Bank.Balance != nil:
		addr, err := sdk.AccAddressFromBech32(req.Bank.Balance.Address)
		if err != nil {
			return nil, errorsmod.Wrap(sdkerrors.ErrInvalidAddress, err.Error())
		}
		coin := k.GetBalance(ctx, addr, req.Bank.Balance.Denom)
		return json.Marshal(wasmvmtypes.BalanceResponse{Amount: simtypes.ConvertSdkCoinToWasmCoin(coin)})
	case req.Bank.AllBalances != nil:
		addr, err := sdk.AccAddressFromBech32(req.Bank.AllBalances.Address)
		if err != nil {
			return nil, errorsmod.Wrap(sdkerrors.ErrInvalidAddress, err.Error())
		}
		return json.Marshal(wasmvmtypes.AllBalancesResponse{Amount: simtypes.ConvertSdkCoinsToWasmCoins(k.GetAllBalances(ctx, addr))})
	case req.Bank.Supply != nil:
		coin := k.GetSupply(ctx, req.Bank.Supply.Denom)
		return json.Marshal(wasmvmtypes.SupplyResponse{Amount: simtypes.ConvertSdkCoinToWasmCoin(coin)})
	case req.Bank.DenomMetadata != nil:
		return json.Marshal(wasmvmtypes.DenomMetadataResponse{Metadata: k.GetDenomMetadata(ctx, req.Bank.DenomMetadata.Denom)})
	case req.Bank.AllDenomMetadata != nil:
		return json.Marshal(wasmvmtypes.AllDenomMetadataResponse{Metadata: k.GetAllDenomMetadata(ctx)})
	}
	return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "unknown BankQuery variant")
}

func (k msgServer) Sudo(ctx simtypes.Context, msg simtypes.SudoMsg) (*simtypes.AppResponse, error) {
	if msg.Bank == nil || msg.Bank.Mint == nil {
		return nil, errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "not a bank sudo message")
	}
	toAddr, err := sdk.AccAddressFromBech32(msg.Bank.Mint.ToAddress)
	if err != nil {
		return nil, errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, "recipient: %s", err)
	}
	amount, err := simtypes.ConvertWasmCoinsToSdkCoins(msg.Bank.Mint.Amount)
	if err != nil {
		return nil, err
	}
	if err := k.MintCoins(ctx, toAddr, amount); err != nil {
		return nil, err
	}
	k.Logger(ctx).Debug("minted coins", "recipient", toAddr.String(), "amount", amount.String())
	return &simtypes.AppResponse{}, nil
}
