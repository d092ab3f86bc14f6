package types

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// ConvertWasmCoinsToSdkCoins converts and normalizes contract coins. Zero amounts are dropped
// and duplicate denoms are summed.
func ConvertWasmCoinsToSdkCoins(coins []wasmvmtypes.Coin) (sdk.Coins, error) {
	var toSend sdk.Coins
	for _, coin := range coins {
		c, err := ConvertWasmCoinToSdkCoin(coin)
		if err != nil {
			return nil, err
		}
		if c.IsZero() {
			continue
		}
		toSend = toSend.Add(c)
	}
	return toSend, nil
}

// ConvertWasmCoinToSdkCoin converts a single contract coin.
func ConvertWasmCoinToSdkCoin(coin wasmvmtypes.Coin) (sdk.Coin, error) {
	amount, ok := sdkmath.NewIntFromString(coin.Amount)
	if !ok || amount.IsNegative() {
		return sdk.Coin{}, errorsmod.Wrap(sdkerrors.ErrInvalidCoins, coin.Amount+coin.Denom)
	}
	if err := sdk.ValidateDenom(coin.Denom); err != nil {
		return sdk.Coin{}, errorsmod.Wrap(sdkerrors.ErrInvalidCoins, err.Error())
	}
	return sdk.Coin{Denom: coin.Denom, Amount: amount}, nil
}

// ConvertSdkCoinsToWasmCoins converts coins into the contract representation.
func ConvertSdkCoinsToWasmCoins(coins sdk.Coins) wasmvmtypes.Array[wasmvmtypes.Coin] {
	converted := make(wasmvmtypes.Array[wasmvmtypes.Coin], len(coins))
	for i, c := range coins {
		converted[i] = ConvertSdkCoinToWasmCoin(c)
	}
	return converted
}

// ConvertSdkCoinToWasmCoin converts a single coin into the contract representation.
func ConvertSdkCoinToWasmCoin(coin sdk.Coin) wasmvmtypes.Coin {
	return wasmvmtypes.Coin{
		Denom:  coin.Denom,
		Amount: coin.Amount.String(),
	}
}
