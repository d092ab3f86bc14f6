package types

import (
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	sdk "github.com/cosmos/cosmos-sdk/types"

	simtypes "github.com/CosmWasm/wasmsim/types"
)

// NewEnv initializes the environment for a contract instance
func NewEnv(ctx simtypes.Context, contractAddr sdk.AccAddress) wasmvmtypes.Env {
	if ctx.BlockTime().UnixNano() < 0 {
		panic("Block (unix) time must never be negative ")
	}
	return wasmvmtypes.Env{
		Block: ctx.BlockInfo().ToWasmVM(),
		Contract: wasmvmtypes.ContractInfo{
			Address: contractAddr.String(),
		},
	}
}

// NewInfo initializes the MessageInfo for a contract instance
func NewInfo(creator sdk.AccAddress, deposit sdk.Coins) wasmvmtypes.MessageInfo {
	return wasmvmtypes.MessageInfo{
		Sender: creator.String(),
		Funds:  simtypes.ConvertSdkCoinsToWasmCoins(deposit),
	}
}
