package app

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	simtypes "github.com/CosmWasm/wasmsim/types"
	wasmtypes "github.com/CosmWasm/wasmsim/x/wasm/types"
)

// StoreCode uploads the contract with the default creator and returns the new code id.
func (a *App) StoreCode(contract wasmtypes.Contract) (uint64, error) {
	return a.StoreCodeWithCreator(DefaultCodeCreator, contract)
}

// StoreCodeWithCreator uploads the contract on behalf of the creator.
func (a *App) StoreCodeWithCreator(creator sdk.AccAddress, contract wasmtypes.Contract) (uint64, error) {
	codeID, _, err := a.WasmKeeper.StoreCode(a.newContext(), creator, contract)
	return codeID, err
}

// DuplicateCode stores the code of an existing code id again under a new id.
func (a *App) DuplicateCode(codeID uint64) (uint64, error) {
	return a.WasmKeeper.DuplicateCode(a.newContext(), codeID)
}

// InstantiateContract creates a contract at a classic address, or where the address generator
// passed with WithWasmOptions puts it.
func (a *App) InstantiateContract(
	codeID uint64,
	sender sdk.AccAddress,
	initMsg []byte,
	funds sdk.Coins,
	label string,
	admin sdk.AccAddress,
) (sdk.AccAddress, *simtypes.AppResponse, error) {
	var (
		contractAddr sdk.AccAddress
		rsp          *simtypes.AppResponse
	)
	err := a.runAtomic(func(ctx simtypes.Context) (err error) {
		contractAddr, rsp, err = a.WasmKeeper.Instantiate(ctx, codeID, sender, admin, initMsg, label, funds)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return contractAddr, rsp, nil
}

// Instantiate2Contract creates a contract at the address derived from checksum, creator and salt.
func (a *App) Instantiate2Contract(
	codeID uint64,
	sender sdk.AccAddress,
	initMsg []byte,
	funds sdk.Coins,
	label string,
	admin sdk.AccAddress,
	salt []byte,
) (sdk.AccAddress, *simtypes.AppResponse, error) {
	var (
		contractAddr sdk.AccAddress
		rsp          *simtypes.AppResponse
	)
	err := a.runAtomic(func(ctx simtypes.Context) (err error) {
		contractAddr, rsp, err = a.WasmKeeper.Instantiate2(ctx, codeID, sender, admin, initMsg, label, funds, salt, false)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return contractAddr, rsp, nil
}

// ExecuteContract calls the execute entry point of the contract with the funds attached.
func (a *App) ExecuteContract(sender, contractAddr sdk.AccAddress, msg []byte, funds sdk.Coins) (*simtypes.AppResponse, error) {
	var rsp *simtypes.AppResponse
	err := a.runAtomic(func(ctx simtypes.Context) (err error) {
		rsp, err = a.WasmKeeper.Execute(ctx, contractAddr, sender, msg, funds)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rsp, nil
}

// MigrateContract moves the contract to the new code. Only the admin may do so.
func (a *App) MigrateContract(sender, contractAddr sdk.AccAddress, msg []byte, newCodeID uint64) (*simtypes.AppResponse, error) {
	var rsp *simtypes.AppResponse
	err := a.runAtomic(func(ctx simtypes.Context) (err error) {
		rsp, err = a.WasmKeeper.Migrate(ctx, contractAddr, sender, newCodeID, msg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rsp, nil
}

// QuerySmart calls the query entry point of the contract.
func (a *App) QuerySmart(contractAddr sdk.AccAddress, msg []byte) ([]byte, error) {
	var res []byte
	err := a.ReadModule(func(ctx simtypes.Context) (err error) {
		res, err = a.WasmKeeper.QuerySmart(ctx, contractAddr, msg)
		return err
	})
	return res, err
}

// QueryRaw reads a key from the contract storage. It returns nil for missing keys.
func (a *App) QueryRaw(contractAddr sdk.AccAddress, key []byte) []byte {
	var res []byte
	_ = a.ReadModule(func(ctx simtypes.Context) error {
		res = a.WasmKeeper.QueryRaw(ctx, contractAddr, key)
		return nil
	})
	return res
}

// ContractInfo returns the metadata of the contract.
func (a *App) ContractInfo(contractAddr sdk.AccAddress) (*wasmtypes.ContractInfo, error) {
	var info *wasmtypes.ContractInfo
	_ = a.ReadModule(func(ctx simtypes.Context) error {
		info = a.WasmKeeper.GetContractInfo(ctx, contractAddr)
		return nil
	})
	if info == nil {
		return nil, wasmtypes.ErrUnknownContract.Wrapf("address %s", contractAddr)
	}
	return info, nil
}

// DumpWasmRaw returns the full storage of the contract in key order.
func (a *App) DumpWasmRaw(contractAddr sdk.AccAddress) []wasmtypes.Model {
	var models []wasmtypes.Model
	_ = a.ReadModule(func(ctx simtypes.Context) error {
		a.WasmKeeper.IterateContractState(ctx, contractAddr, func(key, value []byte) bool {
			models = append(models, wasmtypes.Model{Key: key, Value: value})
			return false
		})
		return nil
	})
	return models
}
