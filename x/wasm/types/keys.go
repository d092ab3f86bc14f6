package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	simtypes "github.com/CosmWasm/wasmsim/types"
)

const (
	// ModuleName is the name of the contract module
	ModuleName = "wasm"

	// StoreKey is the namespace of the contract module in the root store
	StoreKey simtypes.StoreKey = ModuleName
)

var (
	ContractKeyPrefix                = []byte{0x02}
	ContractStorePrefix              = []byte{0x03}
	SequenceKeyPrefix                = []byte{0x04}
	ContractCodeHistoryElementPrefix = []byte{0x05}

	KeySequenceInstanceID = append(SequenceKeyPrefix, []byte("lastContractId")...)
)

// GetContractAddressKey returns the key for the WASM contract instance
func GetContractAddressKey(addr sdk.AccAddress) []byte {
	return append(append([]byte{}, ContractKeyPrefix...), addr...)
}

// GetContractStorePrefix returns the store prefix for the WASM contract instance
func GetContractStorePrefix(addr sdk.AccAddress) []byte {
	return append(append([]byte{}, ContractStorePrefix...), addr...)
}

// GetContractCodeHistoryElementKey returns the key a contract code history entry: `<prefix><contractAddr><position>`
func GetContractCodeHistoryElementKey(contractAddr sdk.AccAddress, pos uint64) []byte {
	prefix := GetContractCodeHistoryElementPrefix(contractAddr)
	return append(prefix, sdk.Uint64ToBigEndian(pos)...)
}

// GetContractCodeHistoryElementPrefix returns the key prefix for a contract code history entry: `<prefix><contractAddr>`
func GetContractCodeHistoryElementPrefix(contractAddr sdk.AccAddress) []byte {
	return append(append([]byte{}, ContractCodeHistoryElementPrefix...), contractAddr...)
}
