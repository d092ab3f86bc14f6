package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"

	simtypes "github.com/CosmWasm/wasmsim/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "bank"

	// StoreKey is the namespace of the bank module in the root store
	StoreKey simtypes.StoreKey = ModuleName
)

var (
	BalancesPrefix      = []byte{0x02}
	DenomMetadataPrefix = []byte{0x03}
)

// CreateAccountBalancesKey returns the key of all balances of an account
func CreateAccountBalancesKey(addr sdk.AccAddress) []byte {
	return append(append([]byte{}, BalancesPrefix...), address.MustLengthPrefix(addr)...)
}

// DenomMetadataKey returns the key of the metadata of a denom
func DenomMetadataKey(denom string) []byte {
	return append(append([]byte{}, DenomMetadataPrefix...), []byte(denom)...)
}
