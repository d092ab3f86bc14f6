package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"

	simtypes "github.com/CosmWasm/wasmsim/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "distribution"

	// StoreKey is the namespace of the distribution module in the root store
	StoreKey simtypes.StoreKey = ModuleName
)

var WithdrawAddressPrefix = []byte{0x01}

// GetWithdrawAddressKey returns the key of the reward recipient of the delegator
func GetWithdrawAddressKey(delegator sdk.AccAddress) []byte {
	return append(append([]byte{}, WithdrawAddressPrefix...), address.MustLengthPrefix(delegator)...)
}
