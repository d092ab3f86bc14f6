package types

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"

	simtypes "github.com/CosmWasm/wasmsim/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "staking"

	// StoreKey is the namespace of the staking module in the root store
	StoreKey simtypes.StoreKey = ModuleName
)

// ModuleAddress holds all bonded and unbonding tokens
var ModuleAddress = sdk.AccAddress(address.Module(ModuleName))

var (
	ParamsKey               = []byte{0x01}
	ValidatorCountKey       = []byte{0x02}
	ValidatorsPrefix        = []byte{0x03}
	ValidatorPositionPrefix = []byte{0x04}
	ValidatorInfoPrefix     = []byte{0x05}
	SharesPrefix            = []byte{0x06}
	UnbondingQueueKey       = []byte{0x07}
)

// GetValidatorKey returns the key of the validator at the given insertion position
func GetValidatorKey(pos uint64) []byte {
	return append(append([]byte{}, ValidatorsPrefix...), sdk.Uint64ToBigEndian(pos)...)
}

// GetValidatorPositionKey returns the key of the insertion position of the validator
func GetValidatorPositionKey(validator string) []byte {
	return append(append([]byte{}, ValidatorPositionPrefix...), []byte(validator)...)
}

// GetValidatorInfoKey returns the key of the bookkeeping data of the validator
func GetValidatorInfoKey(validator string) []byte {
	return append(append([]byte{}, ValidatorInfoPrefix...), []byte(validator)...)
}

// GetDelegatorSharesPrefix returns the prefix of all shares of the delegator
func GetDelegatorSharesPrefix(delegator sdk.AccAddress) []byte {
	return append(append([]byte{}, SharesPrefix...), address.MustLengthPrefix(delegator)...)
}

// GetSharesKey returns the key of the shares a delegator holds at a validator
func GetSharesKey(delegator sdk.AccAddress, validator string) []byte {
	return append(GetDelegatorSharesPrefix(delegator), []byte(validator)...)
}

// ParsePosition decodes a validator position stored by the keeper
func ParsePosition(bz []byte) uint64 {
	return binary.BigEndian.Uint64(bz)
}
