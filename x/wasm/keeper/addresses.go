package keeper

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"

	"github.com/CosmWasm/wasmsim/x/wasm/types"
)

// ContractAddrLen defines a valid address length for contracts
const ContractAddrLen = 32

// AddressGenerator abstract address generator to be used for a single contract address.
// instanceID is the global instantiation sequence value reserved for the new contract.
type AddressGenerator func(codeID, instanceID uint64, checksum []byte) sdk.AccAddress

// ClassicAddressGenerator generates a contract address from codeID + instanceID sequence + creator
func ClassicAddressGenerator(creator sdk.AccAddress) AddressGenerator {
	return func(codeID, instanceID uint64, _ []byte) sdk.AccAddress {
		return BuildContractAddressClassic(codeID, instanceID, creator)
	}
}

// PredictableAddressGenerator generates a predictable contract address
func PredictableAddressGenerator(creator sdk.AccAddress, salt, initMsg []byte, includeInitMsg bool) AddressGenerator {
	return func(_, _ uint64, checksum []byte) sdk.AccAddress {
		if !includeInitMsg {
			initMsg = nil
		}
		return BuildContractAddressPredictable(checksum, creator, salt, initMsg)
	}
}

// BuildContractAddressClassic builds an sdk account address for a contract.
// The key is (codeID | instanceID | len(creator) | creator).
func BuildContractAddressClassic(codeID, instanceID uint64, creator sdk.AccAddress) sdk.AccAddress {
	creatorKey := address.MustLengthPrefix(creator)
	contractID := make([]byte, 16, 16+len(creatorKey))
	binary.BigEndian.PutUint64(contractID[:8], codeID)
	binary.BigEndian.PutUint64(contractID[8:], instanceID)
	contractID = append(contractID, creatorKey...)
	return address.Module(types.ModuleName, contractID)[:ContractAddrLen]
}

// BuildContractAddressPredictable generates a contract address for the wasm module with len = ContractAddrLen using the
// Cosmos SDK address.Module function.
// Internally a key is built containing ("wasm\0" | len(checksum) | checksum | len(creator) | creator | len(salt) | salt).
// A non-nil initMsg is appended as (len(initMsg) | initMsg).
func BuildContractAddressPredictable(checksum []byte, creator sdk.AccAddress, salt, initMsg []byte) sdk.AccAddress {
	key := []byte(types.ModuleName + "\x00")
	key = append(key, address.MustLengthPrefix(checksum)...)
	key = append(key, address.MustLengthPrefix(creator)...)
	key = append(key, address.MustLengthPrefix(salt)...)
	if initMsg != nil {
		key = append(key, address.MustLengthPrefix(initMsg)...)
	}
	return address.Module(types.ModuleName, key)[:ContractAddrLen]
}
