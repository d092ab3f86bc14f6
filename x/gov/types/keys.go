package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"

	simtypes "github.com/CosmWasm/wasmsim/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "gov"

	// StoreKey is the namespace of the gov module in the root store
	StoreKey simtypes.StoreKey = ModuleName
)

var VotesKeyPrefix = []byte{0x20}

// GetVotesKey returns the prefix of all votes on a proposal
func GetVotesKey(proposalID uint64) []byte {
	return append(append([]byte{}, VotesKeyPrefix...), sdk.Uint64ToBigEndian(proposalID)...)
}

// GetVoteKey returns the key of the vote of a voter on a proposal
func GetVoteKey(proposalID uint64, voter sdk.AccAddress) []byte {
	return append(GetVotesKey(proposalID), address.MustLengthPrefix(voter)...)
}
