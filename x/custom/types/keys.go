package types

import (
	"encoding/json"

	sdk "github.com/cosmos/cosmos-sdk/types"

	simtypes "github.com/CosmWasm/wasmsim/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "custom"

	// StoreKey is the namespace of the custom module in the root store
	StoreKey simtypes.StoreKey = ModuleName
)

var (
	SequenceKey           = []byte{0x01}
	ExecutedMessagePrefix = []byte{0x02}
)

// GetExecutedMessageKey returns the key of the n-th executed message
func GetExecutedMessageKey(seq uint64) []byte {
	return append(append([]byte{}, ExecutedMessagePrefix...), sdk.Uint64ToBigEndian(seq)...)
}

// ExecutedMessage is an entry of the message log. Sender is empty for sudo calls.
type ExecutedMessage struct {
	Handler string          `json:"handler"`
	Sender  string          `json:"sender,omitempty"`
	Msg     json.RawMessage `json:"msg"`
}
