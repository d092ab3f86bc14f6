package types

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AppResponse is the result of a state changing call.
type AppResponse struct {
	Events sdk.Events `json:"events"`
	Data   []byte     `json:"data,omitempty"`
}

// Router dispatches messages to the module registered for their kind.
type Router interface {
	Execute(ctx Context, sender sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*AppResponse, error)
	Query(ctx Context, req wasmvmtypes.QueryRequest) ([]byte, error)
	Sudo(ctx Context, msg SudoMsg) (*AppResponse, error)
}

// Module is the capability every chain module exposes to the router.
type Module interface {
	Execute(ctx Context, sender sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*AppResponse, error)
	Query(ctx Context, req wasmvmtypes.QueryRequest) ([]byte, error)
}

// SudoModule is implemented by modules that accept privileged calls.
type SudoModule interface {
	Module
	Sudo(ctx Context, msg SudoMsg) (*AppResponse, error)
}

// Message kinds the router resolves.
const (
	KindBank         = "bank"
	KindStaking      = "staking"
	KindDistribution = "distribution"
	KindGov          = "gov"
	KindCustom       = "custom"
	KindWasm         = "wasm"
	KindIBC          = "ibc"
)

// MsgKind returns the kind of a message or an empty string when no variant is set.
func MsgKind(msg wasmvmtypes.CosmosMsg) string {
	switch {
	case msg.Bank != nil:
		return KindBank
	case msg.Staking != nil:
		return KindStaking
	case msg.Distribution != nil:
		return KindDistribution
	case msg.Gov != nil:
		return KindGov
	case len(msg.Custom) != 0:
		return KindCustom
	case msg.Wasm != nil:
		return KindWasm
	case msg.IBC != nil:
		return KindIBC
	default:
		return ""
	}
}

// QueryKind returns the kind of a query request or an empty string when no variant is set.
func QueryKind(req wasmvmtypes.QueryRequest) string {
	switch {
	case req.Bank != nil:
		return KindBank
	case req.Staking != nil:
		return KindStaking
	case req.Distribution != nil:
		return KindDistribution
	case len(req.Custom) != 0:
		return KindCustom
	case req.Wasm != nil:
		return KindWasm
	case req.IBC != nil:
		return KindIBC
	default:
		return ""
	}
}

// FailingModule rejects every call. It is the placeholder for kinds a test does not care about.
type FailingModule struct {
	Kind string
}

var _ SudoModule = FailingModule{}

func (m FailingModule) Execute(_ Context, sender sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*AppResponse, error) {
	return nil, errorsmod.Wrapf(ErrUnsupportedMessage, "cannot execute %s message from %s: %s", m.Kind, sender, marshalForError(msg))
}

func (m FailingModule) Query(_ Context, req wasmvmtypes.QueryRequest) ([]byte, error) {
	return nil, errorsmod.Wrapf(ErrUnsupportedMessage, "cannot query %s: %s", m.Kind, marshalForError(req))
}

func (m FailingModule) Sudo(_ Context, msg SudoMsg) (*AppResponse, error) {
	return nil, errorsmod.Wrapf(ErrUnsupportedMessage, "cannot sudo %s: %s", m.Kind, marshalForError(msg))
}

func marshalForError(v any) string {
	bz, err := json.Marshal(v)
	if err != nil {
		return "<unprintable>"
	}
	return string(bz)
}
