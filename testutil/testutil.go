// Package testutil provides the fixtures shared by the module tests.
package testutil

import (
	"encoding/binary"
	"sync/atomic"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"
	"github.com/cometbft/cometbft/crypto/ed25519"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/CosmWasm/wasmsim/store"
	simtypes "github.com/CosmWasm/wasmsim/types"
)

// TestingT is the subset of testing.TB the helpers need
type TestingT interface {
	Errorf(format string, args ...interface{})
	FailNow()
	Helper()
}

var keyCounter atomic.Uint64

// RandomAccountAddress returns a new address on every call. The sequence is deterministic per process.
func RandomAccountAddress(_ TestingT) sdk.AccAddress {
	seed := make([]byte, 8)
	binary.BigEndian.PutUint64(seed, keyCounter.Add(1))
	key := ed25519.GenPrivKeyFromSecret(seed)
	return sdk.AccAddress(key.PubKey().Address())
}

func RandomBech32AccountAddress(t TestingT) string {
	return RandomAccountAddress(t).String()
}

// NewContext returns a context over a fresh store at the default block, without a router.
func NewContext(_ TestingT) simtypes.Context {
	return simtypes.NewContext(store.NewStore(), simtypes.DefaultBlockInfo(), log.NewNopLogger())
}

// Router resolves messages by kind to the modules in the map, without the app around it.
type Router map[string]simtypes.Module

var _ simtypes.Router = Router{}

func (r Router) Execute(ctx simtypes.Context, sender sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
	m, ok := r[simtypes.MsgKind(msg)]
	if !ok {
		return nil, errorsmod.Wrapf(simtypes.ErrUnsupportedMessage, "kind %q", simtypes.MsgKind(msg))
	}
	return m.Execute(ctx, sender, msg)
}

func (r Router) Query(ctx simtypes.Context, req wasmvmtypes.QueryRequest) ([]byte, error) {
	m, ok := r[simtypes.QueryKind(req)]
	if !ok {
		return nil, errorsmod.Wrapf(simtypes.ErrUnsupportedMessage, "kind %q", simtypes.QueryKind(req))
	}
	return m.Query(ctx, req)
}

func (r Router) Sudo(ctx simtypes.Context, msg simtypes.SudoMsg) (*simtypes.AppResponse, error) {
	m, ok := r[simtypes.SudoKind(msg)].(simtypes.SudoModule)
	if !ok {
		return nil, errorsmod.Wrapf(simtypes.ErrUnsupportedMessage, "kind %q", simtypes.SudoKind(msg))
	}
	return m.Sudo(ctx, msg)
}
