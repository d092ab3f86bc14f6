package contracts

import (
	"errors"

	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"
	"github.com/tidwall/gjson"

	"github.com/CosmWasm/wasmsim/x/wasm/types"
)

// ErrFailingContract is returned by every entry point of the failing contract
var ErrFailingContract = errors.New("failing contract")

// Failing can be instantiated but fails on every other call. An init message `{"fail":true}`
// makes the instantiation fail as well.
var Failing = types.NewContractWrapper(failingExecute, failingInstantiate, failingQuery).
	WithMigrate(failingPrivileged).
	WithSudo(failingPrivileged)

func failingInstantiate(_ types.Deps, _ wasmvmtypes.Env, _ wasmvmtypes.MessageInfo, msg []byte) (*wasmvmtypes.Response, error) {
	if gjson.GetBytes(msg, "fail").Bool() {
		return nil, ErrFailingContract
	}
	return &wasmvmtypes.Response{}, nil
}

func failingExecute(_ types.Deps, _ wasmvmtypes.Env, _ wasmvmtypes.MessageInfo, _ []byte) (*wasmvmtypes.Response, error) {
	return nil, ErrFailingContract
}

func failingPrivileged(_ types.Deps, _ wasmvmtypes.Env, _ []byte) (*wasmvmtypes.Response, error) {
	return nil, ErrFailingContract
}

func failingQuery(_ types.Deps, _ wasmvmtypes.Env, _ []byte) ([]byte, error) {
	return nil, ErrFailingContract
}
