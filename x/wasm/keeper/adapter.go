package keeper

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	"github.com/CosmWasm/wasmsim/x/wasm/types"
)

// entryPoint names a state changing contract operation
type entryPoint string

const (
	entryPointInstantiate entryPoint = "instantiate"
	entryPointExecute     entryPoint = "execute"
	entryPointMigrate     entryPoint = "migrate"
	entryPointSudo        entryPoint = "sudo"
	entryPointReply       entryPoint = "reply"
)

// contractAdapter maps every entry point of a contract to a single calling convention.
// Reply messages are passed JSON encoded.
type contractAdapter struct {
	contract types.Contract
}

func newContractAdapter(contract types.Contract) contractAdapter {
	return contractAdapter{contract: contract}
}

// Call invokes the given entry point. Any failure, including a missing entry point, is
// returned as ErrContractExecutionFailed.
func (a contractAdapter) Call(ep entryPoint, deps types.Deps, env wasmvmtypes.Env, info wasmvmtypes.MessageInfo, msg []byte) (*wasmvmtypes.Response, error) {
	res, err := a.call(ep, deps, env, info, msg)
	if err != nil {
		return nil, types.ErrContractExecutionFailed.Wrapf("%s: %s", ep, err)
	}
	if res == nil {
		res = &wasmvmtypes.Response{}
	}
	return res, nil
}

func (a contractAdapter) call(ep entryPoint, deps types.Deps, env wasmvmtypes.Env, info wasmvmtypes.MessageInfo, msg []byte) (*wasmvmtypes.Response, error) {
	switch ep {
	case entryPointInstantiate:
		return a.contract.Instantiate(deps, env, info, msg)
	case entryPointExecute:
		return a.contract.Execute(deps, env, info, msg)
	case entryPointMigrate:
		m, ok := a.contract.(types.Migrator)
		if !ok {
			return nil, types.ErrNotImplemented
		}
		return m.Migrate(deps, env, msg)
	case entryPointSudo:
		s, ok := a.contract.(types.Sudoer)
		if !ok {
			return nil, types.ErrNotImplemented
		}
		return s.Sudo(deps, env, msg)
	case entryPointReply:
		r, ok := a.contract.(types.Replier)
		if !ok {
			return nil, types.ErrNotImplemented
		}
		var reply wasmvmtypes.Reply
		if err := json.Unmarshal(msg, &reply); err != nil {
			return nil, errorsmod.Wrap(types.ErrInvalid, err.Error())
		}
		return r.Reply(deps, env, reply)
	default:
		return nil, errorsmod.Wrapf(types.ErrInvalid, "unknown entry point %q", ep)
	}
}

// Query runs the read only entry point.
func (a contractAdapter) Query(deps types.Deps, env wasmvmtypes.Env, msg []byte) ([]byte, error) {
	bz, err := a.contract.Query(deps, env, msg)
	if err != nil {
		return nil, types.ErrContractExecutionFailed.Wrapf("query: %s", err)
	}
	return bz, nil
}

// checksum returns the content checksum the contract reports about itself, if any.
func (a contractAdapter) checksum() ([]byte, bool) {
	c, ok := a.contract.(types.Checksummer)
	if !ok {
		return nil, false
	}
	sum := c.Checksum()
	return sum, len(sum) != 0
}
