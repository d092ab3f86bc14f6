package types

import (
	storetypes "cosmossdk.io/store/types"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"
)

// Deps is what a contract gets to work with: its own storage namespace and a querier into
// the chain.
type Deps struct {
	Storage storetypes.KVStore
	Querier Querier
}

// Querier answers contract queries against modules and other contracts.
type Querier interface {
	Query(request wasmvmtypes.QueryRequest) ([]byte, error)
}

// Contract is the set of entry points every contract implementation provides.
type Contract interface {
	Instantiate(deps Deps, env wasmvmtypes.Env, info wasmvmtypes.MessageInfo, msg []byte) (*wasmvmtypes.Response, error)
	Execute(deps Deps, env wasmvmtypes.Env, info wasmvmtypes.MessageInfo, msg []byte) (*wasmvmtypes.Response, error)
	Query(deps Deps, env wasmvmtypes.Env, msg []byte) ([]byte, error)
}

// Migrator is implemented by contracts that support migrations.
type Migrator interface {
	Migrate(deps Deps, env wasmvmtypes.Env, msg []byte) (*wasmvmtypes.Response, error)
}

// Sudoer is implemented by contracts that accept privileged calls.
type Sudoer interface {
	Sudo(deps Deps, env wasmvmtypes.Env, msg []byte) (*wasmvmtypes.Response, error)
}

// Replier is implemented by contracts that receive submessage results.
type Replier interface {
	Reply(deps Deps, env wasmvmtypes.Env, reply wasmvmtypes.Reply) (*wasmvmtypes.Response, error)
}

// Checksummer is implemented by contracts that know the checksum of their own content.
// Contracts without it, or returning an empty one, get a checksum derived from their code id.
type Checksummer interface {
	Checksum() []byte
}

type (
	// ExecuteFn is the signature of the instantiate and execute entry points
	ExecuteFn func(deps Deps, env wasmvmtypes.Env, info wasmvmtypes.MessageInfo, msg []byte) (*wasmvmtypes.Response, error)
	// QueryFn is the signature of the query entry point
	QueryFn func(deps Deps, env wasmvmtypes.Env, msg []byte) ([]byte, error)
	// PrivilegedFn is the signature of the migrate and sudo entry points
	PrivilegedFn func(deps Deps, env wasmvmtypes.Env, msg []byte) (*wasmvmtypes.Response, error)
	// ReplyFn is the signature of the reply entry point
	ReplyFn func(deps Deps, env wasmvmtypes.Env, reply wasmvmtypes.Reply) (*wasmvmtypes.Response, error)
)

var (
	_ Contract = (*ContractWrapper)(nil)
	_ Migrator = (*ContractWrapper)(nil)
	_ Sudoer   = (*ContractWrapper)(nil)
	_ Replier  = (*ContractWrapper)(nil)
)

// ContractWrapper builds a contract out of plain functions. Entry points left nil fail with
// ErrNotImplemented.
type ContractWrapper struct {
	InstantiateFn ExecuteFn
	ExecuteFn     ExecuteFn
	QueryFn       QueryFn
	MigrateFn     PrivilegedFn
	SudoFn        PrivilegedFn
	ReplyFn       ReplyFn
}

// NewContractWrapper constructor with the mandatory entry points
func NewContractWrapper(execute, instantiate ExecuteFn, query QueryFn) *ContractWrapper {
	return &ContractWrapper{
		InstantiateFn: instantiate,
		ExecuteFn:     execute,
		QueryFn:       query,
	}
}

// WithMigrate returns a copy with the migrate entry point set
func (c ContractWrapper) WithMigrate(fn PrivilegedFn) *ContractWrapper {
	c.MigrateFn = fn
	return &c
}

// WithSudo returns a copy with the sudo entry point set
func (c ContractWrapper) WithSudo(fn PrivilegedFn) *ContractWrapper {
	c.SudoFn = fn
	return &c
}

// WithReply returns a copy with the reply entry point set
func (c ContractWrapper) WithReply(fn ReplyFn) *ContractWrapper {
	c.ReplyFn = fn
	return &c
}

func (c *ContractWrapper) Instantiate(deps Deps, env wasmvmtypes.Env, info wasmvmtypes.MessageInfo, msg []byte) (*wasmvmtypes.Response, error) {
	if c.InstantiateFn == nil {
		return nil, ErrNotImplemented.Wrap("instantiate")
	}
	return c.InstantiateFn(deps, env, info, msg)
}

func (c *ContractWrapper) Execute(deps Deps, env wasmvmtypes.Env, info wasmvmtypes.MessageInfo, msg []byte) (*wasmvmtypes.Response, error) {
	if c.ExecuteFn == nil {
		return nil, ErrNotImplemented.Wrap("execute")
	}
	return c.ExecuteFn(deps, env, info, msg)
}

func (c *ContractWrapper) Query(deps Deps, env wasmvmtypes.Env, msg []byte) ([]byte, error) {
	if c.QueryFn == nil {
		return nil, ErrNotImplemented.Wrap("query")
	}
	return c.QueryFn(deps, env, msg)
}

func (c *ContractWrapper) Migrate(deps Deps, env wasmvmtypes.Env, msg []byte) (*wasmvmtypes.Response, error) {
	if c.MigrateFn == nil {
		return nil, ErrNotImplemented.Wrap("migrate")
	}
	return c.MigrateFn(deps, env, msg)
}

func (c *ContractWrapper) Sudo(deps Deps, env wasmvmtypes.Env, msg []byte) (*wasmvmtypes.Response, error) {
	if c.SudoFn == nil {
		return nil, ErrNotImplemented.Wrap("sudo")
	}
	return c.SudoFn(deps, env, msg)
}

func (c *ContractWrapper) Reply(deps Deps, env wasmvmtypes.Env, reply wasmvmtypes.Reply) (*wasmvmtypes.Response, error) {
	if c.ReplyFn == nil {
		return nil, ErrNotImplemented.Wrap("reply")
	}
	return c.ReplyFn(deps, env, reply)
}
