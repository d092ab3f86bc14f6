package wasmtesting

import (
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	"github.com/CosmWasm/wasmsim/x/wasm/types"
)

var (
	_ types.Contract    = &MockContract{}
	_ types.Migrator    = &MockContract{}
	_ types.Sudoer      = &MockContract{}
	_ types.Replier     = &MockContract{}
	_ types.Checksummer = &MockContract{}
)

// MockContract implements all contract entry points for testing purpose. One or multiple entry points can be stubbed.
// Without a stub function a panic is thrown.
type MockContract struct {
	InstantiateFn func(deps types.Deps, env wasmvmtypes.Env, info wasmvmtypes.MessageInfo, msg []byte) (*wasmvmtypes.Response, error)
	ExecuteFn     func(deps types.Deps, env wasmvmtypes.Env, info wasmvmtypes.MessageInfo, msg []byte) (*wasmvmtypes.Response, error)
	QueryFn       func(deps types.Deps, env wasmvmtypes.Env, msg []byte) ([]byte, error)
	MigrateFn     func(deps types.Deps, env wasmvmtypes.Env, msg []byte) (*wasmvmtypes.Response, error)
	SudoFn        func(deps types.Deps, env wasmvmtypes.Env, msg []byte) (*wasmvmtypes.Response, error)
	ReplyFn       func(deps types.Deps, env wasmvmtypes.Env, reply wasmvmtypes.Reply) (*wasmvmtypes.Response, error)
	// ChecksumValue is reported as the content checksum when set
	ChecksumValue []byte
}

// NewMockContract returns a contract that accepts instantiation and does nothing else
func NewMockContract() *MockContract {
	return &MockContract{
		InstantiateFn: func(_ types.Deps, _ wasmvmtypes.Env, _ wasmvmtypes.MessageInfo, _ []byte) (*wasmvmtypes.Response, error) {
			return &wasmvmtypes.Response{}, nil
		},
	}
}

func (m *MockContract) Instantiate(deps types.Deps, env wasmvmtypes.Env, info wasmvmtypes.MessageInfo, msg []byte) (*wasmvmtypes.Response, error) {
	if m.InstantiateFn == nil {
		panic("not supposed to be called!")
	}
	return m.InstantiateFn(deps, env, info, msg)
}

func (m *MockContract) Execute(deps types.Deps, env wasmvmtypes.Env, info wasmvmtypes.MessageInfo, msg []byte) (*wasmvmtypes.Response, error) {
	if m.ExecuteFn == nil {
		panic("not supposed to be called!")
	}
	return m.ExecuteFn(deps, env, info, msg)
}

func (m *MockContract) Query(deps types.Deps, env wasmvmtypes.Env, msg []byte) ([]byte, error) {
	if m.QueryFn == nil {
		panic("not supposed to be called!")
	}
	return m.QueryFn(deps, env, msg)
}

func (m *MockContract) Migrate(deps types.Deps, env wasmvmtypes.Env, msg []byte) (*wasmvmtypes.Response, error) {
	if m.MigrateFn == nil {
		panic("not supposed to be called!")
	}
	return m.MigrateFn(deps, env, msg)
}

func (m *MockContract) Sudo(deps types.Deps, env wasmvmtypes.Env, msg []byte) (*wasmvmtypes.Response, error) {
	if m.SudoFn == nil {
		panic("not supposed to be called!")
	}
	return m.SudoFn(deps, env, msg)
}

func (m *MockContract) Reply(deps types.Deps, env wasmvmtypes.Env, reply wasmvmtypes.Reply) (*wasmvmtypes.Response, error) {
	if m.ReplyFn == nil {
		panic("not supposed to be called!")
	}
	return m.ReplyFn(deps, env, reply)
}

func (m *MockContract) Checksum() []byte {
	return m.ChecksumValue
}
