package app

import (
	"sort"

	errorsmod "cosmossdk.io/errors"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	sdk "github.com/cosmos/cosmos-sdk/types"

	simtypes "github.com/CosmWasm/wasmsim/types"
)

var _ simtypes.Router = (*Router)(nil)

// Router forwards every message to the module registered for its kind. It never touches state
// itself.
type Router struct {
	modules map[string]simtypes.Module
}

func NewRouter() *Router {
	return &Router{modules: make(map[string]simtypes.Module)}
}

// SetModule registers the module for the kind, replacing any earlier registration.
func (r *Router) SetModule(kind string, m simtypes.Module) {
	if kind == "" {
		panic("empty module kind")
	}
	if m == nil {
		delete(r.modules, kind)
		return
	}
	r.modules[kind] = m
}

// Module returns the module registered for the kind
func (r *Router) Module(kind string) (simtypes.Module, bool) {
	m, ok := r.modules[kind]
	return m, ok
}

// Kinds returns the registered kinds in sorted order
func (r *Router) Kinds() []string {
	kinds := make([]string, 0, len(r.modules))
	for k := range r.modules {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func (r *Router) Execute(ctx simtypes.Context, sender sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
	kind := simtypes.MsgKind(msg)
	m, ok := r.modules[kind]
	if !ok {
		return nil, errorsmod.Wrapf(simtypes.ErrUnsupportedMessage, "no module for message kind %q", kind)
	}
	return m.Execute(ctx, sender, msg)
}

func (r *Router) Query(ctx simtypes.Context, req wasmvmtypes.QueryRequest) ([]byte, error) {
	kind := simtypes.QueryKind(req)
	m, ok := r.modules[kind]
	if !ok {
		return nil, errorsmod.Wrapf(simtypes.ErrUnsupportedMessage, "no module for query kind %q", kind)
	}
	return m.Query(ctx, req)
}

func (r *Router) Sudo(ctx simtypes.Context, msg simtypes.SudoMsg) (*simtypes.AppResponse, error) {
	kind := simtypes.SudoKind(msg)
	m, ok := r.modules[kind]
	if !ok {
		return nil, errorsmod.Wrapf(simtypes.ErrUnsupportedMessage, "no module for sudo kind %q", kind)
	}
	sm, ok := m.(simtypes.SudoModule)
	if !ok {
		return nil, errorsmod.Wrapf(simtypes.ErrUnsupportedMessage, "module %q does not support sudo", kind)
	}
	return sm.Sudo(ctx, msg)
}
