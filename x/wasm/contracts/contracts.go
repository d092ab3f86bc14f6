// Package contracts provides contracts written in Go for scenarios and tests.
package contracts

import (
	"sort"

	"github.com/CosmWasm/wasmsim/x/wasm/types"
)

var builtins = map[string]types.Contract{
	"echo":    Echo,
	"reflect": Reflect{},
	"payout":  Payout,
	"failing": Failing,
}

// Builtin returns the contract registered under the name.
func Builtin(name string) (types.Contract, bool) {
	c, ok := builtins[name]
	return c, ok
}

// Names returns the names of all builtin contracts in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
