package types

import (
	simtypes "github.com/CosmWasm/wasmsim/types"
)

// private type creates an interface key for Context that cannot be accessed by any other package
type contextKey int

const (
	// smart query stack counter to abort query loops
	contextKeyQueryStackSize contextKey = iota
	// submessage nesting counter
	contextKeyCallDepth
)

// WithQueryStackSize stores the stack position for smart queries in the context returned
func WithQueryStackSize(ctx simtypes.Context, counter uint32) simtypes.Context {
	return ctx.WithValue(contextKeyQueryStackSize, counter)
}

// QueryStackSize reads the stack position for smart queries from the context
func QueryStackSize(ctx simtypes.Context) (uint32, bool) {
	val, ok := ctx.Value(contextKeyQueryStackSize).(uint32)
	return val, ok
}

// WithCallDepth stores the submessage nesting depth in the context returned
func WithCallDepth(ctx simtypes.Context, counter uint32) simtypes.Context {
	return ctx.WithValue(contextKeyCallDepth, counter)
}

// CallDepth reads the submessage nesting depth from the context
func CallDepth(ctx simtypes.Context) (uint32, bool) {
	val, ok := ctx.Value(contextKeyCallDepth).(uint32)
	return val, ok
}
