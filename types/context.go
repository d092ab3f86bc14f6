package types

import (
	"context"
	"slices"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
)

// Context is the execution context handed to modules and the wasm keeper. It is a value type:
// the With* methods return modified copies and never change the receiver.
type Context struct {
	baseCtx   context.Context
	ms        CheckpointStore
	block     BlockInfo
	logger    log.Logger
	router    Router
	callStack []string
}

// NewContext creates a context over the given root store.
func NewContext(ms CheckpointStore, block BlockInfo, logger log.Logger) Context {
	return Context{
		baseCtx: context.Background(),
		ms:      ms,
		block:   block,
		logger:  logger,
	}
}

func (c Context) Context() context.Context    { return c.baseCtx }
func (c Context) MultiStore() CheckpointStore { return c.ms }
func (c Context) BlockInfo() BlockInfo        { return c.block }
func (c Context) BlockHeight() uint64         { return c.block.Height }
func (c Context) BlockTime() time.Time        { return c.block.Time }
func (c Context) ChainID() string             { return c.block.ChainID }
func (c Context) Logger() log.Logger          { return c.logger }
func (c Context) Router() Router              { return c.router }

// KVStore returns the namespace owned by the given store key.
func (c Context) KVStore(key StoreKey) storetypes.KVStore {
	return prefix.NewStore(c.ms, key.Prefix())
}

func (c Context) WithContext(ctx context.Context) Context {
	c.baseCtx = ctx
	return c
}

func (c Context) WithBlockInfo(block BlockInfo) Context {
	c.block = block
	return c
}

func (c Context) WithLogger(logger log.Logger) Context {
	c.logger = logger
	return c
}

func (c Context) WithRouter(router Router) Context {
	c.router = router
	return c
}

// WithValue stores a value in the underlying context.Context.
func (c Context) WithValue(key, value any) Context {
	c.baseCtx = context.WithValue(c.baseCtx, key, value)
	return c
}

// Value reads a value stored with WithValue.
func (c Context) Value(key any) any {
	return c.baseCtx.Value(key)
}

// CallStack returns the addresses of the contracts currently executing, outermost first.
func (c Context) CallStack() []string {
	return slices.Clone(c.callStack)
}

// IsExecuting returns true when the contract is on the current call stack.
func (c Context) IsExecuting(contractAddr string) bool {
	return slices.Contains(c.callStack, contractAddr)
}

// WithExecuting returns a context with the contract pushed on the call stack.
func (c Context) WithExecuting(contractAddr string) Context {
	stack := make([]string, len(c.callStack), len(c.callStack)+1)
	copy(stack, c.callStack)
	c.callStack = append(stack, contractAddr)
	return c
}

// RunAtomic executes fn inside a new checkpoint. The checkpoint is committed when fn returns
// nil and rolled back otherwise.
func (c Context) RunAtomic(fn func(Context) error) error {
	c.ms.Checkpoint()
	if err := fn(c); err != nil {
		c.ms.Rollback()
		return err
	}
	c.ms.Commit()
	return nil
}

// RunDiscarded executes fn inside a checkpoint that is always rolled back.
func (c Context) RunDiscarded(fn func(Context) error) error {
	c.ms.Checkpoint()
	defer c.ms.Rollback()
	return fn(c)
}
