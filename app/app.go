package app

import (
	"time"

	"cosmossdk.io/log"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"

	"github.com/CosmWasm/wasmsim/store"
	simtypes "github.com/CosmWasm/wasmsim/types"
	bankkeeper "github.com/CosmWasm/wasmsim/x/bank/keeper"
	banktypes "github.com/CosmWasm/wasmsim/x/bank/types"
	customkeeper "github.com/CosmWasm/wasmsim/x/custom/keeper"
	customtypes "github.com/CosmWasm/wasmsim/x/custom/types"
	distrkeeper "github.com/CosmWasm/wasmsim/x/distribution/keeper"
	distrtypes "github.com/CosmWasm/wasmsim/x/distribution/types"
	govkeeper "github.com/CosmWasm/wasmsim/x/gov/keeper"
	govtypes "github.com/CosmWasm/wasmsim/x/gov/types"
	stakingkeeper "github.com/CosmWasm/wasmsim/x/staking/keeper"
	stakingtypes "github.com/CosmWasm/wasmsim/x/staking/types"
	wasmkeeper "github.com/CosmWasm/wasmsim/x/wasm/keeper"
	wasmtypes "github.com/CosmWasm/wasmsim/x/wasm/types"
)

const appName = "wasmsim"

// DefaultCodeCreator is the uploader of code stored without an explicit creator
var DefaultCodeCreator = sdk.AccAddress(address.Module(appName, []byte("creator")))

// App is a chain in a box: the modules, the wasm engine and the block they run in. Every public
// call that writes is atomic, every query is discarded. An App must not be used concurrently.
type App struct {
	logger        log.Logger
	store         *store.Store
	block         simtypes.BlockInfo
	blockInterval time.Duration
	router        *Router

	BankKeeper    bankkeeper.Keeper
	StakingKeeper stakingkeeper.Keeper
	DistrKeeper   distrkeeper.Keeper
	GovKeeper     govkeeper.Keeper
	CustomKeeper  customkeeper.Keeper
	WasmKeeper    *wasmkeeper.Keeper
}

// NewApp returns an App with all modules wired and the genesis from the options applied.
func NewApp(logger log.Logger, opts ...Option) *App {
	o := options{
		block:         simtypes.DefaultBlockInfo(),
		blockInterval: simtypes.DefaultBlockInterval,
		modules:       make(map[string]simtypes.Module),
	}
	for _, opt := range opts {
		opt(&o)
	}

	app := &App{
		logger:        logger,
		store:         store.NewStore(),
		block:         o.block,
		blockInterval: o.blockInterval,
		router:        NewRouter(),
	}
	app.BankKeeper = bankkeeper.NewKeeper(banktypes.StoreKey)
	app.StakingKeeper = stakingkeeper.NewKeeper(stakingtypes.StoreKey)
	app.DistrKeeper = distrkeeper.NewKeeper(distrtypes.StoreKey, app.StakingKeeper)
	app.GovKeeper = govkeeper.NewKeeper(govtypes.StoreKey)
	app.CustomKeeper = customkeeper.NewKeeper(customtypes.StoreKey)
	app.WasmKeeper = wasmkeeper.NewKeeper(wasmtypes.StoreKey, o.wasmOpts...)

	app.router.SetModule(simtypes.KindBank, bankkeeper.NewMsgServerImpl(app.BankKeeper))
	app.router.SetModule(simtypes.KindStaking, stakingkeeper.NewMsgServerImpl(app.StakingKeeper))
	app.router.SetModule(simtypes.KindDistribution, distrkeeper.NewMsgServerImpl(app.DistrKeeper))
	app.router.SetModule(simtypes.KindGov, govkeeper.NewMsgServerImpl(app.GovKeeper))
	app.router.SetModule(simtypes.KindCustom, customkeeper.NewMsgServerImpl(app.CustomKeeper))
	app.router.SetModule(simtypes.KindWasm, wasmkeeper.NewMsgServerImpl(app.WasmKeeper))
	app.router.SetModule(simtypes.KindIBC, simtypes.FailingModule{Kind: simtypes.KindIBC})
	for kind, m := range o.modules {
		app.router.SetModule(kind, m)
	}

	if o.stakingInfo != nil {
		if err := app.InitModules(func(ctx simtypes.Context) error {
			return app.StakingKeeper.Setup(ctx, *o.stakingInfo)
		}); err != nil {
			panic(err)
		}
	}
	return app
}

func (a *App) newContext() simtypes.Context {
	return simtypes.NewContext(a.store, a.block, a.logger).WithRouter(a.router)
}

// runAtomic commits the changes of fn when it succeeds and drops them otherwise
func (a *App) runAtomic(fn func(ctx simtypes.Context) error) error {
	defer a.restoreDepthOnPanic(a.store.Depth())
	return a.newContext().RunAtomic(fn)
}

// runDiscarded drops all changes of fn
func (a *App) runDiscarded(fn func(ctx simtypes.Context) error) error {
	defer a.restoreDepthOnPanic(a.store.Depth())
	return a.newContext().RunDiscarded(fn)
}

// restoreDepthOnPanic closes the checkpoints a panicking call left open and panics again.
func (a *App) restoreDepthOnPanic(depth int) {
	if r := recover(); r != nil {
		a.store.RollbackTo(depth)
		panic(r)
	}
}

func (a *App) Logger() log.Logger            { return a.logger }
func (a *App) Router() *Router               { return a.router }
func (a *App) Store() *store.Store           { return a.store }
func (a *App) BlockInfo() simtypes.BlockInfo { return a.block }

// Execute runs the message as the sender.
func (a *App) Execute(sender sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error) {
	var rsp *simtypes.AppResponse
	err := a.runAtomic(func(ctx simtypes.Context) (err error) {
		rsp, err = a.router.Execute(ctx, sender, msg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rsp, nil
}

// ExecuteMulti runs all messages in order. When one fails none of them is applied.
func (a *App) ExecuteMulti(sender sdk.AccAddress, msgs []wasmvmtypes.CosmosMsg) ([]*simtypes.AppResponse, error) {
	rsps := make([]*simtypes.AppResponse, 0, len(msgs))
	err := a.runAtomic(func(ctx simtypes.Context) error {
		for _, msg := range msgs {
			rsp, err := a.router.Execute(ctx, sender, msg)
			if err != nil {
				return err
			}
			rsps = append(rsps, rsp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rsps, nil
}

// Query runs the request against the current state.
func (a *App) Query(req wasmvmtypes.QueryRequest) ([]byte, error) {
	var res []byte
	err := a.runDiscarded(func(ctx simtypes.Context) (err error) {
		res, err = a.router.Query(ctx, req)
		return err
	})
	return res, err
}

// Sudo runs a privileged message.
func (a *App) Sudo(msg simtypes.SudoMsg) (*simtypes.AppResponse, error) {
	var rsp *simtypes.AppResponse
	err := a.runAtomic(func(ctx simtypes.Context) (err error) {
		rsp, err = a.router.Sudo(ctx, msg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rsp, nil
}

// WasmSudo calls the sudo entry point of the contract.
func (a *App) WasmSudo(contractAddr sdk.AccAddress, msg []byte) (*simtypes.AppResponse, error) {
	return a.Sudo(simtypes.SudoMsg{Wasm: &simtypes.WasmSudo{ContractAddr: contractAddr.String(), Msg: msg}})
}

// SetBlock moves the chain to the block and pays out the matured unbondings.
func (a *App) SetBlock(block simtypes.BlockInfo) error {
	prev := a.block
	a.block = block
	err := a.runAtomic(func(ctx simtypes.Context) error {
		_, err := a.StakingKeeper.ProcessQueue(ctx)
		return err
	})
	if err != nil {
		a.block = prev
		return err
	}
	a.logger.Info("block updated", "height", block.Height, "time", block.Time)
	return nil
}

// UpdateBlock applies fn to a copy of the current block and sets the result.
func (a *App) UpdateBlock(fn func(*simtypes.BlockInfo)) error {
	block := a.block
	fn(&block)
	return a.SetBlock(block)
}

// NextBlock advances the height by one and the time by the block interval.
func (a *App) NextBlock() error {
	return a.SetBlock(a.block.Next(a.blockInterval))
}

// InitModules runs fn with write access to all keepers. It is meant for genesis setup.
func (a *App) InitModules(fn func(ctx simtypes.Context) error) error {
	return a.runAtomic(fn)
}

// ReadModule runs fn on the current state. All writes are dropped.
func (a *App) ReadModule(fn func(ctx simtypes.Context) error) error {
	return a.runDiscarded(fn)
}

// InitBalance sets the balance of the address at genesis
func (a *App) InitBalance(addr sdk.AccAddress, amount sdk.Coins) error {
	return a.InitModules(func(ctx simtypes.Context) error {
		return a.BankKeeper.InitBalance(ctx, addr, amount)
	})
}

// Balance returns the amount of the denom the address holds
func (a *App) Balance(addr sdk.AccAddress, denom string) sdk.Coin {
	var coin sdk.Coin
	_ = a.ReadModule(func(ctx simtypes.Context) error {
		coin = a.BankKeeper.GetBalance(ctx, addr, denom)
		return nil
	})
	return coin
}

// AllBalances returns everything the address holds
func (a *App) AllBalances(addr sdk.AccAddress) sdk.Coins {
	var coins sdk.Coins
	_ = a.ReadModule(func(ctx simtypes.Context) error {
		coins = a.BankKeeper.GetAllBalances(ctx, addr)
		return nil
	})
	return coins
}
