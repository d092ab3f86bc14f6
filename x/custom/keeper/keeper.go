package keeper

import (
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/store/prefix"
	"github.com/tidwall/gjson"

	sdk "github.com/cosmos/cosmos-sdk/types"

	simtypes "github.com/CosmWasm/wasmsim/types"
	"github.com/CosmWasm/wasmsim/x/custom/types"
)

// Handler executes a custom message. The sender is nil for sudo calls.
type Handler func(ctx simtypes.Context, sender sdk.AccAddress, msg json.RawMessage) (*simtypes.AppResponse, error)

// Querier answers a custom query.
type Querier func(ctx simtypes.Context, req json.RawMessage) ([]byte, error)

// Keeper dispatches chain specific messages to the handlers registered for them.
type Keeper struct {
	storeKey     simtypes.StoreKey
	handlers     map[string]Handler
	sudoHandlers map[string]Handler
	queriers     map[string]Querier
}

func NewKeeper(storeKey simtypes.StoreKey) Keeper {
	return Keeper{
		storeKey:     storeKey,
		handlers:     make(map[string]Handler),
		sudoHandlers: make(map[string]Handler),
		queriers:     make(map[string]Querier),
	}
}

// RegisterHandler sets the handler for messages with the given top level key
func (k Keeper) RegisterHandler(name string, h Handler) {
	k.handlers[name] = h
}

// RegisterSudoHandler sets the handler for sudo messages with the given top level key
func (k Keeper) RegisterSudoHandler(name string, h Handler) {
	k.sudoHandlers[name] = h
}

// RegisterQuerier sets the querier for requests with the given top level key
func (k Keeper) RegisterQuerier(name string, q Querier) {
	k.queriers[name] = q
}

// ExecutedMessages returns the log of all successfully handled messages in execution order.
func (k Keeper) ExecutedMessages(ctx simtypes.Context) []types.ExecutedMessage {
	iter := prefix.NewStore(ctx.KVStore(k.storeKey), types.ExecutedMessagePrefix).Iterator(nil, nil)
	defer iter.Close()

	var res []types.ExecutedMessage
	for ; iter.Valid(); iter.Next() {
		var msg types.ExecutedMessage
		if err := json.Unmarshal(iter.Value(), &msg); err != nil {
			panic(err)
		}
		res = append(res, msg)
	}
	return res
}

func (k Keeper) appendExecuted(ctx simtypes.Context, msg types.ExecutedMessage) {
	store := ctx.KVStore(k.storeKey)
	var seq uint64
	if bz := store.Get(types.SequenceKey); bz != nil {
		seq = sdk.BigEndianToUint64(bz)
	}
	store.Set(types.SequenceKey, sdk.Uint64ToBigEndian(seq+1))
	bz, err := json.Marshal(msg)
	if err != nil {
		panic(err)
	}
	store.Set(types.GetExecutedMessageKey(seq), bz)
}

// handlerName returns the single top level key of a json object
func handlerName(msg json.RawMessage) (string, error) {
	if !gjson.ValidBytes(msg) {
		return "", errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "invalid json")
	}
	res := gjson.ParseBytes(msg)
	if !res.IsObject() {
		return "", errorsmod.Wrap(simtypes.ErrUnsupportedMessage, "not a json object")
	}
	var names []string
	res.ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	if len(names) != 1 {
		return "", errorsmod.Wrapf(simtypes.ErrUnsupportedMessage, "expected exactly one top level key, got %d", len(names))
	}
	return names[0], nil
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx simtypes.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}
