package keeper

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	simtypes "github.com/CosmWasm/wasmsim/types"
	"github.com/CosmWasm/wasmsim/x/wasm/types"
)

const (
	// DefaultMaxCallDepth is the deepest submessage nesting allowed
	DefaultMaxCallDepth uint32 = 500
	// DefaultMaxQueryStackSize is the deepest contract to contract smart query nesting allowed
	DefaultMaxQueryStackSize uint32 = 10
)

// Option is an extension point to instantiate keeper with non default values
type Option interface {
	apply(*Keeper)
}

// CoinTransferrer moves the funds attached to a contract call.
type CoinTransferrer interface {
	// TransferCoins sends the coin amounts from the source to the destination and returns the events emitted.
	TransferCoins(ctx simtypes.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) (sdk.Events, error)
}

type codeEntry struct {
	info    types.CodeInfo
	adapter contractAdapter
}

// codeRegistry holds the executable code. It lives outside the transactional store: uploads are
// never rolled back.
type codeRegistry struct {
	entries []codeEntry
}

func (r *codeRegistry) get(codeID uint64) (codeEntry, bool) {
	if codeID == 0 || codeID > uint64(len(r.entries)) {
		return codeEntry{}, false
	}
	return r.entries[codeID-1], true
}

func (r *codeRegistry) nextID() uint64 {
	return uint64(len(r.entries)) + 1
}

// Keeper runs contracts on top of the module namespace it owns.
type Keeper struct {
	storeKey           simtypes.StoreKey
	codes              *codeRegistry
	bank               CoinTransferrer
	messenger          Messenger
	dispatcher         *MessageDispatcher
	allowDuplicateCode bool
	maxQueryStackSize  uint32
	maxCallDepth       uint32
	addressGenerator   func(creator sdk.AccAddress) AddressGenerator
	checksumGenerator  func(codeID uint64, creator sdk.AccAddress) []byte
	metrics            *Metrics
}

// NewKeeper creates a new contract Keeper instance
func NewKeeper(storeKey simtypes.StoreKey, opts ...Option) *Keeper {
	keeper := &Keeper{
		storeKey:           storeKey,
		codes:              &codeRegistry{},
		bank:               RouterCoinTransferrer{},
		messenger:          NewDefaultMessageHandler(),
		allowDuplicateCode: true,
		maxQueryStackSize:  DefaultMaxQueryStackSize,
		maxCallDepth:       DefaultMaxCallDepth,
		checksumGenerator:  func(codeID uint64, _ sdk.AccAddress) []byte { return DefaultChecksum(codeID) },
		metrics:            NopMetrics(),
	}
	for _, o := range opts {
		o.apply(keeper)
	}
	// always wrap the messenger, even when it was customized
	keeper.messenger = callDepthMessageHandler{Messenger: keeper.messenger, MaxCallDepth: keeper.maxCallDepth}
	keeper.dispatcher = NewMessageDispatcher(keeper.messenger, keeper)
	return keeper
}

// StoreCode registers the contract implementation under the next code id.
func (k Keeper) StoreCode(ctx simtypes.Context, creator sdk.AccAddress, contract types.Contract) (codeID uint64, checksum []byte, err error) {
	if creator == nil {
		return 0, checksum, errorsmod.Wrap(types.ErrEmpty, "creator")
	}
	if contract == nil {
		return 0, checksum, errorsmod.Wrap(types.ErrEmpty, "contract")
	}
	adapter := newContractAdapter(contract)
	codeID = k.codes.nextID()
	if custom, ok := adapter.checksum(); ok {
		checksum = custom
	} else {
		checksum = k.checksumGenerator(codeID, creator)
	}
	return k.storeCode(ctx, codeID, creator, checksum, adapter)
}

// DuplicateCode registers the implementation and checksum of an existing code under a new id.
func (k Keeper) DuplicateCode(ctx simtypes.Context, codeID uint64) (uint64, error) {
	entry, ok := k.codes.get(codeID)
	if !ok {
		return 0, types.ErrUnknownCode.Wrapf("code id %d", codeID)
	}
	newID, _, err := k.storeCode(ctx, k.codes.nextID(), entry.info.Creator, entry.info.Checksum, entry.adapter)
	return newID, err
}

func (k Keeper) storeCode(ctx simtypes.Context, codeID uint64, creator sdk.AccAddress, checksum []byte, adapter contractAdapter) (uint64, []byte, error) {
	if !k.allowDuplicateCode {
		for _, e := range k.codes.entries {
			if string(e.info.Checksum) == string(checksum) {
				return 0, nil, types.ErrDuplicateCode.Wrapf("checksum %X already stored as code id %d", checksum, e.info.CodeID)
			}
		}
	}
	k.codes.entries = append(k.codes.entries, codeEntry{
		info:    types.NewCodeInfo(codeID, creator, checksum),
		adapter: adapter,
	})
	k.Logger(ctx).Debug("storing new contract", "code_id", codeID, "checksum", hex.EncodeToString(checksum))
	return codeID, checksum, nil
}

// DefaultChecksum is the checksum assigned to contracts that do not report their own
// when no checksum generator is set.
func DefaultChecksum(codeID uint64) []byte {
	sum := sha256.Sum256([]byte(fmt.Sprintf("contract code %d", codeID)))
	return sum[:]
}

// Instantiate creates an instance of a contract at a classic address, or at the address of the
// generator set with WithAddressGenerator.
func (k Keeper) Instantiate(
	ctx simtypes.Context,
	codeID uint64,
	creator, admin sdk.AccAddress,
	initMsg []byte,
	label string,
	deposit sdk.Coins,
) (sdk.AccAddress, *simtypes.AppResponse, error) {
	defer observeSince(k.metrics.InstantiateElapsedTimes, time.Now())
	addressGenerator, classic := ClassicAddressGenerator(creator), true
	if k.addressGenerator != nil {
		addressGenerator, classic = k.addressGenerator(creator), false
	}
	var (
		contractAddr sdk.AccAddress
		rsp          *simtypes.AppResponse
	)
	err := ctx.RunAtomic(func(ctx simtypes.Context) (err error) {
		contractAddr, rsp, err = k.instantiate(ctx, codeID, creator, admin, initMsg, label, deposit, addressGenerator, classic)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return contractAddr, rsp, nil
}

// Instantiate2 creates an instance of a contract at a predictable address.
func (k Keeper) Instantiate2(
	ctx simtypes.Context,
	codeID uint64,
	creator, admin sdk.AccAddress,
	initMsg []byte,
	label string,
	deposit sdk.Coins,
	salt []byte,
	fixMsg bool,
) (sdk.AccAddress, *simtypes.AppResponse, error) {
	defer observeSince(k.metrics.InstantiateElapsedTimes, time.Now())
	if len(salt) == 0 {
		return nil, nil, errorsmod.Wrap(types.ErrEmpty, "salt")
	}
	var (
		contractAddr sdk.AccAddress
		rsp          *simtypes.AppResponse
	)
	err := ctx.RunAtomic(func(ctx simtypes.Context) (err error) {
		contractAddr, rsp, err = k.instantiate(ctx, codeID, creator, admin, initMsg, label, deposit, PredictableAddressGenerator(creator, salt, initMsg, fixMsg), false)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return contractAddr, rsp, nil
}

func (k Keeper) instantiate(
	ctx simtypes.Context,
	codeID uint64,
	creator, admin sdk.AccAddress,
	initMsg []byte,
	label string,
	deposit sdk.Coins,
	addressGenerator AddressGenerator,
	classic bool,
) (sdk.AccAddress, *simtypes.AppResponse, error) {
	if creator == nil {
		return nil, nil, errorsmod.Wrap(types.ErrEmpty, "creator")
	}
	if err := types.ValidateLabel(label); err != nil {
		return nil, nil, err
	}
	code, ok := k.codes.get(codeID)
	if !ok {
		return nil, nil, types.ErrUnknownCode.Wrapf("code id %d", codeID)
	}

	instanceID := k.mustAutoIncrementID(ctx, types.KeySequenceInstanceID)
	contractAddress := addressGenerator(codeID, instanceID, code.info.Checksum)
	if k.HasContractInfo(ctx, contractAddress) {
		if classic {
			// the instance sequence never repeats, so this is bookkeeping corruption
			panic(simtypes.ErrInvariantViolation.Wrapf("contract address %s already exists", contractAddress))
		}
		return nil, nil, types.ErrDuplicate.Wrap("contract address already exists, try a different combination of creator, checksum and salt")
	}

	// store contract before dispatch so that contract could be queried back
	contractInfo := types.NewContractInfo(codeID, creator, admin, label, instanceID)
	k.appendToContractHistory(ctx, contractAddress, types.ContractCodeHistoryEntry{
		Operation: types.InitContractCodeHistoryType,
		CodeID:    codeID,
		Height:    ctx.BlockHeight(),
		Msg:       initMsg,
	})
	k.mustStoreContractInfo(ctx, contractAddress, &contractInfo)

	// deposit initial contract funds
	events, err := k.bank.TransferCoins(ctx, creator, contractAddress, deposit)
	if err != nil {
		return nil, nil, err
	}

	k.Logger(ctx).Debug("instantiate contract", "code_id", codeID, "address", contractAddress.String())
	execCtx := ctx.WithExecuting(contractAddress.String())
	env := types.NewEnv(execCtx, contractAddress)
	info := types.NewInfo(creator, deposit)
	res, err := code.adapter.Call(entryPointInstantiate, k.contractDeps(execCtx, contractAddress), env, info, initMsg)
	if err != nil {
		return nil, nil, err
	}

	events = append(events, newEntryPointEvent(types.EventTypeInstantiate, contractAddress, codeID))
	data, evts, err := k.handleContractResponse(execCtx, contractAddress, res)
	if err != nil {
		return nil, nil, errorsmod.Wrap(err, "dispatch")
	}
	return contractAddress, &simtypes.AppResponse{Events: append(events, evts...), Data: data}, nil
}

// Execute executes the contract instance
func (k Keeper) Execute(ctx simtypes.Context, contractAddress, caller sdk.AccAddress, msg []byte, coins sdk.Coins) (*simtypes.AppResponse, error) {
	defer observeSince(k.metrics.ExecuteElapsedTimes, time.Now())
	var rsp *simtypes.AppResponse
	err := ctx.RunAtomic(func(ctx simtypes.Context) (err error) {
		rsp, err = k.execute(ctx, contractAddress, caller, msg, coins)
		return err
	})
	return rsp, err
}

func (k Keeper) execute(ctx simtypes.Context, contractAddress, caller sdk.AccAddress, msg []byte, coins sdk.Coins) (*simtypes.AppResponse, error) {
	contractInfo, code, err := k.contractInstance(ctx, contractAddress)
	if err != nil {
		return nil, err
	}
	if err := assertNotExecuting(ctx, contractAddress); err != nil {
		return nil, err
	}

	// add more funds
	events, err := k.bank.TransferCoins(ctx, caller, contractAddress, coins)
	if err != nil {
		return nil, err
	}

	execCtx := ctx.WithExecuting(contractAddress.String())
	env := types.NewEnv(execCtx, contractAddress)
	info := types.NewInfo(caller, coins)
	res, err := code.adapter.Call(entryPointExecute, k.contractDeps(execCtx, contractAddress), env, info, msg)
	if err != nil {
		return nil, err
	}

	events = append(events, newEntryPointEvent(types.EventTypeExecute, contractAddress, contractInfo.CodeID))
	data, evts, err := k.handleContractResponse(execCtx, contractAddress, res)
	if err != nil {
		return nil, err
	}
	return &simtypes.AppResponse{Events: append(events, evts...), Data: data}, nil
}

// Migrate moves the contract to new code. Only the admin can do this.
func (k Keeper) Migrate(ctx simtypes.Context, contractAddress, caller sdk.AccAddress, newCodeID uint64, msg []byte) (*simtypes.AppResponse, error) {
	defer observeSince(k.metrics.MigrateElapsedTimes, time.Now())
	var rsp *simtypes.AppResponse
	err := ctx.RunAtomic(func(ctx simtypes.Context) (err error) {
		rsp, err = k.migrate(ctx, contractAddress, caller, newCodeID, msg)
		return err
	})
	return rsp, err
}

func (k Keeper) migrate(ctx simtypes.Context, contractAddress, caller sdk.AccAddress, newCodeID uint64, msg []byte) (*simtypes.AppResponse, error) {
	contractInfo := k.GetContractInfo(ctx, contractAddress)
	if contractInfo == nil {
		return nil, types.ErrUnknownContract.Wrapf("address %s", contractAddress)
	}
	if err := assertNotExecuting(ctx, contractAddress); err != nil {
		return nil, err
	}
	if !isAdmin(contractInfo, caller) {
		return nil, errorsmod.Wrap(sdkerrors.ErrUnauthorized, "can not migrate")
	}
	newCode, ok := k.codes.get(newCodeID)
	if !ok {
		return nil, types.ErrUnknownCode.Wrapf("code id %d", newCodeID)
	}

	// persist migration updates
	contractInfo.CodeID = newCodeID
	k.appendToContractHistory(ctx, contractAddress, types.ContractCodeHistoryEntry{
		Operation: types.MigrateContractCodeHistoryType,
		CodeID:    newCodeID,
		Height:    ctx.BlockHeight(),
		Msg:       msg,
	})
	k.mustStoreContractInfo(ctx, contractAddress, contractInfo)

	k.Logger(ctx).Debug("migrate contract", "code_id", newCodeID, "address", contractAddress.String())
	execCtx := ctx.WithExecuting(contractAddress.String())
	env := types.NewEnv(execCtx, contractAddress)
	res, err := newCode.adapter.Call(entryPointMigrate, k.contractDeps(execCtx, contractAddress), env, wasmvmtypes.MessageInfo{}, msg)
	if err != nil {
		return nil, err
	}

	events := sdk.Events{newEntryPointEvent(types.EventTypeMigrate, contractAddress, newCodeID)}
	data, evts, err := k.handleContractResponse(execCtx, contractAddress, res)
	if err != nil {
		return nil, errorsmod.Wrap(err, "dispatch")
	}
	return &simtypes.AppResponse{Events: append(events, evts...), Data: data}, nil
}

// Sudo allows privileged access to a contract. This can never be called by a contract or an external
// message, but only by the app or another module directly.
func (k Keeper) Sudo(ctx simtypes.Context, contractAddress sdk.AccAddress, msg []byte) (*simtypes.AppResponse, error) {
	defer observeSince(k.metrics.SudoElapsedTimes, time.Now())
	var rsp *simtypes.AppResponse
	err := ctx.RunAtomic(func(ctx simtypes.Context) (err error) {
		rsp, err = k.sudo(ctx, contractAddress, msg)
		return err
	})
	return rsp, err
}

func (k Keeper) sudo(ctx simtypes.Context, contractAddress sdk.AccAddress, msg []byte) (*simtypes.AppResponse, error) {
	contractInfo, code, err := k.contractInstance(ctx, contractAddress)
	if err != nil {
		return nil, err
	}
	if err := assertNotExecuting(ctx, contractAddress); err != nil {
		return nil, err
	}

	execCtx := ctx.WithExecuting(contractAddress.String())
	env := types.NewEnv(execCtx, contractAddress)
	res, err := code.adapter.Call(entryPointSudo, k.contractDeps(execCtx, contractAddress), env, wasmvmtypes.MessageInfo{}, msg)
	if err != nil {
		return nil, err
	}

	events := sdk.Events{newEntryPointEvent(types.EventTypeSudo, contractAddress, contractInfo.CodeID)}
	data, evts, err := k.handleContractResponse(execCtx, contractAddress, res)
	if err != nil {
		return nil, errorsmod.Wrap(err, "dispatch")
	}
	return &simtypes.AppResponse{Events: append(events, evts...), Data: data}, nil
}

// reply is only called from keeper internal functions (dispatchSubmessages) after processing the submessage.
// The calling frame is still active, so the contract is expected on the call stack already.
func (k Keeper) reply(ctx simtypes.Context, contractAddress sdk.AccAddress, reply wasmvmtypes.Reply) (*simtypes.AppResponse, error) {
	defer observeSince(k.metrics.ReplyElapsedTimes, time.Now())
	var rsp *simtypes.AppResponse
	err := ctx.RunAtomic(func(ctx simtypes.Context) error {
		contractInfo, code, err := k.contractInstance(ctx, contractAddress)
		if err != nil {
			return err
		}
		msg, err := json.Marshal(reply)
		if err != nil {
			return errorsmod.Wrap(types.ErrInvalid, err.Error())
		}

		env := types.NewEnv(ctx, contractAddress)
		res, err := code.adapter.Call(entryPointReply, k.contractDeps(ctx, contractAddress), env, wasmvmtypes.MessageInfo{}, msg)
		if err != nil {
			return err
		}

		mode := types.AttributeValueHandleSuccess
		if reply.Result.Err != "" {
			mode = types.AttributeValueHandleFailure
		}
		events := sdk.Events{newEntryPointEvent(types.EventTypeReply, contractAddress, contractInfo.CodeID, sdk.NewAttribute(types.AttributeKeyMode, mode))}
		data, evts, err := k.handleContractResponse(ctx, contractAddress, res)
		if err != nil {
			return errorsmod.Wrap(err, "dispatch")
		}
		rsp = &simtypes.AppResponse{Events: append(events, evts...), Data: data}
		return nil
	})
	return rsp, err
}

// UpdateContractAdmin sets a new admin. Only the current admin can do this.
func (k Keeper) UpdateContractAdmin(ctx simtypes.Context, contractAddress, caller, newAdmin sdk.AccAddress) (*simtypes.AppResponse, error) {
	if newAdmin.Empty() {
		return nil, errorsmod.Wrap(types.ErrEmpty, "new admin")
	}
	return k.setContractAdmin(ctx, contractAddress, caller, newAdmin)
}

// ClearContractAdmin removes the admin which makes the contract immutable.
func (k Keeper) ClearContractAdmin(ctx simtypes.Context, contractAddress, caller sdk.AccAddress) (*simtypes.AppResponse, error) {
	return k.setContractAdmin(ctx, contractAddress, caller, nil)
}

func (k Keeper) setContractAdmin(ctx simtypes.Context, contractAddress, caller, newAdmin sdk.AccAddress) (*simtypes.AppResponse, error) {
	contractInfo := k.GetContractInfo(ctx, contractAddress)
	if contractInfo == nil {
		return nil, types.ErrUnknownContract.Wrapf("address %s", contractAddress)
	}
	if !isAdmin(contractInfo, caller) {
		return nil, errorsmod.Wrap(sdkerrors.ErrUnauthorized, "can not modify contract")
	}
	contractInfo.Admin = newAdmin
	k.mustStoreContractInfo(ctx, contractAddress, contractInfo)

	event := sdk.NewEvent(types.EventTypeClearAdmin, sdk.NewAttribute(types.AttributeKeyContractAddr, contractAddress.String()))
	if newAdmin != nil {
		event = sdk.NewEvent(types.EventTypeUpdateAdmin,
			sdk.NewAttribute(types.AttributeKeyContractAddr, contractAddress.String()),
			sdk.NewAttribute(types.AttributeKeyNewAdmin, newAdmin.String()),
		)
	}
	return &simtypes.AppResponse{Events: sdk.Events{event}}, nil
}

func isAdmin(contractInfo *types.ContractInfo, caller sdk.AccAddress) bool {
	return !contractInfo.Admin.Empty() && contractInfo.Admin.Equals(caller)
}

func assertNotExecuting(ctx simtypes.Context, contractAddress sdk.AccAddress) error {
	if ctx.IsExecuting(contractAddress.String()) {
		return types.ErrReentrancy.Wrapf("contract %s is already executing", contractAddress)
	}
	return nil
}

// handleContractResponse processes the contract response data by building events and dispatching submessages.
func (k Keeper) handleContractResponse(ctx simtypes.Context, contractAddr sdk.AccAddress, res *wasmvmtypes.Response) ([]byte, sdk.Events, error) {
	var events sdk.Events
	if len(res.Attributes) != 0 {
		wasmEvents, err := newWasmModuleEvent(res.Attributes, contractAddr)
		if err != nil {
			return nil, nil, err
		}
		events = append(events, wasmEvents...)
	}
	if len(res.Events) != 0 {
		customEvents, err := newCustomEvents(res.Events, contractAddr)
		if err != nil {
			return nil, nil, err
		}
		events = append(events, customEvents...)
	}
	rspData, subEvents, err := k.dispatcher.DispatchSubmessages(ctx, contractAddr, res.Messages)
	if err != nil {
		return nil, nil, err
	}
	events = append(events, subEvents...)
	if rspData != nil {
		return rspData, events, nil
	}
	return res.Data, events, nil
}

// QuerySmart queries the smart contract itself. Writes done by the contract are always discarded.
func (k Keeper) QuerySmart(ctx simtypes.Context, contractAddr sdk.AccAddress, req []byte) ([]byte, error) {
	defer observeSince(k.metrics.QuerySmartElapsedTimes, time.Now())

	// checks and increase query stack size
	ctx, err := checkAndIncreaseQueryStackSize(ctx, k.maxQueryStackSize)
	if err != nil {
		return nil, err
	}

	var result []byte
	err = ctx.RunDiscarded(func(ctx simtypes.Context) error {
		_, code, err := k.contractInstance(ctx, contractAddr)
		if err != nil {
			return err
		}
		env := types.NewEnv(ctx, contractAddr)
		result, err = code.adapter.Query(k.contractDeps(ctx, contractAddr), env, req)
		return err
	})
	return result, err
}

func checkAndIncreaseQueryStackSize(ctx simtypes.Context, maxQueryStackSize uint32) (simtypes.Context, error) {
	var queryStackSize uint32
	if size, ok := types.QueryStackSize(ctx); ok {
		queryStackSize = size
	}

	// increase
	queryStackSize++

	// did we go too far?
	if queryStackSize > maxQueryStackSize {
		return ctx, types.ErrExceedMaxQueryStackSize
	}

	// set updated stack size
	return types.WithQueryStackSize(ctx, queryStackSize), nil
}

func checkAndIncreaseCallDepth(ctx simtypes.Context, maxCallDepth uint32) (simtypes.Context, error) {
	var callDepth uint32
	if size, ok := types.CallDepth(ctx); ok {
		callDepth = size
	}

	// increase
	callDepth++

	// did we go too far?
	if callDepth > maxCallDepth {
		return ctx, types.ErrExceedMaxCallDepth
	}

	// set updated stack size
	return types.WithCallDepth(ctx, callDepth), nil
}

// QueryRaw returns the contract's state for give key. Returns `nil` when key is `nil`.
func (k Keeper) QueryRaw(ctx simtypes.Context, contractAddress sdk.AccAddress, key []byte) []byte {
	defer observeSince(k.metrics.QueryRawElapsedTimes, time.Now())
	if key == nil {
		return nil
	}
	return k.contractStore(ctx, contractAddress).Get(key)
}

// internal helper function
func (k Keeper) contractInstance(ctx simtypes.Context, contractAddress sdk.AccAddress) (types.ContractInfo, codeEntry, error) {
	contractInfo := k.GetContractInfo(ctx, contractAddress)
	if contractInfo == nil {
		return types.ContractInfo{}, codeEntry{}, types.ErrUnknownContract.Wrapf("address %s", contractAddress)
	}
	code, ok := k.codes.get(contractInfo.CodeID)
	if !ok {
		return *contractInfo, codeEntry{}, types.ErrUnknownCode.Wrapf("code id %d", contractInfo.CodeID)
	}
	return *contractInfo, code, nil
}

// contractStore is the isolated namespace of a single contract
func (k Keeper) contractStore(ctx simtypes.Context, contractAddress sdk.AccAddress) storetypes.KVStore {
	return prefix.NewStore(ctx.KVStore(k.storeKey), types.GetContractStorePrefix(contractAddress))
}

func (k Keeper) contractDeps(ctx simtypes.Context, contractAddress sdk.AccAddress) types.Deps {
	return types.Deps{
		Storage: k.contractStore(ctx, contractAddress),
		Querier: NewQueryHandler(ctx, contractAddress),
	}
}

func (k Keeper) GetContractInfo(ctx simtypes.Context, contractAddress sdk.AccAddress) *types.ContractInfo {
	contractBz := ctx.KVStore(k.storeKey).Get(types.GetContractAddressKey(contractAddress))
	if contractBz == nil {
		return nil
	}
	var contract types.ContractInfo
	mustUnmarshal(contractBz, &contract)
	return &contract
}

func (k Keeper) HasContractInfo(ctx simtypes.Context, contractAddress sdk.AccAddress) bool {
	return ctx.KVStore(k.storeKey).Has(types.GetContractAddressKey(contractAddress))
}

// mustStoreContractInfo persists the ContractInfo.
func (k Keeper) mustStoreContractInfo(ctx simtypes.Context, contractAddress sdk.AccAddress, contract *types.ContractInfo) {
	ctx.KVStore(k.storeKey).Set(types.GetContractAddressKey(contractAddress), mustMarshal(contract))
}

func (k Keeper) IterateContractInfo(ctx simtypes.Context, cb func(sdk.AccAddress, types.ContractInfo) bool) {
	prefixStore := prefix.NewStore(ctx.KVStore(k.storeKey), types.ContractKeyPrefix)
	iter := prefixStore.Iterator(nil, nil)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		var contract types.ContractInfo
		mustUnmarshal(iter.Value(), &contract)
		// cb returns true to stop early
		if cb(iter.Key(), contract) {
			break
		}
	}
}

// IterateContractState iterates through all elements of the key value store for the given contract address and passes
// them to the provided callback function. The callback method can return true to abort early.
func (k Keeper) IterateContractState(ctx simtypes.Context, contractAddress sdk.AccAddress, cb func(key, value []byte) bool) {
	iter := k.contractStore(ctx, contractAddress).Iterator(nil, nil)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		if cb(iter.Key(), iter.Value()) {
			break
		}
	}
}

func (k Keeper) appendToContractHistory(ctx simtypes.Context, contractAddr sdk.AccAddress, newEntries ...types.ContractCodeHistoryEntry) {
	store := ctx.KVStore(k.storeKey)
	// find last element position
	var pos uint64
	prefixStore := prefix.NewStore(store, types.GetContractCodeHistoryElementPrefix(contractAddr))
	iter := prefixStore.ReverseIterator(nil, nil)
	if iter.Valid() {
		pos = sdk.BigEndianToUint64(iter.Key())
	}
	iter.Close()
	// then store with incrementing position
	for _, e := range newEntries {
		pos++
		store.Set(types.GetContractCodeHistoryElementKey(contractAddr, pos), mustMarshal(e))
	}
}

func (k Keeper) GetContractHistory(ctx simtypes.Context, contractAddr sdk.AccAddress) []types.ContractCodeHistoryEntry {
	prefixStore := prefix.NewStore(ctx.KVStore(k.storeKey), types.GetContractCodeHistoryElementPrefix(contractAddr))
	r := make([]types.ContractCodeHistoryEntry, 0)
	iter := prefixStore.Iterator(nil, nil)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		var e types.ContractCodeHistoryEntry
		mustUnmarshal(iter.Value(), &e)
		r = append(r, e)
	}
	return r
}

func (k Keeper) GetCodeInfo(codeID uint64) *types.CodeInfo {
	code, ok := k.codes.get(codeID)
	if !ok {
		return nil
	}
	info := code.info
	return &info
}

func (k Keeper) IterateCodeInfos(cb func(uint64, types.CodeInfo) bool) {
	for _, e := range k.codes.entries {
		// cb returns true to stop early
		if cb(e.info.CodeID, e.info) {
			return
		}
	}
}

func (k Keeper) mustAutoIncrementID(ctx simtypes.Context, sequenceKey []byte) uint64 {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(sequenceKey)
	id := uint64(1)
	if bz != nil {
		id = binary.BigEndian.Uint64(bz)
	}
	store.Set(sequenceKey, sdk.Uint64ToBigEndian(id+1))
	return id
}

// PeekAutoIncrementID reads the current value without incrementing it.
func (k Keeper) PeekAutoIncrementID(ctx simtypes.Context, sequenceKey []byte) uint64 {
	bz := ctx.KVStore(k.storeKey).Get(sequenceKey)
	id := uint64(1)
	if bz != nil {
		id = binary.BigEndian.Uint64(bz)
	}
	return id
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx simtypes.Context) log.Logger {
	return moduleLogger(ctx)
}

func moduleLogger(ctx simtypes.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

func mustMarshal(v any) []byte {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bz
}

func mustUnmarshal(bz []byte, v any) {
	if err := json.Unmarshal(bz, v); err != nil {
		panic(err)
	}
}

// RouterCoinTransferrer sends funds as a bank message through the router.
type RouterCoinTransferrer struct{}

// TransferCoins transfers coins from source to destination account. Empty amounts are a no-op.
func (RouterCoinTransferrer) TransferCoins(ctx simtypes.Context, fromAddr, toAddr sdk.AccAddress, amount sdk.Coins) (sdk.Events, error) {
	if amount.IsZero() {
		return nil, nil
	}
	res, err := ctx.Router().Execute(ctx, fromAddr, wasmvmtypes.CosmosMsg{
		Bank: &wasmvmtypes.BankMsg{Send: &wasmvmtypes.SendMsg{
			ToAddress: toAddr.String(),
			Amount:    simtypes.ConvertSdkCoinsToWasmCoins(amount),
		}},
	})
	if err != nil {
		return nil, err
	}
	return res.Events, nil
}
