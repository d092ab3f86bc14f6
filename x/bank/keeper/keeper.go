package keeper

import (
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store/prefix"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	simtypes "github.com/CosmWasm/wasmsim/types"
	"github.com/CosmWasm/wasmsim/x/bank/types"
)

// Keeper stores the native token balances.
type Keeper struct {
	storeKey simtypes.StoreKey
}

func NewKeeper(storeKey simtypes.StoreKey) Keeper {
	return Keeper{storeKey: storeKey}
}

// InitBalance overwrites the balance of an account. Genesis only.
func (k Keeper) InitBalance(ctx simtypes.Context, addr sdk.AccAddress, amount sdk.Coins) error {
	if !amount.IsValid() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidCoins, amount.String())
	}
	k.setBalances(ctx, addr, amount)
	return nil
}

// GetAllBalances returns all the balances of an account, sorted by denom.
func (k Keeper) GetAllBalances(ctx simtypes.Context, addr sdk.AccAddress) sdk.Coins {
	bz := ctx.KVStore(k.storeKey).Get(types.CreateAccountBalancesKey(addr))
	if bz == nil {
		return sdk.NewCoins()
	}
	var balances sdk.Coins
	if err := json.Unmarshal(bz, &balances); err != nil {
		panic(err)
	}
	return balances
}

// GetBalance returns the balance of one denom, zero when the account holds none.
func (k Keeper) GetBalance(ctx simtypes.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	return sdk.NewCoin(denom, k.GetAllBalances(ctx, addr).AmountOf(denom))
}

// GetSupply sums the balances of all accounts for the denom.
func (k Keeper) GetSupply(ctx simtypes.Context, denom string) sdk.Coin {
	supply := sdkmath.ZeroInt()
	k.IterateAllBalances(ctx, func(_ sdk.AccAddress, balances sdk.Coins) bool {
		supply = supply.Add(balances.AmountOf(denom))
		return false
	})
	return sdk.NewCoin(denom, supply)
}

// IterateAllBalances calls cb for every account with a stored balance. The callback method can return
// true to abort early.
func (k Keeper) IterateAllBalances(ctx simtypes.Context, cb func(sdk.AccAddress, sdk.Coins) bool) {
	iter := prefix.NewStore(ctx.KVStore(k.storeKey), types.BalancesPrefix).Iterator(nil, nil)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		// key is len(addr) | addr
		key := iter.Key()
		addr := sdk.AccAddress(key[1 : 1+int(key[0])])
		var balances sdk.Coins
		if err := json.Unmarshal(iter.Value(), &balances); err != nil {
			panic(err)
		}
		if cb(addr, balances) {
			return
		}
	}
}

// SendCoins moves the amount between accounts.
func (k Keeper) SendCoins(ctx simtypes.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	if err := k.BurnCoins(ctx, fromAddr, amt); err != nil {
		return err
	}
	return k.MintCoins(ctx, toAddr, amt)
}

// MintCoins creates new tokens for the account.
func (k Keeper) MintCoins(ctx simtypes.Context, toAddr sdk.AccAddress, amt sdk.Coins) error {
	amt, err := normalizeAmount(amt)
	if err != nil {
		return err
	}
	k.setBalances(ctx, toAddr, k.GetAllBalances(ctx, toAddr).Add(amt...))
	return nil
}

// BurnCoins removes tokens from the account.
func (k Keeper) BurnCoins(ctx simtypes.Context, fromAddr sdk.AccAddress, amt sdk.Coins) error {
	amt, err := normalizeAmount(amt)
	if err != nil {
		return err
	}
	balances := k.GetAllBalances(ctx, fromAddr)
	newBalances, hasNeg := balances.SafeSub(amt...)
	if hasNeg {
		return errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "%s is smaller than %s", balances, amt)
	}
	k.setBalances(ctx, fromAddr, newBalances)
	return nil
}

func (k Keeper) setBalances(ctx simtypes.Context, addr sdk.AccAddress, balances sdk.Coins) {
	store := ctx.KVStore(k.storeKey)
	key := types.CreateAccountBalancesKey(addr)
	if balances.IsZero() {
		store.Delete(key)
		return
	}
	bz, err := json.Marshal(balances)
	if err != nil {
		panic(err)
	}
	store.Set(key, bz)
}

// SetDenomMetadata stores the metadata of a denom.
func (k Keeper) SetDenomMetadata(ctx simtypes.Context, metadata wasmvmtypes.DenomMetadata) {
	bz, err := json.Marshal(metadata)
	if err != nil {
		panic(err)
	}
	ctx.KVStore(k.storeKey).Set(types.DenomMetadataKey(metadata.Base), bz)
}

// GetDenomMetadata returns the stored metadata or empty metadata when none was set.
func (k Keeper) GetDenomMetadata(ctx simtypes.Context, denom string) wasmvmtypes.DenomMetadata {
	var metadata wasmvmtypes.DenomMetadata
	bz := ctx.KVStore(k.storeKey).Get(types.DenomMetadataKey(denom))
	if bz == nil {
		return metadata
	}
	if err := json.Unmarshal(bz, &metadata); err != nil {
		panic(err)
	}
	return metadata
}

// GetAllDenomMetadata returns all stored metadata, ordered by base denom.
func (k Keeper) GetAllDenomMetadata(ctx simtypes.Context) []wasmvmtypes.DenomMetadata {
	iter := prefix.NewStore(ctx.KVStore(k.storeKey), types.DenomMetadataPrefix).Iterator(nil, nil)
	defer iter.Close()

	var res []wasmvmtypes.DenomMetadata
	for ; iter.Valid(); iter.Next() {
		var metadata wasmvmtypes.DenomMetadata
		if err := json.Unmarshal(iter.Value(), &metadata); err != nil {
			panic(err)
		}
		res = append(res, metadata)
	}
	return res
}

// normalizeAmount drops zero coins and rejects an amount that is empty afterwards.
func normalizeAmount(amt sdk.Coins) (sdk.Coins, error) {
	var res sdk.Coins
	for _, c := range amt {
		if !c.IsZero() {
			res = append(res, c)
		}
	}
	if res.Empty() {
		return nil, errorsmod.Wrap(sdkerrors.ErrInvalidCoins, "cannot transfer empty coins amount")
	}
	return res, nil
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx simtypes.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}
