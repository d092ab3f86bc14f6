package keeper

import (
	"fmt"

	"cosmossdk.io/log"

	sdk "github.com/cosmos/cosmos-sdk/types"

	simtypes "github.com/CosmWasm/wasmsim/types"
	"github.com/CosmWasm/wasmsim/x/distribution/types"
)

// Keeper pays out staking rewards and keeps the withdraw addresses.
type Keeper struct {
	storeKey simtypes.StoreKey
	staking  types.StakingKeeper
}

func NewKeeper(storeKey simtypes.StoreKey, staking types.StakingKeeper) Keeper {
	return Keeper{storeKey: storeKey, staking: staking}
}

// GetWithdrawAddress returns the address rewards of the delegator are paid to. That is the
// delegator itself unless set otherwise.
func (k Keeper) GetWithdrawAddress(ctx simtypes.Context, delegator sdk.AccAddress) sdk.AccAddress {
	bz := ctx.KVStore(k.storeKey).Get(types.GetWithdrawAddressKey(delegator))
	if bz == nil {
		return delegator
	}
	return bz
}

// SetWithdrawAddress changes the reward recipient. Setting the delegator itself removes the entry.
func (k Keeper) SetWithdrawAddress(ctx simtypes.Context, delegator, withdrawAddr sdk.AccAddress) {
	store := ctx.KVStore(k.storeKey)
	if delegator.Equals(withdrawAddr) {
		store.Delete(types.GetWithdrawAddressKey(delegator))
		return
	}
	store.Set(types.GetWithdrawAddressKey(delegator), withdrawAddr)
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx simtypes.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}
