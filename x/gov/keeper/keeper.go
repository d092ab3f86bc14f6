package keeper

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	"cosmossdk.io/store/prefix"

	sdk "github.com/cosmos/cosmos-sdk/types"

	simtypes "github.com/CosmWasm/wasmsim/types"
	"github.com/CosmWasm/wasmsim/x/gov/types"
)

// Keeper records the votes cast on proposals. Proposals themselves are not modelled.
type Keeper struct {
	storeKey simtypes.StoreKey
}

func NewKeeper(storeKey simtypes.StoreKey) Keeper {
	return Keeper{storeKey: storeKey}
}

// GetVote returns the vote of the voter on the proposal
func (k Keeper) GetVote(ctx simtypes.Context, proposalID uint64, voter sdk.AccAddress) (types.Vote, bool) {
	bz := ctx.KVStore(k.storeKey).Get(types.GetVoteKey(proposalID, voter))
	if bz == nil {
		return types.Vote{}, false
	}
	var vote types.Vote
	if err := json.Unmarshal(bz, &vote); err != nil {
		panic(err)
	}
	return vote, true
}

// GetVotes returns all votes on the proposal, ordered by voter address
func (k Keeper) GetVotes(ctx simtypes.Context, proposalID uint64) []types.Vote {
	iter := prefix.NewStore(ctx.KVStore(k.storeKey), types.GetVotesKey(proposalID)).Iterator(nil, nil)
	defer iter.Close()

	var votes []types.Vote
	for ; iter.Valid(); iter.Next() {
		var vote types.Vote
		if err := json.Unmarshal(iter.Value(), &vote); err != nil {
			panic(err)
		}
		votes = append(votes, vote)
	}
	return votes
}

// setVote overwrites an earlier vote of the same voter
func (k Keeper) setVote(ctx simtypes.Context, voter sdk.AccAddress, vote types.Vote) {
	bz, err := json.Marshal(vote)
	if err != nil {
		panic(err)
	}
	ctx.KVStore(k.storeKey).Set(types.GetVoteKey(vote.ProposalID, voter), bz)
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx simtypes.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}
