package contracts

import (
	"encoding/json"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"
	"github.com/tidwall/gjson"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/CosmWasm/wasmsim/x/wasm/types"
)

var (
	keyPayout = []byte("payout")
	keyCount  = []byte("count")
)

// PayoutInitMsg configures the coin paid to every caller
type PayoutInitMsg struct {
	Payout wasmvmtypes.Coin `json:"payout"`
}

// CountResponse is returned by the `count` query
type CountResponse struct {
	Count uint64 `json:"count"`
}

// Payout sends a fixed coin to everyone executing it and counts the payouts. It must be funded
// with enough tokens. Sudo `{"set_count":n}` overwrites the counter.
var Payout = types.NewContractWrapper(payoutExecute, payoutInstantiate, payoutQuery).
	WithSudo(payoutSudo)

func payoutInstantiate(deps types.Deps, _ wasmvmtypes.Env, _ wasmvmtypes.MessageInfo, msg []byte) (*wasmvmtypes.Response, error) {
	payout := gjson.GetBytes(msg, "payout")
	if !payout.Exists() {
		return nil, errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "payout required")
	}
	var coin wasmvmtypes.Coin
	if err := json.Unmarshal([]byte(payout.Raw), &coin); err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrJSONUnmarshal, err.Error())
	}
	if err := sdk.ValidateDenom(coin.Denom); err != nil {
		return nil, err
	}
	deps.Storage.Set(keyPayout, []byte(payout.Raw))
	setCount(deps, 0)
	return &wasmvmtypes.Response{}, nil
}

func payoutExecute(deps types.Deps, env wasmvmtypes.Env, info wasmvmtypes.MessageInfo, _ []byte) (*wasmvmtypes.Response, error) {
	var coin wasmvmtypes.Coin
	if err := json.Unmarshal(deps.Storage.Get(keyPayout), &coin); err != nil {
		return nil, err
	}
	count := getCount(deps) + 1
	setCount(deps, count)
	return &wasmvmtypes.Response{
		Messages: []wasmvmtypes.SubMsg{{
			ReplyOn: wasmvmtypes.ReplyNever,
			Msg: wasmvmtypes.CosmosMsg{Bank: &wasmvmtypes.BankMsg{Send: &wasmvmtypes.SendMsg{
				ToAddress: info.Sender,
				Amount:    wasmvmtypes.Array[wasmvmtypes.Coin]{coin},
			}}},
		}},
		Attributes: []wasmvmtypes.EventAttribute{
			{Key: "action", Value: "payout"},
			{Key: "count", Value: strconv.FormatUint(count, 10)},
		},
	}, nil
}

func payoutSudo(deps types.Deps, _ wasmvmtypes.Env, msg []byte) (*wasmvmtypes.Response, error) {
	count := gjson.GetBytes(msg, "set_count")
	if !count.Exists() {
		return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "sudo %s", msg)
	}
	setCount(deps, count.Uint())
	return &wasmvmtypes.Response{}, nil
}

func payoutQuery(deps types.Deps, _ wasmvmtypes.Env, msg []byte) ([]byte, error) {
	q := gjson.ParseBytes(msg)
	switch {
	case q.Get("count").Exists():
		return json.Marshal(CountResponse{Count: getCount(deps)})
	case q.Get("payout").Exists():
		return deps.Storage.Get(keyPayout), nil
	}
	return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "query %s", msg)
}

func getCount(deps types.Deps) uint64 {
	return gjson.GetBytes(deps.Storage.Get(keyCount), "count").Uint()
}

func setCount(deps types.Deps, count uint64) {
	bz, err := json.Marshal(CountResponse{Count: count})
	if err != nil {
		panic(err)
	}
	deps.Storage.Set(keyCount, bz)
}
