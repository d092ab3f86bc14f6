package contracts

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"
	"github.com/tidwall/gjson"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/CosmWasm/wasmsim/x/wasm/types"
)

var keyConfig = []byte("config")

// Echo returns what it receives. Execute messages have the shape
//
//	{"data":"<base64>","attributes":[{"key":"..","value":".."}],"sub_msgs":[...]}
//
// and the reply entry point returns the data of the answered submessage.
var Echo = types.NewContractWrapper(echoExecute, echoInstantiate, echoQuery).
	WithReply(echoReply)

func echoInstantiate(deps types.Deps, _ wasmvmtypes.Env, _ wasmvmtypes.MessageInfo, msg []byte) (*wasmvmtypes.Response, error) {
	if !gjson.ValidBytes(msg) {
		return nil, errorsmod.Wrap(sdkerrors.ErrJSONUnmarshal, "init msg")
	}
	deps.Storage.Set(keyConfig, msg)
	return &wasmvmtypes.Response{
		Attributes: []wasmvmtypes.EventAttribute{{Key: "action", Value: "instantiate"}},
	}, nil
}

func echoExecute(_ types.Deps, _ wasmvmtypes.Env, _ wasmvmtypes.MessageInfo, msg []byte) (*wasmvmtypes.Response, error) {
	if !gjson.ValidBytes(msg) {
		return nil, errorsmod.Wrap(sdkerrors.ErrJSONUnmarshal, "execute msg")
	}
	var res wasmvmtypes.Response
	m := gjson.ParseBytes(msg)
	if data := m.Get("data"); data.Exists() {
		if err := json.Unmarshal([]byte(data.Raw), &res.Data); err != nil {
			return nil, errorsmod.Wrap(sdkerrors.ErrJSONUnmarshal, err.Error())
		}
	}
	m.Get("attributes").ForEach(func(_, attr gjson.Result) bool {
		res.Attributes = append(res.Attributes, wasmvmtypes.EventAttribute{
			Key:   attr.Get("key").String(),
			Value: attr.Get("value").String(),
		})
		return true
	})
	if subMsgs := m.Get("sub_msgs"); subMsgs.Exists() {
		if err := json.Unmarshal([]byte(subMsgs.Raw), &res.Messages); err != nil {
			return nil, errorsmod.Wrap(sdkerrors.ErrJSONUnmarshal, err.Error())
		}
	}
	return &res, nil
}

func echoReply(_ types.Deps, _ wasmvmtypes.Env, reply wasmvmtypes.Reply) (*wasmvmtypes.Response, error) {
	if reply.Result.Ok == nil {
		return &wasmvmtypes.Response{}, nil
	}
	return &wasmvmtypes.Response{Data: reply.Result.Ok.Data}, nil
}

func echoQuery(deps types.Deps, _ wasmvmtypes.Env, msg []byte) ([]byte, error) {
	if gjson.GetBytes(msg, "config").Exists() {
		return deps.Storage.Get(keyConfig), nil
	}
	return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "query %s", msg)
}
