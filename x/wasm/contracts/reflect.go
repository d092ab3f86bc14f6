package contracts

import (
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"
	"github.com/tidwall/gjson"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/CosmWasm/wasmsim/x/wasm/types"
)

var (
	keyOwner   = []byte("owner")
	keyReplies = []byte("replies")
)

// ReflectMsg is accepted by every state changing entry point of the reflect contract.
// All fields are optional and applied in field order.
type ReflectMsg struct {
	// Set writes the key value pair into the contract store
	Set *KeyValue `json:"set,omitempty"`
	// Msgs are dispatched without reply
	Msgs []wasmvmtypes.CosmosMsg `json:"msgs,omitempty"`
	// SubMsgs are dispatched as given
	SubMsgs    []wasmvmtypes.SubMsg         `json:"sub_msgs,omitempty"`
	Attributes []wasmvmtypes.EventAttribute `json:"attributes,omitempty"`
	Events     []wasmvmtypes.Event          `json:"events,omitempty"`
	Data       []byte                       `json:"data,omitempty"`
	// Fail aborts the call with the given error text after the store was written
	Fail string `json:"fail,omitempty"`
}

type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Bytes returns the JSON encoding. It panics on error.
func (m ReflectMsg) Bytes() []byte {
	bz, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	return bz
}

// ValueResponse is returned by the `get` query
type ValueResponse struct {
	Value string `json:"value"`
}

// OwnerResponse is returned by the `owner` query
type OwnerResponse struct {
	Owner string `json:"owner"`
}

// ChainResponse is returned by the `chain` query
type ChainResponse struct {
	Data []byte `json:"data"`
}

var (
	_ types.Contract = Reflect{}
	_ types.Migrator = Reflect{}
	_ types.Sudoer   = Reflect{}
	_ types.Replier  = Reflect{}
)

// Reflect does what it is told. It dispatches the messages it is given, records every reply it
// receives and treats a non empty reply payload as a ReflectMsg for the reply entry point.
//
// Queries:
//
//	{"owner":{}}
//	{"get":{"key":"..."}}
//	{"replies":{}}
//	{"chain":{"request":<QueryRequest>}}
type Reflect struct{}

func (r Reflect) Instantiate(deps types.Deps, _ wasmvmtypes.Env, info wasmvmtypes.MessageInfo, msg []byte) (*wasmvmtypes.Response, error) {
	deps.Storage.Set(keyOwner, []byte(info.Sender))
	return r.handle(deps, msg)
}

func (r Reflect) Execute(deps types.Deps, _ wasmvmtypes.Env, _ wasmvmtypes.MessageInfo, msg []byte) (*wasmvmtypes.Response, error) {
	return r.handle(deps, msg)
}

func (r Reflect) Migrate(deps types.Deps, _ wasmvmtypes.Env, msg []byte) (*wasmvmtypes.Response, error) {
	return r.handle(deps, msg)
}

func (r Reflect) Sudo(deps types.Deps, _ wasmvmtypes.Env, msg []byte) (*wasmvmtypes.Response, error) {
	return r.handle(deps, msg)
}

func (r Reflect) Reply(deps types.Deps, _ wasmvmtypes.Env, reply wasmvmtypes.Reply) (*wasmvmtypes.Response, error) {
	replies := loadReplies(deps)
	bz, err := json.Marshal(append(replies, reply))
	if err != nil {
		return nil, err
	}
	deps.Storage.Set(keyReplies, bz)
	if len(reply.Payload) == 0 {
		return &wasmvmtypes.Response{}, nil
	}
	return r.handle(deps, reply.Payload)
}

func (r Reflect) handle(deps types.Deps, msg []byte) (*wasmvmtypes.Response, error) {
	if len(msg) == 0 {
		return &wasmvmtypes.Response{}, nil
	}
	var m ReflectMsg
	if err := json.Unmarshal(msg, &m); err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrJSONUnmarshal, err.Error())
	}
	if m.Set != nil {
		deps.Storage.Set([]byte(m.Set.Key), []byte(m.Set.Value))
	}
	if m.Fail != "" {
		return nil, fmt.Errorf("%s", m.Fail)
	}
	res := &wasmvmtypes.Response{
		Attributes: m.Attributes,
		Events:     m.Events,
		Data:       m.Data,
	}
	for _, cm := range m.Msgs {
		res.Messages = append(res.Messages, wasmvmtypes.SubMsg{Msg: cm, ReplyOn: wasmvmtypes.ReplyNever})
	}
	res.Messages = append(res.Messages, m.SubMsgs...)
	return res, nil
}

func (r Reflect) Query(deps types.Deps, _ wasmvmtypes.Env, msg []byte) ([]byte, error) {
	q := gjson.ParseBytes(msg)
	switch {
	case q.Get("owner").Exists():
		return json.Marshal(OwnerResponse{Owner: string(deps.Storage.Get(keyOwner))})
	case q.Get("get").Exists():
		return json.Marshal(ValueResponse{Value: string(deps.Storage.Get([]byte(q.Get("get.key").String())))})
	case q.Get("replies").Exists():
		return json.Marshal(loadReplies(deps))
	case q.Get("chain").Exists():
		var req wasmvmtypes.QueryRequest
		if err := json.Unmarshal([]byte(q.Get("chain.request").Raw), &req); err != nil {
			return nil, errorsmod.Wrap(sdkerrors.ErrJSONUnmarshal, err.Error())
		}
		bz, err := deps.Querier.Query(req)
		if err != nil {
			return nil, err
		}
		return json.Marshal(ChainResponse{Data: bz})
	}
	return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "query %s", msg)
}

func loadReplies(deps types.Deps) []wasmvmtypes.Reply {
	replies := []wasmvmtypes.Reply{}
	if bz := deps.Storage.Get(keyReplies); bz != nil {
		if err := json.Unmarshal(bz, &replies); err != nil {
			panic(err)
		}
	}
	return replies
}
