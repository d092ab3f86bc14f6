package keeper

import (
	errorsmod "cosmossdk.io/errors"
	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"

	sdk "github.com/cosmos/cosmos-sdk/types"

	simtypes "github.com/CosmWasm/wasmsim/types"
	"github.com/CosmWasm/wasmsim/x/wasm/keeper/wasmtesting"
	"github.com/CosmWasm/wasmsim/x/wasm/types"
)

var (
	_ Messenger = &wasmtesting.MockMessageHandler{}
	_ Messenger = MessageHandlerChain{}
	_ Messenger = RouterMessageHandler{}
)

// Messenger is an extension point for custom message handling
type Messenger interface {
	// DispatchMsg routes the contract message on behalf of the contract.
	DispatchMsg(ctx simtypes.Context, contractAddr sdk.AccAddress, msg wasmvmtypes.CosmosMsg) (*simtypes.AppResponse, error)
}

// replyer is a subset of keeper that can handle replies to submessages
type replyer interface {
	reply(ctx simtypes.Context, contractAddress sdk.AccAddress, reply wasmvmtypes.Reply) (*simtypes.AppResponse, error)
}

// MessageDispatcher coordinates message sending and submessage reply/ state commits
type MessageDispatcher struct {
	messenger Messenger
	keeper    replyer
}

// NewMessageDispatcher constructor
func NewMessageDispatcher(messenger Messenger, keeper replyer) *MessageDispatcher {
	return &MessageDispatcher{messenger: messenger, keeper: keeper}
}

// DispatchSubmessages executes the messages in order, each in its own checkpoint, and returns the execution
// result to the contract that dispatched them, both on success as well as failure.
// The returned data is the one of the last reply that set any.
func (d MessageDispatcher) DispatchSubmessages(ctx simtypes.Context, contractAddr sdk.AccAddress, msgs []wasmvmtypes.SubMsg) ([]byte, sdk.Events, error) {
	var (
		rsp    []byte
		events sdk.Events
	)
	for _, msg := range msgs {
		switch msg.ReplyOn {
		case wasmvmtypes.ReplySuccess, wasmvmtypes.ReplyError, wasmvmtypes.ReplyAlways, wasmvmtypes.ReplyNever:
		default:
			return nil, nil, errorsmod.Wrap(types.ErrInvalid, "replyOn value")
		}
		if msg.GasLimit != nil {
			moduleLogger(ctx).Debug("ignoring submessage gas limit", "id", msg.ID, "gas_limit", *msg.GasLimit)
		}

		var subRsp *simtypes.AppResponse
		err := ctx.RunAtomic(func(subCtx simtypes.Context) (err error) {
			subRsp, err = d.messenger.DispatchMsg(subCtx, contractAddr, msg.Msg)
			return err
		})
		// if it succeeds, the checkpoint was committed and the events are passed on
		if err == nil {
			if subRsp == nil {
				subRsp = &simtypes.AppResponse{}
			}
			events = append(events, subRsp.Events...)
		} // on failure the checkpoint was rolled back, and events are ignored

		frame := replyFrame{contractAddr: contractAddr, subMsg: msg}
		if !frame.catches(err) {
			return nil, nil, err
		}
		if !frame.wants(err) {
			continue
		}

		// otherwise, we create a SubMsgResult and pass it into the calling contract
		var result wasmvmtypes.SubMsgResult
		if err == nil {
			result = wasmvmtypes.SubMsgResult{
				Ok: &wasmvmtypes.SubMsgResponse{
					Events: sdkEventsToWasmVMEvents(subRsp.Events),
					Data:   subRsp.Data,
				},
			}
		} else {
			moduleLogger(ctx).Debug("submessage failed", "id", msg.ID, "cause", err)
			result = wasmvmtypes.SubMsgResult{
				Err: err.Error(),
			}
		}

		// now handle the reply, we use the parent context, and abort on error
		reply := frame.reply(result)
		replyRsp, err := d.keeper.reply(ctx, frame.contractAddr, reply)
		if err != nil {
			return nil, nil, errorsmod.Wrap(err, "reply")
		}
		events = append(events, replyRsp.Events...)
		if replyRsp.Data != nil {
			rsp = replyRsp.Data
		}
	}
	return rsp, events, nil
}

// replyFrame is the pending callback of a single submessage. It is resolved exactly once, right
// after the submessage completes.
type replyFrame struct {
	contractAddr sdk.AccAddress
	subMsg       wasmvmtypes.SubMsg
}

// catches is false when a failure must propagate to the caller
func (f replyFrame) catches(err error) bool {
	if err == nil {
		return true
	}
	return f.subMsg.ReplyOn == wasmvmtypes.ReplyError || f.subMsg.ReplyOn == wasmvmtypes.ReplyAlways
}

// wants is true when the reply entry point must be called for the outcome
func (f replyFrame) wants(err error) bool {
	switch f.subMsg.ReplyOn {
	case wasmvmtypes.ReplyAlways:
		return true
	case wasmvmtypes.ReplySuccess:
		return err == nil
	case wasmvmtypes.ReplyError:
		return err != nil
	default:
		return false
	}
}

func (f replyFrame) reply(result wasmvmtypes.SubMsgResult) wasmvmtypes.Reply {
	return wasmvmtypes.Reply{
		ID:      f.subMsg.ID,
		Result:  result,
		Payload: f.subMsg.Payload,
	}
}
