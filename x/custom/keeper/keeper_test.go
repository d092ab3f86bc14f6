package keeper

import (
	"encoding/json"
	"errors"
	"testing"

	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/CosmWasm/wasmsim/store"
	"github.com/CosmWasm/wasmsim/testutil"
	simtypes "github.com/CosmWasm/wasmsim/types"
	"github.com/CosmWasm/wasmsim/x/custom/types"
)

func setupCustom(t *testing.T) (simtypes.Context, Keeper) {
	t.Helper()
	k := NewKeeper(types.StoreKey)
	k.RegisterHandler("ping", func(_ simtypes.Context, _ sdk.AccAddress, msg json.RawMessage) (*simtypes.AppResponse, error) {
		return &simtypes.AppResponse{
			Events: sdk.Events{sdk.NewEvent("pong", sdk.NewAttribute("n", gjson.GetBytes(msg, "ping.n").String()))},
			Data:   []byte("pong"),
		}, nil
	})
	k.RegisterHandler("fail", func(_ simtypes.Context, _ sdk.AccAddress, _ json.RawMessage) (*simtypes.AppResponse, error) {
		return nil, errors.New("handler failed")
	})
	k.RegisterSudoHandler("reset", func(_ simtypes.Context, sender sdk.AccAddress, _ json.RawMessage) (*simtypes.AppResponse, error) {
		require.Nil(t, sender)
		return nil, nil
	})
	k.RegisterQuerier("echo", func(_ simtypes.Context, req json.RawMessage) ([]byte, error) {
		return []byte(gjson.GetBytes(req, "echo").Raw), nil
	})
	return testutil.NewContext(t), k
}

func TestCustomExecute(t *testing.T) {
	ctx, k := setupCustom(t)
	server := NewMsgServerImpl(k)
	sender := testutil.RandomAccountAddress(t)

	rsp, err := server.Execute(ctx, sender, wasmvmtypes.CosmosMsg{Custom: json.RawMessage(`{"ping":{"n":3}}`)})
	require.NoError(t, err)
	assert.Equal(t, []byte("pong"), rsp.Data)
	assert.Equal(t, "3", rsp.Events[0].Attributes[0].Value)

	specs := map[string]struct {
		msg    string
		expErr error
	}{
		"unregistered":  {msg: `{"unknown":{}}`, expErr: simtypes.ErrUnsupportedMessage},
		"two keys":      {msg: `{"ping":{},"pong":{}}`, expErr: simtypes.ErrUnsupportedMessage},
		"not an object": {msg: `["ping"]`, expErr: simtypes.ErrUnsupportedMessage},
		"invalid json":  {msg: `{"ping"`, expErr: simtypes.ErrUnsupportedMessage},
		"sudo only":     {msg: `{"reset":{}}`, expErr: simtypes.ErrUnsupportedMessage},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			_, err := server.Execute(ctx, sender, wasmvmtypes.CosmosMsg{Custom: json.RawMessage(spec.msg)})
			require.ErrorIs(t, err, spec.expErr)
		})
	}

	_, err = server.Execute(ctx, sender, wasmvmtypes.CosmosMsg{Custom: json.RawMessage(`{"fail":{}}`)})
	require.EqualError(t, err, "handler failed")

	// only the successful call is logged
	assert.Equal(t, []types.ExecutedMessage{
		{Handler: "ping", Sender: sender.String(), Msg: json.RawMessage(`{"ping":{"n":3}}`)},
	}, k.ExecutedMessages(ctx))
}

func TestCustomSudo(t *testing.T) {
	ctx, k := setupCustom(t)
	server := NewMsgServerImpl(k)

	rsp, err := server.Sudo(ctx, simtypes.SudoMsg{Custom: json.RawMessage(`{"reset":{}}`)})
	require.NoError(t, err)
	assert.Empty(t, rsp.Events)

	_, err = server.Sudo(ctx, simtypes.SudoMsg{Custom: json.RawMessage(`{"ping":{}}`)})
	require.ErrorIs(t, err, simtypes.ErrUnsupportedMessage)

	msgs := k.ExecutedMessages(ctx)
	require.Len(t, msgs, 1)
	assert.Equal(t, "reset", msgs[0].Handler)
	assert.Empty(t, msgs[0].Sender)
}

func TestCustomQuery(t *testing.T) {
	ctx, k := setupCustom(t)
	server := NewMsgServerImpl(k)

	bz, err := server.Query(ctx, wasmvmtypes.QueryRequest{Custom: json.RawMessage(`{"echo":{"a":1}}`)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(bz))

	_, err = server.Query(ctx, wasmvmtypes.QueryRequest{Custom: json.RawMessage(`{"ping":{}}`)})
	require.ErrorIs(t, err, simtypes.ErrUnsupportedMessage)

	_, err = server.Query(ctx, wasmvmtypes.QueryRequest{})
	require.ErrorIs(t, err, simtypes.ErrUnsupportedMessage)
}

func TestExecutedMessagesRollBack(t *testing.T) {
	k := NewKeeper(types.StoreKey)
	k.RegisterHandler("ping", func(_ simtypes.Context, _ sdk.AccAddress, _ json.RawMessage) (*simtypes.AppResponse, error) {
		return nil, nil
	})
	server := NewMsgServerImpl(k)
	st := store.NewStore()
	ctx := simtypes.NewContext(st, simtypes.DefaultBlockInfo(), testutil.NewContext(t).Logger())
	sender := testutil.RandomAccountAddress(t)

	st.Checkpoint()
	_, err := server.Execute(ctx, sender, wasmvmtypes.CosmosMsg{Custom: json.RawMessage(`{"ping":{}}`)})
	require.NoError(t, err)
	assert.Len(t, k.ExecutedMessages(ctx), 1)
	st.Rollback()

	assert.Empty(t, k.ExecutedMessages(ctx))
}
