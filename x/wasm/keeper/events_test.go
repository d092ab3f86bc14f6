package keeper

import (
	"testing"

	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/CosmWasm/wasmsim/testutil"
	"github.com/CosmWasm/wasmsim/x/wasm/types"
)

func TestNewCustomEvents(t *testing.T) {
	myContract := testutil.RandomAccountAddress(t)
	specs := map[string]struct {
		src    wasmvmtypes.Array[wasmvmtypes.Event]
		exp    sdk.Events
		expErr bool
	}{
		"all good": {
			src: wasmvmtypes.Array[wasmvmtypes.Event]{{
				Type:       "foo",
				Attributes: []wasmvmtypes.EventAttribute{{Key: "myKey", Value: "myVal"}},
			}},
			exp: sdk.Events{sdk.NewEvent("wasm-foo",
				sdk.NewAttribute("_contract_address", myContract.String()),
				sdk.NewAttribute("myKey", "myVal"))},
		},
		"multiple attributes": {
			src: wasmvmtypes.Array[wasmvmtypes.Event]{{
				Type: "foo",
				Attributes: []wasmvmtypes.EventAttribute{
					{Key: "myKey", Value: "myVal"},
					{Key: "myOtherKey", Value: "myOtherVal"},
				},
			}},
			exp: sdk.Events{sdk.NewEvent("wasm-foo",
				sdk.NewAttribute("_contract_address", myContract.String()),
				sdk.NewAttribute("myKey", "myVal"),
				sdk.NewAttribute("myOtherKey", "myOtherVal"))},
		},
		"multiple events": {
			src: wasmvmtypes.Array[wasmvmtypes.Event]{{
				Type:       "foo",
				Attributes: []wasmvmtypes.EventAttribute{{Key: "myKey", Value: "myVal"}},
			}, {
				Type:       "bar",
				Attributes: []wasmvmtypes.EventAttribute{{Key: "otherKey", Value: "otherVal"}},
			}},
			exp: sdk.Events{
				sdk.NewEvent("wasm-foo",
					sdk.NewAttribute("_contract_address", myContract.String()),
					sdk.NewAttribute("myKey", "myVal")),
				sdk.NewEvent("wasm-bar",
					sdk.NewAttribute("_contract_address", myContract.String()),
					sdk.NewAttribute("otherKey", "otherVal")),
			},
		},
		"without attributes": {
			src: wasmvmtypes.Array[wasmvmtypes.Event]{{Type: "foo"}},
			exp: sdk.Events{sdk.NewEvent("wasm-foo",
				sdk.NewAttribute("_contract_address", myContract.String()))},
		},
		"trimmed values": {
			src: wasmvmtypes.Array[wasmvmtypes.Event]{{
				Type:       " foo ",
				Attributes: []wasmvmtypes.EventAttribute{{Key: " myKey", Value: "myVal "}},
			}},
			exp: sdk.Events{sdk.NewEvent("wasm-foo",
				sdk.NewAttribute("_contract_address", myContract.String()),
				sdk.NewAttribute("myKey", "myVal"))},
		},
		"min length not reached": {
			src:    wasmvmtypes.Array[wasmvmtypes.Event]{{Type: "f"}},
			expErr: true,
		},
		"whitespace type": {
			src:    wasmvmtypes.Array[wasmvmtypes.Event]{{Type: "   "}},
			expErr: true,
		},
		"overwrite contract_address": {
			src: wasmvmtypes.Array[wasmvmtypes.Event]{{
				Type:       "foo",
				Attributes: []wasmvmtypes.EventAttribute{{Key: "_contract_address", Value: testutil.RandomBech32AccountAddress(t)}},
			}},
			expErr: true,
		},
		"empty value": {
			src: wasmvmtypes.Array[wasmvmtypes.Event]{{
				Type:       "foo",
				Attributes: []wasmvmtypes.EventAttribute{{Key: "myKey", Value: " "}},
			}},
			expErr: true,
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			gotEvent, err := newCustomEvents(spec.src, myContract)
			if spec.expErr {
				require.ErrorIs(t, err, types.ErrInvalidEvent)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, spec.exp, gotEvent)
		})
	}
}

func TestNewWasmModuleEvent(t *testing.T) {
	myContract := testutil.RandomAccountAddress(t)
	specs := map[string]struct {
		src    []wasmvmtypes.EventAttribute
		exp    sdk.Events
		expErr bool
	}{
		"all good": {
			src: []wasmvmtypes.EventAttribute{{Key: "myKey", Value: "myVal"}},
			exp: sdk.Events{sdk.NewEvent("wasm",
				sdk.NewAttribute("_contract_address", myContract.String()),
				sdk.NewAttribute("myKey", "myVal"))},
		},
		"without attributes": {
			exp: sdk.Events{sdk.NewEvent("wasm",
				sdk.NewAttribute("_contract_address", myContract.String()))},
		},
		"empty key": {
			src:    []wasmvmtypes.EventAttribute{{Key: "", Value: "myVal"}},
			expErr: true,
		},
		"reserved prefix": {
			src:    []wasmvmtypes.EventAttribute{{Key: "_myKey", Value: "myVal"}},
			expErr: true,
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			gotEvent, err := newWasmModuleEvent(spec.src, myContract)
			if spec.expErr {
				require.ErrorIs(t, err, types.ErrInvalidEvent)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, spec.exp, gotEvent)
		})
	}
}

func TestNewEntryPointEvent(t *testing.T) {
	myContract := testutil.RandomAccountAddress(t)
	got := newEntryPointEvent(types.EventTypeReply, myContract, 1, sdk.NewAttribute(types.AttributeKeyMode, types.AttributeValueHandleSuccess))
	exp := sdk.NewEvent("reply",
		sdk.NewAttribute("_contract_address", myContract.String()),
		sdk.NewAttribute("code_id", "1"),
		sdk.NewAttribute("mode", "handle_success"))
	assert.Equal(t, exp, got)

	got = newEntryPointEvent(types.EventTypeSudo, myContract, 0)
	assert.Equal(t, sdk.NewEvent("sudo", sdk.NewAttribute("_contract_address", myContract.String())), got)
}

func TestSdkEventsToWasmVMEvents(t *testing.T) {
	src := sdk.Events{sdk.NewEvent("transfer", sdk.NewAttribute("recipient", "foo"), sdk.NewAttribute("amount", "1stake"))}
	got := sdkEventsToWasmVMEvents(src)
	exp := []wasmvmtypes.Event{{
		Type: "transfer",
		Attributes: []wasmvmtypes.EventAttribute{
			{Key: "recipient", Value: "foo"},
			{Key: "amount", Value: "1stake"},
		},
	}}
	assert.Equal(t, exp, got)
}
