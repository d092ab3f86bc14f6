package types

import (
	"encoding/json"

	wasmvmtypes "github.com/CosmWasm/wasmvm/v2/types"
)

// SudoMsg is a privileged system call. Exactly one variant must be set.
type SudoMsg struct {
	Bank    *BankSudo       `json:"bank,omitempty"`
	Staking *StakingSudo    `json:"staking,omitempty"`
	Wasm    *WasmSudo       `json:"wasm,omitempty"`
	Custom  json.RawMessage `json:"custom,omitempty"`
}

type BankSudo struct {
	Mint *MintSudo `json:"mint,omitempty"`
}

// MintSudo creates new tokens for the recipient.
type MintSudo struct {
	ToAddress string                              `json:"to_address"`
	Amount    wasmvmtypes.Array[wasmvmtypes.Coin] `json:"amount"`
}

type StakingSudo struct {
	Slash *SlashSudo `json:"slash,omitempty"`
}

// SlashSudo burns the given fraction of a validator's stake. Percentage is a decimal in [0, 1].
type SlashSudo struct {
	Validator  string `json:"validator"`
	Percentage string `json:"percentage"`
}

// WasmSudo calls the sudo entry point of a contract.
type WasmSudo struct {
	ContractAddr string `json:"contract_addr"`
	Msg          []byte `json:"msg"`
}

// SudoKind returns the kind of a sudo message or an empty string when no variant is set.
func SudoKind(msg SudoMsg) string {
	switch {
	case msg.Bank != nil:
		return KindBank
	case msg.Staking != nil:
		return KindStaking
	case msg.Wasm != nil:
		return KindWasm
	case len(msg.Custom) != 0:
		return KindCustom
	default:
		return ""
	}
}
