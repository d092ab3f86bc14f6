package types

import (
	"strings"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MaxLabelSize is the longest label that can be used when instantiating a contract
const MaxLabelSize = 128

// CodeInfo is data for the uploaded contract code
type CodeInfo struct {
	CodeID   uint64         `json:"code_id"`
	Creator  sdk.AccAddress `json:"creator"`
	Checksum []byte         `json:"checksum"`
}

// NewCodeInfo fills a new CodeInfo struct
func NewCodeInfo(codeID uint64, creator sdk.AccAddress, checksum []byte) CodeInfo {
	return CodeInfo{
		CodeID:   codeID,
		Creator:  creator,
		Checksum: checksum,
	}
}

// ContractInfo stores a contract instance
type ContractInfo struct {
	CodeID  uint64         `json:"code_id"`
	Creator sdk.AccAddress `json:"creator"`
	Admin   sdk.AccAddress `json:"admin,omitempty"`
	Label   string         `json:"label"`
	// Created is the global instantiation sequence number, used for ordering only
	Created uint64 `json:"created"`
}

// NewContractInfo creates a new instance of a given contract info
func NewContractInfo(codeID uint64, creator, admin sdk.AccAddress, label string, created uint64) ContractInfo {
	return ContractInfo{
		CodeID:  codeID,
		Creator: creator,
		Admin:   admin,
		Label:   label,
		Created: created,
	}
}

// ValidateLabel rejects empty and oversized labels.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return errorsmod.Wrap(ErrEmpty, "label is required on all contracts")
	}
	if len(label) > MaxLabelSize {
		return errorsmod.Wrapf(ErrInvalid, "label cannot be longer than %d characters", MaxLabelSize)
	}
	return nil
}

type ContractCodeHistoryOperationType string

const (
	InitContractCodeHistoryType    ContractCodeHistoryOperationType = "Init"
	MigrateContractCodeHistoryType ContractCodeHistoryOperationType = "Migrate"
)

// ContractCodeHistoryEntry is one code change of a contract
type ContractCodeHistoryEntry struct {
	Operation ContractCodeHistoryOperationType `json:"operation"`
	CodeID    uint64                           `json:"code_id"`
	// Height is the block height the entry was written at
	Height uint64 `json:"height"`
	Msg    []byte `json:"msg,omitempty"`
}

// ContractInfoResponse is the result of a contract info query
type ContractInfoResponse struct {
	CodeID  uint64 `json:"code_id"`
	Creator string `json:"creator"`
	Admin   string `json:"admin,omitempty"`
	Pinned  bool   `json:"pinned"`
}

// CodeInfoResponse is the result of a code info query
type CodeInfoResponse struct {
	CodeID   uint64 `json:"code_id"`
	Creator  string `json:"creator"`
	Checksum []byte `json:"checksum"`
}

// Model is a raw key value pair of contract state
type Model struct {
	Key   []byte `json:"key"`
	Value []byte `json:"val"`
}

// InstantiateResponse is the data returned to a caller that instantiated a contract through a message
type InstantiateResponse struct {
	ContractAddress string `json:"contract_address"`
	Data            []byte `json:"data,omitempty"`
}
