package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Codes for wasm contract errors
var (
	DefaultCodespace = ModuleName

	// ErrContractExecutionFailed error for a contract entry point returning an error
	ErrContractExecutionFailed = errorsmod.Register(DefaultCodespace, 2, "contract execution failed")

	// ErrUnknownContract error when an address does not belong to a contract
	ErrUnknownContract = errorsmod.Register(DefaultCodespace, 3, "no such contract")

	// ErrUnknownCode error when a code id does not belong to stored code
	ErrUnknownCode = errorsmod.Register(DefaultCodespace, 4, "no such code")

	// ErrReentrancy error for a call into a contract that is already executing
	ErrReentrancy = errorsmod.Register(DefaultCodespace, 5, "reentrancy")

	// ErrDuplicateCode error for content identical code when the store policy forbids it
	ErrDuplicateCode = errorsmod.Register(DefaultCodespace, 6, "duplicate code")

	// ErrDuplicate error for content that already exists
	ErrDuplicate = errorsmod.Register(DefaultCodespace, 7, "duplicate")

	// ErrEmpty error for empty content
	ErrEmpty = errorsmod.Register(DefaultCodespace, 8, "empty")

	// ErrInvalid error for content that is invalid in this context
	ErrInvalid = errorsmod.Register(DefaultCodespace, 9, "invalid")

	// ErrInvalidEvent error if an attribute/event from the contract is invalid
	ErrInvalidEvent = errorsmod.Register(DefaultCodespace, 10, "invalid event")

	// ErrExceedMaxCallDepth error if max message call depth is exceeded
	ErrExceedMaxCallDepth = errorsmod.Register(DefaultCodespace, 11, "max call depth exceeded")

	// ErrExceedMaxQueryStackSize error if max query stack size is exceeded
	ErrExceedMaxQueryStackSize = errorsmod.Register(DefaultCodespace, 12, "max query stack size exceeded")

	// ErrNotImplemented error for a contract entry point that does not exist
	ErrNotImplemented = errorsmod.Register(DefaultCodespace, 13, "entry point not implemented")
)
