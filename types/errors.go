package types

import (
	errorsmod "cosmossdk.io/errors"
)

// DefaultCodespace is the codespace of engine level errors.
const DefaultCodespace = "wasmsim"

var (
	// ErrUnsupportedMessage is returned when the router cannot resolve a message kind
	ErrUnsupportedMessage = errorsmod.Register(DefaultCodespace, 2, "unsupported message")

	// ErrInvariantViolation signals engine bookkeeping corruption. It is only ever raised by panic.
	ErrInvariantViolation = errorsmod.Register(DefaultCodespace, 3, "invariant violation")
)
