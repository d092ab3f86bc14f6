package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

type optsFn func(*Keeper)

func (f optsFn) apply(keeper *Keeper) {
	f(keeper)
}

// WithMessageHandler is an optional constructor parameter to set a custom handler for contract messages.
// The call depth limit is still applied on top of it.
func WithMessageHandler(x Messenger) Option {
	return optsFn(func(k *Keeper) {
		k.messenger = x
	})
}

// WithMessageHandlerDecorator is an optional constructor parameter to decorate the message handler.
func WithMessageHandlerDecorator(d func(old Messenger) Messenger) Option {
	return optsFn(func(k *Keeper) {
		k.messenger = d(k.messenger)
	})
}

// WithCoinTransferrer is an optional constructor parameter to set a custom coin transferrer
func WithCoinTransferrer(x CoinTransferrer) Option {
	return optsFn(func(k *Keeper) {
		k.bank = x
	})
}

// WithMaxCallDepth sets the deepest submessage nesting allowed
func WithMaxCallDepth(x uint32) Option {
	return optsFn(func(k *Keeper) {
		k.maxCallDepth = x
	})
}

// WithMaxQueryStackSize sets the deepest contract to contract smart query nesting allowed
func WithMaxQueryStackSize(x uint32) Option {
	return optsFn(func(k *Keeper) {
		k.maxQueryStackSize = x
	})
}

// WithDuplicateCodePolicy controls whether code with a checksum already stored can be stored again.
// It is allowed by default.
func WithDuplicateCodePolicy(allow bool) Option {
	return optsFn(func(k *Keeper) {
		k.allowDuplicateCode = allow
	})
}

// WithAddressGenerator replaces the classic address scheme of Instantiate. The generator is built
// per call for the creator. A collision is reported as ErrDuplicate.
func WithAddressGenerator(x func(creator sdk.AccAddress) AddressGenerator) Option {
	return optsFn(func(k *Keeper) {
		k.addressGenerator = x
	})
}

// WithChecksumGenerator sets the checksum of stored code that does not report its own
func WithChecksumGenerator(x func(codeID uint64, creator sdk.AccAddress) []byte) Option {
	return optsFn(func(k *Keeper) {
		k.checksumGenerator = x
	})
}

// WithMetrics sets the metrics the keeper reports to
func WithMetrics(m *Metrics) Option {
	return optsFn(func(k *Keeper) {
		k.metrics = m
	})
}
