package types

// distribution module event types
const (
	EventTypeWithdrawRewards    = "withdraw_delegator_reward"
	EventTypeSetWithdrawAddress = "set_withdraw_address"

	AttributeKeyValidator       = "validator"
	AttributeKeySender          = "sender"
	AttributeKeyWithdrawAddress = "withdraw_address"
)
