package types

// staking module event types
const (
	EventTypeDelegate   = "delegate"
	EventTypeUnbond     = "unbond"
	EventTypeRedelegate = "redelegate"
	EventTypeSlash      = "slash"

	AttributeKeyValidator      = "validator"
	AttributeKeySrcValidator   = "source_validator"
	AttributeKeyDstValidator   = "destination_validator"
	AttributeKeyNewShares      = "new_shares"
	AttributeKeyCompletionTime = "completion_time"
	AttributeKeyFraction       = "fraction"
)
