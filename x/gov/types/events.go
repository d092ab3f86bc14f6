package types

// gov module event types
const (
	EventTypeProposalVote = "proposal_vote"

	AttributeKeyProposalID = "proposal_id"
	AttributeKeyVoter      = "voter"
	AttributeKeyOption     = "option"
)
