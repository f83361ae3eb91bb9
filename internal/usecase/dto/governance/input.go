package governancedto

import "time"

type InitDaoConfigInput struct {
	Treasury         string
	LightFee         uint64
	MajorFee         uint64
	VoteFee          uint64
	MinVoteDuration  time.Duration
	MaxVoteDuration  time.Duration
	EligibilityFlags uint8
}

// SetParamsInput is a partial update; nil fields stay unchanged.
type SetParamsInput struct {
	LightFee         *uint64
	MajorFee         *uint64
	VoteFee          *uint64
	MinVoteDuration  *time.Duration
	MaxVoteDuration  *time.Duration
	EligibilityFlags *uint8
	ExecutionDelay   *time.Duration
	CancelGrace      *time.Duration
}

type CreateProposalInput struct {
	Kind      string
	URI       string
	TitleHash []byte
	Window    time.Duration
}

type CastVoteInput struct {
	ProposalID uint64
	Choice     string
}

type SetMemberInput struct {
	Account         string
	Premium         *bool
	ReputationScore *uint64
}

type WithdrawTreasuryInput struct {
	To     string
	Amount uint64
}

type ListProposalsInput struct {
	Creator string
	States  []string
	Page    int
	Limit   int
}
