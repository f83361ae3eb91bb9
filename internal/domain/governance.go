package domain

import (
	"context"
	"time"
)

const (
	TitleHashSize          = 32
	DefaultMinVoteDuration = 24 * time.Hour
	DefaultMaxVoteDuration = 7 * 24 * time.Hour
	DefaultExecutionDelay  = 24 * time.Hour
	DefaultCancelGrace     = time.Hour
)

// Eligibility flags of the DAO config.
const (
	EligibilityPremium uint8 = 1 << 0
	EligibilityStake   uint8 = 1 << 1
)

type ProposalKind string

const (
	ProposalLight ProposalKind = "LIGHT"
	ProposalMajor ProposalKind = "MAJOR"
)

func (k ProposalKind) Valid() bool {
	return k == ProposalLight || k == ProposalMajor
}

type ProposalState string

const (
	ProposalActive   ProposalState = "ACTIVE"
	ProposalPassed   ProposalState = "PASSED"
	ProposalFailed   ProposalState = "FAILED"
	ProposalCanceled ProposalState = "CANCELED"
	ProposalExecuted ProposalState = "EXECUTED"
)

type VoteChoice string

const (
	VoteYes VoteChoice = "YES"
	VoteNo  VoteChoice = "NO"
)

func (c VoteChoice) Valid() bool {
	return c == VoteYes || c == VoteNo
}

type DaoConfig struct {
	Admin            string
	Treasury         string
	LightFee         uint64
	MajorFee         uint64
	VoteFee          uint64
	MinVoteDuration  time.Duration
	MaxVoteDuration  time.Duration
	EligibilityFlags uint8
	Paused           bool
	ProposalCount    uint64
	ExecutionDelay   time.Duration
	CancelGrace      time.Duration
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (c *DaoConfig) ValidWindow(window time.Duration) bool {
	return window >= c.MinVoteDuration && window <= c.MaxVoteDuration
}

func (c *DaoConfig) ProposalFee(kind ProposalKind) uint64 {
	if kind == ProposalMajor {
		return c.MajorFee
	}
	return c.LightFee
}

func (c *DaoConfig) Has(flag uint8) bool {
	return c.EligibilityFlags&flag != 0
}

type Proposal struct {
	ID          uint64
	Key         string
	Creator     string
	Kind        ProposalKind
	URI         string
	TitleHash   []byte
	State       ProposalState
	TallyYes    uint64
	TallyNo     uint64
	FeePaid     uint64
	OpensAt     time.Time
	ClosesAt    time.Time
	FinalizedAt *time.Time
	ExecutedAt  *time.Time
}

type VoteRecord struct {
	Key        string
	ProposalID uint64
	Voter      string
	Choice     VoteChoice
	Weight     uint64
	PaidFee    uint64
	CastAt     time.Time
}

type Member struct {
	Account         string
	Premium         bool
	ReputationScore uint64
	JoinedAt        time.Time
}

type ProposalFilter struct {
	Creator string
	States  []ProposalState
	// ClosedBefore selects proposals whose voting window ended before it.
	ClosedBefore *time.Time
	Limit        int
	Offset       int
}

type GovernanceRepository interface {
	CreateDaoConfig(ctx context.Context, cfg *DaoConfig) error
	GetDaoConfig(ctx context.Context) (*DaoConfig, error)
	GetDaoConfigForUpdate(ctx context.Context) (*DaoConfig, error)
	UpdateDaoConfig(ctx context.Context, cfg *DaoConfig) error

	CreateProposal(ctx context.Context, proposal *Proposal) error
	GetProposal(ctx context.Context, id uint64) (*Proposal, error)
	GetProposalForUpdate(ctx context.Context, id uint64) (*Proposal, error)
	UpdateProposal(ctx context.Context, proposal *Proposal) error
	ListProposals(ctx context.Context, filter ProposalFilter) ([]*Proposal, error)

	CreateVote(ctx context.Context, vote *VoteRecord) error
	ListVotes(ctx context.Context, proposalID uint64) ([]*VoteRecord, error)

	GetMember(ctx context.Context, account string) (*Member, error)
	SaveMember(ctx context.Context, member *Member) error
}
