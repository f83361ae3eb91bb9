package domain

import (
	"context"
	"math/bits"
	"slices"
	"time"
)

const (
	MaxSharePercent = 100
	MaxURILength    = 200
	MinParties      = 2
	MaxParties      = 3
	MaxPanelSize    = 7
	DefaultPanelTTL = 14 * 24 * time.Hour
)

type DisputeState string

const (
	DisputePending      DisputeState = "PENDING"
	DisputePanelFormed  DisputeState = "PANEL_FORMED"
	DisputeDeliberating DisputeState = "DELIBERATING"
	DisputeJudged       DisputeState = "JUDGED"
	DisputeExecuted     DisputeState = "EXECUTED"
	DisputeCanceled     DisputeState = "CANCELED"
)

// Open reports whether the dispute has not been judged or canceled yet.
func (s DisputeState) Open() bool {
	return s == DisputePending || s == DisputePanelFormed || s == DisputeDeliberating
}

type DisputeReason string

const (
	ReasonLateDelivery DisputeReason = "LATE_DELIVERY"
	ReasonNonDelivery  DisputeReason = "NON_DELIVERY"
	ReasonQuality      DisputeReason = "QUALITY_ISSUE"
	ReasonOther        DisputeReason = "OTHER"
)

func (r DisputeReason) Valid() bool {
	switch r {
	case ReasonLateDelivery, ReasonNonDelivery, ReasonQuality, ReasonOther:
		return true
	}
	return false
}

// RequiresVote is false for reasons that are settled from job metadata alone.
func (r DisputeReason) RequiresVote() bool {
	return r != ReasonLateDelivery
}

type PanelChoice string

const (
	PanelChoiceClient     PanelChoice = "CLIENT"
	PanelChoiceFreelancer PanelChoice = "FREELANCER"
)

func (c PanelChoice) Valid() bool {
	return c == PanelChoiceClient || c == PanelChoiceFreelancer
}

type DisputeOutcome string

const (
	OutcomeResolved DisputeOutcome = "RESOLVED"
	OutcomeRejected DisputeOutcome = "REJECTED"
)

type JudgmentChoice string

const (
	JudgmentClient     JudgmentChoice = "CLIENT"
	JudgmentFreelancer JudgmentChoice = "FREELANCER"
	JudgmentSplit      JudgmentChoice = "SPLIT"
)

type Judgment struct {
	Outcome            DisputeOutcome
	Winner             *string
	Choice             JudgmentChoice
	ClientSharePercent uint16
	VotesForClient     uint32
	VotesForFreelancer uint32
	JudgedAt           time.Time
}

// Payouts splits the held escrow amount according to the judgment.
// A rejected judgment moves nothing.
func (j *Judgment) Payouts(job *EscrowJob) []Payout {
	if j.Outcome != OutcomeResolved {
		return nil
	}
	switch j.Choice {
	case JudgmentClient:
		return []Payout{{To: job.Client, Amount: job.HeldAmount}}
	case JudgmentFreelancer:
		return []Payout{{To: job.Freelancer, Amount: job.HeldAmount}}
	case JudgmentSplit:
		if j.ClientSharePercent > MaxSharePercent {
			return nil
		}
		toClient := ShareOf(job.HeldAmount, j.ClientSharePercent)
		var payouts []Payout
		if toClient > 0 {
			payouts = append(payouts, Payout{To: job.Client, Amount: toClient})
		}
		if rest := job.HeldAmount - toClient; rest > 0 {
			payouts = append(payouts, Payout{To: job.Freelancer, Amount: rest})
		}
		return payouts
	}
	return nil
}

// ShareOf returns floor(amount * percent / 100) without intermediate overflow.
// percent must not exceed MaxSharePercent.
func ShareOf(amount uint64, percent uint16) uint64 {
	hi, lo := bits.Mul64(amount, uint64(percent))
	q, _ := bits.Div64(hi, lo, MaxSharePercent)
	return q
}

type Dispute struct {
	ID             uint64
	Key            string
	Opener         string
	Parties        []string
	EscrowKey      string
	URI            string
	Reason         DisputeReason
	State          DisputeState
	PanelSize      uint8
	RequiredQuorum uint8
	FeePaid        uint64
	Judgment       *Judgment
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ClosedAt       *time.Time
}

func (d *Dispute) IsParty(account string) bool {
	return slices.Contains(d.Parties, account)
}

func (d *Dispute) Linked() bool {
	return d.EscrowKey != ""
}

type DisputePanel struct {
	DisputeID      uint64
	Members        []string
	SelectionSeed  uint64
	TotalVotesCast uint32
	RequiredQuorum uint8
	FormedAt       time.Time
	ExpiresAt      time.Time
}

func (p *DisputePanel) IsMember(account string) bool {
	return slices.Contains(p.Members, account)
}

type PanelVoteRecord struct {
	Key       string
	DisputeID uint64
	Voter     string
	Choice    PanelChoice
	CastAt    time.Time
}

// ArbitrationConfig is the singleton holding arbitration settings and the dispute id counter.
type ArbitrationConfig struct {
	Admin              string
	Treasury           string
	DefaultQuorum      uint8
	DisputeFee         uint64
	DisputeCount       uint64
	PanelTTL           time.Duration
	LatePenaltyPercent uint16
	AutoJudgeOnQuorum  bool
	UpdatedAt          time.Time
}

type DisputeFilter struct {
	Party    string
	Reason   DisputeReason
	States   []DisputeState
	OpenOnly bool
	Limit    int
	Offset   int
}

type DisputeRepository interface {
	// InitArbitrationConfig stores cfg unless a config already exists.
	InitArbitrationConfig(ctx context.Context, cfg *ArbitrationConfig) (bool, error)
	GetArbitrationConfig(ctx context.Context) (*ArbitrationConfig, error)
	GetArbitrationConfigForUpdate(ctx context.Context) (*ArbitrationConfig, error)
	UpdateArbitrationConfig(ctx context.Context, cfg *ArbitrationConfig) error

	AddDaoMember(ctx context.Context, account string, at time.Time) error
	RemoveDaoMember(ctx context.Context, account string) error
	IsDaoMember(ctx context.Context, account string) (bool, error)
	ListDaoMembers(ctx context.Context) ([]string, error)

	CreateDispute(ctx context.Context, dispute *Dispute) error
	GetDispute(ctx context.Context, id uint64) (*Dispute, error)
	GetDisputeForUpdate(ctx context.Context, id uint64) (*Dispute, error)
	UpdateDispute(ctx context.Context, dispute *Dispute) error
	ListDisputes(ctx context.Context, filter DisputeFilter) ([]*Dispute, error)

	CreatePanel(ctx context.Context, panel *DisputePanel) error
	GetPanel(ctx context.Context, disputeID uint64) (*DisputePanel, error)
	UpdatePanel(ctx context.Context, panel *DisputePanel) error

	CreatePanelVote(ctx context.Context, vote *PanelVoteRecord) error
	ListPanelVotes(ctx context.Context, disputeID uint64) ([]*PanelVoteRecord, error)
}
