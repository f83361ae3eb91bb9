package models

import "time"

type DaoConfigModel struct {
	ID               int `gorm:"primaryKey"`
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
	UpdatedAt        time.Time `gorm:"autoUpdateTime:false"`
}

func (DaoConfigModel) TableName() string {
	return "dao_config"
}

type ProposalModel struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement:false"`
	Key         string `gorm:"uniqueIndex"`
	Creator     string `gorm:"index"`
	Kind        string
	URI         string
	TitleHash   []byte
	State       string `gorm:"index"`
	TallyYes    uint64
	TallyNo     uint64
	FeePaid     uint64
	OpensAt     time.Time
	ClosesAt    time.Time `gorm:"index"`
	FinalizedAt *time.Time
	ExecutedAt  *time.Time
}

func (ProposalModel) TableName() string {
	return "proposals"
}

type GovernanceVoteModel struct {
	Key        string `gorm:"primaryKey"`
	ProposalID uint64 `gorm:"uniqueIndex:idx_governance_vote_voter"`
	Voter      string `gorm:"uniqueIndex:idx_governance_vote_voter"`
	Choice     string
	Weight     uint64
	PaidFee    uint64
	CastAt     time.Time
}

func (GovernanceVoteModel) TableName() string {
	return "governance_votes"
}

type MemberModel struct {
	Account         string `gorm:"primaryKey"`
	Premium         bool
	ReputationScore uint64
	JoinedAt        time.Time
}

func (MemberModel) TableName() string {
	return "governance_members"
}
