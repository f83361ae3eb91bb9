package models

import (
	"time"

	"github.com/lib/pq"
)

type ArbitrationConfigModel struct {
	ID                 int `gorm:"primaryKey"`
	Admin              string
	Treasury           string
	DefaultQuorum      uint8
	DisputeFee         uint64
	DisputeCount       uint64
	PanelTTL           time.Duration
	LatePenaltyPercent uint16
	AutoJudgeOnQuorum  bool
	UpdatedAt          time.Time `gorm:"autoUpdateTime:false"`
}

func (ArbitrationConfigModel) TableName() string {
	return "arbitration_config"
}

type DaoMemberModel struct {
	Account string `gorm:"primaryKey"`
	AddedAt time.Time
}

func (DaoMemberModel) TableName() string {
	return "dao_members"
}

type DisputeModel struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement:false"`
	Key            string `gorm:"uniqueIndex"`
	Opener         string
	Parties        pq.StringArray `gorm:"type:text[]"`
	EscrowKey      string         `gorm:"index"`
	URI            string
	Reason         string `gorm:"index"`
	State          string `gorm:"index"`
	PanelSize      uint8
	RequiredQuorum uint8
	FeePaid        uint64

	// Решение, заполняется в JUDGED
	JudgmentOutcome    *string
	JudgmentWinner     *string
	JudgmentChoice     *string
	ClientSharePercent uint16
	VotesForClient     uint32
	VotesForFreelancer uint32
	JudgedAt           *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
	ClosedAt  *time.Time
}

func (DisputeModel) TableName() string {
	return "disputes"
}

type DisputePanelModel struct {
	DisputeID      uint64         `gorm:"primaryKey;autoIncrement:false"`
	Members        pq.StringArray `gorm:"type:text[]"`
	SelectionSeed  uint64         `gorm:"uniqueIndex"`
	TotalVotesCast uint32
	RequiredQuorum uint8
	FormedAt       time.Time
	ExpiresAt      time.Time
}

func (DisputePanelModel) TableName() string {
	return "dispute_panels"
}

type PanelVoteModel struct {
	Key       string `gorm:"primaryKey"`
	DisputeID uint64 `gorm:"uniqueIndex:idx_panel_vote_voter"`
	Voter     string `gorm:"uniqueIndex:idx_panel_vote_voter"`
	Choice    string
	CastAt    time.Time
}

func (PanelVoteModel) TableName() string {
	return "panel_votes"
}
