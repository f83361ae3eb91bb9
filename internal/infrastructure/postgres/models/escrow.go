package models

import "time"

type EscrowJobModel struct {
	Key                 string `gorm:"primaryKey"`
	EscrowID            uint64 `gorm:"uniqueIndex:idx_escrow_client_id"`
	Client              string `gorm:"uniqueIndex:idx_escrow_client_id;index"`
	Freelancer          string `gorm:"index"`
	Amount              uint64
	HeldAmount          uint64
	RefundedAmount      uint64
	State               string `gorm:"index"`
	ClientSignature     []byte
	FreelancerSignature []byte
	SignedAt            *time.Time
	Deadline            *time.Time
	DeliveredAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time `gorm:"autoUpdateTime:false"`
	ClosedAt            *time.Time
}

func (EscrowJobModel) TableName() string {
	return "escrow_jobs"
}
