package models

import "time"

type BalanceModel struct {
	Account   string `gorm:"primaryKey"`
	Amount    uint64
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (BalanceModel) TableName() string {
	return "ledger_balances"
}

type HoldModel struct {
	ID        string `gorm:"primaryKey"`
	Account   string `gorm:"index"`
	Amount    uint64
	CreatedAt time.Time
}

func (HoldModel) TableName() string {
	return "ledger_holds"
}

type StakeModel struct {
	Account   string `gorm:"primaryKey"`
	Amount    uint64
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (StakeModel) TableName() string {
	return "stakes"
}
