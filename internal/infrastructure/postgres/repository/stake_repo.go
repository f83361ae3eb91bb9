package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultStakeRepository отдает вес голоса по застейканной сумме: staked / divisor, минимум 1
type DefaultStakeRepository struct {
	db      *gorm.DB
	divisor uint64
}

func NewDefaultStakeRepository(db *gorm.DB, divisor uint64) *DefaultStakeRepository {
	if divisor == 0 {
		divisor = 1
	}
	return &DefaultStakeRepository{db: db, divisor: divisor}
}

func (r *DefaultStakeRepository) SetStake(ctx context.Context, account string, amount uint64) error {
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(&models.StakeModel{Account: account, Amount: amount, UpdatedAt: time.Now().UTC()}).Error
}

func (r *DefaultStakeRepository) VoteWeight(ctx context.Context, account string) (uint64, error) {
	var stake models.StakeModel
	if err := conn(ctx, r.db).Where("account = ?", account).Limit(1).Find(&stake).Error; err != nil {
		return 0, err
	}
	if w := stake.Amount / r.divisor; w > 0 {
		return w, nil
	}
	return 1, nil
}
