package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/signature"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultLedger хранит балансы и удержания в той же базе, что и сделки,
// поэтому движение средств коммитится вместе со сменой статуса.
// Списание и зачисление - атомарные инкременты по строке счета.
type DefaultLedger struct {
	db *gorm.DB
}

func NewDefaultLedger(db *gorm.DB) *DefaultLedger {
	return &DefaultLedger{db: db}
}

func (l *DefaultLedger) Deposit(ctx context.Context, account string, amount uint64) error {
	return l.credit(conn(ctx, l.db), account, amount)
}

func (l *DefaultLedger) Balance(ctx context.Context, account string) (uint64, error) {
	var balance models.BalanceModel
	err := conn(ctx, l.db).Where("account = ?", account).Limit(1).Find(&balance).Error
	if err != nil {
		return 0, err
	}
	return balance.Amount, nil
}

func (l *DefaultLedger) Transfer(ctx context.Context, from, to string, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	db := conn(ctx, l.db)
	// блокируем оба счета в одном порядке
	var locked []models.BalanceModel
	if err := db.Clauses(forUpdate).
		Where("account IN ?", []string{from, to}).
		Order("account ASC").
		Find(&locked).Error; err != nil {
		return err
	}
	if err := l.debit(db, from, amount); err != nil {
		return fmt.Errorf("transfer from %s: %w", from, err)
	}
	return l.credit(db, to, amount)
}

func (l *DefaultLedger) Hold(ctx context.Context, account, holdID string, amount uint64) error {
	db := conn(ctx, l.db)
	hold := &models.HoldModel{ID: holdID, Account: account, Amount: amount, CreatedAt: time.Now().UTC()}
	if err := db.Create(hold).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("hold %s already exists", holdID)
		}
		return err
	}
	if err := l.debit(db, account, amount); err != nil {
		return fmt.Errorf("hold for %s: %w", account, err)
	}
	return nil
}

func (l *DefaultLedger) Release(ctx context.Context, holdID string, payouts ...domain.Payout) error {
	db := conn(ctx, l.db)
	var hold models.HoldModel
	if err := db.Clauses(forUpdate).First(&hold, "id = ?", holdID).Error; err != nil {
		return notFound(err, domain.ErrHoldNotFound)
	}
	total, ok := domain.SumPayouts(payouts)
	if !ok || total != hold.Amount {
		return fmt.Errorf("release %s: %w", holdID, domain.ErrHoldMismatch)
	}
	if err := db.Delete(&models.HoldModel{}, "id = ?", holdID).Error; err != nil {
		return err
	}

	// зачисления в порядке счетов, чтобы параллельные релизы не взаимоблокировались
	sorted := append([]domain.Payout(nil), payouts...)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].To < sorted[b].To })
	for _, p := range sorted {
		if err := l.credit(db, p.To, p.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (l *DefaultLedger) VerifySignature(pubKey, payload, sig []byte) bool {
	return signature.Verify(pubKey, payload, sig)
}

func (l *DefaultLedger) debit(db *gorm.DB, account string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	res := db.Model(&models.BalanceModel{}).
		Where("account = ? AND amount >= ?", account, amount).
		Updates(map[string]any{
			"amount":     gorm.Expr("amount - ?", amount),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInsufficientFunds
	}
	return nil
}

func (l *DefaultLedger) credit(db *gorm.DB, account string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	now := time.Now().UTC()
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account"}},
		DoUpdates: clause.Assignments(map[string]any{
			"amount":     gorm.Expr("ledger_balances.amount + EXCLUDED.amount"),
			"updated_at": now,
		}),
	}).Create(&models.BalanceModel{Account: account, Amount: amount, UpdatedAt: now}).Error
}
