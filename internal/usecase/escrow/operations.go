package escrow

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
)

////////////////////// Транзакционные операции со сделкой //////////////////////////

// LedgerOperation - движение средств, которое коммитится вместе со сменой статуса
type LedgerOperation struct {
	Type    string // "hold", "release"
	Account string
	HoldID  string
	Amount  uint64
	Payouts []domain.Payout
}

// escrowMutation validates and mutates a locked job. It must not touch
// storage; everything it returns is persisted by processEscrowOperation.
type escrowMutation func(job *domain.EscrowJob, now time.Time) (*LedgerOperation, []domain.Event, error)

type operationResult struct {
	job  *domain.EscrowJob
	from domain.EscrowState
}

// processEscrowOperation - базовая функция для всех операций над существующей сделкой.
// Сделка блокируется на время транзакции; статус, события outbox и ledger
// применяются атомарно.
func (escrowUc *DefaultEscrowUsecase) processEscrowOperation(ctx context.Context, operation, key string, mutate escrowMutation) (*operationResult, error) {
	start := time.Now()
	var result operationResult
	err := escrowUc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		job, err := escrowUc.escrowRepo.GetEscrowForUpdate(ctx, key)
		if err != nil {
			return err
		}
		result.from = job.State
		now := escrowUc.clock.Now()

		ledgerOp, events, err := mutate(job, now)
		if err != nil {
			return err
		}
		job.UpdatedAt = now

		if err := escrowUc.escrowRepo.UpdateEscrow(ctx, job); err != nil {
			return fmt.Errorf("update escrow: %w", err)
		}
		if err := escrowUc.outbox.AppendEvents(ctx, events...); err != nil {
			return fmt.Errorf("append events: %w", err)
		}
		if ledgerOp != nil {
			if err := escrowUc.processLedgerOperation(ctx, ledgerOp); err != nil {
				return err
			}
		}
		result.job = job
		return nil
	})
	escrowUc.metrics.RecordOperation("escrow", operation, time.Since(start).Seconds(), err)
	if err != nil {
		escrowUc.logger.Debug("escrow operation rejected", "operation", operation, "escrow_key", key, "error", err)
		return nil, err
	}
	return &result, nil
}

// recordTransition пишет метрики после коммита
func (escrowUc *DefaultEscrowUsecase) recordTransition(res *operationResult, released uint64) {
	if res.from == res.job.State {
		return
	}
	escrowUc.metrics.RecordEscrowTransition(string(res.from), string(res.job.State))
	if res.job.State.Terminal() {
		escrowUc.metrics.RecordEscrowClosed(string(res.job.State), released)
	}
}

// processLedgerOperation - обработка операций с ledger
func (escrowUc *DefaultEscrowUsecase) processLedgerOperation(ctx context.Context, op *LedgerOperation) error {
	switch op.Type {
	case "hold":
		if err := escrowUc.ledger.Hold(ctx, op.Account, op.HoldID, op.Amount); err != nil {
			return fmt.Errorf("ledger hold: %w", err)
		}
	case "release":
		if err := escrowUc.ledger.Release(ctx, op.HoldID, op.Payouts...); err != nil {
			return fmt.Errorf("ledger release: %w", err)
		}
	default:
		return fmt.Errorf("unknown ledger operation: %s", op.Type)
	}
	return nil
}

func escrowEvent(typ domain.EventType, job *domain.EscrowJob, now time.Time, payload map[string]any) domain.Event {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["client"] = job.Client
	payload["escrow_id"] = job.ID
	payload["state"] = string(job.State)
	return usecase.NewEvent(typ, domain.AggregateEscrow, job.Key, payload, now)
}

func releaseAll(job *domain.EscrowJob, to string) *LedgerOperation {
	return &LedgerOperation{
		Type:    "release",
		HoldID:  job.Key,
		Payouts: []domain.Payout{{To: to, Amount: job.HeldAmount}},
	}
}

func closeJob(job *domain.EscrowJob, state domain.EscrowState, now time.Time) {
	job.State = state
	job.HeldAmount = 0
	closed := now
	job.ClosedAt = &closed
}
