package escrow

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

////////////////////// Хуки арбитража //////////////////////////
// Вызываются внутри транзакции диспута и присоединяются к ней.

// GetEscrowByKey блокирует сделку до конца транзакции диспута
func (escrowUc *DefaultEscrowUsecase) GetEscrowByKey(ctx context.Context, key string) (*domain.EscrowJob, error) {
	return escrowUc.escrowRepo.GetEscrowForUpdate(ctx, key)
}

// MarkDisputed блокирует завершение и отмену сделки, пока идет диспут
func (escrowUc *DefaultEscrowUsecase) MarkDisputed(ctx context.Context, key string, disputeID uint64) (*domain.EscrowJob, error) {
	res, err := escrowUc.processEscrowOperation(ctx, "dispute", key,
		func(job *domain.EscrowJob, now time.Time) (*LedgerOperation, []domain.Event, error) {
			if job.State != domain.EscrowActive {
				return nil, nil, domain.ErrInvalidState
			}
			job.State = domain.EscrowDisputed
			return nil, []domain.Event{
				escrowEvent(domain.EventEscrowDisputed, job, now, map[string]any{"dispute_id": disputeID}),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return res.job, nil
}

// Reinstate возвращает сделку в ACTIVE после отклонения или отмены диспута
func (escrowUc *DefaultEscrowUsecase) Reinstate(ctx context.Context, key string, disputeID uint64) (*domain.EscrowJob, error) {
	res, err := escrowUc.processEscrowOperation(ctx, "reinstate", key,
		func(job *domain.EscrowJob, now time.Time) (*LedgerOperation, []domain.Event, error) {
			if job.State != domain.EscrowDisputed {
				return nil, nil, domain.ErrInvalidState
			}
			job.State = domain.EscrowActive
			return nil, []domain.Event{
				escrowEvent(domain.EventEscrowReinstated, job, now, map[string]any{"dispute_id": disputeID}),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return res.job, nil
}

// SettleDispute исполняет решение по диспуту: одна операция release со всеми выплатами.
// Отклоненное решение ничего не переводит и возвращает сделку в ACTIVE.
func (escrowUc *DefaultEscrowUsecase) SettleDispute(ctx context.Context, key string, disputeID uint64, judgment *domain.Judgment) (*domain.EscrowJob, error) {
	if judgment.Outcome != domain.OutcomeResolved {
		return escrowUc.Reinstate(ctx, key, disputeID)
	}
	res, err := escrowUc.processEscrowOperation(ctx, "settle", key,
		func(job *domain.EscrowJob, now time.Time) (*LedgerOperation, []domain.Event, error) {
			if job.State != domain.EscrowDisputed {
				return nil, nil, domain.ErrInvalidState
			}
			payouts := judgment.Payouts(job)
			var toClient uint64
			for _, p := range payouts {
				if p.To == job.Client {
					toClient += p.Amount
				}
			}
			ledgerOp := &LedgerOperation{Type: "release", HoldID: job.Key, Payouts: payouts}

			state := domain.EscrowCompleted
			if toClient == job.HeldAmount {
				state = domain.EscrowCanceled
			}
			job.RefundedAmount = toClient
			closeJob(job, state, now)

			legs := make([]map[string]any, 0, len(payouts))
			for _, p := range payouts {
				legs = append(legs, map[string]any{"to": p.To, "amount": p.Amount})
			}
			return ledgerOp, []domain.Event{
				escrowEvent(domain.EventEscrowSettled, job, now, map[string]any{
					"dispute_id": disputeID,
					"payouts":    legs,
				}),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return res.job, nil
}
