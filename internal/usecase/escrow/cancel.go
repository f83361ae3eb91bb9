package escrow

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	escrowdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/escrow"
)

// CancelEscrow возвращает удержанную сумму клиенту.
// PROPOSED и AWAITING_SIGNATURES - отменяет только клиент, ACTIVE - любая из сторон.
func (escrowUc *DefaultEscrowUsecase) CancelEscrow(ctx context.Context, caller domain.Principal, ref escrowdto.EscrowRef) (*domain.EscrowJob, error) {
	var refunded uint64
	res, err := escrowUc.processEscrowOperation(ctx, "cancel", domain.EscrowKey(ref.Client, ref.ID),
		func(job *domain.EscrowJob, now time.Time) (*LedgerOperation, []domain.Event, error) {
			switch job.State {
			case domain.EscrowProposed, domain.EscrowAwaitingSignatures:
				if caller.ID != job.Client {
					return nil, nil, domain.ErrUnauthorized
				}
			case domain.EscrowActive:
				if !job.IsParty(caller.ID) {
					return nil, nil, domain.ErrUnauthorized
				}
			default:
				return nil, nil, domain.ErrInvalidState
			}
			refunded = job.HeldAmount
			ledgerOp := releaseAll(job, job.Client)
			job.RefundedAmount = refunded
			closeJob(job, domain.EscrowCanceled, now)
			return ledgerOp, []domain.Event{
				escrowEvent(domain.EventEscrowCanceled, job, now, map[string]any{
					"canceled_by": caller.ID,
					"refunded":    refunded,
				}),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	escrowUc.recordTransition(res, refunded)
	escrowUc.logger.Info("escrow canceled",
		slog.String("escrow_key", res.job.Key),
		slog.String("canceled_by", caller.ID),
	)
	return res.job, nil
}
