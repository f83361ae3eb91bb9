package escrow

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	escrowdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/escrow"
)

// CompleteEscrow переводит всю удержанную сумму фрилансеру и закрывает сделку
func (escrowUc *DefaultEscrowUsecase) CompleteEscrow(ctx context.Context, caller domain.Principal, ref escrowdto.EscrowRef) (*domain.EscrowJob, error) {
	var released uint64
	res, err := escrowUc.processEscrowOperation(ctx, "complete", domain.EscrowKey(ref.Client, ref.ID),
		func(job *domain.EscrowJob, now time.Time) (*LedgerOperation, []domain.Event, error) {
			if caller.ID != job.Client {
				return nil, nil, domain.ErrUnauthorized
			}
			if job.State != domain.EscrowActive {
				return nil, nil, domain.ErrInvalidState
			}
			released = job.HeldAmount
			ledgerOp := releaseAll(job, job.Freelancer)
			closeJob(job, domain.EscrowCompleted, now)
			return ledgerOp, []domain.Event{
				escrowEvent(domain.EventEscrowCompleted, job, now, map[string]any{
					"freelancer": job.Freelancer,
					"amount":     released,
				}),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	escrowUc.recordTransition(res, released)
	escrowUc.logger.Info("escrow completed",
		slog.String("escrow_key", res.job.Key),
		slog.Uint64("amount", released),
	)
	return res.job, nil
}
