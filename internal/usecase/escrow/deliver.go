package escrow

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	escrowdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/escrow"
)

// MarkDelivered фиксирует время сдачи работы; используется при разборе LATE_DELIVERY
func (escrowUc *DefaultEscrowUsecase) MarkDelivered(ctx context.Context, caller domain.Principal, ref escrowdto.EscrowRef) (*domain.EscrowJob, error) {
	res, err := escrowUc.processEscrowOperation(ctx, "deliver", domain.EscrowKey(ref.Client, ref.ID),
		func(job *domain.EscrowJob, now time.Time) (*LedgerOperation, []domain.Event, error) {
			if caller.ID != job.Freelancer {
				return nil, nil, domain.ErrUnauthorized
			}
			if job.State != domain.EscrowActive {
				return nil, nil, domain.ErrInvalidState
			}
			if job.DeliveredAt != nil {
				return nil, nil, domain.ErrAlreadyDelivered
			}
			delivered := now
			job.DeliveredAt = &delivered
			return nil, []domain.Event{
				escrowEvent(domain.EventDeliveryMarked, job, now, map[string]any{
					"delivered_at": delivered,
					"late":         job.IsLate(now),
				}),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return res.job, nil
}
