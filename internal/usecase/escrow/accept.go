package escrow

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	escrowdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/escrow"
)

func (escrowUc *DefaultEscrowUsecase) AcceptProposal(ctx context.Context, caller domain.Principal, ref escrowdto.EscrowRef) (*domain.EscrowJob, error) {
	res, err := escrowUc.processEscrowOperation(ctx, "accept", domain.EscrowKey(ref.Client, ref.ID),
		func(job *domain.EscrowJob, now time.Time) (*LedgerOperation, []domain.Event, error) {
			if caller.ID != job.Freelancer {
				return nil, nil, domain.ErrInvalidFreelancer
			}
			if job.State != domain.EscrowProposed {
				return nil, nil, domain.ErrInvalidState
			}
			job.State = domain.EscrowAwaitingSignatures
			return nil, []domain.Event{
				escrowEvent(domain.EventProposalAccepted, job, now, map[string]any{"freelancer": job.Freelancer}),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	escrowUc.recordTransition(res, 0)
	return res.job, nil
}
