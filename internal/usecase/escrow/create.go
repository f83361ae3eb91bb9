package escrow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	escrowdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/escrow"
)

// CreateEscrow открывает сделку в статусе PROPOSED и сразу удерживает сумму клиента
func (escrowUc *DefaultEscrowUsecase) CreateEscrow(ctx context.Context, caller domain.Principal, input *escrowdto.CreateEscrowInput) (*domain.EscrowJob, error) {
	if input.Amount < escrowUc.minAmount {
		return nil, domain.ErrAmountTooSmall
	}
	if input.Freelancer == "" || input.Freelancer == caller.ID {
		return nil, domain.ErrInvalidFreelancer
	}

	now := escrowUc.clock.Now()
	job := &domain.EscrowJob{
		Key:        domain.EscrowKey(caller.ID, input.ID),
		ID:         input.ID,
		Client:     caller.ID,
		Freelancer: input.Freelancer,
		Amount:     input.Amount,
		HeldAmount: input.Amount,
		State:      domain.EscrowProposed,
		Deadline:   input.Deadline,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	start := time.Now()
	err := escrowUc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := escrowUc.escrowRepo.CreateEscrow(ctx, job); err != nil {
			return err
		}
		event := escrowEvent(domain.EventEscrowCreated, job, now, map[string]any{
			"freelancer": job.Freelancer,
			"amount":     job.Amount,
		})
		if err := escrowUc.outbox.AppendEvents(ctx, event); err != nil {
			return fmt.Errorf("append events: %w", err)
		}
		return escrowUc.processLedgerOperation(ctx, &LedgerOperation{
			Type:    "hold",
			Account: job.Client,
			HoldID:  job.Key,
			Amount:  job.Amount,
		})
	})
	escrowUc.metrics.RecordOperation("escrow", "create", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, err
	}

	escrowUc.metrics.RecordEscrowCreated(job.Amount, job.Deadline != nil)
	escrowUc.logger.Info("escrow proposed",
		slog.String("escrow_key", job.Key),
		slog.String("client", job.Client),
		slog.String("freelancer", job.Freelancer),
		slog.Uint64("amount", job.Amount),
	)
	return job, nil
}
