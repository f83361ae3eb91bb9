package dispute

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
)

// OpenDispute открывает диспут. Администратор открывает бесплатно, сторона
// спора платит комиссию в казну. Связанная сделка переводится в DISPUTED.
func (disputeUc *DefaultDisputeUsecase) OpenDispute(ctx context.Context, caller domain.Principal, input *disputedto.OpenDisputeInput) (*domain.Dispute, error) {
	reason := domain.DisputeReason(input.Reason)
	if !reason.Valid() {
		return nil, domain.ErrInvalidReason
	}
	if len(input.URI) > domain.MaxURILength {
		return nil, domain.ErrUriTooLong
	}
	if err := validateParties(input.Parties); err != nil {
		return nil, err
	}

	start := time.Now()
	var (
		dispute *domain.Dispute
		feePaid uint64
	)
	err := disputeUc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		cfg, err := disputeUc.disputeRepo.GetArbitrationConfigForUpdate(ctx)
		if err != nil {
			return err
		}
		isAdmin := caller.ID == cfg.Admin
		if !isAdmin && !slices.Contains(input.Parties, caller.ID) {
			return domain.ErrUnauthorized
		}
		if !isAdmin {
			if input.Fee < cfg.DisputeFee {
				return domain.ErrInsufficientDisputeFee
			}
			feePaid = cfg.DisputeFee
		}

		now := disputeUc.clock.Now()
		id := cfg.DisputeCount
		cfg.DisputeCount++

		parties := slices.Clone(input.Parties)
		var escrowKey string
		if input.Escrow != nil {
			escrowKey = domain.EscrowKey(input.Escrow.Client, input.Escrow.ID)
			job, err := disputeUc.escrows.GetEscrowByKey(ctx, escrowKey)
			if err != nil {
				return err
			}
			if !slices.Contains(parties, job.Client) || !slices.Contains(parties, job.Freelancer) {
				return domain.ErrInvalidParties
			}
			parties = orderParties(parties, job.Client, job.Freelancer)
			if _, err := disputeUc.escrows.MarkDisputed(ctx, escrowKey, id); err != nil {
				return err
			}
		}

		dispute = &domain.Dispute{
			ID:             id,
			Key:            domain.DisputeKey(id),
			Opener:         caller.ID,
			Parties:        parties,
			EscrowKey:      escrowKey,
			URI:            input.URI,
			Reason:         reason,
			State:          domain.DisputePending,
			RequiredQuorum: cfg.DefaultQuorum,
			FeePaid:        feePaid,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := disputeUc.disputeRepo.CreateDispute(ctx, dispute); err != nil {
			return fmt.Errorf("create dispute: %w", err)
		}
		cfg.UpdatedAt = now
		if err := disputeUc.disputeRepo.UpdateArbitrationConfig(ctx, cfg); err != nil {
			return fmt.Errorf("update arbitration config: %w", err)
		}
		event := disputeEvent(domain.EventDisputeCreated, dispute, now, map[string]any{
			"opener":     caller.ID,
			"parties":    parties,
			"escrow_key": escrowKey,
			"uri":        input.URI,
			"fee":        feePaid,
		})
		if err := disputeUc.outbox.AppendEvents(ctx, event); err != nil {
			return fmt.Errorf("append events: %w", err)
		}
		if feePaid > 0 {
			if err := disputeUc.ledger.Transfer(ctx, caller.ID, cfg.Treasury, feePaid); err != nil {
				return fmt.Errorf("charge dispute fee: %w", err)
			}
		}
		return nil
	})
	disputeUc.metrics.RecordOperation("dispute", "open", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, err
	}

	disputeUc.metrics.RecordDisputeOpened(string(reason), dispute.Linked())
	disputeUc.metrics.RecordFee("dispute", feePaid)
	disputeUc.logger.Info("dispute opened",
		slog.Uint64("dispute_id", dispute.ID),
		slog.String("reason", string(reason)),
		slog.String("opener", caller.ID),
		slog.String("escrow_key", dispute.EscrowKey),
	)
	return dispute, nil
}

func validateParties(parties []string) error {
	if len(parties) < domain.MinParties || len(parties) > domain.MaxParties {
		return domain.ErrInvalidParties
	}
	seen := make(map[string]struct{}, len(parties))
	for _, p := range parties {
		if p == "" {
			return domain.ErrInvalidParties
		}
		if _, ok := seen[p]; ok {
			return domain.ErrInvalidParties
		}
		seen[p] = struct{}{}
	}
	return nil
}

// orderParties puts the client first and the freelancer second.
func orderParties(parties []string, client, freelancer string) []string {
	ordered := []string{client, freelancer}
	for _, p := range parties {
		if p != client && p != freelancer {
			ordered = append(ordered, p)
		}
	}
	return ordered
}
