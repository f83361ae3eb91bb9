package dispute

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// CancelDispute: инициатор - пока PENDING, администратор - в любом незавершенном статусе
func (disputeUc *DefaultDisputeUsecase) CancelDispute(ctx context.Context, caller domain.Principal, disputeID uint64) (*domain.Dispute, error) {
	dispute, err := disputeUc.processDisputeOperation(ctx, "cancel", disputeID,
		func(ctx context.Context, dispute *domain.Dispute, now time.Time) ([]domain.Event, error) {
			if !dispute.State.Open() {
				return nil, domain.ErrInvalidDisputeState
			}
			cfg, err := disputeUc.disputeRepo.GetArbitrationConfig(ctx)
			if err != nil {
				return nil, err
			}
			isAdmin := caller.ID == cfg.Admin
			isOpener := caller.ID == dispute.Opener && dispute.State == domain.DisputePending
			if !isAdmin && !isOpener {
				return nil, domain.ErrUnauthorizedCancel
			}
			if dispute.Linked() {
				if _, err := disputeUc.escrows.Reinstate(ctx, dispute.EscrowKey, dispute.ID); err != nil {
					return nil, err
				}
			}
			closeDispute(dispute, domain.DisputeCanceled, now)
			return []domain.Event{
				disputeEvent(domain.EventDisputeCanceled, dispute, now, map[string]any{"canceled_by": caller.ID}),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	disputeUc.metrics.RecordDisputeCanceled()
	disputeUc.logger.Info("dispute canceled", slog.Uint64("dispute_id", dispute.ID), slog.String("canceled_by", caller.ID))
	return dispute, nil
}
