package dispute

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// ExecuteJudgment исполняет решение: выплаты по связанной сделке идут одной операцией ledger
func (disputeUc *DefaultDisputeUsecase) ExecuteJudgment(ctx context.Context, caller domain.Principal, disputeID uint64) (*domain.Dispute, error) {
	var (
		settled  *domain.EscrowJob
		released uint64
	)
	dispute, err := disputeUc.processDisputeOperation(ctx, "execute", disputeID,
		func(ctx context.Context, dispute *domain.Dispute, now time.Time) ([]domain.Event, error) {
			if _, err := disputeUc.requireAdmin(ctx, caller); err != nil {
				return nil, err
			}
			if dispute.State != domain.DisputeJudged || dispute.Judgment == nil {
				return nil, domain.ErrInvalidDisputeState
			}
			if dispute.Linked() {
				job, err := disputeUc.escrows.GetEscrowByKey(ctx, dispute.EscrowKey)
				if err != nil {
					return nil, err
				}
				released = job.HeldAmount
				settled, err = disputeUc.escrows.SettleDispute(ctx, dispute.EscrowKey, dispute.ID, dispute.Judgment)
				if err != nil {
					return nil, err
				}
			}
			closeDispute(dispute, domain.DisputeExecuted, now)
			payload := map[string]any{"outcome": string(dispute.Judgment.Outcome)}
			if settled != nil {
				payload["escrow_state"] = string(settled.State)
			}
			return []domain.Event{disputeEvent(domain.EventDisputeExecuted, dispute, now, payload)}, nil
		})
	if err != nil {
		return nil, err
	}
	if settled != nil && settled.State.Terminal() {
		disputeUc.metrics.RecordEscrowClosed(string(settled.State), released)
	}
	disputeUc.logger.Info("judgment executed", slog.Uint64("dispute_id", dispute.ID))
	return dispute, nil
}
