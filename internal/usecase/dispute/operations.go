package dispute

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
)

////////////////////// Транзакционные операции с диспутом //////////////////////////

// disputeMutation validates and mutates a locked dispute. It may call the
// repositories and the escrow settler; they all join the same transaction.
type disputeMutation func(ctx context.Context, dispute *domain.Dispute, now time.Time) ([]domain.Event, error)

// processDisputeOperation - базовая функция для операций над существующим диспутом
func (disputeUc *DefaultDisputeUsecase) processDisputeOperation(ctx context.Context, operation string, disputeID uint64, mutate disputeMutation) (*domain.Dispute, error) {
	start := time.Now()
	var result *domain.Dispute
	err := disputeUc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		dispute, err := disputeUc.disputeRepo.GetDisputeForUpdate(ctx, disputeID)
		if err != nil {
			return err
		}
		now := disputeUc.clock.Now()
		events, err := mutate(ctx, dispute, now)
		if err != nil {
			return err
		}
		dispute.UpdatedAt = now
		if err := disputeUc.disputeRepo.UpdateDispute(ctx, dispute); err != nil {
			return fmt.Errorf("update dispute: %w", err)
		}
		if err := disputeUc.outbox.AppendEvents(ctx, events...); err != nil {
			return fmt.Errorf("append events: %w", err)
		}
		result = dispute
		return nil
	})
	disputeUc.metrics.RecordOperation("dispute", operation, time.Since(start).Seconds(), err)
	if err != nil {
		disputeUc.logger.Debug("dispute operation rejected", "operation", operation, "dispute_id", disputeID, "error", err)
		return nil, err
	}
	return result, nil
}

// processConfigOperation - операции администратора над конфигом арбитража
func (disputeUc *DefaultDisputeUsecase) processConfigOperation(ctx context.Context, operation string, caller domain.Principal, mutate func(ctx context.Context, cfg *domain.ArbitrationConfig, now time.Time) ([]domain.Event, error)) (*domain.ArbitrationConfig, error) {
	start := time.Now()
	var result *domain.ArbitrationConfig
	err := disputeUc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		cfg, err := disputeUc.disputeRepo.GetArbitrationConfigForUpdate(ctx)
		if err != nil {
			return err
		}
		if caller.ID != cfg.Admin {
			return domain.ErrUnauthorized
		}
		now := disputeUc.clock.Now()
		events, err := mutate(ctx, cfg, now)
		if err != nil {
			return err
		}
		cfg.UpdatedAt = now
		if err := disputeUc.disputeRepo.UpdateArbitrationConfig(ctx, cfg); err != nil {
			return fmt.Errorf("update arbitration config: %w", err)
		}
		if err := disputeUc.outbox.AppendEvents(ctx, events...); err != nil {
			return fmt.Errorf("append events: %w", err)
		}
		result = cfg
		return nil
	})
	disputeUc.metrics.RecordOperation("dispute", operation, time.Since(start).Seconds(), err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (disputeUc *DefaultDisputeUsecase) requireAdmin(ctx context.Context, caller domain.Principal) (*domain.ArbitrationConfig, error) {
	cfg, err := disputeUc.disputeRepo.GetArbitrationConfig(ctx)
	if err != nil {
		return nil, err
	}
	if caller.ID != cfg.Admin {
		return nil, domain.ErrUnauthorized
	}
	return cfg, nil
}

func disputeEvent(typ domain.EventType, dispute *domain.Dispute, now time.Time, payload map[string]any) domain.Event {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["dispute_id"] = dispute.ID
	payload["state"] = string(dispute.State)
	payload["reason"] = string(dispute.Reason)
	return usecase.NewEvent(typ, domain.AggregateDispute, dispute.Key, payload, now)
}

func configEvent(typ domain.EventType, now time.Time, payload map[string]any) domain.Event {
	return usecase.NewEvent(typ, domain.AggregateDispute, "arbitration", payload, now)
}

func closeDispute(dispute *domain.Dispute, state domain.DisputeState, now time.Time) {
	dispute.State = state
	closed := now
	dispute.ClosedAt = &closed
}
