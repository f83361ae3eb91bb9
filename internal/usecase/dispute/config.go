package dispute

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

func (disputeUc *DefaultDisputeUsecase) AddDaoMember(ctx context.Context, caller domain.Principal, account string) error {
	if account == "" {
		return domain.ErrNotDaoMember
	}
	return disputeUc.changeMembership(ctx, caller, account, true)
}

func (disputeUc *DefaultDisputeUsecase) RemoveDaoMember(ctx context.Context, caller domain.Principal, account string) error {
	return disputeUc.changeMembership(ctx, caller, account, false)
}

func (disputeUc *DefaultDisputeUsecase) changeMembership(ctx context.Context, caller domain.Principal, account string, add bool) error {
	operation, eventType := "remove_member", domain.EventDaoMemberRemoved
	if add {
		operation, eventType = "add_member", domain.EventDaoMemberAdded
	}
	start := time.Now()
	err := disputeUc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := disputeUc.requireAdmin(ctx, caller); err != nil {
			return err
		}
		now := disputeUc.clock.Now()
		if add {
			if err := disputeUc.disputeRepo.AddDaoMember(ctx, account, now); err != nil {
				return err
			}
		} else {
			if err := disputeUc.disputeRepo.RemoveDaoMember(ctx, account); err != nil {
				return err
			}
		}
		event := configEvent(eventType, now, map[string]any{"member": account})
		if err := disputeUc.outbox.AppendEvents(ctx, event); err != nil {
			return fmt.Errorf("append events: %w", err)
		}
		return nil
	})
	disputeUc.metrics.RecordOperation("dispute", operation, time.Since(start).Seconds(), err)
	if err != nil {
		return err
	}
	disputeUc.logger.Info("dao membership changed", slog.String("member", account), slog.Bool("added", add))
	return nil
}

func (disputeUc *DefaultDisputeUsecase) SetQuorum(ctx context.Context, caller domain.Principal, quorum uint8) (*domain.ArbitrationConfig, error) {
	return disputeUc.processConfigOperation(ctx, "set_quorum", caller,
		func(ctx context.Context, cfg *domain.ArbitrationConfig, now time.Time) ([]domain.Event, error) {
			if quorum == 0 || quorum > domain.MaxPanelSize {
				return nil, domain.ErrInvalidQuorum
			}
			old := cfg.DefaultQuorum
			cfg.DefaultQuorum = quorum
			return []domain.Event{
				configEvent(domain.EventQuorumUpdated, now, map[string]any{"old": old, "new": quorum}),
			}, nil
		})
}

func (disputeUc *DefaultDisputeUsecase) SetDisputeCreationFee(ctx context.Context, caller domain.Principal, fee uint64) (*domain.ArbitrationConfig, error) {
	return disputeUc.processConfigOperation(ctx, "set_fee", caller,
		func(ctx context.Context, cfg *domain.ArbitrationConfig, now time.Time) ([]domain.Event, error) {
			old := cfg.DisputeFee
			cfg.DisputeFee = fee
			return []domain.Event{
				configEvent(domain.EventDisputeFeeUpdated, now, map[string]any{"old": old, "new": fee}),
			}, nil
		})
}
