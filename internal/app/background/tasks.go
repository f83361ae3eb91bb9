package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	publisher "github.com/LavaJover/shvark-escrow-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	"golang.org/x/sync/errgroup"
)

type Intervals struct {
	ProposalSweep time.Duration
	AutoResolve   time.Duration
	Outbox        time.Duration
}

// OutboxRelay переносит события outbox в брокер
type OutboxRelay interface {
	Run(ctx context.Context, interval time.Duration)
}

type BackgroundTasks struct {
	DisputeUsecase    usecase.DisputeUsecase
	GovernanceUsecase usecase.GovernanceUsecase
	Relay             OutboxRelay
	Subscriber        domain.SubscriberPort
	Stakes            domain.StakeWriter
	StakeGroupID      string
	Intervals         Intervals
	Logger            *slog.Logger
}

func NewBackgroundTasks(
	disputeUC usecase.DisputeUsecase,
	governanceUC usecase.GovernanceUsecase,
	relay OutboxRelay,
	subscriber domain.SubscriberPort,
	stakes domain.StakeWriter,
	stakeGroupID string,
	intervals Intervals,
	logger *slog.Logger,
) *BackgroundTasks {
	return &BackgroundTasks{
		DisputeUsecase:    disputeUC,
		GovernanceUsecase: governanceUC,
		Relay:             relay,
		Subscriber:        subscriber,
		Stakes:            stakes,
		StakeGroupID:      stakeGroupID,
		Intervals:         intervals,
		Logger:            logger.With("component", "background"),
	}
}

// StartAll запускает воркеры в группе g, они завершаются с отменой ctx
func (bt *BackgroundTasks) StartAll(ctx context.Context, g *errgroup.Group) {
	g.Go(func() error {
		bt.startProposalSweep(ctx)
		return nil
	})
	g.Go(func() error {
		bt.startAutoResolveDisputes(ctx)
		return nil
	})
	if bt.Relay != nil {
		g.Go(func() error {
			bt.Relay.Run(ctx, bt.Intervals.Outbox)
			return nil
		})
	}
	if bt.Subscriber != nil && bt.Stakes != nil {
		g.Go(func() error {
			return bt.consumeStakeEvents(ctx)
		})
	}
}

func (bt *BackgroundTasks) startProposalSweep(ctx context.Context) {
	ticker := time.NewTicker(bt.Intervals.ProposalSweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := bt.GovernanceUsecase.FinalizeExpiredProposals(ctx)
			if err != nil {
				bt.Logger.Error("proposal sweep failed", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				bt.Logger.Info("expired proposals finalized", slog.Int("count", n))
			}
		}
	}
}

func (bt *BackgroundTasks) startAutoResolveDisputes(ctx context.Context) {
	ticker := time.NewTicker(bt.Intervals.AutoResolve)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := bt.DisputeUsecase.AutoResolvePendingDisputes(ctx)
			if err != nil {
				bt.Logger.Error("auto-resolve failed", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				bt.Logger.Info("late delivery disputes resolved", slog.Int("count", n))
			}
		}
	}
}

// consumeStakeEvents применяет обновления стейка из топика stake-events
func (bt *BackgroundTasks) consumeStakeEvents(ctx context.Context) error {
	msgs, err := bt.Subscriber.Subscribe(ctx, publisher.StakeTopic, bt.StakeGroupID)
	if err != nil {
		return err
	}
	for msg := range msgs {
		event, err := publisher.DecodeStakeEvent(msg)
		if err != nil || event.Account == "" {
			bt.Logger.Warn("skipping malformed stake event", slog.String("key", string(msg.Key)))
			continue
		}
		if err := bt.Stakes.SetStake(ctx, event.Account, event.Amount); err != nil {
			bt.Logger.Error("failed to apply stake event",
				slog.String("account", event.Account),
				slog.String("error", err.Error()),
			)
			continue
		}
		bt.Logger.Debug("stake updated", slog.String("account", event.Account), slog.Uint64("amount", event.Amount))
	}
	return nil
}
