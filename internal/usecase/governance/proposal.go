package governance

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	governancedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/governance"
)

var zeroTitleHash = make([]byte, domain.TitleHashSize)

// CreateProposal списывает комиссию по типу предложения в казну и открывает голосование
func (governanceUc *DefaultGovernanceUsecase) CreateProposal(ctx context.Context, caller domain.Principal, input *governancedto.CreateProposalInput) (*domain.Proposal, error) {
	kind := domain.ProposalKind(input.Kind)

	start := time.Now()
	var proposal *domain.Proposal
	err := governanceUc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		cfg, err := governanceUc.governanceRepo.GetDaoConfigForUpdate(ctx)
		if err != nil {
			return err
		}
		if cfg.Paused {
			return domain.ErrPaused
		}
		if len(input.URI) > domain.MaxURILength {
			return domain.ErrUriTooLong
		}
		if !kind.Valid() {
			return domain.ErrInvalidProposalKind
		}
		if len(input.TitleHash) != domain.TitleHashSize || bytes.Equal(input.TitleHash, zeroTitleHash) {
			return domain.ErrInvalidTitleHash
		}
		if !cfg.ValidWindow(input.Window) {
			return domain.ErrInvalidWindow
		}
		member, err := governanceUc.member(ctx, caller.ID)
		if err != nil {
			return err
		}
		fee := discounted(cfg, member, cfg.ProposalFee(kind))

		now := governanceUc.clock.Now()
		id := cfg.ProposalCount
		cfg.ProposalCount++
		cfg.UpdatedAt = now

		proposal = &domain.Proposal{
			ID:        id,
			Key:       domain.ProposalKey(id),
			Creator:   caller.ID,
			Kind:      kind,
			URI:       input.URI,
			TitleHash: bytes.Clone(input.TitleHash),
			State:     domain.ProposalActive,
			FeePaid:   fee,
			OpensAt:   now,
			ClosesAt:  now.Add(input.Window),
		}
		if err := governanceUc.governanceRepo.CreateProposal(ctx, proposal); err != nil {
			return fmt.Errorf("create proposal: %w", err)
		}
		if err := governanceUc.governanceRepo.UpdateDaoConfig(ctx, cfg); err != nil {
			return fmt.Errorf("update dao config: %w", err)
		}
		event := proposalEvent(domain.EventProposalCreated, proposal, now, map[string]any{
			"creator":   caller.ID,
			"kind":      string(kind),
			"uri":       input.URI,
			"fee":       fee,
			"closes_at": proposal.ClosesAt,
		})
		if err := governanceUc.outbox.AppendEvents(ctx, event); err != nil {
			return fmt.Errorf("append events: %w", err)
		}
		return governanceUc.processTransfer(ctx, &feeTransfer{From: caller.ID, To: cfg.Treasury, Amount: fee})
	})
	governanceUc.metrics.RecordOperation("governance", "create_proposal", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, err
	}

	governanceUc.metrics.RecordProposalCreated(string(kind))
	governanceUc.metrics.RecordFee("proposal", proposal.FeePaid)
	governanceUc.logger.Info("proposal created",
		slog.Uint64("proposal_id", proposal.ID),
		slog.String("creator", caller.ID),
		slog.String("kind", string(kind)),
		slog.Time("closes_at", proposal.ClosesAt),
	)
	return proposal, nil
}

// CancelProposal: создатель в течение grace-периода без голосов, администратор - пока идет голосование
func (governanceUc *DefaultGovernanceUsecase) CancelProposal(ctx context.Context, caller domain.Principal, proposalID uint64) (*domain.Proposal, error) {
	proposal, err := governanceUc.processProposalOperation(ctx, "cancel_proposal", proposalID,
		func(ctx context.Context, cfg *domain.DaoConfig, proposal *domain.Proposal, now time.Time) (*feeTransfer, []domain.Event, error) {
			if proposal.State != domain.ProposalActive {
				return nil, nil, domain.ErrProposalNotActive
			}
			switch caller.ID {
			case cfg.Admin:
			case proposal.Creator:
				if now.Sub(proposal.OpensAt) > cfg.CancelGrace || proposal.TallyYes+proposal.TallyNo > 0 {
					return nil, nil, domain.ErrCancelWindowClosed
				}
			default:
				return nil, nil, domain.ErrUnauthorized
			}
			proposal.State = domain.ProposalCanceled
			finalized := now
			proposal.FinalizedAt = &finalized
			return nil, []domain.Event{
				proposalEvent(domain.EventProposalCanceled, proposal, now, map[string]any{"canceled_by": caller.ID}),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	governanceUc.metrics.RecordProposalFinalized(string(proposal.State))
	governanceUc.logger.Info("proposal canceled", slog.Uint64("proposal_id", proposal.ID), slog.String("canceled_by", caller.ID))
	return proposal, nil
}

// ExecuteProposal отмечает принятое предложение исполненным после задержки
func (governanceUc *DefaultGovernanceUsecase) ExecuteProposal(ctx context.Context, caller domain.Principal, proposalID uint64) (*domain.Proposal, error) {
	proposal, err := governanceUc.processProposalOperation(ctx, "execute_proposal", proposalID,
		func(ctx context.Context, cfg *domain.DaoConfig, proposal *domain.Proposal, now time.Time) (*feeTransfer, []domain.Event, error) {
			if caller.ID != cfg.Admin {
				return nil, nil, domain.ErrUnauthorized
			}
			if proposal.State != domain.ProposalPassed {
				return nil, nil, domain.ErrProposalNotPassed
			}
			if now.Before(proposal.ClosesAt.Add(cfg.ExecutionDelay)) {
				return nil, nil, domain.ErrExecutionDelayNotMet
			}
			proposal.State = domain.ProposalExecuted
			executed := now
			proposal.ExecutedAt = &executed
			return nil, []domain.Event{
				proposalEvent(domain.EventProposalExecuted, proposal, now, map[string]any{"executed_by": caller.ID}),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	governanceUc.logger.Info("proposal executed", slog.Uint64("proposal_id", proposal.ID))
	return proposal, nil
}
