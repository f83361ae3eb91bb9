package governance

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// FinalizeProposal закрывает голосование после closes_at.
// PASSED только если "за" больше "против" и есть хотя бы один голос.
func (governanceUc *DefaultGovernanceUsecase) FinalizeProposal(ctx context.Context, proposalID uint64) (*domain.Proposal, error) {
	proposal, err := governanceUc.processProposalOperation(ctx, "finalize_proposal", proposalID,
		func(ctx context.Context, cfg *domain.DaoConfig, proposal *domain.Proposal, now time.Time) (*feeTransfer, []domain.Event, error) {
			if proposal.State != domain.ProposalActive {
				return nil, nil, domain.ErrProposalNotActive
			}
			if now.Before(proposal.ClosesAt) {
				return nil, nil, domain.ErrVotingStillActive
			}
			proposal.State = outcome(proposal)
			finalized := now
			proposal.FinalizedAt = &finalized
			return nil, []domain.Event{proposalEvent(domain.EventProposalFinalized, proposal, now, map[string]any{
				"tally_yes": proposal.TallyYes,
				"tally_no":  proposal.TallyNo,
			})}, nil
		})
	if err != nil {
		return nil, err
	}
	governanceUc.metrics.RecordProposalFinalized(string(proposal.State))
	governanceUc.logger.Info("proposal finalized",
		slog.Uint64("proposal_id", proposal.ID),
		slog.String("state", string(proposal.State)),
		slog.Uint64("tally_yes", proposal.TallyYes),
		slog.Uint64("tally_no", proposal.TallyNo),
	)
	return proposal, nil
}

func outcome(proposal *domain.Proposal) domain.ProposalState {
	if proposal.TallyYes+proposal.TallyNo > 0 && proposal.TallyYes > proposal.TallyNo {
		return domain.ProposalPassed
	}
	return domain.ProposalFailed
}

// FinalizeExpiredProposals - фоновая задача, закрывает все истекшие голосования
func (governanceUc *DefaultGovernanceUsecase) FinalizeExpiredProposals(ctx context.Context) (int, error) {
	now := governanceUc.clock.Now()
	expired, err := governanceUc.governanceRepo.ListProposals(ctx, domain.ProposalFilter{
		States:       []domain.ProposalState{domain.ProposalActive},
		ClosedBefore: &now,
	})
	if err != nil {
		return 0, err
	}
	finalized := 0
	for _, p := range expired {
		if err := ctx.Err(); err != nil {
			return finalized, err
		}
		if _, err := governanceUc.FinalizeProposal(ctx, p.ID); err != nil {
			governanceUc.logger.Error("failed to finalize proposal", slog.Uint64("proposal_id", p.ID), slog.String("error", err.Error()))
			continue
		}
		finalized++
	}
	return finalized, nil
}
