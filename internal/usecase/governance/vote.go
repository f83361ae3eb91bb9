package governance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	governancedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/governance"
)

// CastVote - один голос на пару (предложение, участник), комиссия за голос идет в казну
func (governanceUc *DefaultGovernanceUsecase) CastVote(ctx context.Context, caller domain.Principal, input *governancedto.CastVoteInput) (*domain.VoteRecord, error) {
	choice := domain.VoteChoice(input.Choice)
	if !choice.Valid() {
		return nil, domain.ErrInvalidChoice
	}

	var vote *domain.VoteRecord
	_, err := governanceUc.processProposalOperation(ctx, "cast_vote", input.ProposalID,
		func(ctx context.Context, cfg *domain.DaoConfig, proposal *domain.Proposal, now time.Time) (*feeTransfer, []domain.Event, error) {
			if cfg.Paused {
				return nil, nil, domain.ErrPaused
			}
			if proposal.State != domain.ProposalActive {
				return nil, nil, domain.ErrProposalNotActive
			}
			if now.Before(proposal.OpensAt) || !now.Before(proposal.ClosesAt) {
				return nil, nil, domain.ErrVotingWindowClosed
			}
			member, err := governanceUc.member(ctx, caller.ID)
			if err != nil {
				return nil, nil, err
			}
			weight, err := governanceUc.voteWeight(ctx, cfg, member, caller.ID)
			if err != nil {
				return nil, nil, err
			}
			fee := discounted(cfg, member, cfg.VoteFee)

			vote = &domain.VoteRecord{
				Key:        domain.VoteKey(proposal.ID, caller.ID),
				ProposalID: proposal.ID,
				Voter:      caller.ID,
				Choice:     choice,
				Weight:     weight,
				PaidFee:    fee,
				CastAt:     now,
			}
			if err := governanceUc.governanceRepo.CreateVote(ctx, vote); err != nil {
				return nil, nil, err
			}
			switch choice {
			case domain.VoteYes:
				proposal.TallyYes += weight
			case domain.VoteNo:
				proposal.TallyNo += weight
			}
			return &feeTransfer{From: caller.ID, To: cfg.Treasury, Amount: fee},
				[]domain.Event{proposalEvent(domain.EventGovernanceVoteCast, proposal, now, map[string]any{
					"voter":     caller.ID,
					"choice":    string(choice),
					"weight":    weight,
					"tally_yes": proposal.TallyYes,
					"tally_no":  proposal.TallyNo,
				})}, nil
		})
	if err != nil {
		return nil, err
	}

	governanceUc.metrics.RecordGovernanceVote(string(choice), vote.Weight)
	governanceUc.metrics.RecordFee("vote", vote.PaidFee)
	governanceUc.logger.Info("governance vote cast",
		slog.Uint64("proposal_id", vote.ProposalID),
		slog.String("voter", vote.Voter),
		slog.String("choice", string(choice)),
		slog.Uint64("weight", vote.Weight),
	)
	return vote, nil
}

// voteWeight: 1 по умолчанию, вес стейка при включенном флаге, +1 премиум-участнику
func (governanceUc *DefaultGovernanceUsecase) voteWeight(ctx context.Context, cfg *domain.DaoConfig, member *domain.Member, voter string) (uint64, error) {
	weight := uint64(1)
	if cfg.Has(domain.EligibilityStake) && governanceUc.stakes != nil {
		staked, err := governanceUc.stakes.VoteWeight(ctx, voter)
		if err != nil {
			return 0, fmt.Errorf("stake weight: %w", err)
		}
		if staked > weight {
			weight = staked
		}
	}
	if member != nil && member.Premium && cfg.Has(domain.EligibilityPremium) {
		weight++
	}
	return weight, nil
}
