package governance

import (
	"context"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	governancedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/governance"
)

func (governanceUc *DefaultGovernanceUsecase) GetDaoConfig(ctx context.Context) (*domain.DaoConfig, error) {
	return governanceUc.governanceRepo.GetDaoConfig(ctx)
}

func (governanceUc *DefaultGovernanceUsecase) GetProposal(ctx context.Context, proposalID uint64) (*governancedto.ProposalOutput, error) {
	proposal, err := governanceUc.governanceRepo.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	votes, err := governanceUc.governanceRepo.ListVotes(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	return &governancedto.ProposalOutput{Proposal: proposal, Votes: votes}, nil
}

func (governanceUc *DefaultGovernanceUsecase) ListProposals(ctx context.Context, input *governancedto.ListProposalsInput) (*governancedto.ListProposalsOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 || input.Limit > 100 {
		input.Limit = 50
	}
	states := make([]domain.ProposalState, 0, len(input.States))
	for _, s := range input.States {
		states = append(states, domain.ProposalState(s))
	}
	proposals, err := governanceUc.governanceRepo.ListProposals(ctx, domain.ProposalFilter{
		Creator: input.Creator,
		States:  states,
		Limit:   input.Limit,
		Offset:  (input.Page - 1) * input.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &governancedto.ListProposalsOutput{
		Proposals: proposals,
		Page:      input.Page,
		Limit:     input.Limit,
	}, nil
}
