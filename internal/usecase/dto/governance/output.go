package governancedto

import "github.com/LavaJover/shvark-escrow-service/internal/domain"

type ProposalOutput struct {
	Proposal *domain.Proposal
	Votes    []*domain.VoteRecord
}

type ListProposalsOutput struct {
	Proposals []*domain.Proposal
	Page      int
	Limit     int
}
