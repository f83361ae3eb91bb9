package usecase

import (
	"context"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	governancedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/governance"
)

type GovernanceUsecase interface {
	InitDaoConfig(ctx context.Context, caller domain.Principal, input *governancedto.InitDaoConfigInput) (*domain.DaoConfig, error)
	SetParams(ctx context.Context, caller domain.Principal, input *governancedto.SetParamsInput) (*domain.DaoConfig, error)
	SetPause(ctx context.Context, caller domain.Principal, paused bool) (*domain.DaoConfig, error)
	SetMember(ctx context.Context, caller domain.Principal, input *governancedto.SetMemberInput) (*domain.Member, error)
	WithdrawTreasury(ctx context.Context, caller domain.Principal, input *governancedto.WithdrawTreasuryInput) error

	CreateProposal(ctx context.Context, caller domain.Principal, input *governancedto.CreateProposalInput) (*domain.Proposal, error)
	CastVote(ctx context.Context, caller domain.Principal, input *governancedto.CastVoteInput) (*domain.VoteRecord, error)
	FinalizeProposal(ctx context.Context, proposalID uint64) (*domain.Proposal, error)
	CancelProposal(ctx context.Context, caller domain.Principal, proposalID uint64) (*domain.Proposal, error)
	ExecuteProposal(ctx context.Context, caller domain.Principal, proposalID uint64) (*domain.Proposal, error)
	FinalizeExpiredProposals(ctx context.Context) (int, error)

	GetDaoConfig(ctx context.Context) (*domain.DaoConfig, error)
	GetProposal(ctx context.Context, proposalID uint64) (*governancedto.ProposalOutput, error)
	ListProposals(ctx context.Context, input *governancedto.ListProposalsInput) (*governancedto.ListProposalsOutput, error)
}
