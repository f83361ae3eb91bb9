package usecase

import (
	"context"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
)

type DisputeUsecase interface {
	Bootstrap(ctx context.Context) error

	OpenDispute(ctx context.Context, caller domain.Principal, input *disputedto.OpenDisputeInput) (*domain.Dispute, error)
	FormPanel(ctx context.Context, caller domain.Principal, input *disputedto.FormPanelInput) (*domain.DisputePanel, error)
	CastPanelVote(ctx context.Context, caller domain.Principal, input *disputedto.CastPanelVoteInput) (*domain.Dispute, error)
	FinalizeJudgment(ctx context.Context, caller domain.Principal, input *disputedto.FinalizeJudgmentInput) (*domain.Dispute, error)
	AutoResolveDispute(ctx context.Context, disputeID uint64) (*domain.Dispute, error)
	ExecuteJudgment(ctx context.Context, caller domain.Principal, disputeID uint64) (*domain.Dispute, error)
	CancelDispute(ctx context.Context, caller domain.Principal, disputeID uint64) (*domain.Dispute, error)
	AutoResolvePendingDisputes(ctx context.Context) (int, error)

	AddDaoMember(ctx context.Context, caller domain.Principal, account string) error
	RemoveDaoMember(ctx context.Context, caller domain.Principal, account string) error
	SetQuorum(ctx context.Context, caller domain.Principal, quorum uint8) (*domain.ArbitrationConfig, error)
	SetDisputeCreationFee(ctx context.Context, caller domain.Principal, fee uint64) (*domain.ArbitrationConfig, error)

	GetDispute(ctx context.Context, disputeID uint64) (*disputedto.DisputeOutput, error)
	ListDisputes(ctx context.Context, input *disputedto.ListDisputesInput) (*disputedto.ListDisputesOutput, error)
	GetArbitrationConfig(ctx context.Context) (*domain.ArbitrationConfig, error)
	ListDaoMembers(ctx context.Context) ([]string, error)
}
