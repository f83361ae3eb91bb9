package usecase

import (
	"context"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	escrowdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/escrow"
)

type EscrowUsecase interface {
	CreateEscrow(ctx context.Context, caller domain.Principal, input *escrowdto.CreateEscrowInput) (*domain.EscrowJob, error)
	AcceptProposal(ctx context.Context, caller domain.Principal, ref escrowdto.EscrowRef) (*domain.EscrowJob, error)
	SubmitSignature(ctx context.Context, caller domain.Principal, input *escrowdto.SubmitSignatureInput) (*domain.EscrowJob, error)
	MarkDelivered(ctx context.Context, caller domain.Principal, ref escrowdto.EscrowRef) (*domain.EscrowJob, error)
	CompleteEscrow(ctx context.Context, caller domain.Principal, ref escrowdto.EscrowRef) (*domain.EscrowJob, error)
	CancelEscrow(ctx context.Context, caller domain.Principal, ref escrowdto.EscrowRef) (*domain.EscrowJob, error)

	GetEscrow(ctx context.Context, ref escrowdto.EscrowRef) (*domain.EscrowJob, error)
	ListEscrows(ctx context.Context, input *escrowdto.ListEscrowsInput) (*escrowdto.ListEscrowsOutput, error)
}
