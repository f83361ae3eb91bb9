package escrow

import (
	"context"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	escrowdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/escrow"
)

func (escrowUc *DefaultEscrowUsecase) GetEscrow(ctx context.Context, ref escrowdto.EscrowRef) (*domain.EscrowJob, error) {
	return escrowUc.escrowRepo.GetEscrow(ctx, domain.EscrowKey(ref.Client, ref.ID))
}

func (escrowUc *DefaultEscrowUsecase) ListEscrows(ctx context.Context, input *escrowdto.ListEscrowsInput) (*escrowdto.ListEscrowsOutput, error) {
	// Валидация пагинации
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 || input.Limit > 100 {
		input.Limit = 50
	}
	filter := domain.EscrowFilter{
		Party:  input.Party,
		Limit:  input.Limit,
		Offset: (input.Page - 1) * input.Limit,
	}
	for _, s := range input.States {
		filter.States = append(filter.States, domain.EscrowState(s))
	}
	jobs, err := escrowUc.escrowRepo.ListEscrows(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &escrowdto.ListEscrowsOutput{
		Escrows: jobs,
		Page:    input.Page,
		Limit:   input.Limit,
	}, nil
}
