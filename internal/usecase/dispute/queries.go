package dispute

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
)

func (disputeUc *DefaultDisputeUsecase) GetDispute(ctx context.Context, disputeID uint64) (*disputedto.DisputeOutput, error) {
	dispute, err := disputeUc.disputeRepo.GetDispute(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	out := &disputedto.DisputeOutput{Dispute: dispute}
	panel, err := disputeUc.disputeRepo.GetPanel(ctx, disputeID)
	switch {
	case errors.Is(err, domain.ErrPanelNotFound):
		return out, nil
	case err != nil:
		return nil, err
	}
	out.Panel = panel
	out.Votes, err = disputeUc.disputeRepo.ListPanelVotes(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListDisputes: все, по участнику, по причине или только открытые
func (disputeUc *DefaultDisputeUsecase) ListDisputes(ctx context.Context, input *disputedto.ListDisputesInput) (*disputedto.ListDisputesOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 || input.Limit > 100 {
		input.Limit = 50
	}
	if input.Reason != "" && !domain.DisputeReason(input.Reason).Valid() {
		return nil, domain.ErrInvalidReason
	}
	disputes, err := disputeUc.disputeRepo.ListDisputes(ctx, domain.DisputeFilter{
		Party:    input.Party,
		Reason:   domain.DisputeReason(input.Reason),
		OpenOnly: input.OpenOnly,
		Limit:    input.Limit,
		Offset:   (input.Page - 1) * input.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &disputedto.ListDisputesOutput{
		Disputes: disputes,
		Page:     input.Page,
		Limit:    input.Limit,
	}, nil
}

func (disputeUc *DefaultDisputeUsecase) GetArbitrationConfig(ctx context.Context) (*domain.ArbitrationConfig, error) {
	return disputeUc.disputeRepo.GetArbitrationConfig(ctx)
}

func (disputeUc *DefaultDisputeUsecase) ListDaoMembers(ctx context.Context) ([]string, error) {
	return disputeUc.disputeRepo.ListDaoMembers(ctx)
}
