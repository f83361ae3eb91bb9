package dispute

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
)

// FormPanel назначает панель арбитров (только администратор)
func (disputeUc *DefaultDisputeUsecase) FormPanel(ctx context.Context, caller domain.Principal, input *disputedto.FormPanelInput) (*domain.DisputePanel, error) {
	var panel *domain.DisputePanel
	_, err := disputeUc.processDisputeOperation(ctx, "form_panel", input.DisputeID,
		func(ctx context.Context, dispute *domain.Dispute, now time.Time) ([]domain.Event, error) {
			cfg, err := disputeUc.requireAdmin(ctx, caller)
			if err != nil {
				return nil, err
			}
			if !dispute.Reason.RequiresVote() {
				return nil, domain.ErrNoVoteRequired
			}
			if dispute.State != domain.DisputePending {
				return nil, domain.ErrInvalidDisputeState
			}
			if len(input.Members) == 0 || len(input.Members) > domain.MaxPanelSize {
				return nil, domain.ErrInvalidPanelSize
			}
			seen := make(map[string]struct{}, len(input.Members))
			for _, m := range input.Members {
				if _, ok := seen[m]; ok {
					return nil, domain.ErrDuplicatePanelMembers
				}
				seen[m] = struct{}{}
			}
			quorum := input.RequiredQuorum
			if quorum == 0 {
				quorum = cfg.DefaultQuorum
			}
			if quorum == 0 || int(quorum) > len(input.Members) {
				return nil, domain.ErrInvalidQuorum
			}
			for _, m := range input.Members {
				ok, err := disputeUc.disputeRepo.IsDaoMember(ctx, m)
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, fmt.Errorf("%w: %s", domain.ErrNotDaoMember, m)
				}
			}

			panel = &domain.DisputePanel{
				DisputeID:      dispute.ID,
				Members:        input.Members,
				SelectionSeed:  input.Seed,
				RequiredQuorum: quorum,
				FormedAt:       now,
				ExpiresAt:      now.Add(cfg.PanelTTL),
			}
			if err := disputeUc.disputeRepo.CreatePanel(ctx, panel); err != nil {
				return nil, err
			}
			dispute.State = domain.DisputePanelFormed
			dispute.PanelSize = uint8(len(input.Members))
			dispute.RequiredQuorum = quorum
			return []domain.Event{
				disputeEvent(domain.EventPanelFormed, dispute, now, map[string]any{
					"members":         input.Members,
					"required_quorum": quorum,
					"expires_at":      panel.ExpiresAt,
				}),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	disputeUc.logger.Info("panel formed",
		slog.Uint64("dispute_id", input.DisputeID),
		slog.Int("members", len(panel.Members)),
		slog.Int("quorum", int(panel.RequiredQuorum)),
	)
	return panel, nil
}
