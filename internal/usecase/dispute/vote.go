package dispute

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
)

// CastPanelVote - голос члена панели. При достижении кворума решение
// выносится сразу, без ожидания остальных голосов.
func (disputeUc *DefaultDisputeUsecase) CastPanelVote(ctx context.Context, caller domain.Principal, input *disputedto.CastPanelVoteInput) (*domain.Dispute, error) {
	choice := domain.PanelChoice(input.Choice)
	if !choice.Valid() {
		return nil, domain.ErrInvalidChoice
	}
	dispute, err := disputeUc.processDisputeOperation(ctx, "vote", input.DisputeID,
		func(ctx context.Context, dispute *domain.Dispute, now time.Time) ([]domain.Event, error) {
			if !dispute.Reason.RequiresVote() {
				return nil, domain.ErrNoVoteRequired
			}
			if dispute.State != domain.DisputePanelFormed && dispute.State != domain.DisputeDeliberating {
				return nil, domain.ErrInvalidDisputeState
			}
			panel, err := disputeUc.disputeRepo.GetPanel(ctx, dispute.ID)
			if err != nil {
				return nil, err
			}
			if !panel.IsMember(caller.ID) {
				return nil, domain.ErrNotPanelMember
			}
			if now.After(panel.ExpiresAt) {
				return nil, domain.ErrDisputeExpired
			}
			vote := &domain.PanelVoteRecord{
				Key:       domain.PanelVoteKey(dispute.ID, caller.ID),
				DisputeID: dispute.ID,
				Voter:     caller.ID,
				Choice:    choice,
				CastAt:    now,
			}
			if err := disputeUc.disputeRepo.CreatePanelVote(ctx, vote); err != nil {
				return nil, err
			}
			panel.TotalVotesCast++
			if err := disputeUc.disputeRepo.UpdatePanel(ctx, panel); err != nil {
				return nil, err
			}
			if dispute.State == domain.DisputePanelFormed {
				dispute.State = domain.DisputeDeliberating
			}
			events := []domain.Event{
				disputeEvent(domain.EventVoteCast, dispute, now, map[string]any{
					"voter":      caller.ID,
					"choice":     string(choice),
					"votes_cast": panel.TotalVotesCast,
					"quorum":     panel.RequiredQuorum,
				}),
			}

			cfg, err := disputeUc.disputeRepo.GetArbitrationConfig(ctx)
			if err != nil {
				return nil, err
			}
			if !cfg.AutoJudgeOnQuorum || panel.TotalVotesCast < uint32(panel.RequiredQuorum) {
				return events, nil
			}
			votes, err := disputeUc.disputeRepo.ListPanelVotes(ctx, dispute.ID)
			if err != nil {
				return nil, err
			}
			judge(dispute, tally(dispute, choicesOf(votes), now))
			return append(events, resolvedEvent(dispute, now, false)), nil
		})
	if err != nil {
		return nil, err
	}
	disputeUc.metrics.RecordPanelVote(string(choice))
	if dispute.State == domain.DisputeJudged {
		disputeUc.recordJudgment(dispute)
	}
	return dispute, nil
}

func (disputeUc *DefaultDisputeUsecase) recordJudgment(dispute *domain.Dispute) {
	j := dispute.Judgment
	disputeUc.metrics.RecordDisputeResolved(string(dispute.Reason), string(j.Outcome), string(j.Choice))
	attrs := []any{
		slog.Uint64("dispute_id", dispute.ID),
		slog.String("outcome", string(j.Outcome)),
	}
	if j.Winner != nil {
		attrs = append(attrs, slog.String("winner", *j.Winner))
	}
	disputeUc.logger.Info("dispute judged", attrs...)
}
