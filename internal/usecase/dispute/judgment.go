package dispute

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
)

// tally counts votes among those cast. A strict majority wins; a tie is rejected.
func tally(dispute *domain.Dispute, choices []domain.PanelChoice, now time.Time) *domain.Judgment {
	j := &domain.Judgment{JudgedAt: now}
	for _, c := range choices {
		switch c {
		case domain.PanelChoiceClient:
			j.VotesForClient++
		case domain.PanelChoiceFreelancer:
			j.VotesForFreelancer++
		}
	}
	switch {
	case j.VotesForClient > j.VotesForFreelancer:
		j.Outcome = domain.OutcomeResolved
		j.Choice = domain.JudgmentClient
		j.ClientSharePercent = 100
		j.Winner = partyAt(dispute, 0)
	case j.VotesForFreelancer > j.VotesForClient:
		j.Outcome = domain.OutcomeResolved
		j.Choice = domain.JudgmentFreelancer
		j.Winner = partyAt(dispute, 1)
	default:
		j.Outcome = domain.OutcomeRejected
	}
	return j
}

// splitJudgment records a partial refund: percent goes to the client, the rest to the freelancer.
func splitJudgment(dispute *domain.Dispute, percent uint16, base *domain.Judgment) *domain.Judgment {
	j := *base
	j.Outcome = domain.OutcomeResolved
	j.Choice = domain.JudgmentSplit
	j.ClientSharePercent = percent
	j.Winner = nil
	switch {
	case percent > 50:
		j.Winner = partyAt(dispute, 0)
	case percent < 50:
		j.Winner = partyAt(dispute, 1)
	}
	return &j
}

func partyAt(dispute *domain.Dispute, i int) *string {
	if i >= len(dispute.Parties) {
		return nil
	}
	p := dispute.Parties[i]
	return &p
}

func judge(dispute *domain.Dispute, j *domain.Judgment) {
	dispute.Judgment = j
	dispute.State = domain.DisputeJudged
}

func choicesOf(votes []*domain.PanelVoteRecord) []domain.PanelChoice {
	choices := make([]domain.PanelChoice, 0, len(votes))
	for _, v := range votes {
		choices = append(choices, v.Choice)
	}
	return choices
}

func resolvedEvent(dispute *domain.Dispute, now time.Time, auto bool) domain.Event {
	j := dispute.Judgment
	payload := map[string]any{
		"outcome":              string(j.Outcome),
		"choice":               string(j.Choice),
		"client_share_percent": j.ClientSharePercent,
		"votes_for_client":     j.VotesForClient,
		"votes_for_freelancer": j.VotesForFreelancer,
		"auto":                 auto,
	}
	if j.Winner != nil {
		payload["winner"] = *j.Winner
	}
	return disputeEvent(domain.EventDisputeResolved, dispute, now, payload)
}

// FinalizeJudgment - решение администратора по переданным записям голосов.
// Записи должны совпадать с сохраненными голосами и набирать кворум.
func (disputeUc *DefaultDisputeUsecase) FinalizeJudgment(ctx context.Context, caller domain.Principal, input *disputedto.FinalizeJudgmentInput) (*domain.Dispute, error) {
	if input.ClientSharePercent != nil && *input.ClientSharePercent > domain.MaxSharePercent {
		return nil, domain.ErrInvalidSplit
	}
	dispute, err := disputeUc.processDisputeOperation(ctx, "finalize", input.DisputeID,
		func(ctx context.Context, dispute *domain.Dispute, now time.Time) ([]domain.Event, error) {
			if _, err := disputeUc.requireAdmin(ctx, caller); err != nil {
				return nil, err
			}
			if dispute.State != domain.DisputePanelFormed && dispute.State != domain.DisputeDeliberating {
				return nil, domain.ErrInvalidDisputeState
			}
			stored, err := disputeUc.disputeRepo.ListPanelVotes(ctx, dispute.ID)
			if err != nil {
				return nil, err
			}
			byVoter := make(map[string]domain.PanelChoice, len(stored))
			for _, v := range stored {
				byVoter[v.Voter] = v.Choice
			}

			counted := make(map[string]struct{}, len(input.VoteRecords))
			choices := make([]domain.PanelChoice, 0, len(input.VoteRecords))
			for _, rec := range input.VoteRecords {
				choice, ok := byVoter[rec.Voter]
				if !ok || string(choice) != rec.Choice {
					return nil, domain.ErrInvalidVoteEvidence
				}
				if _, dup := counted[rec.Voter]; dup {
					continue
				}
				counted[rec.Voter] = struct{}{}
				choices = append(choices, choice)
			}
			if len(counted) < int(dispute.RequiredQuorum) {
				return nil, domain.ErrQuorumNotReached
			}

			j := tally(dispute, choices, now)
			if input.ClientSharePercent != nil {
				j = splitJudgment(dispute, *input.ClientSharePercent, j)
			}
			judge(dispute, j)
			return []domain.Event{resolvedEvent(dispute, now, false)}, nil
		})
	if err != nil {
		return nil, err
	}
	disputeUc.recordJudgment(dispute)
	return dispute, nil
}

// AutoResolveDispute разбирает LATE_DELIVERY без голосования: по дедлайну
// связанной сделки. Просрочка - клиенту уходит штрафная доля, иначе отказ.
func (disputeUc *DefaultDisputeUsecase) AutoResolveDispute(ctx context.Context, disputeID uint64) (*domain.Dispute, error) {
	dispute, err := disputeUc.processDisputeOperation(ctx, "auto_resolve", disputeID,
		func(ctx context.Context, dispute *domain.Dispute, now time.Time) ([]domain.Event, error) {
			if dispute.Reason.RequiresVote() {
				return nil, domain.ErrRequiresDaoVote
			}
			if dispute.State != domain.DisputePending {
				return nil, domain.ErrInvalidDisputeState
			}
			cfg, err := disputeUc.disputeRepo.GetArbitrationConfig(ctx)
			if err != nil {
				return nil, err
			}
			if cfg.LatePenaltyPercent > domain.MaxSharePercent {
				return nil, domain.ErrInvalidSplit
			}

			j := &domain.Judgment{Outcome: domain.OutcomeRejected, JudgedAt: now}
			if dispute.Linked() {
				job, err := disputeUc.escrows.GetEscrowByKey(ctx, dispute.EscrowKey)
				if err != nil {
					return nil, err
				}
				if job.IsLate(now) {
					j = splitJudgment(dispute, cfg.LatePenaltyPercent, j)
					j.Winner = partyAt(dispute, 0)
				}
			}
			judge(dispute, j)
			return []domain.Event{resolvedEvent(dispute, now, true)}, nil
		})
	if err != nil {
		return nil, err
	}
	disputeUc.recordJudgment(dispute)
	return dispute, nil
}

// AutoResolvePendingDisputes - фоновый разбор LATE_DELIVERY, по которым уже можно принять решение
func (disputeUc *DefaultDisputeUsecase) AutoResolvePendingDisputes(ctx context.Context) (int, error) {
	disputes, err := disputeUc.disputeRepo.ListDisputes(ctx, domain.DisputeFilter{
		Reason: domain.ReasonLateDelivery,
		States: []domain.DisputeState{domain.DisputePending},
	})
	if err != nil {
		return 0, err
	}
	now := disputeUc.clock.Now()
	resolved := 0
	for _, d := range disputes {
		if d.Linked() {
			job, err := disputeUc.escrows.GetEscrowByKey(ctx, d.EscrowKey)
			if err != nil {
				disputeUc.logger.Error("failed to load disputed escrow", slog.Uint64("dispute_id", d.ID), slog.String("error", err.Error()))
				continue
			}
			// дедлайн еще не наступил и работа не сдана - решать рано
			if job.Deadline != nil && job.DeliveredAt == nil && !now.After(*job.Deadline) {
				continue
			}
		}
		if _, err := disputeUc.AutoResolveDispute(ctx, d.ID); err != nil {
			if errors.Is(err, domain.ErrInvalidDisputeState) {
				continue
			}
			disputeUc.logger.Error("failed to auto-resolve dispute", slog.Uint64("dispute_id", d.ID), slog.String("error", err.Error()))
			continue
		}
		resolved++
	}
	return resolved, nil
}
