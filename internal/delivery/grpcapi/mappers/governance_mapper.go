package mappers

import "github.com/LavaJover/shvark-escrow-service/internal/domain"

func DaoConfigToMap(cfg *domain.DaoConfig) map[string]any {
	return map[string]any{
		"admin":                     cfg.Admin,
		"treasury":                  cfg.Treasury,
		"light_fee":                 cfg.LightFee,
		"major_fee":                 cfg.MajorFee,
		"vote_fee":                  cfg.VoteFee,
		"min_vote_duration_seconds": int64(cfg.MinVoteDuration.Seconds()),
		"max_vote_duration_seconds": int64(cfg.MaxVoteDuration.Seconds()),
		"eligibility_flags":         uint32(cfg.EligibilityFlags),
		"paused":                    cfg.Paused,
		"proposal_count":            cfg.ProposalCount,
		"execution_delay_seconds":   int64(cfg.ExecutionDelay.Seconds()),
		"cancel_grace_seconds":      int64(cfg.CancelGrace.Seconds()),
		"created_at":                formatTime(cfg.CreatedAt),
		"updated_at":                formatTime(cfg.UpdatedAt),
	}
}

func ProposalToMap(p *domain.Proposal) map[string]any {
	return map[string]any{
		"id":           p.ID,
		"key":          p.Key,
		"creator":      p.Creator,
		"kind":         string(p.Kind),
		"uri":          p.URI,
		"title_hash":   optionalHex(p.TitleHash),
		"state":        string(p.State),
		"tally_yes":    p.TallyYes,
		"tally_no":     p.TallyNo,
		"fee_paid":     p.FeePaid,
		"opens_at":     formatTime(p.OpensAt),
		"closes_at":    formatTime(p.ClosesAt),
		"finalized_at": optionalTime(p.FinalizedAt),
		"executed_at":  optionalTime(p.ExecutedAt),
	}
}

func VoteToMap(v *domain.VoteRecord) map[string]any {
	return map[string]any{
		"key":         v.Key,
		"proposal_id": v.ProposalID,
		"voter":       v.Voter,
		"choice":      string(v.Choice),
		"weight":      v.Weight,
		"paid_fee":    v.PaidFee,
		"cast_at":     formatTime(v.CastAt),
	}
}

func ProposalDetailsToMap(p *domain.Proposal, votes []*domain.VoteRecord) map[string]any {
	items := make([]any, 0, len(votes))
	for _, v := range votes {
		items = append(items, VoteToMap(v))
	}
	return map[string]any{
		"proposal": ProposalToMap(p),
		"votes":    items,
	}
}

func ProposalListToMap(proposals []*domain.Proposal, page, limit int) map[string]any {
	items := make([]any, 0, len(proposals))
	for _, p := range proposals {
		items = append(items, ProposalToMap(p))
	}
	return map[string]any{
		"proposals": items,
		"page":      page,
		"limit":     limit,
	}
}

func MemberToMap(m *domain.Member) map[string]any {
	return map[string]any{
		"account":          m.Account,
		"premium":          m.Premium,
		"reputation_score": m.ReputationScore,
		"joined_at":        formatTime(m.JoinedAt),
	}
}
