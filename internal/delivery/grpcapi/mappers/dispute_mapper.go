package mappers

import "github.com/LavaJover/shvark-escrow-service/internal/domain"

func JudgmentToMap(j *domain.Judgment) map[string]any {
	if j == nil {
		return nil
	}
	var winner any
	if j.Winner != nil {
		winner = *j.Winner
	}
	return map[string]any{
		"outcome":              string(j.Outcome),
		"winner":               winner,
		"choice":               string(j.Choice),
		"client_share_percent": uint32(j.ClientSharePercent),
		"votes_for_client":     j.VotesForClient,
		"votes_for_freelancer": j.VotesForFreelancer,
		"judged_at":            formatTime(j.JudgedAt),
	}
}

func DisputeToMap(d *domain.Dispute) map[string]any {
	out := map[string]any{
		"id":              d.ID,
		"key":             d.Key,
		"opener":          d.Opener,
		"parties":         stringList(d.Parties),
		"escrow_key":      d.EscrowKey,
		"uri":             d.URI,
		"reason":          string(d.Reason),
		"state":           string(d.State),
		"panel_size":      uint32(d.PanelSize),
		"required_quorum": uint32(d.RequiredQuorum),
		"fee_paid":        d.FeePaid,
		"created_at":      formatTime(d.CreatedAt),
		"updated_at":      formatTime(d.UpdatedAt),
		"closed_at":       optionalTime(d.ClosedAt),
		"judgment":        nil,
	}
	if d.Judgment != nil {
		out["judgment"] = JudgmentToMap(d.Judgment)
	}
	return out
}

func PanelToMap(p *domain.DisputePanel) map[string]any {
	return map[string]any{
		"dispute_id":       p.DisputeID,
		"members":          stringList(p.Members),
		"selection_seed":   p.SelectionSeed,
		"total_votes_cast": p.TotalVotesCast,
		"required_quorum":  uint32(p.RequiredQuorum),
		"formed_at":        formatTime(p.FormedAt),
		"expires_at":       formatTime(p.ExpiresAt),
	}
}

func PanelVoteToMap(v *domain.PanelVoteRecord) map[string]any {
	return map[string]any{
		"key":        v.Key,
		"dispute_id": v.DisputeID,
		"voter":      v.Voter,
		"choice":     string(v.Choice),
		"cast_at":    formatTime(v.CastAt),
	}
}

func DisputeDetailsToMap(d *domain.Dispute, panel *domain.DisputePanel, votes []*domain.PanelVoteRecord) map[string]any {
	out := map[string]any{
		"dispute": DisputeToMap(d),
		"panel":   nil,
	}
	if panel != nil {
		out["panel"] = PanelToMap(panel)
	}
	items := make([]any, 0, len(votes))
	for _, v := range votes {
		items = append(items, PanelVoteToMap(v))
	}
	out["votes"] = items
	return out
}

func DisputeListToMap(disputes []*domain.Dispute, page, limit int) map[string]any {
	items := make([]any, 0, len(disputes))
	for _, d := range disputes {
		items = append(items, DisputeToMap(d))
	}
	return map[string]any{
		"disputes": items,
		"page":     page,
		"limit":    limit,
	}
}

func ArbitrationConfigToMap(cfg *domain.ArbitrationConfig) map[string]any {
	return map[string]any{
		"admin":                cfg.Admin,
		"treasury":             cfg.Treasury,
		"default_quorum":       uint32(cfg.DefaultQuorum),
		"dispute_fee":          cfg.DisputeFee,
		"dispute_count":        cfg.DisputeCount,
		"panel_ttl_seconds":    int64(cfg.PanelTTL.Seconds()),
		"late_penalty_percent": uint32(cfg.LatePenaltyPercent),
		"auto_judge_on_quorum": cfg.AutoJudgeOnQuorum,
		"updated_at":           formatTime(cfg.UpdatedAt),
	}
}
