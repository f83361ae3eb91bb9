package memory

import (
	"slices"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneEscrow(j *domain.EscrowJob) *domain.EscrowJob {
	c := *j
	c.ClientSignature = slices.Clone(j.ClientSignature)
	c.FreelancerSignature = slices.Clone(j.FreelancerSignature)
	c.SignedAt = cloneTime(j.SignedAt)
	c.Deadline = cloneTime(j.Deadline)
	c.DeliveredAt = cloneTime(j.DeliveredAt)
	c.ClosedAt = cloneTime(j.ClosedAt)
	return &c
}

func cloneDispute(d *domain.Dispute) *domain.Dispute {
	c := *d
	c.Parties = slices.Clone(d.Parties)
	c.ClosedAt = cloneTime(d.ClosedAt)
	if d.Judgment != nil {
		j := *d.Judgment
		if j.Winner != nil {
			w := *j.Winner
			j.Winner = &w
		}
		c.Judgment = &j
	}
	return &c
}

func clonePanel(p *domain.DisputePanel) *domain.DisputePanel {
	c := *p
	c.Members = slices.Clone(p.Members)
	return &c
}

func cloneProposal(p *domain.Proposal) *domain.Proposal {
	c := *p
	c.TitleHash = slices.Clone(p.TitleHash)
	c.FinalizedAt = cloneTime(p.FinalizedAt)
	c.ExecutedAt = cloneTime(p.ExecutedAt)
	return &c
}
