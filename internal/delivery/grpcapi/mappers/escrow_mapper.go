package mappers

import "github.com/LavaJover/shvark-escrow-service/internal/domain"

func EscrowToMap(job *domain.EscrowJob) map[string]any {
	return map[string]any{
		"key":                  job.Key,
		"id":                   job.ID,
		"client":               job.Client,
		"freelancer":           job.Freelancer,
		"amount":               job.Amount,
		"held_amount":          job.HeldAmount,
		"refunded_amount":      job.RefundedAmount,
		"state":                string(job.State),
		"client_signature":     optionalHex(job.ClientSignature),
		"freelancer_signature": optionalHex(job.FreelancerSignature),
		"signed_at":            optionalTime(job.SignedAt),
		"deadline":             optionalTime(job.Deadline),
		"delivered_at":         optionalTime(job.DeliveredAt),
		"created_at":           formatTime(job.CreatedAt),
		"updated_at":           formatTime(job.UpdatedAt),
		"closed_at":            optionalTime(job.ClosedAt),
	}
}

func EscrowListToMap(jobs []*domain.EscrowJob, page, limit int) map[string]any {
	items := make([]any, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, EscrowToMap(job))
	}
	return map[string]any{
		"escrows": items,
		"page":    page,
		"limit":   limit,
	}
}
