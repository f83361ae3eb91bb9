package mappers

import (
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainEscrow(model *models.EscrowJobModel) *domain.EscrowJob {
	return &domain.EscrowJob{
		Key:                 model.Key,
		ID:                  model.EscrowID,
		Client:              model.Client,
		Freelancer:          model.Freelancer,
		Amount:              model.Amount,
		HeldAmount:          model.HeldAmount,
		RefundedAmount:      model.RefundedAmount,
		State:               domain.EscrowState(model.State),
		ClientSignature:     model.ClientSignature,
		FreelancerSignature: model.FreelancerSignature,
		SignedAt:            model.SignedAt,
		Deadline:            model.Deadline,
		DeliveredAt:         model.DeliveredAt,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
		ClosedAt:            model.ClosedAt,
	}
}

func ToGORMEscrow(job *domain.EscrowJob) *models.EscrowJobModel {
	return &models.EscrowJobModel{
		Key:                 job.Key,
		EscrowID:            job.ID,
		Client:              job.Client,
		Freelancer:          job.Freelancer,
		Amount:              job.Amount,
		HeldAmount:          job.HeldAmount,
		RefundedAmount:      job.RefundedAmount,
		State:               string(job.State),
		ClientSignature:     job.ClientSignature,
		FreelancerSignature: job.FreelancerSignature,
		SignedAt:            job.SignedAt,
		Deadline:            job.Deadline,
		DeliveredAt:         job.DeliveredAt,
		CreatedAt:           job.CreatedAt,
		UpdatedAt:           job.UpdatedAt,
		ClosedAt:            job.ClosedAt,
	}
}
