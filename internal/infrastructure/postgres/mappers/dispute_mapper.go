package mappers

import (
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainArbitrationConfig(model *models.ArbitrationConfigModel) *domain.ArbitrationConfig {
	return &domain.ArbitrationConfig{
		Admin:              model.Admin,
		Treasury:           model.Treasury,
		DefaultQuorum:      model.DefaultQuorum,
		DisputeFee:         model.DisputeFee,
		DisputeCount:       model.DisputeCount,
		PanelTTL:           model.PanelTTL,
		LatePenaltyPercent: model.LatePenaltyPercent,
		AutoJudgeOnQuorum:  model.AutoJudgeOnQuorum,
		UpdatedAt:          model.UpdatedAt,
	}
}

func ToGORMArbitrationConfig(cfg *domain.ArbitrationConfig) *models.ArbitrationConfigModel {
	return &models.ArbitrationConfigModel{
		ID:                 1,
		Admin:              cfg.Admin,
		Treasury:           cfg.Treasury,
		DefaultQuorum:      cfg.DefaultQuorum,
		DisputeFee:         cfg.DisputeFee,
		DisputeCount:       cfg.DisputeCount,
		PanelTTL:           cfg.PanelTTL,
		LatePenaltyPercent: cfg.LatePenaltyPercent,
		AutoJudgeOnQuorum:  cfg.AutoJudgeOnQuorum,
		UpdatedAt:          cfg.UpdatedAt,
	}
}

func ToDomainDispute(model *models.DisputeModel) *domain.Dispute {
	dispute := &domain.Dispute{
		ID:             model.ID,
		Key:            model.Key,
		Opener:         model.Opener,
		Parties:        []string(model.Parties),
		EscrowKey:      model.EscrowKey,
		URI:            model.URI,
		Reason:         domain.DisputeReason(model.Reason),
		State:          domain.DisputeState(model.State),
		PanelSize:      model.PanelSize,
		RequiredQuorum: model.RequiredQuorum,
		FeePaid:        model.FeePaid,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
		ClosedAt:       model.ClosedAt,
	}
	if model.JudgmentOutcome != nil {
		judgment := &domain.Judgment{
			Outcome:            domain.DisputeOutcome(*model.JudgmentOutcome),
			Winner:             model.JudgmentWinner,
			ClientSharePercent: model.ClientSharePercent,
			VotesForClient:     model.VotesForClient,
			VotesForFreelancer: model.VotesForFreelancer,
		}
		if model.JudgmentChoice != nil {
			judgment.Choice = domain.JudgmentChoice(*model.JudgmentChoice)
		}
		if model.JudgedAt != nil {
			judgment.JudgedAt = *model.JudgedAt
		}
		dispute.Judgment = judgment
	}
	return dispute
}

func ToGORMDispute(dispute *domain.Dispute) *models.DisputeModel {
	model := &models.DisputeModel{
		ID:             dispute.ID,
		Key:            dispute.Key,
		Opener:         dispute.Opener,
		Parties:        dispute.Parties,
		EscrowKey:      dispute.EscrowKey,
		URI:            dispute.URI,
		Reason:         string(dispute.Reason),
		State:          string(dispute.State),
		PanelSize:      dispute.PanelSize,
		RequiredQuorum: dispute.RequiredQuorum,
		FeePaid:        dispute.FeePaid,
		CreatedAt:      dispute.CreatedAt,
		UpdatedAt:      dispute.UpdatedAt,
		ClosedAt:       dispute.ClosedAt,
	}
	if j := dispute.Judgment; j != nil {
		outcome := string(j.Outcome)
		judgedAt := j.JudgedAt
		model.JudgmentOutcome = &outcome
		model.JudgmentWinner = j.Winner
		if j.Choice != "" {
			choice := string(j.Choice)
			model.JudgmentChoice = &choice
		}
		model.ClientSharePercent = j.ClientSharePercent
		model.VotesForClient = j.VotesForClient
		model.VotesForFreelancer = j.VotesForFreelancer
		model.JudgedAt = &judgedAt
	}
	return model
}

func ToDomainPanel(model *models.DisputePanelModel) *domain.DisputePanel {
	return &domain.DisputePanel{
		DisputeID:      model.DisputeID,
		Members:        []string(model.Members),
		SelectionSeed:  model.SelectionSeed,
		TotalVotesCast: model.TotalVotesCast,
		RequiredQuorum: model.RequiredQuorum,
		FormedAt:       model.FormedAt,
		ExpiresAt:      model.ExpiresAt,
	}
}

func ToGORMPanel(panel *domain.DisputePanel) *models.DisputePanelModel {
	return &models.DisputePanelModel{
		DisputeID:      panel.DisputeID,
		Members:        panel.Members,
		SelectionSeed:  panel.SelectionSeed,
		TotalVotesCast: panel.TotalVotesCast,
		RequiredQuorum: panel.RequiredQuorum,
		FormedAt:       panel.FormedAt,
		ExpiresAt:      panel.ExpiresAt,
	}
}

func ToDomainPanelVote(model *models.PanelVoteModel) *domain.PanelVoteRecord {
	return &domain.PanelVoteRecord{
		Key:       model.Key,
		DisputeID: model.DisputeID,
		Voter:     model.Voter,
		Choice:    domain.PanelChoice(model.Choice),
		CastAt:    model.CastAt,
	}
}

func ToGORMPanelVote(vote *domain.PanelVoteRecord) *models.PanelVoteModel {
	return &models.PanelVoteModel{
		Key:       vote.Key,
		DisputeID: vote.DisputeID,
		Voter:     vote.Voter,
		Choice:    string(vote.Choice),
		CastAt:    vote.CastAt,
	}
}
