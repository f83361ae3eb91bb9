package mappers

import (
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainDaoConfig(model *models.DaoConfigModel) *domain.DaoConfig {
	return &domain.DaoConfig{
		Admin:            model.Admin,
		Treasury:         model.Treasury,
		LightFee:         model.LightFee,
		MajorFee:         model.MajorFee,
		VoteFee:          model.VoteFee,
		MinVoteDuration:  model.MinVoteDuration,
		MaxVoteDuration:  model.MaxVoteDuration,
		EligibilityFlags: model.EligibilityFlags,
		Paused:           model.Paused,
		ProposalCount:    model.ProposalCount,
		ExecutionDelay:   model.ExecutionDelay,
		CancelGrace:      model.CancelGrace,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMDaoConfig(cfg *domain.DaoConfig) *models.DaoConfigModel {
	return &models.DaoConfigModel{
		ID:               1,
		Admin:            cfg.Admin,
		Treasury:         cfg.Treasury,
		LightFee:         cfg.LightFee,
		MajorFee:         cfg.MajorFee,
		VoteFee:          cfg.VoteFee,
		MinVoteDuration:  cfg.MinVoteDuration,
		MaxVoteDuration:  cfg.MaxVoteDuration,
		EligibilityFlags: cfg.EligibilityFlags,
		Paused:           cfg.Paused,
		ProposalCount:    cfg.ProposalCount,
		ExecutionDelay:   cfg.ExecutionDelay,
		CancelGrace:      cfg.CancelGrace,
		CreatedAt:        cfg.CreatedAt,
		UpdatedAt:        cfg.UpdatedAt,
	}
}

func ToDomainProposal(model *models.ProposalModel) *domain.Proposal {
	return &domain.Proposal{
		ID:          model.ID,
		Key:         model.Key,
		Creator:     model.Creator,
		Kind:        domain.ProposalKind(model.Kind),
		URI:         model.URI,
		TitleHash:   model.TitleHash,
		State:       domain.ProposalState(model.State),
		TallyYes:    model.TallyYes,
		TallyNo:     model.TallyNo,
		FeePaid:     model.FeePaid,
		OpensAt:     model.OpensAt,
		ClosesAt:    model.ClosesAt,
		FinalizedAt: model.FinalizedAt,
		ExecutedAt:  model.ExecutedAt,
	}
}

func ToGORMProposal(proposal *domain.Proposal) *models.ProposalModel {
	return &models.ProposalModel{
		ID:          proposal.ID,
		Key:         proposal.Key,
		Creator:     proposal.Creator,
		Kind:        string(proposal.Kind),
		URI:         proposal.URI,
		TitleHash:   proposal.TitleHash,
		State:       string(proposal.State),
		TallyYes:    proposal.TallyYes,
		TallyNo:     proposal.TallyNo,
		FeePaid:     proposal.FeePaid,
		OpensAt:     proposal.OpensAt,
		ClosesAt:    proposal.ClosesAt,
		FinalizedAt: proposal.FinalizedAt,
		ExecutedAt:  proposal.ExecutedAt,
	}
}

func ToDomainVote(model *models.GovernanceVoteModel) *domain.VoteRecord {
	return &domain.VoteRecord{
		Key:        model.Key,
		ProposalID: model.ProposalID,
		Voter:      model.Voter,
		Choice:     domain.VoteChoice(model.Choice),
		Weight:     model.Weight,
		PaidFee:    model.PaidFee,
		CastAt:     model.CastAt,
	}
}

func ToGORMVote(vote *domain.VoteRecord) *models.GovernanceVoteModel {
	return &models.GovernanceVoteModel{
		Key:        vote.Key,
		ProposalID: vote.ProposalID,
		Voter:      vote.Voter,
		Choice:     string(vote.Choice),
		Weight:     vote.Weight,
		PaidFee:    vote.PaidFee,
		CastAt:     vote.CastAt,
	}
}

func ToDomainMember(model *models.MemberModel) *domain.Member {
	return &domain.Member{
		Account:         model.Account,
		Premium:         model.Premium,
		ReputationScore: model.ReputationScore,
		JoinedAt:        model.JoinedAt,
	}
}

func ToGORMMember(member *domain.Member) *models.MemberModel {
	return &models.MemberModel{
		Account:         member.Account,
		Premium:         member.Premium,
		ReputationScore: member.ReputationScore,
		JoinedAt:        member.JoinedAt,
	}
}
