package repository

import (
	"context"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultGovernanceRepository struct {
	db *gorm.DB
}

func NewDefaultGovernanceRepository(db *gorm.DB) *DefaultGovernanceRepository {
	return &DefaultGovernanceRepository{db: db}
}

func (r *DefaultGovernanceRepository) CreateDaoConfig(ctx context.Context, cfg *domain.DaoConfig) error {
	err := conn(ctx, r.db).Create(mappers.ToGORMDaoConfig(cfg)).Error
	if isUniqueViolation(err) {
		return domain.ErrAlreadyInitialized
	}
	return err
}

func (r *DefaultGovernanceRepository) GetDaoConfig(ctx context.Context) (*domain.DaoConfig, error) {
	var model models.DaoConfigModel
	if err := conn(ctx, r.db).First(&model, "id = ?", 1).Error; err != nil {
		return nil, notFound(err, domain.ErrDaoNotInitialized)
	}
	return mappers.ToDomainDaoConfig(&model), nil
}

func (r *DefaultGovernanceRepository) GetDaoConfigForUpdate(ctx context.Context) (*domain.DaoConfig, error) {
	var model models.DaoConfigModel
	if err := conn(ctx, r.db).Clauses(forUpdate).First(&model, "id = ?", 1).Error; err != nil {
		return nil, notFound(err, domain.ErrDaoNotInitialized)
	}
	return mappers.ToDomainDaoConfig(&model), nil
}

func (r *DefaultGovernanceRepository) UpdateDaoConfig(ctx context.Context, cfg *domain.DaoConfig) error {
	model := mappers.ToGORMDaoConfig(cfg)
	res := conn(ctx, r.db).Model(model).Select("*").Updates(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrDaoNotInitialized
	}
	return nil
}

func (r *DefaultGovernanceRepository) CreateProposal(ctx context.Context, proposal *domain.Proposal) error {
	return conn(ctx, r.db).Create(mappers.ToGORMProposal(proposal)).Error
}

func (r *DefaultGovernanceRepository) GetProposal(ctx context.Context, id uint64) (*domain.Proposal, error) {
	var model models.ProposalModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, domain.ErrProposalNotFound)
	}
	return mappers.ToDomainProposal(&model), nil
}

func (r *DefaultGovernanceRepository) GetProposalForUpdate(ctx context.Context, id uint64) (*domain.Proposal, error) {
	var model models.ProposalModel
	if err := conn(ctx, r.db).Clauses(forUpdate).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, domain.ErrProposalNotFound)
	}
	return mappers.ToDomainProposal(&model), nil
}

func (r *DefaultGovernanceRepository) UpdateProposal(ctx context.Context, proposal *domain.Proposal) error {
	model := mappers.ToGORMProposal(proposal)
	res := conn(ctx, r.db).Model(model).Select("*").Updates(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProposalNotFound
	}
	return nil
}

func (r *DefaultGovernanceRepository) ListProposals(ctx context.Context, filter domain.ProposalFilter) ([]*domain.Proposal, error) {
	query := conn(ctx, r.db).Model(&models.ProposalModel{})
	if filter.Creator != "" {
		query = query.Where("creator = ?", filter.Creator)
	}
	if len(filter.States) > 0 {
		states := make([]string, len(filter.States))
		for i, s := range filter.States {
			states[i] = string(s)
		}
		query = query.Where("state IN ?", states)
	}
	if filter.ClosedBefore != nil {
		query = query.Where("closes_at <= ?", *filter.ClosedBefore)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var proposalModels []models.ProposalModel
	if err := query.Order("id ASC").Find(&proposalModels).Error; err != nil {
		return nil, err
	}
	proposals := make([]*domain.Proposal, len(proposalModels))
	for i := range proposalModels {
		proposals[i] = mappers.ToDomainProposal(&proposalModels[i])
	}
	return proposals, nil
}

func (r *DefaultGovernanceRepository) CreateVote(ctx context.Context, vote *domain.VoteRecord) error {
	err := conn(ctx, r.db).Create(mappers.ToGORMVote(vote)).Error
	if isUniqueViolation(err) {
		return domain.ErrAlreadyVoted
	}
	return err
}

func (r *DefaultGovernanceRepository) ListVotes(ctx context.Context, proposalID uint64) ([]*domain.VoteRecord, error) {
	var voteModels []models.GovernanceVoteModel
	if err := conn(ctx, r.db).Where("proposal_id = ?", proposalID).Order("cast_at ASC, voter ASC").Find(&voteModels).Error; err != nil {
		return nil, err
	}
	votes := make([]*domain.VoteRecord, len(voteModels))
	for i := range voteModels {
		votes[i] = mappers.ToDomainVote(&voteModels[i])
	}
	return votes, nil
}

func (r *DefaultGovernanceRepository) GetMember(ctx context.Context, account string) (*domain.Member, error) {
	var model models.MemberModel
	if err := conn(ctx, r.db).First(&model, "account = ?", account).Error; err != nil {
		return nil, notFound(err, domain.ErrMemberNotFound)
	}
	return mappers.ToDomainMember(&model), nil
}

func (r *DefaultGovernanceRepository) SaveMember(ctx context.Context, member *domain.Member) error {
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account"}},
		DoUpdates: clause.AssignmentColumns([]string{"premium", "reputation_score"}),
	}).Create(mappers.ToGORMMember(member)).Error
}
