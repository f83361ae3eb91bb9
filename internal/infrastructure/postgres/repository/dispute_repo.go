package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultDisputeRepository struct {
	db *gorm.DB
}

func NewDefaultDisputeRepository(db *gorm.DB) *DefaultDisputeRepository {
	return &DefaultDisputeRepository{db: db}
}

////////////////////// Конфиг арбитража //////////////////////////

func (r *DefaultDisputeRepository) InitArbitrationConfig(ctx context.Context, cfg *domain.ArbitrationConfig) (bool, error) {
	res := conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(mappers.ToGORMArbitrationConfig(cfg))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *DefaultDisputeRepository) GetArbitrationConfig(ctx context.Context) (*domain.ArbitrationConfig, error) {
	var model models.ArbitrationConfigModel
	if err := conn(ctx, r.db).First(&model, "id = ?", 1).Error; err != nil {
		return nil, notFound(err, domain.ErrArbitrationNotConfigured)
	}
	return mappers.ToDomainArbitrationConfig(&model), nil
}

func (r *DefaultDisputeRepository) GetArbitrationConfigForUpdate(ctx context.Context) (*domain.ArbitrationConfig, error) {
	var model models.ArbitrationConfigModel
	if err := conn(ctx, r.db).Clauses(forUpdate).First(&model, "id = ?", 1).Error; err != nil {
		return nil, notFound(err, domain.ErrArbitrationNotConfigured)
	}
	return mappers.ToDomainArbitrationConfig(&model), nil
}

func (r *DefaultDisputeRepository) UpdateArbitrationConfig(ctx context.Context, cfg *domain.ArbitrationConfig) error {
	model := mappers.ToGORMArbitrationConfig(cfg)
	res := conn(ctx, r.db).Model(model).Select("*").Updates(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrArbitrationNotConfigured
	}
	return nil
}

////////////////////// Участники DAO //////////////////////////

func (r *DefaultDisputeRepository) AddDaoMember(ctx context.Context, account string, at time.Time) error {
	err := conn(ctx, r.db).Create(&models.DaoMemberModel{Account: account, AddedAt: at}).Error
	if isUniqueViolation(err) {
		return domain.ErrAlreadyDaoMember
	}
	return err
}

func (r *DefaultDisputeRepository) RemoveDaoMember(ctx context.Context, account string) error {
	res := conn(ctx, r.db).Delete(&models.DaoMemberModel{}, "account = ?", account)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotDaoMember
	}
	return nil
}

func (r *DefaultDisputeRepository) IsDaoMember(ctx context.Context, account string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.DaoMemberModel{}).Where("account = ?", account).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DefaultDisputeRepository) ListDaoMembers(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := conn(ctx, r.db).Model(&models.DaoMemberModel{}).Order("account ASC").Pluck("account", &accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

////////////////////// Диспуты //////////////////////////

func (r *DefaultDisputeRepository) CreateDispute(ctx context.Context, dispute *domain.Dispute) error {
	return conn(ctx, r.db).Create(mappers.ToGORMDispute(dispute)).Error
}

func (r *DefaultDisputeRepository) GetDispute(ctx context.Context, id uint64) (*domain.Dispute, error) {
	var model models.DisputeModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, domain.ErrDisputeNotFound)
	}
	return mappers.ToDomainDispute(&model), nil
}

func (r *DefaultDisputeRepository) GetDisputeForUpdate(ctx context.Context, id uint64) (*domain.Dispute, error) {
	var model models.DisputeModel
	if err := conn(ctx, r.db).Clauses(forUpdate).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, domain.ErrDisputeNotFound)
	}
	return mappers.ToDomainDispute(&model), nil
}

func (r *DefaultDisputeRepository) UpdateDispute(ctx context.Context, dispute *domain.Dispute) error {
	model := mappers.ToGORMDispute(dispute)
	res := conn(ctx, r.db).Model(model).Select("*").Updates(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrDisputeNotFound
	}
	return nil
}

func (r *DefaultDisputeRepository) ListDisputes(ctx context.Context, filter domain.DisputeFilter) ([]*domain.Dispute, error) {
	query := conn(ctx, r.db).Model(&models.DisputeModel{})
	if filter.Party != "" {
		query = query.Where("? = ANY(parties)", filter.Party)
	}
	if filter.Reason != "" {
		query = query.Where("reason = ?", string(filter.Reason))
	}
	states := make([]string, 0, len(filter.States)+3)
	for _, s := range filter.States {
		states = append(states, string(s))
	}
	if len(states) > 0 {
		query = query.Where("state IN ?", states)
	}
	if filter.OpenOnly {
		query = query.Where("state IN ?", []string{
			string(domain.DisputePending),
			string(domain.DisputePanelFormed),
			string(domain.DisputeDeliberating),
		})
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var disputeModels []models.DisputeModel
	if err := query.Order("id ASC").Find(&disputeModels).Error; err != nil {
		return nil, err
	}
	disputes := make([]*domain.Dispute, len(disputeModels))
	for i := range disputeModels {
		disputes[i] = mappers.ToDomainDispute(&disputeModels[i])
	}
	return disputes, nil
}

////////////////////// Панели и голоса //////////////////////////

func (r *DefaultDisputeRepository) CreatePanel(ctx context.Context, panel *domain.DisputePanel) error {
	err := conn(ctx, r.db).Create(mappers.ToGORMPanel(panel)).Error
	if constraint, ok := uniqueConstraint(err); ok && constraint != "dispute_panels_pkey" {
		return domain.ErrSeedAlreadyUsed
	}
	return err
}

func (r *DefaultDisputeRepository) GetPanel(ctx context.Context, disputeID uint64) (*domain.DisputePanel, error) {
	var model models.DisputePanelModel
	if err := conn(ctx, r.db).First(&model, "dispute_id = ?", disputeID).Error; err != nil {
		return nil, notFound(err, domain.ErrPanelNotFound)
	}
	return mappers.ToDomainPanel(&model), nil
}

func (r *DefaultDisputeRepository) UpdatePanel(ctx context.Context, panel *domain.DisputePanel) error {
	model := mappers.ToGORMPanel(panel)
	res := conn(ctx, r.db).Model(model).Select("*").Updates(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrPanelNotFound
	}
	return nil
}

func (r *DefaultDisputeRepository) CreatePanelVote(ctx context.Context, vote *domain.PanelVoteRecord) error {
	err := conn(ctx, r.db).Create(mappers.ToGORMPanelVote(vote)).Error
	if isUniqueViolation(err) {
		return domain.ErrAlreadyVoted
	}
	return err
}

func (r *DefaultDisputeRepository) ListPanelVotes(ctx context.Context, disputeID uint64) ([]*domain.PanelVoteRecord, error) {
	var voteModels []models.PanelVoteModel
	if err := conn(ctx, r.db).Where("dispute_id = ?", disputeID).Order("cast_at ASC, voter ASC").Find(&voteModels).Error; err != nil {
		return nil, err
	}
	votes := make([]*domain.PanelVoteRecord, len(voteModels))
	for i := range voteModels {
		votes[i] = mappers.ToDomainPanelVote(&voteModels[i])
	}
	return votes, nil
}
