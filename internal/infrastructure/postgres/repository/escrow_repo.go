package repository

import (
	"context"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultEscrowRepository struct {
	db *gorm.DB
}

func NewDefaultEscrowRepository(db *gorm.DB) *DefaultEscrowRepository {
	return &DefaultEscrowRepository{db: db}
}

func (r *DefaultEscrowRepository) CreateEscrow(ctx context.Context, job *domain.EscrowJob) error {
	if err := conn(ctx, r.db).Create(mappers.ToGORMEscrow(job)).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEscrowAlreadyExists
		}
		return err
	}
	return nil
}

func (r *DefaultEscrowRepository) GetEscrow(ctx context.Context, key string) (*domain.EscrowJob, error) {
	var model models.EscrowJobModel
	if err := conn(ctx, r.db).First(&model, "key = ?", key).Error; err != nil {
		return nil, notFound(err, domain.ErrEscrowNotFound)
	}
	return mappers.ToDomainEscrow(&model), nil
}

func (r *DefaultEscrowRepository) GetEscrowForUpdate(ctx context.Context, key string) (*domain.EscrowJob, error) {
	var model models.EscrowJobModel
	if err := conn(ctx, r.db).Clauses(forUpdate).First(&model, "key = ?", key).Error; err != nil {
		return nil, notFound(err, domain.ErrEscrowNotFound)
	}
	return mappers.ToDomainEscrow(&model), nil
}

func (r *DefaultEscrowRepository) UpdateEscrow(ctx context.Context, job *domain.EscrowJob) error {
	model := mappers.ToGORMEscrow(job)
	res := conn(ctx, r.db).Model(model).Select("*").Updates(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrEscrowNotFound
	}
	return nil
}

func (r *DefaultEscrowRepository) ListEscrows(ctx context.Context, filter domain.EscrowFilter) ([]*domain.EscrowJob, error) {
	query := conn(ctx, r.db).Model(&models.EscrowJobModel{})
	if filter.Party != "" {
		query = query.Where("client = ? OR freelancer = ?", filter.Party, filter.Party)
	}
	if len(filter.States) > 0 {
		states := make([]string, len(filter.States))
		for i, s := range filter.States {
			states[i] = string(s)
		}
		query = query.Where("state IN ?", states)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var escrowModels []models.EscrowJobModel
	if err := query.Order("created_at ASC, key ASC").Find(&escrowModels).Error; err != nil {
		return nil, err
	}
	jobs := make([]*domain.EscrowJob, len(escrowModels))
	for i := range escrowModels {
		jobs[i] = mappers.ToDomainEscrow(&escrowModels[i])
	}
	return jobs, nil
}
