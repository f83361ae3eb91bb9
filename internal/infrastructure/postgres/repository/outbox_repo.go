package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultOutboxRepository struct {
	db *gorm.DB
}

func NewDefaultOutboxRepository(db *gorm.DB) *DefaultOutboxRepository {
	return &DefaultOutboxRepository{db: db}
}

func (r *DefaultOutboxRepository) AppendEvents(ctx context.Context, events ...domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	eventModels := make([]*models.OutboxEventModel, 0, len(events))
	for _, event := range events {
		model, err := mappers.ToGORMEvent(event)
		if err != nil {
			return err
		}
		eventModels = append(eventModels, model)
	}
	return conn(ctx, r.db).Create(eventModels).Error
}

// ListPending возвращает неопубликованные события в порядке записи
func (r *DefaultOutboxRepository) ListPending(ctx context.Context, limit int) ([]domain.Event, error) {
	query := conn(ctx, r.db).Where("published_at IS NULL AND failed_at IS NULL").Order("seq ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var eventModels []models.OutboxEventModel
	if err := query.Find(&eventModels).Error; err != nil {
		return nil, err
	}
	events := make([]domain.Event, 0, len(eventModels))
	for i := range eventModels {
		event, err := mappers.ToDomainEvent(&eventModels[i])
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (r *DefaultOutboxRepository) MarkPublished(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return conn(ctx, r.db).Model(&models.OutboxEventModel{}).
		Where("id IN ?", ids).
		Update("published_at", at).Error
}

// MarkFailed выводит событие из очереди: оно не будет отправлено повторно
func (r *DefaultOutboxRepository) MarkFailed(ctx context.Context, id string, reason string, at time.Time) error {
	return conn(ctx, r.db).Model(&models.OutboxEventModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"failed_at": at, "last_error": reason}).Error
}
