package mappers

import (
	"encoding/json"
	"fmt"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

func ToGORMEvent(event domain.Event) (*models.OutboxEventModel, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload of %s: %w", event.Type, err)
	}
	return &models.OutboxEventModel{
		ID:          event.ID,
		Type:        string(event.Type),
		Aggregate:   string(event.Aggregate),
		AggregateID: event.AggregateID,
		Payload:     payload,
		OccurredAt:  event.OccurredAt,
		PublishedAt: event.PublishedAt,
		FailedAt:    event.FailedAt,
		LastError:   event.LastError,
	}, nil
}

func ToDomainEvent(model *models.OutboxEventModel) (domain.Event, error) {
	var payload map[string]any
	if err := json.Unmarshal(model.Payload, &payload); err != nil {
		return domain.Event{}, fmt.Errorf("unmarshal payload of %s: %w", model.ID, err)
	}
	return domain.Event{
		ID:          model.ID,
		Type:        domain.EventType(model.Type),
		Aggregate:   domain.Aggregate(model.Aggregate),
		AggregateID: model.AggregateID,
		Payload:     payload,
		OccurredAt:  model.OccurredAt,
		PublishedAt: model.PublishedAt,
		FailedAt:    model.FailedAt,
		LastError:   model.LastError,
	}, nil
}
