package usecase

import (
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/google/uuid"
)

func NewEvent(typ domain.EventType, aggregate domain.Aggregate, aggregateID string, payload map[string]any, at time.Time) domain.Event {
	return domain.Event{
		ID:          uuid.NewString(),
		Type:        typ,
		Aggregate:   aggregate,
		AggregateID: aggregateID,
		Payload:     payload,
		OccurredAt:  at,
	}
}
