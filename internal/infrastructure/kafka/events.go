package publisher

import (
	"encoding/json"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

const (
	EscrowTopic     = "escrow-events"
	DisputeTopic    = "dispute-events"
	GovernanceTopic = "governance-events"
	StakeTopic      = "stake-events"
)

// EventMessage - формат доменного события в kafka
type EventMessage struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Aggregate   string         `json:"aggregate"`
	AggregateID string         `json:"aggregate_id"`
	Payload     map[string]any `json:"payload"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

// StakeEvent приходит от сервиса стейкинга
type StakeEvent struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

func TopicFor(aggregate domain.Aggregate) string {
	switch aggregate {
	case domain.AggregateDispute:
		return DisputeTopic
	case domain.AggregateGovernance:
		return GovernanceTopic
	default:
		return EscrowTopic
	}
}

func EncodeEvent(event domain.Event) (domain.Message, error) {
	v, err := json.Marshal(EventMessage{
		ID:          event.ID,
		Type:        string(event.Type),
		Aggregate:   string(event.Aggregate),
		AggregateID: event.AggregateID,
		Payload:     event.Payload,
		OccurredAt:  event.OccurredAt,
	})
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{Key: []byte(event.AggregateID), Value: v}, nil
}

func DecodeStakeEvent(msg domain.Message) (StakeEvent, error) {
	var event StakeEvent
	err := json.Unmarshal(msg.Value, &event)
	return event, err
}
