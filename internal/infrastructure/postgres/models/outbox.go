package models

import "time"

// OutboxEventModel - событие, записанное в той же транзакции, что и изменение состояния
type OutboxEventModel struct {
	ID          string `gorm:"primaryKey"`
	Seq         int64  `gorm:"->"`
	Type        string
	Aggregate   string
	AggregateID string
	Payload     []byte `gorm:"type:jsonb"`
	OccurredAt  time.Time
	PublishedAt *time.Time `gorm:"index"`
	FailedAt    *time.Time
	LastError   string
}

func (OutboxEventModel) TableName() string {
	return "outbox_events"
}
