package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

func NewDefaultKafkaPublisher(brokers []string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

// Publish пишет сообщения в topic. Ключ - ключ агрегата, поэтому события
// одной сделки попадают в одну партицию и сохраняют порядок.
func (k *DefaultKafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	km := make([]kafka.Message, 0, len(msgs))
	now := time.Now()
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
			Topic: topic,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := k.writer.WriteMessages(ctx, km...); err != nil {
		return fmt.Errorf("failed to write %d messages to %s: %w", len(km), topic, err)
	}
	return nil
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}
