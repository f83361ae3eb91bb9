package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	publisher "github.com/LavaJover/shvark-escrow-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
)

const defaultBatchSize = 100

// Relay переносит события из outbox в kafka. Доставка at-least-once:
// событие помечается опубликованным только после успешной записи в брокер.
type Relay struct {
	outbox    domain.OutboxRepository
	publisher domain.PublisherPort
	clock     domain.Clock
	metrics   *metrics.ServiceMetrics
	logger    *slog.Logger
	batchSize int
}

func NewRelay(
	outbox domain.OutboxRepository,
	pub domain.PublisherPort,
	clock domain.Clock,
	serviceMetrics *metrics.ServiceMetrics,
	logger *slog.Logger,
	batchSize int,
) *Relay {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Relay{
		outbox:    outbox,
		publisher: pub,
		clock:     clock,
		metrics:   serviceMetrics,
		logger:    logger.With("component", "outbox_relay"),
		batchSize: batchSize,
	}
}

// RelayOnce публикует одну пачку событий и возвращает число опубликованных
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	pending, err := r.outbox.ListPending(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending events: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	// группируем по топику, сохраняя порядок внутри топика
	var topics []string
	byTopic := make(map[string][]domain.Event)
	for _, event := range pending {
		topic := publisher.TopicFor(event.Aggregate)
		if _, ok := byTopic[topic]; !ok {
			topics = append(topics, topic)
		}
		byTopic[topic] = append(byTopic[topic], event)
	}

	published := 0
	for _, topic := range topics {
		events := byTopic[topic]
		msgs := make([]domain.Message, 0, len(events))
		ids := make([]string, 0, len(events))
		for _, event := range events {
			msg, err := publisher.EncodeEvent(event)
			if err != nil {
				// повтор не поможет: событие уходит из очереди с пометкой об ошибке
				r.logger.Error("failed to encode event", slog.String("event_id", event.ID), slog.String("error", err.Error()))
				if err := r.outbox.MarkFailed(ctx, event.ID, err.Error(), r.clock.Now()); err != nil {
					r.metrics.RecordOutbox(published, true)
					return published, fmt.Errorf("mark failed %s: %w", event.ID, err)
				}
				r.metrics.RecordOutboxDeadLetter()
				continue
			}
			msgs = append(msgs, msg)
			ids = append(ids, event.ID)
		}
		if len(msgs) == 0 {
			continue
		}
		if err := r.publisher.Publish(ctx, topic, msgs...); err != nil {
			r.metrics.RecordOutbox(published, true)
			return published, fmt.Errorf("publish to %s: %w", topic, err)
		}
		if err := r.outbox.MarkPublished(ctx, ids, r.clock.Now()); err != nil {
			r.metrics.RecordOutbox(published, true)
			return published, fmt.Errorf("mark published: %w", err)
		}
		published += len(ids)
	}
	r.metrics.RecordOutbox(published, false)
	r.logger.Debug("outbox relayed", slog.Int("published", published))
	return published, nil
}

// Run крутит RelayOnce до отмены ctx
func (r *Relay) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for {
				n, err := r.RelayOnce(ctx)
				if err != nil {
					r.logger.Error("outbox relay failed", slog.String("error", err.Error()))
					break
				}
				if n < r.batchSize {
					break
				}
			}
		}
	}
}
