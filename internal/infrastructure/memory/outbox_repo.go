package memory

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

type OutboxRepository struct {
	store *Store
}

func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

func (r *OutboxRepository) AppendEvents(ctx context.Context, events ...domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	// события становятся видны релею только после коммита
	r.store.afterCommit(ctx, func() {
		r.store.outbox = append(r.store.outbox, events...)
	})
	return nil
}

func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]domain.Event, error) {
	var pending []domain.Event
	r.store.read(func() {
		for _, e := range r.store.outbox {
			if e.PublishedAt != nil || e.FailedAt != nil {
				continue
			}
			pending = append(pending, e)
			if limit > 0 && len(pending) == limit {
				break
			}
		}
	})
	return pending, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, ids []string, at time.Time) error {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	r.store.update(func() {
		for i := range r.store.outbox {
			if _, ok := set[r.store.outbox[i].ID]; ok {
				t := at
				r.store.outbox[i].PublishedAt = &t
			}
		}
	})
	return nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id string, reason string, at time.Time) error {
	r.store.update(func() {
		for i := range r.store.outbox {
			if r.store.outbox[i].ID == id {
				t := at
				r.store.outbox[i].FailedAt = &t
				r.store.outbox[i].LastError = reason
				return
			}
		}
	})
	return nil
}

// Events returns every recorded event in order.
func (r *OutboxRepository) Events() []domain.Event {
	var events []domain.Event
	r.store.read(func() {
		events = append(events, r.store.outbox...)
	})
	return events
}
