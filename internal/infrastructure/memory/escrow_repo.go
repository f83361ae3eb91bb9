package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

type EscrowRepository struct {
	store *Store
}

func NewEscrowRepository(store *Store) *EscrowRepository {
	return &EscrowRepository{store: store}
}

func escrowLock(key string) string { return "escrow/" + key }

func (r *EscrowRepository) CreateEscrow(ctx context.Context, job *domain.EscrowJob) error {
	return r.store.write(ctx, []string{escrowLock(job.Key)}, func() (func(), error) {
		if _, ok := r.store.escrows[job.Key]; ok {
			return nil, domain.ErrEscrowAlreadyExists
		}
		r.store.escrows[job.Key] = cloneEscrow(job)
		return func() { delete(r.store.escrows, job.Key) }, nil
	})
}

func (r *EscrowRepository) GetEscrow(ctx context.Context, key string) (*domain.EscrowJob, error) {
	var job *domain.EscrowJob
	if err := r.store.readCommitted(ctx, escrowLock(key), func() {
		if j, ok := r.store.escrows[key]; ok {
			job = cloneEscrow(j)
		}
	}); err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrEscrowNotFound
	}
	return job, nil
}

func (r *EscrowRepository) GetEscrowForUpdate(ctx context.Context, key string) (*domain.EscrowJob, error) {
	if err := r.store.lockForUpdate(ctx, escrowLock(key)); err != nil {
		return nil, err
	}
	return r.GetEscrow(ctx, key)
}

func (r *EscrowRepository) UpdateEscrow(ctx context.Context, job *domain.EscrowJob) error {
	return r.store.write(ctx, []string{escrowLock(job.Key)}, func() (func(), error) {
		prev, ok := r.store.escrows[job.Key]
		if !ok {
			return nil, domain.ErrEscrowNotFound
		}
		r.store.escrows[job.Key] = cloneEscrow(job)
		return func() { r.store.escrows[job.Key] = prev }, nil
	})
}

func (r *EscrowRepository) ListEscrows(ctx context.Context, filter domain.EscrowFilter) ([]*domain.EscrowJob, error) {
	var jobs []*domain.EscrowJob
	r.store.read(func() {
		for _, j := range r.store.escrows {
			if filter.Party != "" && !j.IsParty(filter.Party) {
				continue
			}
			if len(filter.States) > 0 && !slices.Contains(filter.States, j.State) {
				continue
			}
			jobs = append(jobs, cloneEscrow(j))
		}
	})
	sort.Slice(jobs, func(a, b int) bool {
		if !jobs[a].CreatedAt.Equal(jobs[b].CreatedAt) {
			return jobs[a].CreatedAt.Before(jobs[b].CreatedAt)
		}
		return jobs[a].Key < jobs[b].Key
	})
	return page(jobs, filter.Limit, filter.Offset), nil
}
