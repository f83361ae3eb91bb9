package memory

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RollbackUndoesWrites(t *testing.T) {
	store := NewStore()
	ledger := NewLedger(store)
	escrows := NewEscrowRepository(store)
	outbox := NewOutboxRepository(store)
	ctx := context.Background()
	require.NoError(t, ledger.Deposit(ctx, "alice", 100))

	boom := errors.New("boom")
	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, escrows.CreateEscrow(ctx, &domain.EscrowJob{Key: "alice/1", Client: "alice", State: domain.EscrowProposed}))
		require.NoError(t, ledger.Hold(ctx, "alice", "alice/1", 60))
		require.NoError(t, outbox.AppendEvents(ctx, domain.Event{ID: "evt-1"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = escrows.GetEscrow(ctx, "alice/1")
	assert.ErrorIs(t, err, domain.ErrEscrowNotFound)
	assert.Equal(t, uint64(100), ledger.Balance("alice"))
	_, ok := ledger.Held("alice/1")
	assert.False(t, ok)
	assert.Empty(t, outbox.Events(), "outbox events of a rolled back tx are dropped")
}

func TestStore_OutboxVisibleAfterCommit(t *testing.T) {
	store := NewStore()
	outbox := NewOutboxRepository(store)
	ctx := context.Background()

	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, outbox.AppendEvents(ctx, domain.Event{ID: "evt-1"}))
		pending, err := outbox.ListPending(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, pending)
		return nil
	})
	require.NoError(t, err)

	pending, err := outbox.ListPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NoError(t, outbox.MarkPublished(ctx, []string{"evt-1"}, time.Now()))
	pending, err = outbox.ListPending(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestStore_ForUpdateBlocksSecondTx(t *testing.T) {
	store := NewStore()
	escrows := NewEscrowRepository(store)
	ctx := context.Background()
	require.NoError(t, escrows.CreateEscrow(ctx, &domain.EscrowJob{Key: "alice/1", State: domain.EscrowActive}))

	locked := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = store.WithinTransaction(ctx, func(ctx context.Context) error {
			_, err := escrows.GetEscrowForUpdate(ctx, "alice/1")
			close(locked)
			<-release
			return err
		})
	}()
	<-locked

	timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := store.WithinTransaction(timeoutCtx, func(ctx context.Context) error {
		_, err := escrows.GetEscrowForUpdate(ctx, "alice/1")
		return err
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	err = store.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := escrows.GetEscrowForUpdate(ctx, "alice/1")
		return err
	})
	assert.NoError(t, err)
}

func TestStore_ReadOutsideTxSkipsUncommittedWrites(t *testing.T) {
	store := NewStore()
	escrows := NewEscrowRepository(store)
	ctx := context.Background()
	require.NoError(t, escrows.CreateEscrow(ctx, &domain.EscrowJob{Key: "alice/1", State: domain.EscrowActive}))

	written := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- store.WithinTransaction(ctx, func(ctx context.Context) error {
			job, err := escrows.GetEscrowForUpdate(ctx, "alice/1")
			if err != nil {
				return err
			}
			job.State = domain.EscrowCompleted
			if err := escrows.UpdateEscrow(ctx, job); err != nil {
				return err
			}
			close(written)
			<-release
			return errors.New("abort")
		})
	}()
	<-written

	timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err := escrows.GetEscrow(timeoutCtx, "alice/1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	read := make(chan *domain.EscrowJob, 1)
	go func() {
		job, _ := escrows.GetEscrow(ctx, "alice/1")
		read <- job
	}()
	close(release)
	require.Error(t, <-done)
	job := <-read
	require.NotNil(t, job)
	assert.Equal(t, domain.EscrowActive, job.State)
}

func TestStore_NestedTransactionJoinsOuter(t *testing.T) {
	store := NewStore()
	ledger := NewLedger(store)
	ctx := context.Background()
	require.NoError(t, ledger.Deposit(ctx, "alice", 10))

	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, store.WithinTransaction(ctx, func(ctx context.Context) error {
			return ledger.Transfer(ctx, "alice", "bob", 4)
		}))
		return errors.New("outer fails")
	})
	require.Error(t, err)
	assert.Equal(t, uint64(10), ledger.Balance("alice"))
	assert.Zero(t, ledger.Balance("bob"))
}

func TestLedger(t *testing.T) {
	store := NewStore()
	ledger := NewLedger(store)
	ctx := context.Background()
	require.NoError(t, ledger.Deposit(ctx, "alice", 100))

	assert.ErrorIs(t, ledger.Transfer(ctx, "alice", "bob", 101), domain.ErrInsufficientFunds)
	assert.ErrorIs(t, ledger.Hold(ctx, "alice", "h1", 101), domain.ErrInsufficientFunds)

	require.NoError(t, ledger.Hold(ctx, "alice", "h1", 80))
	assert.Error(t, ledger.Hold(ctx, "alice", "h1", 1), "hold ids are unique")
	assert.ErrorIs(t, ledger.Release(ctx, "h1", domain.Payout{To: "bob", Amount: 79}), domain.ErrHoldMismatch)
	assert.ErrorIs(t, ledger.Release(ctx, "h2"), domain.ErrHoldNotFound)

	// 80 + (2^64 - 30) wraps to 50
	wrapped := []domain.Payout{{To: "alice", Amount: 80}, {To: "bob", Amount: math.MaxUint64 - 29}}
	assert.ErrorIs(t, ledger.Release(ctx, "h1", wrapped...), domain.ErrHoldMismatch)
	assert.Zero(t, ledger.Balance("bob"))
	held, ok := ledger.Held("h1")
	require.True(t, ok)
	assert.Equal(t, uint64(80), held)

	require.NoError(t, ledger.Release(ctx, "h1", domain.Payout{To: "bob", Amount: 50}, domain.Payout{To: "alice", Amount: 30}))
	assert.Equal(t, uint64(50), ledger.Balance("bob"))
	assert.Equal(t, uint64(50), ledger.Balance("alice"))
	_, ok = ledger.Held("h1")
	assert.False(t, ok)
}

func TestStakeRegistry(t *testing.T) {
	stakes := NewStakeRegistry(NewStore(), 100)
	ctx := context.Background()

	w, err := stakes.VoteWeight(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), w, "no stake still votes with weight 1")

	require.NoError(t, stakes.SetStake(ctx, "alice", 450))
	w, err = stakes.VoteWeight(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), w)

	require.NoError(t, stakes.SetStake(ctx, "alice", 50))
	w, err = stakes.VoteWeight(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), w, "a lowered stake replaces the previous one")
}
