package memory

import (
	"context"
	"sync"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// Store keeps every record in process memory. Records read through the
// ForUpdate methods or written inside WithinTransaction stay locked until the
// transaction ends, and writes of a failed transaction are undone.
type Store struct {
	mu    sync.Mutex
	locks map[string]chan struct{}

	escrows map[string]*domain.EscrowJob

	arbitration *domain.ArbitrationConfig
	daoMembers  map[string]time.Time
	disputes    map[uint64]*domain.Dispute
	panels      map[uint64]*domain.DisputePanel
	panelSeeds  map[uint64]uint64
	panelVotes  map[string]*domain.PanelVoteRecord

	dao       *domain.DaoConfig
	proposals map[uint64]*domain.Proposal
	votes     map[string]*domain.VoteRecord
	members   map[string]*domain.Member

	outbox []domain.Event

	balances map[string]uint64
	holds    map[string]hold
	stakes   map[string]uint64
}

type hold struct {
	account string
	amount  uint64
}

func NewStore() *Store {
	return &Store{
		locks:      make(map[string]chan struct{}),
		escrows:    make(map[string]*domain.EscrowJob),
		daoMembers: make(map[string]time.Time),
		disputes:   make(map[uint64]*domain.Dispute),
		panels:     make(map[uint64]*domain.DisputePanel),
		panelSeeds: make(map[uint64]uint64),
		panelVotes: make(map[string]*domain.PanelVoteRecord),
		proposals:  make(map[uint64]*domain.Proposal),
		votes:      make(map[string]*domain.VoteRecord),
		members:    make(map[string]*domain.Member),
		balances:   make(map[string]uint64),
		holds:      make(map[string]hold),
		stakes:     make(map[string]uint64),
	}
}

type txKey struct{}

type tx struct {
	held   map[string]chan struct{}
	undo   []func()
	commit []func()
}

// WithinTransaction implements domain.TxManager. A nested call joins the
// outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*tx); ok {
		return fn(ctx)
	}
	t := &tx{held: make(map[string]chan struct{})}
	defer func() {
		if p := recover(); p != nil {
			s.rollback(t)
			t.release()
			panic(p)
		}
		if err != nil {
			s.rollback(t)
		} else {
			s.applyCommit(t)
		}
		t.release()
	}()
	return fn(context.WithValue(ctx, txKey{}, t))
}

func (s *Store) rollback(t *tx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (s *Store) applyCommit(t *tx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fn := range t.commit {
		fn()
	}
	t.commit = nil
}

func (t *tx) release() {
	for _, l := range t.held {
		<-l
	}
	t.held = nil
}

func (s *Store) lockChan(key string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[key] = l
	}
	return l
}

func (s *Store) lock(ctx context.Context, t *tx, key string) error {
	if _, ok := t.held[key]; ok {
		return nil
	}
	l := s.lockChan(key)
	select {
	case l <- struct{}{}:
		t.held[key] = l
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// lockForUpdate locks the keys for the rest of the transaction in ctx.
// Outside a transaction it is a no-op.
func (s *Store) lockForUpdate(ctx context.Context, keys ...string) error {
	t, ok := ctx.Value(txKey{}).(*tx)
	if !ok {
		return nil
	}
	for _, k := range keys {
		if err := s.lock(ctx, t, k); err != nil {
			return err
		}
	}
	return nil
}

// write locks keys, then applies fn under the store mutex. The closure fn
// returns is run if the transaction is rolled back.
func (s *Store) write(ctx context.Context, keys []string, fn func() (func(), error)) error {
	t, ok := ctx.Value(txKey{}).(*tx)
	if !ok {
		return s.WithinTransaction(ctx, func(ctx context.Context) error {
			return s.write(ctx, keys, fn)
		})
	}
	for _, k := range keys {
		if err := s.lock(ctx, t, k); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	undo, err := fn()
	if err != nil {
		return err
	}
	if undo != nil {
		t.undo = append(t.undo, undo)
	}
	return nil
}

// afterCommit defers fn until the transaction in ctx commits. Outside a
// transaction fn runs right away.
func (s *Store) afterCommit(ctx context.Context, fn func()) {
	t, ok := ctx.Value(txKey{}).(*tx)
	if !ok {
		s.update(fn)
		return
	}
	t.commit = append(t.commit, fn)
}

// readCommitted reads a single record. Outside a transaction it waits until no
// transaction holds key, so uncommitted writes are never seen. Inside a
// transaction it reads in place: records this transaction locked show its own
// writes, others need the ForUpdate methods to be stable.
func (s *Store) readCommitted(ctx context.Context, key string, fn func()) error {
	if _, ok := ctx.Value(txKey{}).(*tx); ok {
		s.read(fn)
		return nil
	}
	l := s.lockChan(key)
	select {
	case l <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-l }()
	s.read(fn)
	return nil
}

// update applies fn under the store mutex outside any transaction. Used for
// state that is not rolled back, such as stake snapshots and outbox marks.
func (s *Store) update(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func (s *Store) read(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
