package governance_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
	governancedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/governance"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/governance"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

const (
	treasury = "dao-treasury"
	lightFee = 100
	majorFee = 1000
	voteFee  = 10
)

var (
	admin = domain.Principal{ID: "dao-admin"}
	alice = domain.Principal{ID: "alice"}
	bob   = domain.Principal{ID: "bob"}
	carol = domain.Principal{ID: "carol"}

	titleHash = bytes.Repeat([]byte{0xab}, domain.TitleHashSize)
)

type env struct {
	uc      *governance.DefaultGovernanceUsecase
	store   *memory.Store
	ledger  *memory.Ledger
	stakes  *memory.StakeRegistry
	metrics *metrics.ServiceMetrics
	clock   *fakeClock
}

func newUninitialized(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	ledger := memory.NewLedger(store)
	stakes := memory.NewStakeRegistry(store, 100)
	serviceMetrics := metrics.NewServiceMetrics(prometheus.NewRegistry())
	clock := &fakeClock{now: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
	uc := governance.NewDefaultGovernanceUsecase(
		memory.NewGovernanceRepository(store), memory.NewOutboxRepository(store), store, ledger, stakes, clock,
		serviceMetrics, slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	for _, p := range []domain.Principal{alice, bob, carol} {
		require.NoError(t, ledger.Deposit(ctx, p.ID, 10_000))
	}
	return &env{uc: uc, store: store, ledger: ledger, stakes: stakes, metrics: serviceMetrics, clock: clock}
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := newUninitialized(t)
	_, err := e.uc.InitDaoConfig(context.Background(), admin, &governancedto.InitDaoConfigInput{
		Treasury:         treasury,
		LightFee:         lightFee,
		MajorFee:         majorFee,
		VoteFee:          voteFee,
		MinVoteDuration:  time.Hour,
		MaxVoteDuration:  72 * time.Hour,
		EligibilityFlags: domain.EligibilityPremium | domain.EligibilityStake,
	})
	require.NoError(t, err)
	return e
}

func (e *env) propose(t *testing.T, who domain.Principal, kind domain.ProposalKind, window time.Duration) *domain.Proposal {
	t.Helper()
	p, err := e.uc.CreateProposal(context.Background(), who, &governancedto.CreateProposalInput{
		Kind:      string(kind),
		URI:       "ipfs://proposal",
		TitleHash: titleHash,
		Window:    window,
	})
	require.NoError(t, err)
	return p
}

func (e *env) vote(who domain.Principal, id uint64, choice domain.VoteChoice) (*domain.VoteRecord, error) {
	return e.uc.CastVote(context.Background(), who, &governancedto.CastVoteInput{ProposalID: id, Choice: string(choice)})
}

func TestGovernance_InitDaoConfig(t *testing.T) {
	e := newUninitialized(t)
	ctx := context.Background()

	_, err := e.uc.CreateProposal(ctx, alice, &governancedto.CreateProposalInput{Kind: "LIGHT", TitleHash: titleHash, Window: time.Hour})
	assert.ErrorIs(t, err, domain.ErrDaoNotInitialized)

	cases := []struct {
		name  string
		input governancedto.InitDaoConfigInput
		err   error
	}{
		{"zero min duration", governancedto.InitDaoConfigInput{Treasury: treasury, MaxVoteDuration: time.Hour}, domain.ErrInvalidWindow},
		{"min above max", governancedto.InitDaoConfigInput{Treasury: treasury, MinVoteDuration: 2 * time.Hour, MaxVoteDuration: time.Hour}, domain.ErrInvalidWindow},
		{"no treasury", governancedto.InitDaoConfigInput{MinVoteDuration: time.Hour, MaxVoteDuration: time.Hour}, domain.ErrInvalidTreasury},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.uc.InitDaoConfig(ctx, admin, &tc.input)
			assert.ErrorIs(t, err, tc.err)
		})
	}

	valid := &governancedto.InitDaoConfigInput{Treasury: treasury, MinVoteDuration: time.Hour, MaxVoteDuration: time.Hour}
	cfg, err := e.uc.InitDaoConfig(ctx, admin, valid)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, cfg.Admin)
	assert.Equal(t, domain.DefaultExecutionDelay, cfg.ExecutionDelay)
	assert.Equal(t, domain.DefaultCancelGrace, cfg.CancelGrace)

	_, err = e.uc.InitDaoConfig(ctx, alice, valid)
	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)

	stored, err := e.uc.GetDaoConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, stored.Admin)
}

func TestGovernance_ProposalLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	p := e.propose(t, alice, domain.ProposalLight, 2*time.Hour)
	assert.Equal(t, uint64(0), p.ID)
	assert.Equal(t, domain.ProposalActive, p.State)
	assert.Equal(t, p.OpensAt.Add(2*time.Hour), p.ClosesAt)
	assert.Equal(t, uint64(lightFee), e.ledger.Balance(treasury))

	vote, err := e.vote(bob, p.ID, domain.VoteYes)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), vote.Weight)
	assert.Equal(t, uint64(voteFee), vote.PaidFee)

	_, err = e.vote(bob, p.ID, domain.VoteNo)
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
	assert.Equal(t, uint64(10_000-voteFee), e.ledger.Balance(bob.ID), "a rejected vote charges nothing")

	_, err = e.uc.FinalizeProposal(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrVotingStillActive)

	e.clock.Advance(2 * time.Hour)
	_, err = e.vote(carol, p.ID, domain.VoteNo)
	assert.ErrorIs(t, err, domain.ErrVotingWindowClosed, "the window is closed at closes_at")

	p, err = e.uc.FinalizeProposal(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalPassed, p.State)
	require.NotNil(t, p.FinalizedAt)

	_, err = e.uc.ExecuteProposal(ctx, admin, p.ID)
	assert.ErrorIs(t, err, domain.ErrExecutionDelayNotMet)

	e.clock.Advance(domain.DefaultExecutionDelay)
	_, err = e.uc.ExecuteProposal(ctx, alice, p.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	p, err = e.uc.ExecuteProposal(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalExecuted, p.State)
	assert.NotNil(t, p.ExecutedAt)

	_, err = e.uc.ExecuteProposal(ctx, admin, p.ID)
	assert.ErrorIs(t, err, domain.ErrProposalNotPassed)

	out, err := e.uc.GetProposal(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, out.Votes, 1)
	assert.Equal(t, bob.ID, out.Votes[0].Voter)
	assert.Equal(t, float64(1), testutil.ToFloat64(e.metrics.ProposalsFinalizedTotal.WithLabelValues(string(domain.ProposalPassed))))
}

func TestGovernance_Outcomes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	empty := e.propose(t, alice, domain.ProposalLight, time.Hour)
	tied := e.propose(t, alice, domain.ProposalMajor, time.Hour)
	assert.Equal(t, uint64(lightFee+majorFee), e.ledger.Balance(treasury))

	_, err := e.vote(bob, tied.ID, domain.VoteYes)
	require.NoError(t, err)
	_, err = e.vote(carol, tied.ID, domain.VoteNo)
	require.NoError(t, err)

	e.clock.Advance(time.Hour)
	n, err := e.uc.FinalizeExpiredProposals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, id := range []uint64{empty.ID, tied.ID} {
		out, err := e.uc.GetProposal(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.ProposalFailed, out.Proposal.State)
	}

	_, err = e.uc.FinalizeProposal(ctx, empty.ID)
	assert.ErrorIs(t, err, domain.ErrProposalNotActive)
	_, err = e.uc.FinalizeProposal(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrProposalNotFound)
}

func TestGovernance_VoteWeight(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	premium := true
	_, err := e.uc.SetMember(ctx, admin, &governancedto.SetMemberInput{Account: bob.ID, Premium: &premium})
	require.NoError(t, err)
	require.NoError(t, e.stakes.SetStake(ctx, carol.ID, 450))

	p := e.propose(t, bob, domain.ProposalMajor, time.Hour)
	assert.Equal(t, uint64(majorFee/2), p.FeePaid)

	v, err := e.vote(bob, p.ID, domain.VoteYes)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v.Weight)
	assert.Equal(t, uint64(voteFee/2), v.PaidFee)

	v, err = e.vote(carol, p.ID, domain.VoteNo)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), v.Weight)

	e.clock.Advance(time.Hour)
	p, err = e.uc.FinalizeProposal(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), p.TallyYes)
	assert.Equal(t, uint64(4), p.TallyNo)
	assert.Equal(t, domain.ProposalFailed, p.State)

	flags := uint8(0)
	_, err = e.uc.SetParams(ctx, admin, &governancedto.SetParamsInput{EligibilityFlags: &flags})
	require.NoError(t, err)
	p = e.propose(t, bob, domain.ProposalLight, time.Hour)
	assert.Equal(t, uint64(lightFee), p.FeePaid, "no discount without the premium flag")
	v, err = e.vote(carol, p.ID, domain.VoteYes)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v.Weight, "stake ignored without the stake flag")
}

func TestGovernance_CreateProposalValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input governancedto.CreateProposalInput
		err   error
	}{
		{"bad kind", governancedto.CreateProposalInput{Kind: "HUGE", TitleHash: titleHash, Window: time.Hour}, domain.ErrInvalidProposalKind},
		{"zero title hash", governancedto.CreateProposalInput{Kind: "LIGHT", TitleHash: make([]byte, domain.TitleHashSize), Window: time.Hour}, domain.ErrInvalidTitleHash},
		{"short title hash", governancedto.CreateProposalInput{Kind: "LIGHT", TitleHash: titleHash[:4], Window: time.Hour}, domain.ErrInvalidTitleHash},
		{"uri too long", governancedto.CreateProposalInput{Kind: "LIGHT", URI: strings.Repeat("u", domain.MaxURILength+1), TitleHash: titleHash, Window: time.Hour}, domain.ErrUriTooLong},
		{"window too short", governancedto.CreateProposalInput{Kind: "LIGHT", TitleHash: titleHash, Window: time.Minute}, domain.ErrInvalidWindow},
		{"window too long", governancedto.CreateProposalInput{Kind: "LIGHT", TitleHash: titleHash, Window: 73 * time.Hour}, domain.ErrInvalidWindow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.uc.CreateProposal(ctx, alice, &tc.input)
			assert.ErrorIs(t, err, tc.err)
		})
	}

	_, err := e.uc.CreateProposal(ctx, domain.Principal{ID: "dave"}, &governancedto.CreateProposalInput{Kind: "LIGHT", TitleHash: titleHash, Window: time.Hour})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	p := e.propose(t, alice, domain.ProposalLight, time.Hour)
	assert.Equal(t, uint64(0), p.ID, "rejected proposals do not consume ids")
}

func TestGovernance_Pause(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.propose(t, alice, domain.ProposalLight, time.Hour)

	_, err := e.uc.SetPause(ctx, alice, true)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	cfg, err := e.uc.SetPause(ctx, admin, true)
	require.NoError(t, err)
	assert.True(t, cfg.Paused)

	_, err = e.uc.CreateProposal(ctx, alice, &governancedto.CreateProposalInput{Kind: "LIGHT", TitleHash: titleHash, Window: time.Hour})
	assert.ErrorIs(t, err, domain.ErrPaused)
	_, err = e.vote(bob, p.ID, domain.VoteYes)
	assert.ErrorIs(t, err, domain.ErrPaused)

	_, err = e.uc.SetPause(ctx, admin, false)
	require.NoError(t, err)
	_, err = e.vote(bob, p.ID, domain.VoteYes)
	assert.NoError(t, err)
}

func TestGovernance_VoteWaitsForPendingPause(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.propose(t, alice, domain.ProposalLight, time.Hour)

	paused := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- e.store.WithinTransaction(ctx, func(ctx context.Context) error {
			if _, err := e.uc.SetPause(ctx, admin, true); err != nil {
				return err
			}
			close(paused)
			<-release
			return nil
		})
	}()
	<-paused

	voted := make(chan error, 1)
	go func() {
		_, err := e.vote(bob, p.ID, domain.VoteYes)
		voted <- err
	}()
	select {
	case err := <-voted:
		t.Fatalf("vote finished before the pause committed: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-done)
	assert.ErrorIs(t, <-voted, domain.ErrPaused)
	assert.Equal(t, uint64(10_000), e.ledger.Balance(bob.ID))
}

func TestGovernance_CancelProposal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	p := e.propose(t, alice, domain.ProposalLight, 4*time.Hour)
	_, err := e.uc.CancelProposal(ctx, bob, p.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	p, err = e.uc.CancelProposal(ctx, alice, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalCanceled, p.State)
	_, err = e.vote(bob, p.ID, domain.VoteYes)
	assert.ErrorIs(t, err, domain.ErrProposalNotActive)

	voted := e.propose(t, alice, domain.ProposalLight, 4*time.Hour)
	_, err = e.vote(bob, voted.ID, domain.VoteNo)
	require.NoError(t, err)
	_, err = e.uc.CancelProposal(ctx, alice, voted.ID)
	assert.ErrorIs(t, err, domain.ErrCancelWindowClosed)

	late := e.propose(t, alice, domain.ProposalLight, 4*time.Hour)
	e.clock.Advance(domain.DefaultCancelGrace + time.Second)
	_, err = e.uc.CancelProposal(ctx, alice, late.ID)
	assert.ErrorIs(t, err, domain.ErrCancelWindowClosed)

	late, err = e.uc.CancelProposal(ctx, admin, late.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalCanceled, late.State)

	out, err := e.uc.ListProposals(ctx, &governancedto.ListProposalsInput{States: []string{"CANCELED"}})
	require.NoError(t, err)
	assert.Len(t, out.Proposals, 2)
}

func TestGovernance_Treasury(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.propose(t, alice, domain.ProposalMajor, time.Hour)

	err := e.uc.WithdrawTreasury(ctx, alice, &governancedto.WithdrawTreasuryInput{To: alice.ID, Amount: 1})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	err = e.uc.WithdrawTreasury(ctx, admin, &governancedto.WithdrawTreasuryInput{To: "grants", Amount: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	err = e.uc.WithdrawTreasury(ctx, admin, &governancedto.WithdrawTreasuryInput{To: "grants", Amount: majorFee + 1})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	require.NoError(t, e.uc.WithdrawTreasury(ctx, admin, &governancedto.WithdrawTreasuryInput{To: "grants", Amount: 600}))
	assert.Equal(t, uint64(600), e.ledger.Balance("grants"))
	assert.Equal(t, uint64(majorFee-600), e.ledger.Balance(treasury))
}

func TestGovernance_SetParams(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tooShort := 3 * time.Hour
	_, err := e.uc.SetParams(ctx, admin, &governancedto.SetParamsInput{MaxVoteDuration: &tooShort, MinVoteDuration: ptr(4 * time.Hour)})
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)

	cfg, err := e.uc.SetParams(ctx, admin, &governancedto.SetParamsInput{LightFee: ptr(uint64(7)), ExecutionDelay: ptr(time.Duration(0))})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.LightFee)
	assert.Equal(t, uint64(majorFee), cfg.MajorFee)
	assert.Equal(t, 72*time.Hour, cfg.MaxVoteDuration, "failed update left nothing behind")
	assert.Zero(t, cfg.ExecutionDelay)
}

func ptr[T any](v T) *T { return &v }
