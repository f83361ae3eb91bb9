package dispute_test

import (
	"context"
	"crypto/ed25519"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/dispute"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
	escrowdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/escrow"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/escrow"
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
	amount     = 2_000_000
	disputeFee = 2
)

var (
	admin  = domain.Principal{ID: "admin"}
	judge1 = domain.Principal{ID: "judge-1"}
	judge2 = domain.Principal{ID: "judge-2"}
	judge3 = domain.Principal{ID: "judge-3"}
)

type env struct {
	disputes *dispute.DefaultDisputeUsecase
	escrows  *escrow.DefaultEscrowUsecase
	store    *memory.Store
	ledger   *memory.Ledger
	outbox   *memory.OutboxRepository
	metrics  *metrics.ServiceMetrics
	clock    *fakeClock

	client    domain.Principal
	clientKey ed25519.PrivateKey
	worker    domain.Principal
	workerKey ed25519.PrivateKey
}

func testSettings(autoJudge bool) dispute.Settings {
	return dispute.Settings{
		Admin:              admin.ID,
		Treasury:           "treasury",
		DefaultQuorum:      2,
		DisputeFee:         disputeFee,
		PanelTTL:           48 * time.Hour,
		LatePenaltyPercent: 7,
		AutoJudgeOnQuorum:  autoJudge,
	}
}

func newEnv(t *testing.T, autoJudge bool) *env {
	return newEnvWithConfig(t, testSettings(autoJudge), nil)
}

// stored, when set, is written before Bootstrap, as if left by an earlier run.
func newEnvWithConfig(t *testing.T, settings dispute.Settings, stored *domain.ArbitrationConfig) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	ledger := memory.NewLedger(store)
	outbox := memory.NewOutboxRepository(store)
	disputeRepo := memory.NewDisputeRepository(store)
	serviceMetrics := metrics.NewServiceMetrics(prometheus.NewRegistry())
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if stored != nil {
		_, err := disputeRepo.InitArbitrationConfig(ctx, stored)
		require.NoError(t, err)
	}
	escrows := escrow.NewDefaultEscrowUsecase(memory.NewEscrowRepository(store), outbox, store, ledger, clock, serviceMetrics, logger, 0)
	disputes := dispute.NewDefaultDisputeUsecase(disputeRepo, outbox, store, ledger, escrows, clock, serviceMetrics, logger, settings)
	require.NoError(t, disputes.Bootstrap(ctx))
	for _, j := range []domain.Principal{judge1, judge2, judge3} {
		require.NoError(t, disputes.AddDaoMember(ctx, admin, j.ID))
	}

	clientPub, clientKey, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	workerPub, workerKey, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	require.NoError(t, ledger.Deposit(ctx, "alice", 10_000_000))
	require.NoError(t, ledger.Deposit(ctx, "bob", 100))

	return &env{
		disputes:  disputes,
		escrows:   escrows,
		store:     store,
		ledger:    ledger,
		outbox:    outbox,
		metrics:   serviceMetrics,
		clock:     clock,
		client:    domain.Principal{ID: "alice", PublicKey: clientPub},
		clientKey: clientKey,
		worker:    domain.Principal{ID: "bob", PublicKey: workerPub},
		workerKey: workerKey,
	}
}

func (e *env) ref(id uint64) escrowdto.EscrowRef {
	return escrowdto.EscrowRef{Client: e.client.ID, ID: id}
}

func (e *env) activate(t *testing.T, id uint64, deadline *time.Time) *domain.EscrowJob {
	t.Helper()
	ctx := context.Background()
	job, err := e.escrows.CreateEscrow(ctx, e.client, &escrowdto.CreateEscrowInput{ID: id, Freelancer: e.worker.ID, Amount: amount, Deadline: deadline})
	require.NoError(t, err)
	_, err = e.escrows.AcceptProposal(ctx, e.worker, e.ref(id))
	require.NoError(t, err)
	_, err = e.escrows.SubmitSignature(ctx, e.client, &escrowdto.SubmitSignatureInput{EscrowRef: e.ref(id), Signature: ed25519.Sign(e.clientKey, job.SigningPayload())})
	require.NoError(t, err)
	job, err = e.escrows.SubmitSignature(ctx, e.worker, &escrowdto.SubmitSignatureInput{EscrowRef: e.ref(id), Signature: ed25519.Sign(e.workerKey, job.SigningPayload())})
	require.NoError(t, err)
	return job
}

func (e *env) open(t *testing.T, reason domain.DisputeReason, escrowID uint64) *domain.Dispute {
	t.Helper()
	d, err := e.disputes.OpenDispute(context.Background(), e.client, &disputedto.OpenDisputeInput{
		Parties: []string{e.worker.ID, e.client.ID},
		URI:     "ipfs://evidence",
		Reason:  string(reason),
		Escrow:  &disputedto.EscrowLink{Client: e.client.ID, ID: escrowID},
		Fee:     disputeFee,
	})
	require.NoError(t, err)
	return d
}

func (e *env) formPanel(t *testing.T, disputeID, seed uint64) *domain.DisputePanel {
	t.Helper()
	panel, err := e.disputes.FormPanel(context.Background(), admin, &disputedto.FormPanelInput{
		DisputeID: disputeID,
		Members:   []string{judge1.ID, judge2.ID, judge3.ID},
		Seed:      seed,
	})
	require.NoError(t, err)
	return panel
}

func (e *env) vote(disputeID uint64, who domain.Principal, choice domain.PanelChoice) (*domain.Dispute, error) {
	return e.disputes.CastPanelVote(context.Background(), who, &disputedto.CastPanelVoteInput{DisputeID: disputeID, Choice: string(choice)})
}

func (e *env) escrowState(t *testing.T, id uint64) domain.EscrowState {
	t.Helper()
	job, err := e.escrows.GetEscrow(context.Background(), e.ref(id))
	require.NoError(t, err)
	return job.State
}

func TestDispute_QualityIssueEndToEnd(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()
	e.activate(t, 0, nil)

	d := e.open(t, domain.ReasonQuality, 0)
	assert.Equal(t, uint64(0), d.ID)
	assert.Equal(t, []string{"alice", "bob"}, d.Parties, "client first")
	assert.Equal(t, domain.DisputePending, d.State)
	assert.Equal(t, uint64(disputeFee), e.ledger.Balance("treasury"))
	assert.Equal(t, domain.EscrowDisputed, e.escrowState(t, 0))

	panel := e.formPanel(t, d.ID, 42)
	assert.Equal(t, uint8(2), panel.RequiredQuorum)
	assert.Equal(t, panel.FormedAt.Add(48*time.Hour), panel.ExpiresAt)

	d, err := e.vote(d.ID, judge1, domain.PanelChoiceFreelancer)
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeDeliberating, d.State)

	_, err = e.vote(d.ID, judge1, domain.PanelChoiceFreelancer)
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

	_, err = e.vote(d.ID, e.client, domain.PanelChoiceClient)
	assert.ErrorIs(t, err, domain.ErrNotPanelMember)

	d, err = e.vote(d.ID, judge2, domain.PanelChoiceFreelancer)
	require.NoError(t, err)
	require.Equal(t, domain.DisputeJudged, d.State)
	require.NotNil(t, d.Judgment)
	assert.Equal(t, domain.OutcomeResolved, d.Judgment.Outcome)
	assert.Equal(t, domain.JudgmentFreelancer, d.Judgment.Choice)
	require.NotNil(t, d.Judgment.Winner)
	assert.Equal(t, "bob", *d.Judgment.Winner)
	assert.Equal(t, uint32(2), d.Judgment.VotesForFreelancer)

	_, err = e.vote(d.ID, judge3, domain.PanelChoiceClient)
	assert.ErrorIs(t, err, domain.ErrInvalidDisputeState)

	_, err = e.disputes.ExecuteJudgment(ctx, e.client, d.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	d, err = e.disputes.ExecuteJudgment(ctx, admin, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeExecuted, d.State)
	assert.NotNil(t, d.ClosedAt)
	assert.Equal(t, domain.EscrowCompleted, e.escrowState(t, 0))
	assert.Equal(t, uint64(100+amount), e.ledger.Balance("bob"))

	_, err = e.disputes.ExecuteJudgment(ctx, admin, d.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidDisputeState)

	out, err := e.disputes.GetDispute(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, out.Panel)
	assert.Equal(t, uint32(2), out.Panel.TotalVotesCast)
	assert.Len(t, out.Votes, 2)

	assert.Equal(t, float64(1), testutil.ToFloat64(e.metrics.DisputesResolvedTotal.WithLabelValues(
		string(domain.ReasonQuality), string(domain.OutcomeResolved), string(domain.JudgmentFreelancer))))
	assert.Equal(t, float64(0), testutil.ToFloat64(e.metrics.DisputesOpenGauge))
}

func TestDispute_ClientWinsIsFullRefund(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()
	activated := e.activate(t, 0, nil)
	d := e.open(t, domain.ReasonNonDelivery, 0)
	panel := e.formPanel(t, d.ID, 3)
	require.Len(t, panel.Members, 3)
	require.Equal(t, uint8(2), panel.RequiredQuorum)

	_, err := e.vote(d.ID, judge2, domain.PanelChoiceClient)
	require.NoError(t, err)
	d, err = e.vote(d.ID, judge3, domain.PanelChoiceClient)
	require.NoError(t, err)
	require.Equal(t, domain.DisputeJudged, d.State)
	assert.Equal(t, domain.OutcomeResolved, d.Judgment.Outcome)
	assert.Equal(t, domain.JudgmentClient, d.Judgment.Choice)
	require.NotNil(t, d.Judgment.Winner)
	assert.Equal(t, "alice", *d.Judgment.Winner)
	assert.Equal(t, uint32(2), d.Judgment.VotesForClient)

	_, err = e.disputes.ExecuteJudgment(ctx, admin, d.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000_000-disputeFee), e.ledger.Balance("alice"))
	assert.Equal(t, uint64(100), e.ledger.Balance("bob"))
	_, held := e.ledger.Held(activated.Key)
	assert.False(t, held)

	job, err := e.escrows.GetEscrow(ctx, e.ref(0))
	require.NoError(t, err)
	assert.Equal(t, domain.EscrowCanceled, job.State)
	assert.Equal(t, uint64(amount), job.RefundedAmount)
}

func TestDispute_TieIsRejectedAndEscrowReinstated(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()
	e.activate(t, 0, nil)
	d := e.open(t, domain.ReasonNonDelivery, 0)
	e.formPanel(t, d.ID, 7)

	_, err := e.vote(d.ID, judge1, domain.PanelChoiceClient)
	require.NoError(t, err)
	d, err = e.vote(d.ID, judge2, domain.PanelChoiceFreelancer)
	require.NoError(t, err)
	require.Equal(t, domain.DisputeJudged, d.State)
	assert.Equal(t, domain.OutcomeRejected, d.Judgment.Outcome)
	assert.Nil(t, d.Judgment.Winner)

	_, err = e.disputes.ExecuteJudgment(ctx, admin, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EscrowActive, e.escrowState(t, 0))

	job, err := e.escrows.CompleteEscrow(ctx, e.client, e.ref(0))
	require.NoError(t, err)
	assert.Equal(t, domain.EscrowCompleted, job.State)
}

func TestDispute_FinalizeJudgmentChecksEvidence(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	e.activate(t, 0, nil)
	d := e.open(t, domain.ReasonQuality, 0)
	e.formPanel(t, d.ID, 9)

	_, err := e.vote(d.ID, judge1, domain.PanelChoiceClient)
	require.NoError(t, err)

	_, err = e.disputes.FinalizeJudgment(ctx, admin, &disputedto.FinalizeJudgmentInput{
		DisputeID:   d.ID,
		VoteRecords: []disputedto.VoteEvidence{{Voter: judge1.ID, Choice: "CLIENT"}},
	})
	assert.ErrorIs(t, err, domain.ErrQuorumNotReached)

	d2, err := e.vote(d.ID, judge2, domain.PanelChoiceClient)
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeDeliberating, d2.State, "no auto judgment")

	_, err = e.disputes.FinalizeJudgment(ctx, admin, &disputedto.FinalizeJudgmentInput{
		DisputeID: d.ID,
		VoteRecords: []disputedto.VoteEvidence{
			{Voter: judge1.ID, Choice: "CLIENT"},
			{Voter: judge2.ID, Choice: "FREELANCER"},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidVoteEvidence)

	over := uint16(101)
	_, err = e.disputes.FinalizeJudgment(ctx, admin, &disputedto.FinalizeJudgmentInput{DisputeID: d.ID, ClientSharePercent: &over})
	assert.ErrorIs(t, err, domain.ErrInvalidSplit)

	_, err = e.disputes.FinalizeJudgment(ctx, judge1, &disputedto.FinalizeJudgmentInput{DisputeID: d.ID})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	share := uint16(60)
	d, err = e.disputes.FinalizeJudgment(ctx, admin, &disputedto.FinalizeJudgmentInput{
		DisputeID: d.ID,
		VoteRecords: []disputedto.VoteEvidence{
			{Voter: judge1.ID, Choice: "CLIENT"},
			{Voter: judge2.ID, Choice: "CLIENT"},
		},
		ClientSharePercent: &share,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.JudgmentSplit, d.Judgment.Choice)
	assert.Equal(t, "alice", *d.Judgment.Winner)

	_, err = e.disputes.ExecuteJudgment(ctx, admin, d.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000_000-amount-disputeFee+1_200_000), e.ledger.Balance("alice"))
	assert.Equal(t, uint64(100+800_000), e.ledger.Balance("bob"))
	assert.Equal(t, domain.EscrowCompleted, e.escrowState(t, 0))
}

func TestDispute_LateDelivery(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()
	deadline := e.clock.Now().Add(time.Hour)
	e.activate(t, 0, &deadline)

	e.clock.Advance(2 * time.Hour)
	_, err := e.escrows.MarkDelivered(ctx, e.worker, e.ref(0))
	require.NoError(t, err)

	d := e.open(t, domain.ReasonLateDelivery, 0)

	_, err = e.vote(d.ID, judge1, domain.PanelChoiceClient)
	assert.ErrorIs(t, err, domain.ErrNoVoteRequired)
	_, err = e.disputes.FormPanel(ctx, admin, &disputedto.FormPanelInput{DisputeID: d.ID, Members: []string{judge1.ID}, Seed: 1})
	assert.ErrorIs(t, err, domain.ErrNoVoteRequired)

	n, err := e.disputes.AutoResolvePendingDisputes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	out, err := e.disputes.GetDispute(ctx, d.ID)
	require.NoError(t, err)
	j := out.Dispute.Judgment
	require.NotNil(t, j)
	assert.Equal(t, domain.JudgmentSplit, j.Choice)
	assert.Equal(t, uint16(7), j.ClientSharePercent)
	assert.Equal(t, "alice", *j.Winner)
	assert.Nil(t, out.Panel)

	_, err = e.disputes.ExecuteJudgment(ctx, admin, d.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(100+1_860_000), e.ledger.Balance("bob"))
	assert.Equal(t, uint64(10_000_000-amount-disputeFee+140_000), e.ledger.Balance("alice"))
}

func TestDispute_LateDeliveryOnTimeIsRejected(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()
	deadline := e.clock.Now().Add(time.Hour)
	e.activate(t, 0, &deadline)
	_, err := e.escrows.MarkDelivered(ctx, e.worker, e.ref(0))
	require.NoError(t, err)

	d := e.open(t, domain.ReasonLateDelivery, 0)
	d, err = e.disputes.AutoResolveDispute(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeRejected, d.Judgment.Outcome)

	_, err = e.disputes.ExecuteJudgment(ctx, admin, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EscrowActive, e.escrowState(t, 0))
}

func TestDispute_BootstrapRejectsPenaltyAboveFullShare(t *testing.T) {
	settings := testSettings(true)
	settings.LatePenaltyPercent = 150
	store := memory.NewStore()
	disputes := dispute.NewDefaultDisputeUsecase(
		memory.NewDisputeRepository(store), memory.NewOutboxRepository(store), store, memory.NewLedger(store), nil,
		&fakeClock{}, metrics.NewServiceMetrics(prometheus.NewRegistry()), slog.New(slog.NewTextHandler(io.Discard, nil)), settings)

	assert.ErrorIs(t, disputes.Bootstrap(context.Background()), domain.ErrInvalidSplit)
}

func TestDispute_LateDeliveryWithStoredPenaltyAboveFullShare(t *testing.T) {
	e := newEnvWithConfig(t, testSettings(true), &domain.ArbitrationConfig{
		Admin:              admin.ID,
		Treasury:           "treasury",
		DefaultQuorum:      2,
		DisputeFee:         disputeFee,
		PanelTTL:           48 * time.Hour,
		LatePenaltyPercent: 150,
	})
	ctx := context.Background()
	deadline := e.clock.Now().Add(time.Hour)
	job := e.activate(t, 0, &deadline)
	e.clock.Advance(2 * time.Hour)
	d := e.open(t, domain.ReasonLateDelivery, 0)

	_, err := e.disputes.AutoResolveDispute(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidSplit)

	out, err := e.disputes.GetDispute(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DisputePending, out.Dispute.State)
	assert.Equal(t, uint64(100), e.ledger.Balance("bob"))
	held, ok := e.ledger.Held(job.Key)
	require.True(t, ok)
	assert.Equal(t, uint64(amount), held)
}

func TestDispute_LinkedEscrowLockedForDisputeTransaction(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()
	job := e.activate(t, 0, nil)

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- e.store.WithinTransaction(ctx, func(ctx context.Context) error {
			_, err := e.escrows.GetEscrowByKey(ctx, job.Key)
			close(locked)
			<-release
			return err
		})
	}()
	<-locked

	timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err := e.escrows.MarkDelivered(timeoutCtx, e.worker, e.ref(0))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)
	_, err = e.escrows.MarkDelivered(ctx, e.worker, e.ref(0))
	assert.NoError(t, err)
}

func TestDispute_AutoResolveWaitsForDeadline(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()
	deadline := e.clock.Now().Add(time.Hour)
	e.activate(t, 0, &deadline)
	d := e.open(t, domain.ReasonLateDelivery, 0)

	n, err := e.disputes.AutoResolvePendingDisputes(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	e.clock.Advance(2 * time.Hour)
	n, err = e.disputes.AutoResolvePendingDisputes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = e.disputes.AutoResolveDispute(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidDisputeState)
}

func TestDispute_OpenValidation(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()
	e.activate(t, 0, nil)

	_, err := e.disputes.OpenDispute(ctx, e.client, &disputedto.OpenDisputeInput{Parties: []string{"alice", "bob"}, Reason: "BORED", Fee: disputeFee})
	assert.ErrorIs(t, err, domain.ErrInvalidReason)

	long := strings.Repeat("x", domain.MaxURILength+1)
	_, err = e.disputes.OpenDispute(ctx, e.client, &disputedto.OpenDisputeInput{Parties: []string{"alice", "bob"}, Reason: "OTHER", URI: long, Fee: disputeFee})
	assert.ErrorIs(t, err, domain.ErrUriTooLong)

	_, err = e.disputes.OpenDispute(ctx, e.client, &disputedto.OpenDisputeInput{Parties: []string{"alice", "alice"}, Reason: "OTHER", Fee: disputeFee})
	assert.ErrorIs(t, err, domain.ErrInvalidParties)

	_, err = e.disputes.OpenDispute(ctx, e.client, &disputedto.OpenDisputeInput{Parties: []string{"alice", "bob"}, Reason: "OTHER", Fee: disputeFee - 1})
	assert.ErrorIs(t, err, domain.ErrInsufficientDisputeFee)

	_, err = e.disputes.OpenDispute(ctx, judge1, &disputedto.OpenDisputeInput{Parties: []string{"alice", "bob"}, Reason: "OTHER", Fee: disputeFee})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = e.disputes.OpenDispute(ctx, e.client, &disputedto.OpenDisputeInput{
		Parties: []string{"alice", "carol"},
		Reason:  "OTHER",
		Escrow:  &disputedto.EscrowLink{Client: "alice", ID: 0},
		Fee:     disputeFee,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidParties)
	assert.Equal(t, domain.EscrowActive, e.escrowState(t, 0))

	d, err := e.disputes.OpenDispute(ctx, admin, &disputedto.OpenDisputeInput{Parties: []string{"alice", "bob"}, Reason: "OTHER"})
	require.NoError(t, err)
	assert.Zero(t, d.FeePaid)
	assert.Equal(t, uint64(0), d.ID, "failed attempts do not consume ids")
	assert.Zero(t, e.ledger.Balance("treasury"))
}

func TestDispute_PanelRules(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()
	e.activate(t, 0, nil)
	e.activate(t, 1, nil)
	d0 := e.open(t, domain.ReasonQuality, 0)
	d1 := e.open(t, domain.ReasonQuality, 1)

	_, err := e.disputes.FormPanel(ctx, e.client, &disputedto.FormPanelInput{DisputeID: d0.ID, Members: []string{judge1.ID}, Seed: 1})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = e.disputes.FormPanel(ctx, admin, &disputedto.FormPanelInput{DisputeID: d0.ID, Members: []string{judge1.ID, "stranger"}, Seed: 1})
	assert.ErrorIs(t, err, domain.ErrNotDaoMember)

	_, err = e.disputes.FormPanel(ctx, admin, &disputedto.FormPanelInput{DisputeID: d0.ID, Members: []string{judge1.ID, judge1.ID}, Seed: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicatePanelMembers)

	_, err = e.disputes.FormPanel(ctx, admin, &disputedto.FormPanelInput{DisputeID: d0.ID, Members: []string{judge1.ID}, Seed: 1, RequiredQuorum: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidQuorum)

	e.formPanel(t, d0.ID, 5)
	_, err = e.disputes.FormPanel(ctx, admin, &disputedto.FormPanelInput{DisputeID: d1.ID, Members: []string{judge1.ID, judge2.ID}, Seed: 5})
	assert.ErrorIs(t, err, domain.ErrSeedAlreadyUsed)

	_, err = e.disputes.FormPanel(ctx, admin, &disputedto.FormPanelInput{DisputeID: d0.ID, Members: []string{judge1.ID, judge2.ID}, Seed: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidDisputeState)

	e.clock.Advance(49 * time.Hour)
	_, err = e.vote(d0.ID, judge1, domain.PanelChoiceClient)
	assert.ErrorIs(t, err, domain.ErrDisputeExpired)
}

func TestDispute_Cancel(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()
	e.activate(t, 0, nil)
	e.activate(t, 1, nil)

	d0 := e.open(t, domain.ReasonQuality, 0)
	_, err := e.disputes.CancelDispute(ctx, e.worker, d0.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedCancel)
	d0, err = e.disputes.CancelDispute(ctx, e.client, d0.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeCanceled, d0.State)
	assert.Equal(t, domain.EscrowActive, e.escrowState(t, 0))

	_, err = e.disputes.CancelDispute(ctx, admin, d0.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidDisputeState)

	d1 := e.open(t, domain.ReasonQuality, 1)
	e.formPanel(t, d1.ID, 11)
	_, err = e.disputes.CancelDispute(ctx, e.client, d1.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedCancel, "opener loses the right once a panel sits")
	d1, err = e.disputes.CancelDispute(ctx, admin, d1.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeCanceled, d1.State)
	assert.Equal(t, domain.EscrowActive, e.escrowState(t, 1))
}

func TestDispute_ConfigAdmin(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	_, err := e.disputes.SetQuorum(ctx, judge1, 3)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = e.disputes.SetQuorum(ctx, admin, domain.MaxPanelSize+1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuorum)
	cfg, err := e.disputes.SetQuorum(ctx, admin, 3)
	require.NoError(t, err)
	assert.Equal(t, uint8(3), cfg.DefaultQuorum)

	cfg, err = e.disputes.SetDisputeCreationFee(ctx, admin, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), cfg.DisputeFee)

	assert.ErrorIs(t, e.disputes.AddDaoMember(ctx, admin, judge1.ID), domain.ErrAlreadyDaoMember)
	require.NoError(t, e.disputes.RemoveDaoMember(ctx, admin, judge3.ID))
	assert.ErrorIs(t, e.disputes.RemoveDaoMember(ctx, admin, judge3.ID), domain.ErrNotDaoMember)

	members, err := e.disputes.ListDaoMembers(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{judge1.ID, judge2.ID}, members)

	require.NoError(t, e.disputes.Bootstrap(ctx))
	cfg, err = e.disputes.GetArbitrationConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(3), cfg.DefaultQuorum, "bootstrap keeps the stored config")
}

func TestDispute_ListByParty(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()
	e.activate(t, 0, nil)
	e.open(t, domain.ReasonQuality, 0)
	_, err := e.disputes.OpenDispute(ctx, admin, &disputedto.OpenDisputeInput{Parties: []string{"carol", "dave"}, Reason: "OTHER"})
	require.NoError(t, err)

	out, err := e.disputes.ListDisputes(ctx, &disputedto.ListDisputesInput{Party: "bob"})
	require.NoError(t, err)
	require.Len(t, out.Disputes, 1)
	assert.Equal(t, domain.ReasonQuality, out.Disputes[0].Reason)

	out, err = e.disputes.ListDisputes(ctx, &disputedto.ListDisputesInput{Reason: "OTHER", OpenOnly: true})
	require.NoError(t, err)
	require.Len(t, out.Disputes, 1)
	assert.Equal(t, []string{"carol", "dave"}, out.Disputes[0].Parties)

	_, err = e.disputes.ListDisputes(ctx, &disputedto.ListDisputesInput{Reason: "NOPE"})
	assert.ErrorIs(t, err, domain.ErrInvalidReason)
}
