package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ServiceMetrics содержит все метрики escrow, арбитража и governance
type ServiceMetrics struct {
	// Escrow
	EscrowsCreatedTotal   *prometheus.CounterVec
	EscrowsClosedTotal    *prometheus.CounterVec
	EscrowTransitionTotal *prometheus.CounterVec
	EscrowHeldAmount      prometheus.Gauge

	// Диспуты
	DisputesOpenedTotal   *prometheus.CounterVec
	DisputesResolvedTotal *prometheus.CounterVec
	PanelVotesTotal       *prometheus.CounterVec
	DisputesOpenGauge     prometheus.Gauge

	// Governance
	ProposalsCreatedTotal   *prometheus.CounterVec
	ProposalsFinalizedTotal *prometheus.CounterVec
	GovernanceVotesTotal    *prometheus.CounterVec
	GovernanceVoteWeight    prometheus.Counter

	// Комиссии в казну
	FeesCollectedTotal *prometheus.CounterVec

	// Время обработки и ошибки
	OperationDuration    *prometheus.HistogramVec
	OperationErrorsTotal *prometheus.CounterVec

	// Outbox
	OutboxPublishedTotal    prometheus.Counter
	OutboxFailuresTotal     prometheus.Counter
	OutboxDeadLetteredTotal prometheus.Counter
}

// NewServiceMetrics регистрирует метрики в reg
func NewServiceMetrics(reg prometheus.Registerer) *ServiceMetrics {
	factory := promauto.With(reg)
	return &ServiceMetrics{
		EscrowsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrows_created_total",
				Help: "Number of escrow jobs proposed",
			},
			[]string{"has_deadline"},
		),
		EscrowsClosedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrows_closed_total",
				Help: "Number of escrow jobs reaching a terminal state",
			},
			[]string{"state"},
		),
		EscrowTransitionTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_transitions_total",
				Help: "Escrow state transitions",
			},
			[]string{"from", "to"},
		),
		EscrowHeldAmount: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "escrow_held_amount",
				Help: "Amount currently held in escrow custody",
			},
		),

		DisputesOpenedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "disputes_opened_total",
				Help: "Number of disputes opened",
			},
			[]string{"reason", "linked"},
		),
		DisputesResolvedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "disputes_resolved_total",
				Help: "Number of judgments produced",
			},
			[]string{"reason", "outcome", "choice"},
		),
		PanelVotesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispute_panel_votes_total",
				Help: "Panel votes cast",
			},
			[]string{"choice"},
		),
		DisputesOpenGauge: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "disputes_open",
				Help: "Disputes not yet judged or canceled",
			},
		),

		ProposalsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "governance_proposals_created_total",
				Help: "Number of governance proposals created",
			},
			[]string{"kind"},
		),
		ProposalsFinalizedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "governance_proposals_finalized_total",
				Help: "Number of proposals finalized",
			},
			[]string{"state"},
		),
		GovernanceVotesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "governance_votes_total",
				Help: "Governance votes cast",
			},
			[]string{"choice"},
		),
		GovernanceVoteWeight: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "governance_vote_weight_total",
				Help: "Sum of governance vote weights",
			},
		),

		FeesCollectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_fees_collected_total",
				Help: "Fees transferred to the treasury",
			},
			[]string{"kind"},
		),

		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "operation_duration_seconds",
				Help:    "Duration of state-changing operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"component", "operation"},
		),
		OperationErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "operation_errors_total",
				Help: "Rejected or failed operations",
			},
			[]string{"component", "operation"},
		),

		OutboxPublishedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "outbox_events_published_total",
				Help: "Events relayed from the outbox",
			},
		),
		OutboxFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "outbox_publish_failures_total",
				Help: "Failed outbox relay attempts",
			},
		),
		OutboxDeadLetteredTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "outbox_events_dead_lettered_total",
				Help: "Outbox events that could not be encoded and were marked failed",
			},
		),
	}
}

func (m *ServiceMetrics) RecordEscrowCreated(amount uint64, hasDeadline bool) {
	label := "false"
	if hasDeadline {
		label = "true"
	}
	m.EscrowsCreatedTotal.WithLabelValues(label).Inc()
	m.EscrowHeldAmount.Add(float64(amount))
}

func (m *ServiceMetrics) RecordEscrowTransition(from, to string) {
	m.EscrowTransitionTotal.WithLabelValues(from, to).Inc()
}

// RecordEscrowClosed снимает сумму с gauge удержаний
func (m *ServiceMetrics) RecordEscrowClosed(state string, released uint64) {
	m.EscrowsClosedTotal.WithLabelValues(state).Inc()
	m.EscrowHeldAmount.Sub(float64(released))
}

func (m *ServiceMetrics) RecordDisputeOpened(reason string, linked bool) {
	l := "false"
	if linked {
		l = "true"
	}
	m.DisputesOpenedTotal.WithLabelValues(reason, l).Inc()
	m.DisputesOpenGauge.Inc()
}

func (m *ServiceMetrics) RecordDisputeResolved(reason, outcome, choice string) {
	m.DisputesResolvedTotal.WithLabelValues(reason, outcome, choice).Inc()
	m.DisputesOpenGauge.Dec()
}

func (m *ServiceMetrics) RecordDisputeCanceled() {
	m.DisputesOpenGauge.Dec()
}

func (m *ServiceMetrics) RecordPanelVote(choice string) {
	m.PanelVotesTotal.WithLabelValues(choice).Inc()
}

func (m *ServiceMetrics) RecordProposalCreated(kind string) {
	m.ProposalsCreatedTotal.WithLabelValues(kind).Inc()
}

func (m *ServiceMetrics) RecordProposalFinalized(state string) {
	m.ProposalsFinalizedTotal.WithLabelValues(state).Inc()
}

func (m *ServiceMetrics) RecordGovernanceVote(choice string, weight uint64) {
	m.GovernanceVotesTotal.WithLabelValues(choice).Inc()
	m.GovernanceVoteWeight.Add(float64(weight))
}

func (m *ServiceMetrics) RecordFee(kind string, amount uint64) {
	if amount == 0 {
		return
	}
	m.FeesCollectedTotal.WithLabelValues(kind).Add(float64(amount))
}

func (m *ServiceMetrics) RecordOperation(component, operation string, durationSeconds float64, err error) {
	m.OperationDuration.WithLabelValues(component, operation).Observe(durationSeconds)
	if err != nil {
		m.OperationErrorsTotal.WithLabelValues(component, operation).Inc()
	}
}

func (m *ServiceMetrics) RecordOutboxDeadLetter() {
	m.OutboxDeadLetteredTotal.Inc()
}

func (m *ServiceMetrics) RecordOutbox(published int, failed bool) {
	m.OutboxPublishedTotal.Add(float64(published))
	if failed {
		m.OutboxFailuresTotal.Inc()
	}
}
