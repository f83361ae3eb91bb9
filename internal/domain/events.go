package domain

import (
	"context"
	"time"
)

type EventType string

const (
	EventEscrowCreated      EventType = "EscrowCreated"
	EventProposalAccepted   EventType = "ProposalAccepted"
	EventSignatureSubmitted EventType = "SignatureSubmitted"
	EventEscrowActivated    EventType = "EscrowActivated"
	EventDeliveryMarked     EventType = "DeliveryMarked"
	EventEscrowCompleted    EventType = "EscrowCompleted"
	EventEscrowCanceled     EventType = "EscrowCanceled"
	EventEscrowDisputed     EventType = "EscrowDisputed"
	EventEscrowSettled      EventType = "EscrowSettled"
	EventEscrowReinstated   EventType = "EscrowReinstated"

	EventDisputeCreated    EventType = "DisputeCreated"
	EventPanelFormed       EventType = "PanelFormed"
	EventVoteCast          EventType = "VoteCast"
	EventDisputeResolved   EventType = "DisputeResolved"
	EventDisputeExecuted   EventType = "DisputeExecuted"
	EventDisputeCanceled   EventType = "DisputeCanceled"
	EventDaoMemberAdded    EventType = "DaoMemberAdded"
	EventDaoMemberRemoved  EventType = "DaoMemberRemoved"
	EventQuorumUpdated     EventType = "QuorumUpdated"
	EventDisputeFeeUpdated EventType = "DisputeFeeUpdated"

	EventDaoInitialized           EventType = "DaoInitialized"
	EventDaoParamsUpdated         EventType = "DaoParamsUpdated"
	EventDaoPauseChanged          EventType = "DaoPauseChanged"
	EventProposalCreated          EventType = "ProposalCreated"
	EventGovernanceVoteCast       EventType = "GovernanceVoteCast"
	EventProposalFinalized        EventType = "ProposalFinalized"
	EventProposalCanceled         EventType = "ProposalCanceled"
	EventProposalExecuted         EventType = "ProposalExecuted"
	EventMemberEligibilityUpdated EventType = "MemberEligibilityUpdated"
	EventTreasuryWithdrawn        EventType = "TreasuryWithdrawn"
)

type Aggregate string

const (
	AggregateEscrow     Aggregate = "escrow"
	AggregateDispute    Aggregate = "dispute"
	AggregateGovernance Aggregate = "governance"
)

// Event is a domain event recorded in the outbox in the same transaction as
// the state change it describes.
type Event struct {
	ID          string
	Type        EventType
	Aggregate   Aggregate
	AggregateID string
	Payload     map[string]any
	OccurredAt  time.Time
	PublishedAt *time.Time
	// FailedAt is set when the event can never be delivered; it then leaves
	// the pending set and LastError says why.
	FailedAt  *time.Time
	LastError string
}

type OutboxRepository interface {
	AppendEvents(ctx context.Context, events ...Event) error
	// ListPending returns events neither published nor failed, oldest first.
	ListPending(ctx context.Context, limit int) ([]Event, error)
	MarkPublished(ctx context.Context, ids []string, at time.Time) error
	MarkFailed(ctx context.Context, id string, reason string, at time.Time) error
}
