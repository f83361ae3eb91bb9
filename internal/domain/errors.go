package domain

import "errors"

// Escrow
var (
	ErrEscrowNotFound            = errors.New("escrow not found")
	ErrEscrowAlreadyExists       = errors.New("escrow already exists")
	ErrAmountTooSmall            = errors.New("escrow amount too small")
	ErrInvalidFreelancer         = errors.New("invalid freelancer")
	ErrInvalidSignature          = errors.New("invalid signature")
	ErrSignatureAlreadySubmitted = errors.New("signature already submitted")
	ErrInvalidState              = errors.New("invalid escrow state")
	ErrAlreadyDelivered          = errors.New("delivery already marked")
)

// Disputes
var (
	ErrArbitrationNotConfigured = errors.New("arbitration config not initialized")
	ErrDisputeNotFound          = errors.New("dispute not found")
	ErrPanelNotFound            = errors.New("panel not found")
	ErrInvalidParties           = errors.New("invalid dispute parties")
	ErrUriTooLong               = errors.New("uri too long")
	ErrInvalidReason            = errors.New("invalid dispute reason")
	ErrInvalidChoice            = errors.New("invalid vote choice")
	ErrInsufficientDisputeFee   = errors.New("insufficient dispute fee")
	ErrDuplicatePanelMembers    = errors.New("duplicate panel members")
	ErrInvalidPanelSize         = errors.New("invalid panel size")
	ErrInvalidQuorum            = errors.New("invalid quorum")
	ErrSeedAlreadyUsed          = errors.New("panel selection seed already used")
	ErrNotPanelMember           = errors.New("not a panel member")
	ErrNotDaoMember             = errors.New("not a dao member")
	ErrAlreadyDaoMember         = errors.New("already a dao member")
	ErrInvalidDisputeState      = errors.New("invalid dispute state")
	ErrDisputeExpired           = errors.New("dispute panel expired")
	ErrNoVoteRequired           = errors.New("this dispute type doesn't require DAO vote")
	ErrRequiresDaoVote          = errors.New("requires DAO vote")
	ErrQuorumNotReached         = errors.New("quorum not reached")
	ErrInvalidVoteEvidence      = errors.New("vote records do not match stored votes")
	ErrInvalidSplit             = errors.New("invalid split percent")
	ErrUnauthorizedCancel       = errors.New("unauthorized cancel")
)

// Governance
var (
	ErrDaoNotInitialized    = errors.New("dao config not initialized")
	ErrAlreadyInitialized   = errors.New("dao config already initialized")
	ErrProposalNotFound     = errors.New("proposal not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrInvalidWindow        = errors.New("invalid voting window")
	ErrInvalidTitleHash     = errors.New("invalid title hash")
	ErrInvalidProposalKind  = errors.New("invalid proposal kind")
	ErrPaused               = errors.New("dao is paused")
	ErrProposalNotActive    = errors.New("proposal not active")
	ErrVotingWindowClosed   = errors.New("voting window closed")
	ErrVotingStillActive    = errors.New("voting still active")
	ErrCancelWindowClosed   = errors.New("cancel window closed")
	ErrProposalNotPassed    = errors.New("proposal not passed")
	ErrExecutionDelayNotMet = errors.New("execution delay not met")
	ErrInvalidTreasury      = errors.New("invalid treasury")
	ErrInvalidAmount        = errors.New("invalid amount")
)

// Common
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrAlreadyVoted      = errors.New("already voted")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrHoldNotFound      = errors.New("hold not found")
	ErrHoldMismatch      = errors.New("payouts do not match held amount")
	ErrUnauthenticated   = errors.New("unauthenticated")
)
