package domain

import (
	"context"
	"fmt"
	"time"
)

const (
	MinEscrowAmount uint64 = 1_000_000
	SignatureSize          = 64
)

type EscrowState string

const (
	EscrowProposed           EscrowState = "PROPOSED"
	EscrowAwaitingSignatures EscrowState = "AWAITING_SIGNATURES"
	EscrowActive             EscrowState = "ACTIVE"
	EscrowDisputed           EscrowState = "DISPUTED"
	EscrowCompleted          EscrowState = "COMPLETED"
	EscrowCanceled           EscrowState = "CANCELED"
)

func (s EscrowState) Terminal() bool {
	return s == EscrowCompleted || s == EscrowCanceled
}

type EscrowJob struct {
	Key                 string
	ID                  uint64
	Client              string
	Freelancer          string
	Amount              uint64
	HeldAmount          uint64
	RefundedAmount      uint64
	State               EscrowState
	ClientSignature     []byte
	FreelancerSignature []byte
	SignedAt            *time.Time
	Deadline            *time.Time
	DeliveredAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	ClosedAt            *time.Time
}

func (j *EscrowJob) IsParty(account string) bool {
	return account == j.Client || account == j.Freelancer
}

// SigningPayload is the canonical byte form of the escrow terms both parties sign.
func (j *EscrowJob) SigningPayload() []byte {
	return []byte(fmt.Sprintf("escrow:%s:%d:%s:%d", j.Client, j.ID, j.Freelancer, j.Amount))
}

// IsLate reports whether the job missed its deadline as of now.
func (j *EscrowJob) IsLate(now time.Time) bool {
	if j.Deadline == nil {
		return false
	}
	if j.DeliveredAt != nil {
		return j.DeliveredAt.After(*j.Deadline)
	}
	return now.After(*j.Deadline)
}

type EscrowFilter struct {
	Party  string
	States []EscrowState
	Limit  int
	Offset int
}

type EscrowRepository interface {
	CreateEscrow(ctx context.Context, job *EscrowJob) error
	GetEscrow(ctx context.Context, key string) (*EscrowJob, error)
	GetEscrowForUpdate(ctx context.Context, key string) (*EscrowJob, error)
	UpdateEscrow(ctx context.Context, job *EscrowJob) error
	ListEscrows(ctx context.Context, filter EscrowFilter) ([]*EscrowJob, error)
}
