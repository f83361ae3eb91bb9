package domain

import (
	"context"
	"math/bits"
)

// Payout is one leg of a hold release.
type Payout struct {
	To     string
	Amount uint64
}

// SumPayouts adds the legs up. ok is false when the sum does not fit in uint64.
func SumPayouts(payouts []Payout) (total uint64, ok bool) {
	for _, p := range payouts {
		var carry uint64
		total, carry = bits.Add64(total, p.Amount, 0)
		if carry != 0 {
			return 0, false
		}
	}
	return total, true
}

// Ledger moves value between accounts. Implementations join the transaction
// carried by ctx when they share storage with the repositories.
type Ledger interface {
	Transfer(ctx context.Context, from, to string, amount uint64) error
	// Hold moves amount from account into custody addressed by holdID.
	Hold(ctx context.Context, account, holdID string, amount uint64) error
	// Release pays the whole hold out. The payouts must add up to the held amount.
	Release(ctx context.Context, holdID string, payouts ...Payout) error
	VerifySignature(pubKey, payload, sig []byte) bool
}

type StakeRegistry interface {
	VoteWeight(ctx context.Context, account string) (uint64, error)
}

// TxManager runs fn inside a single storage transaction. Rows read with the
// ForUpdate repository methods stay locked until fn returns.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// StakeWriter records the staked amount reported for an account.
type StakeWriter interface {
	SetStake(ctx context.Context, account string, amount uint64) error
}
