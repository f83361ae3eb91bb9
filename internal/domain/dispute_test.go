package domain_test

import (
	"math"
	"testing"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareOf(t *testing.T) {
	tests := []struct {
		name    string
		amount  uint64
		percent uint16
		want    uint64
	}{
		{"zero percent", 2_000_000, 0, 0},
		{"full share", 2_000_000, 100, 2_000_000},
		{"rounds down", 999, 7, 69},
		{"large amount", 1_000_000_000_000_000_000, 60, 600_000_000_000_000_000},
		{"max amount", math.MaxUint64, 100, math.MaxUint64},
		{"max amount half", math.MaxUint64, 50, math.MaxUint64 / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ShareOf(tt.amount, tt.percent))
		})
	}
}

func TestJudgment_SplitPayoutsConserveHeldAmount(t *testing.T) {
	job := &domain.EscrowJob{Client: "alice", Freelancer: "bob", HeldAmount: 1_000_000_000_000_000_000}
	j := &domain.Judgment{Outcome: domain.OutcomeResolved, Choice: domain.JudgmentSplit, ClientSharePercent: 60}

	payouts := j.Payouts(job)
	require.Len(t, payouts, 2)
	assert.Equal(t, domain.Payout{To: "alice", Amount: 600_000_000_000_000_000}, payouts[0])
	assert.Equal(t, domain.Payout{To: "bob", Amount: 400_000_000_000_000_000}, payouts[1])

	total, ok := domain.SumPayouts(payouts)
	require.True(t, ok)
	assert.Equal(t, job.HeldAmount, total)
}

func TestJudgment_SplitAboveFullShareMovesNothing(t *testing.T) {
	job := &domain.EscrowJob{Client: "alice", Freelancer: "bob", HeldAmount: 2_000_000}
	j := &domain.Judgment{Outcome: domain.OutcomeResolved, Choice: domain.JudgmentSplit, ClientSharePercent: 150}
	assert.Nil(t, j.Payouts(job))
}

func TestSumPayouts(t *testing.T) {
	total, ok := domain.SumPayouts([]domain.Payout{{Amount: 3}, {Amount: 4}})
	assert.True(t, ok)
	assert.Equal(t, uint64(7), total)

	_, ok = domain.SumPayouts([]domain.Payout{{Amount: 80}, {Amount: math.MaxUint64 - 29}})
	assert.False(t, ok)

	total, ok = domain.SumPayouts(nil)
	assert.True(t, ok)
	assert.Zero(t, total)
}
