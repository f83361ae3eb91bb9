package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/signature"
)

// Ledger keeps balances and holds in the Store so that ledger moves commit or
// roll back together with the records of the same transaction.
type Ledger struct {
	store *Store
}

func NewLedger(store *Store) *Ledger {
	return &Ledger{store: store}
}

func accountLock(acc string) string { return "account/" + acc }
func holdLock(id string) string { return "hold/" + id }

func sortedLocks(accounts ...string) []string {
	keys := make([]string, 0, len(accounts))
	seen := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		keys = append(keys, accountLock(a))
	}
	sort.Strings(keys)
	return keys
}

func (l *Ledger) Deposit(ctx context.Context, account string, amount uint64) error {
	return l.store.write(ctx, sortedLocks(account), func() (func(), error) {
		l.store.balances[account] += amount
		return func() { l.store.balances[account] -= amount }, nil
	})
}

func (l *Ledger) Balance(account string) uint64 {
	var b uint64
	l.store.read(func() { b = l.store.balances[account] })
	return b
}

func (l *Ledger) Held(holdID string) (uint64, bool) {
	var (
		h  hold
		ok bool
	)
	l.store.read(func() { h, ok = l.store.holds[holdID] })
	return h.amount, ok
}

func (l *Ledger) Transfer(ctx context.Context, from, to string, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	return l.store.write(ctx, sortedLocks(from, to), func() (func(), error) {
		if l.store.balances[from] < amount {
			return nil, fmt.Errorf("transfer from %s: %w", from, domain.ErrInsufficientFunds)
		}
		l.store.balances[from] -= amount
		l.store.balances[to] += amount
		return func() {
			l.store.balances[to] -= amount
			l.store.balances[from] += amount
		}, nil
	})
}

func (l *Ledger) Hold(ctx context.Context, account, holdID string, amount uint64) error {
	keys := append([]string{holdLock(holdID)}, sortedLocks(account)...)
	return l.store.write(ctx, keys, func() (func(), error) {
		if _, ok := l.store.holds[holdID]; ok {
			return nil, fmt.Errorf("hold %s already exists", holdID)
		}
		if l.store.balances[account] < amount {
			return nil, fmt.Errorf("hold for %s: %w", account, domain.ErrInsufficientFunds)
		}
		l.store.balances[account] -= amount
		l.store.holds[holdID] = hold{account: account, amount: amount}
		return func() {
			delete(l.store.holds, holdID)
			l.store.balances[account] += amount
		}, nil
	})
}

func (l *Ledger) Release(ctx context.Context, holdID string, payouts ...domain.Payout) error {
	accounts := make([]string, 0, len(payouts))
	for _, p := range payouts {
		accounts = append(accounts, p.To)
	}
	keys := append([]string{holdLock(holdID)}, sortedLocks(accounts...)...)
	return l.store.write(ctx, keys, func() (func(), error) {
		h, ok := l.store.holds[holdID]
		if !ok {
			return nil, domain.ErrHoldNotFound
		}
		total, ok := domain.SumPayouts(payouts)
		if !ok || total != h.amount {
			return nil, fmt.Errorf("release %s: %w", holdID, domain.ErrHoldMismatch)
		}
		delete(l.store.holds, holdID)
		for _, p := range payouts {
			l.store.balances[p.To] += p.Amount
		}
		return func() {
			for _, p := range payouts {
				l.store.balances[p.To] -= p.Amount
			}
			l.store.holds[holdID] = h
		}, nil
	})
}

func (l *Ledger) VerifySignature(pubKey, payload, sig []byte) bool {
	return signature.Verify(pubKey, payload, sig)
}

// StakeRegistry derives vote weight from balances staked in the Store.
type StakeRegistry struct {
	store   *Store
	divisor uint64
}

func NewStakeRegistry(store *Store, divisor uint64) *StakeRegistry {
	if divisor == 0 {
		divisor = 1
	}
	return &StakeRegistry{store: store, divisor: divisor}
}

func (r *StakeRegistry) SetStake(ctx context.Context, account string, amount uint64) error {
	r.store.update(func() { r.store.stakes[account] = amount })
	return nil
}

func (r *StakeRegistry) VoteWeight(ctx context.Context, account string) (uint64, error) {
	var staked uint64
	r.store.read(func() { staked = r.store.stakes[account] })
	if w := staked / r.divisor; w > 0 {
		return w, nil
	}
	return 1, nil
}
