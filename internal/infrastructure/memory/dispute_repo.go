package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

type DisputeRepository struct {
	store *Store
}

func NewDisputeRepository(store *Store) *DisputeRepository {
	return &DisputeRepository{store: store}
}

const arbitrationLock = "arbitration"

func disputeLock(id uint64) string { return fmt.Sprintf("dispute/%d", id) }
func seedLock(seed uint64) string { return fmt.Sprintf("panel_seed/%d", seed) }
func daoMemberLock(acc string) string { return "dao_member/" + acc }
func panelVoteLock(key string) string { return "panel_vote/" + key }

func (r *DisputeRepository) InitArbitrationConfig(ctx context.Context, cfg *domain.ArbitrationConfig) (bool, error) {
	created := false
	err := r.store.write(ctx, []string{arbitrationLock}, func() (func(), error) {
		if r.store.arbitration != nil {
			return nil, nil
		}
		c := *cfg
		r.store.arbitration = &c
		created = true
		return func() { r.store.arbitration = nil }, nil
	})
	return created, err
}

func (r *DisputeRepository) GetArbitrationConfig(ctx context.Context) (*domain.ArbitrationConfig, error) {
	var cfg *domain.ArbitrationConfig
	if err := r.store.readCommitted(ctx, arbitrationLock, func() {
		if r.store.arbitration != nil {
			c := *r.store.arbitration
			cfg = &c
		}
	}); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrArbitrationNotConfigured
	}
	return cfg, nil
}

func (r *DisputeRepository) GetArbitrationConfigForUpdate(ctx context.Context) (*domain.ArbitrationConfig, error) {
	if err := r.store.lockForUpdate(ctx, arbitrationLock); err != nil {
		return nil, err
	}
	return r.GetArbitrationConfig(ctx)
}

func (r *DisputeRepository) UpdateArbitrationConfig(ctx context.Context, cfg *domain.ArbitrationConfig) error {
	return r.store.write(ctx, []string{arbitrationLock}, func() (func(), error) {
		prev := r.store.arbitration
		if prev == nil {
			return nil, domain.ErrArbitrationNotConfigured
		}
		c := *cfg
		r.store.arbitration = &c
		return func() { r.store.arbitration = prev }, nil
	})
}

func (r *DisputeRepository) AddDaoMember(ctx context.Context, account string, at time.Time) error {
	return r.store.write(ctx, []string{daoMemberLock(account)}, func() (func(), error) {
		if _, ok := r.store.daoMembers[account]; ok {
			return nil, domain.ErrAlreadyDaoMember
		}
		r.store.daoMembers[account] = at
		return func() { delete(r.store.daoMembers, account) }, nil
	})
}

func (r *DisputeRepository) RemoveDaoMember(ctx context.Context, account string) error {
	return r.store.write(ctx, []string{daoMemberLock(account)}, func() (func(), error) {
		at, ok := r.store.daoMembers[account]
		if !ok {
			return nil, domain.ErrNotDaoMember
		}
		delete(r.store.daoMembers, account)
		return func() { r.store.daoMembers[account] = at }, nil
	})
}

func (r *DisputeRepository) IsDaoMember(ctx context.Context, account string) (bool, error) {
	var ok bool
	if err := r.store.readCommitted(ctx, daoMemberLock(account), func() {
		_, ok = r.store.daoMembers[account]
	}); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *DisputeRepository) ListDaoMembers(ctx context.Context) ([]string, error) {
	var members []string
	r.store.read(func() {
		for acc := range r.store.daoMembers {
			members = append(members, acc)
		}
	})
	sort.Strings(members)
	return members, nil
}

func (r *DisputeRepository) CreateDispute(ctx context.Context, dispute *domain.Dispute) error {
	return r.store.write(ctx, []string{disputeLock(dispute.ID)}, func() (func(), error) {
		if _, ok := r.store.disputes[dispute.ID]; ok {
			return nil, fmt.Errorf("dispute %d already exists", dispute.ID)
		}
		r.store.disputes[dispute.ID] = cloneDispute(dispute)
		return func() { delete(r.store.disputes, dispute.ID) }, nil
	})
}

func (r *DisputeRepository) GetDispute(ctx context.Context, id uint64) (*domain.Dispute, error) {
	var dispute *domain.Dispute
	if err := r.store.readCommitted(ctx, disputeLock(id), func() {
		if d, ok := r.store.disputes[id]; ok {
			dispute = cloneDispute(d)
		}
	}); err != nil {
		return nil, err
	}
	if dispute == nil {
		return nil, domain.ErrDisputeNotFound
	}
	return dispute, nil
}

func (r *DisputeRepository) GetDisputeForUpdate(ctx context.Context, id uint64) (*domain.Dispute, error) {
	if err := r.store.lockForUpdate(ctx, disputeLock(id)); err != nil {
		return nil, err
	}
	return r.GetDispute(ctx, id)
}

func (r *DisputeRepository) UpdateDispute(ctx context.Context, dispute *domain.Dispute) error {
	return r.store.write(ctx, []string{disputeLock(dispute.ID)}, func() (func(), error) {
		prev, ok := r.store.disputes[dispute.ID]
		if !ok {
			return nil, domain.ErrDisputeNotFound
		}
		r.store.disputes[dispute.ID] = cloneDispute(dispute)
		return func() { r.store.disputes[dispute.ID] = prev }, nil
	})
}

func (r *DisputeRepository) ListDisputes(ctx context.Context, filter domain.DisputeFilter) ([]*domain.Dispute, error) {
	var disputes []*domain.Dispute
	r.store.read(func() {
		for _, d := range r.store.disputes {
			if filter.Party != "" && !d.IsParty(filter.Party) {
				continue
			}
			if filter.Reason != "" && d.Reason != filter.Reason {
				continue
			}
			if len(filter.States) > 0 && !slices.Contains(filter.States, d.State) {
				continue
			}
			if filter.OpenOnly && !d.State.Open() {
				continue
			}
			disputes = append(disputes, cloneDispute(d))
		}
	})
	sort.Slice(disputes, func(a, b int) bool { return disputes[a].ID < disputes[b].ID })
	return page(disputes, filter.Limit, filter.Offset), nil
}

func (r *DisputeRepository) CreatePanel(ctx context.Context, panel *domain.DisputePanel) error {
	keys := []string{disputeLock(panel.DisputeID), seedLock(panel.SelectionSeed)}
	return r.store.write(ctx, keys, func() (func(), error) {
		if _, ok := r.store.panelSeeds[panel.SelectionSeed]; ok {
			return nil, domain.ErrSeedAlreadyUsed
		}
		if _, ok := r.store.panels[panel.DisputeID]; ok {
			return nil, domain.ErrInvalidDisputeState
		}
		r.store.panels[panel.DisputeID] = clonePanel(panel)
		r.store.panelSeeds[panel.SelectionSeed] = panel.DisputeID
		return func() {
			delete(r.store.panels, panel.DisputeID)
			delete(r.store.panelSeeds, panel.SelectionSeed)
		}, nil
	})
}

func (r *DisputeRepository) GetPanel(ctx context.Context, disputeID uint64) (*domain.DisputePanel, error) {
	var panel *domain.DisputePanel
	if err := r.store.readCommitted(ctx, disputeLock(disputeID), func() {
		if p, ok := r.store.panels[disputeID]; ok {
			panel = clonePanel(p)
		}
	}); err != nil {
		return nil, err
	}
	if panel == nil {
		return nil, domain.ErrPanelNotFound
	}
	return panel, nil
}

func (r *DisputeRepository) UpdatePanel(ctx context.Context, panel *domain.DisputePanel) error {
	return r.store.write(ctx, []string{disputeLock(panel.DisputeID)}, func() (func(), error) {
		prev, ok := r.store.panels[panel.DisputeID]
		if !ok {
			return nil, domain.ErrPanelNotFound
		}
		r.store.panels[panel.DisputeID] = clonePanel(panel)
		return func() { r.store.panels[panel.DisputeID] = prev }, nil
	})
}

func (r *DisputeRepository) CreatePanelVote(ctx context.Context, vote *domain.PanelVoteRecord) error {
	return r.store.write(ctx, []string{panelVoteLock(vote.Key)}, func() (func(), error) {
		if _, ok := r.store.panelVotes[vote.Key]; ok {
			return nil, domain.ErrAlreadyVoted
		}
		v := *vote
		r.store.panelVotes[vote.Key] = &v
		return func() { delete(r.store.panelVotes, vote.Key) }, nil
	})
}

func (r *DisputeRepository) ListPanelVotes(ctx context.Context, disputeID uint64) ([]*domain.PanelVoteRecord, error) {
	var votes []*domain.PanelVoteRecord
	r.store.read(func() {
		for _, v := range r.store.panelVotes {
			if v.DisputeID == disputeID {
				c := *v
				votes = append(votes, &c)
			}
		}
	})
	sort.Slice(votes, func(a, b int) bool {
		if !votes[a].CastAt.Equal(votes[b].CastAt) {
			return votes[a].CastAt.Before(votes[b].CastAt)
		}
		return votes[a].Voter < votes[b].Voter
	})
	return votes, nil
}
