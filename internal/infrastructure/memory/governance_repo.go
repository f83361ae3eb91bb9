package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

type GovernanceRepository struct {
	store *Store
}

func NewGovernanceRepository(store *Store) *GovernanceRepository {
	return &GovernanceRepository{store: store}
}

const daoLock = "dao"

func proposalLock(id uint64) string { return fmt.Sprintf("proposal/%d", id) }
func voteLock(key string) string { return "vote/" + key }
func memberLock(acc string) string { return "member/" + acc }

func (r *GovernanceRepository) CreateDaoConfig(ctx context.Context, cfg *domain.DaoConfig) error {
	return r.store.write(ctx, []string{daoLock}, func() (func(), error) {
		if r.store.dao != nil {
			return nil, domain.ErrAlreadyInitialized
		}
		c := *cfg
		r.store.dao = &c
		return func() { r.store.dao = nil }, nil
	})
}

func (r *GovernanceRepository) GetDaoConfig(ctx context.Context) (*domain.DaoConfig, error) {
	var cfg *domain.DaoConfig
	if err := r.store.readCommitted(ctx, daoLock, func() {
		if r.store.dao != nil {
			c := *r.store.dao
			cfg = &c
		}
	}); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrDaoNotInitialized
	}
	return cfg, nil
}

func (r *GovernanceRepository) GetDaoConfigForUpdate(ctx context.Context) (*domain.DaoConfig, error) {
	if err := r.store.lockForUpdate(ctx, daoLock); err != nil {
		return nil, err
	}
	return r.GetDaoConfig(ctx)
}

func (r *GovernanceRepository) UpdateDaoConfig(ctx context.Context, cfg *domain.DaoConfig) error {
	return r.store.write(ctx, []string{daoLock}, func() (func(), error) {
		prev := r.store.dao
		if prev == nil {
			return nil, domain.ErrDaoNotInitialized
		}
		c := *cfg
		r.store.dao = &c
		return func() { r.store.dao = prev }, nil
	})
}

func (r *GovernanceRepository) CreateProposal(ctx context.Context, proposal *domain.Proposal) error {
	return r.store.write(ctx, []string{proposalLock(proposal.ID)}, func() (func(), error) {
		if _, ok := r.store.proposals[proposal.ID]; ok {
			return nil, fmt.Errorf("proposal %d already exists", proposal.ID)
		}
		r.store.proposals[proposal.ID] = cloneProposal(proposal)
		return func() { delete(r.store.proposals, proposal.ID) }, nil
	})
}

func (r *GovernanceRepository) GetProposal(ctx context.Context, id uint64) (*domain.Proposal, error) {
	var proposal *domain.Proposal
	if err := r.store.readCommitted(ctx, proposalLock(id), func() {
		if p, ok := r.store.proposals[id]; ok {
			proposal = cloneProposal(p)
		}
	}); err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, domain.ErrProposalNotFound
	}
	return proposal, nil
}

func (r *GovernanceRepository) GetProposalForUpdate(ctx context.Context, id uint64) (*domain.Proposal, error) {
	if err := r.store.lockForUpdate(ctx, proposalLock(id)); err != nil {
		return nil, err
	}
	return r.GetProposal(ctx, id)
}

func (r *GovernanceRepository) UpdateProposal(ctx context.Context, proposal *domain.Proposal) error {
	return r.store.write(ctx, []string{proposalLock(proposal.ID)}, func() (func(), error) {
		prev, ok := r.store.proposals[proposal.ID]
		if !ok {
			return nil, domain.ErrProposalNotFound
		}
		r.store.proposals[proposal.ID] = cloneProposal(proposal)
		return func() { r.store.proposals[proposal.ID] = prev }, nil
	})
}

func (r *GovernanceRepository) ListProposals(ctx context.Context, filter domain.ProposalFilter) ([]*domain.Proposal, error) {
	var proposals []*domain.Proposal
	r.store.read(func() {
		for _, p := range r.store.proposals {
			if filter.Creator != "" && p.Creator != filter.Creator {
				continue
			}
			if len(filter.States) > 0 && !slices.Contains(filter.States, p.State) {
				continue
			}
			if filter.ClosedBefore != nil && p.ClosesAt.After(*filter.ClosedBefore) {
				continue
			}
			proposals = append(proposals, cloneProposal(p))
		}
	})
	sort.Slice(proposals, func(a, b int) bool { return proposals[a].ID < proposals[b].ID })
	return page(proposals, filter.Limit, filter.Offset), nil
}

func (r *GovernanceRepository) CreateVote(ctx context.Context, vote *domain.VoteRecord) error {
	return r.store.write(ctx, []string{voteLock(vote.Key)}, func() (func(), error) {
		if _, ok := r.store.votes[vote.Key]; ok {
			return nil, domain.ErrAlreadyVoted
		}
		v := *vote
		r.store.votes[vote.Key] = &v
		return func() { delete(r.store.votes, vote.Key) }, nil
	})
}

func (r *GovernanceRepository) ListVotes(ctx context.Context, proposalID uint64) ([]*domain.VoteRecord, error) {
	var votes []*domain.VoteRecord
	r.store.read(func() {
		for _, v := range r.store.votes {
			if v.ProposalID == proposalID {
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

func (r *GovernanceRepository) GetMember(ctx context.Context, account string) (*domain.Member, error) {
	var member *domain.Member
	if err := r.store.readCommitted(ctx, memberLock(account), func() {
		if m, ok := r.store.members[account]; ok {
			c := *m
			member = &c
		}
	}); err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}
	return member, nil
}

func (r *GovernanceRepository) SaveMember(ctx context.Context, member *domain.Member) error {
	return r.store.write(ctx, []string{memberLock(member.Account)}, func() (func(), error) {
		prev, existed := r.store.members[member.Account]
		m := *member
		r.store.members[member.Account] = &m
		return func() {
			if existed {
				r.store.members[member.Account] = prev
			} else {
				delete(r.store.members, member.Account)
			}
		}, nil
	})
}
