package governance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
)

////////////////////// Транзакционные операции с предложениями //////////////////////////

// proposalMutation получает заблокированные конфиг и предложение. Возвращает
// перевод, который выполняется последним в транзакции.
type proposalMutation func(ctx context.Context, cfg *domain.DaoConfig, proposal *domain.Proposal, now time.Time) (*feeTransfer, []domain.Event, error)

type feeTransfer struct {
	From   string
	To     string
	Amount uint64
}

func (governanceUc *DefaultGovernanceUsecase) processProposalOperation(ctx context.Context, operation string, proposalID uint64, mutate proposalMutation) (*domain.Proposal, error) {
	start := time.Now()
	var result *domain.Proposal
	err := governanceUc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		// конфиг DAO всегда блокируется раньше предложения
		cfg, err := governanceUc.governanceRepo.GetDaoConfigForUpdate(ctx)
		if err != nil {
			return err
		}
		proposal, err := governanceUc.governanceRepo.GetProposalForUpdate(ctx, proposalID)
		if err != nil {
			return err
		}
		now := governanceUc.clock.Now()
		transfer, events, err := mutate(ctx, cfg, proposal, now)
		if err != nil {
			return err
		}
		if err := governanceUc.governanceRepo.UpdateProposal(ctx, proposal); err != nil {
			return fmt.Errorf("update proposal: %w", err)
		}
		if err := governanceUc.outbox.AppendEvents(ctx, events...); err != nil {
			return fmt.Errorf("append events: %w", err)
		}
		if err := governanceUc.processTransfer(ctx, transfer); err != nil {
			return err
		}
		result = proposal
		return nil
	})
	governanceUc.metrics.RecordOperation("governance", operation, time.Since(start).Seconds(), err)
	if err != nil {
		governanceUc.logger.Debug("governance operation rejected", "operation", operation, "proposal_id", proposalID, "error", err)
		return nil, err
	}
	return result, nil
}

// processConfigOperation - операции администратора DAO
func (governanceUc *DefaultGovernanceUsecase) processConfigOperation(ctx context.Context, operation string, caller domain.Principal, mutate func(ctx context.Context, cfg *domain.DaoConfig, now time.Time) (*feeTransfer, []domain.Event, error)) (*domain.DaoConfig, error) {
	start := time.Now()
	var result *domain.DaoConfig
	err := governanceUc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		cfg, err := governanceUc.governanceRepo.GetDaoConfigForUpdate(ctx)
		if err != nil {
			return err
		}
		if caller.ID != cfg.Admin {
			return domain.ErrUnauthorized
		}
		now := governanceUc.clock.Now()
		transfer, events, err := mutate(ctx, cfg, now)
		if err != nil {
			return err
		}
		cfg.UpdatedAt = now
		if err := governanceUc.governanceRepo.UpdateDaoConfig(ctx, cfg); err != nil {
			return fmt.Errorf("update dao config: %w", err)
		}
		if err := governanceUc.outbox.AppendEvents(ctx, events...); err != nil {
			return fmt.Errorf("append events: %w", err)
		}
		if err := governanceUc.processTransfer(ctx, transfer); err != nil {
			return err
		}
		result = cfg
		return nil
	})
	governanceUc.metrics.RecordOperation("governance", operation, time.Since(start).Seconds(), err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (governanceUc *DefaultGovernanceUsecase) processTransfer(ctx context.Context, transfer *feeTransfer) error {
	if transfer == nil || transfer.Amount == 0 {
		return nil
	}
	if err := governanceUc.ledger.Transfer(ctx, transfer.From, transfer.To, transfer.Amount); err != nil {
		return fmt.Errorf("ledger transfer: %w", err)
	}
	return nil
}

// member возвращает участника или nil, если он не зарегистрирован
func (governanceUc *DefaultGovernanceUsecase) member(ctx context.Context, account string) (*domain.Member, error) {
	member, err := governanceUc.governanceRepo.GetMember(ctx, account)
	if errors.Is(err, domain.ErrMemberNotFound) {
		return nil, nil
	}
	return member, err
}

// discounted применяет скидку 50% для премиум-участников
func discounted(cfg *domain.DaoConfig, member *domain.Member, fee uint64) uint64 {
	if member != nil && member.Premium && cfg.Has(domain.EligibilityPremium) {
		return fee / 2
	}
	return fee
}

func proposalEvent(typ domain.EventType, proposal *domain.Proposal, now time.Time, payload map[string]any) domain.Event {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["proposal_id"] = proposal.ID
	payload["state"] = string(proposal.State)
	return usecase.NewEvent(typ, domain.AggregateGovernance, proposal.Key, payload, now)
}

func daoEvent(typ domain.EventType, now time.Time, payload map[string]any) domain.Event {
	return usecase.NewEvent(typ, domain.AggregateGovernance, "dao", payload, now)
}
