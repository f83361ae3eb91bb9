package governance

import (
	"log/slog"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
)

type DefaultGovernanceUsecase struct {
	governanceRepo domain.GovernanceRepository
	outbox         domain.OutboxRepository
	txManager      domain.TxManager
	ledger         domain.Ledger
	stakes         domain.StakeRegistry
	clock          domain.Clock
	metrics        *metrics.ServiceMetrics
	logger         *slog.Logger
}

func NewDefaultGovernanceUsecase(
	governanceRepo domain.GovernanceRepository,
	outbox domain.OutboxRepository,
	txManager domain.TxManager,
	ledger domain.Ledger,
	stakes domain.StakeRegistry,
	clock domain.Clock,
	serviceMetrics *metrics.ServiceMetrics,
	logger *slog.Logger,
) *DefaultGovernanceUsecase {
	return &DefaultGovernanceUsecase{
		governanceRepo: governanceRepo,
		outbox:         outbox,
		txManager:      txManager,
		ledger:         ledger,
		stakes:         stakes,
		clock:          clock,
		metrics:        serviceMetrics,
		logger:         logger.With("component", "governance"),
	}
}
