package escrow

import (
	"log/slog"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
)

type DefaultEscrowUsecase struct {
	escrowRepo domain.EscrowRepository
	outbox     domain.OutboxRepository
	txManager  domain.TxManager
	ledger     domain.Ledger
	clock      domain.Clock
	metrics    *metrics.ServiceMetrics
	logger     *slog.Logger
	minAmount  uint64
}

func NewDefaultEscrowUsecase(
	escrowRepo domain.EscrowRepository,
	outbox domain.OutboxRepository,
	txManager domain.TxManager,
	ledger domain.Ledger,
	clock domain.Clock,
	serviceMetrics *metrics.ServiceMetrics,
	logger *slog.Logger,
	minAmount uint64,
) *DefaultEscrowUsecase {
	if minAmount < domain.MinEscrowAmount {
		minAmount = domain.MinEscrowAmount
	}
	return &DefaultEscrowUsecase{
		escrowRepo: escrowRepo,
		outbox:     outbox,
		txManager:  txManager,
		ledger:     ledger,
		clock:      clock,
		metrics:    serviceMetrics,
		logger:     logger.With("component", "escrow"),
		minAmount:  minAmount,
	}
}
