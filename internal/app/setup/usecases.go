package setup

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/dispute"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/escrow"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/governance"
)

type UseCases struct {
	EscrowUsecase     usecase.EscrowUsecase
	DisputeUsecase    usecase.DisputeUsecase
	GovernanceUsecase usecase.GovernanceUsecase
}

func InitializeUseCases(ctx context.Context, deps *Dependencies) (*UseCases, error) {
	repos := deps.Repositories
	cfg := deps.Config
	clock := domain.SystemClock{}

	escrowUsecase := escrow.NewDefaultEscrowUsecase(
		repos.EscrowRepo,
		repos.OutboxRepo,
		repos.TxManager,
		repos.Ledger,
		clock,
		deps.Metrics,
		deps.Logger,
		cfg.Escrow.MinAmount,
	)

	disputeUsecase := dispute.NewDefaultDisputeUsecase(
		repos.DisputeRepo,
		repos.OutboxRepo,
		repos.TxManager,
		repos.Ledger,
		escrowUsecase,
		clock,
		deps.Metrics,
		deps.Logger,
		dispute.Settings{
			Admin:              cfg.Arbitration.Admin,
			Treasury:           cfg.Arbitration.Treasury,
			DefaultQuorum:      cfg.Arbitration.DefaultQuorum,
			DisputeFee:         cfg.Arbitration.DisputeFee,
			PanelTTL:           cfg.Arbitration.PanelTTL,
			LatePenaltyPercent: cfg.Arbitration.LatePenaltyPercent,
			AutoJudgeOnQuorum:  cfg.Arbitration.AutoJudgeOnQuorum,
		},
	)
	if err := disputeUsecase.Bootstrap(ctx); err != nil {
		return nil, fmt.Errorf("arbitration bootstrap: %w", err)
	}

	governanceUsecase := governance.NewDefaultGovernanceUsecase(
		repos.GovernanceRepo,
		repos.OutboxRepo,
		repos.TxManager,
		repos.Ledger,
		repos.Stakes,
		clock,
		deps.Metrics,
		deps.Logger,
	)

	return &UseCases{
		EscrowUsecase:     escrowUsecase,
		DisputeUsecase:    disputeUsecase,
		GovernanceUsecase: governanceUsecase,
	}, nil
}
