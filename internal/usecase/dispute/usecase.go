package dispute

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
)

// EscrowSettler is the part of the escrow ledger a dispute drives. Every call
// joins the transaction carried by ctx.
type EscrowSettler interface {
	GetEscrowByKey(ctx context.Context, key string) (*domain.EscrowJob, error)
	MarkDisputed(ctx context.Context, key string, disputeID uint64) (*domain.EscrowJob, error)
	Reinstate(ctx context.Context, key string, disputeID uint64) (*domain.EscrowJob, error)
	SettleDispute(ctx context.Context, key string, disputeID uint64, judgment *domain.Judgment) (*domain.EscrowJob, error)
}

// Settings seed the arbitration config on first start.
type Settings struct {
	Admin              string
	Treasury           string
	DefaultQuorum      uint8
	DisputeFee         uint64
	PanelTTL           time.Duration
	LatePenaltyPercent uint16
	AutoJudgeOnQuorum  bool
}

type DefaultDisputeUsecase struct {
	disputeRepo domain.DisputeRepository
	outbox      domain.OutboxRepository
	txManager   domain.TxManager
	ledger      domain.Ledger
	escrows     EscrowSettler
	clock       domain.Clock
	metrics     *metrics.ServiceMetrics
	logger      *slog.Logger
	settings    Settings
}

func NewDefaultDisputeUsecase(
	disputeRepo domain.DisputeRepository,
	outbox domain.OutboxRepository,
	txManager domain.TxManager,
	ledger domain.Ledger,
	escrows EscrowSettler,
	clock domain.Clock,
	serviceMetrics *metrics.ServiceMetrics,
	logger *slog.Logger,
	settings Settings,
) *DefaultDisputeUsecase {
	if settings.PanelTTL <= 0 {
		settings.PanelTTL = domain.DefaultPanelTTL
	}
	if settings.DefaultQuorum == 0 {
		settings.DefaultQuorum = 2
	}
	return &DefaultDisputeUsecase{
		disputeRepo: disputeRepo,
		outbox:      outbox,
		txManager:   txManager,
		ledger:      ledger,
		escrows:     escrows,
		clock:       clock,
		metrics:     serviceMetrics,
		logger:      logger.With("component", "dispute"),
		settings:    settings,
	}
}

// Bootstrap stores the arbitration config from settings unless one exists.
// A late penalty above 100 percent is rejected.
func (disputeUc *DefaultDisputeUsecase) Bootstrap(ctx context.Context) error {
	if disputeUc.settings.LatePenaltyPercent > domain.MaxSharePercent {
		return fmt.Errorf("late penalty percent %d: %w", disputeUc.settings.LatePenaltyPercent, domain.ErrInvalidSplit)
	}
	created, err := disputeUc.disputeRepo.InitArbitrationConfig(ctx, &domain.ArbitrationConfig{
		Admin:              disputeUc.settings.Admin,
		Treasury:           disputeUc.settings.Treasury,
		DefaultQuorum:      disputeUc.settings.DefaultQuorum,
		DisputeFee:         disputeUc.settings.DisputeFee,
		PanelTTL:           disputeUc.settings.PanelTTL,
		LatePenaltyPercent: disputeUc.settings.LatePenaltyPercent,
		AutoJudgeOnQuorum:  disputeUc.settings.AutoJudgeOnQuorum,
		UpdatedAt:          disputeUc.clock.Now(),
	})
	if err != nil {
		return err
	}
	if created {
		disputeUc.logger.Info("arbitration config initialized", slog.String("admin", disputeUc.settings.Admin))
	}
	return nil
}
