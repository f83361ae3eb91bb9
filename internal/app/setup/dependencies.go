package setup

import (
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-escrow-service/internal/config"
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	publisher "github.com/LavaJover/shvark-escrow-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/notifier"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	LedgerLocal  = "local"
	LedgerRemote = "remote"
)

type Dependencies struct {
	Config       *config.EscrowConfig
	Logger       *slog.Logger
	DB           *gorm.DB
	Registry     *prometheus.Registry
	Metrics      *metrics.ServiceMetrics
	Publisher    *publisher.DefaultKafkaPublisher
	Subscriber   *publisher.DefaultKafkaSubscriber
	// EventSink - куда релей выкладывает outbox: kafka или webhook, nil если выключено
	EventSink    domain.PublisherPort
	Repositories *Repositories
}

type Repositories struct {
	TxManager      domain.TxManager
	EscrowRepo     domain.EscrowRepository
	DisputeRepo    domain.DisputeRepository
	GovernanceRepo domain.GovernanceRepository
	OutboxRepo     domain.OutboxRepository
	Ledger         domain.Ledger
	Stakes         StakeStore
}

// StakeStore отдает вес голоса и принимает обновления стейка из kafka
type StakeStore interface {
	domain.StakeRegistry
	domain.StakeWriter
}

func InitializeDependencies(cfg *config.EscrowConfig, logger *slog.Logger) (*Dependencies, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
		Metrics:  metrics.NewServiceMetrics(registry),
	}

	switch cfg.EscrowDB.Driver {
	case DriverMemory:
		deps.Repositories = initMemoryRepositories(cfg)
	case DriverPostgres, "":
		db := postgres.MustInitDB(cfg)
		if err := migrate.RunMigrations(db, cfg.EscrowDB.MigrationsPath, logger); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		deps.DB = db
		deps.Repositories = initPostgresRepositories(cfg, db)
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.EscrowDB.Driver)
	}

	if cfg.LedgerService.Mode == LedgerRemote {
		ledgerHandler, err := handlers.NewHTTPLedgerHandler(
			fmt.Sprintf("http://%s:%s", cfg.LedgerService.Host, cfg.LedgerService.Port),
			cfg.LedgerService.Timeout,
		)
		if err != nil {
			return nil, fmt.Errorf("ledger handler: %w", err)
		}
		deps.Repositories.Ledger = ledgerHandler
		logger.Warn("remote ledger configured, ledger moves are not part of the storage transaction")
	}

	if cfg.KafkaService.Enabled {
		brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
		deps.Publisher = publisher.NewDefaultKafkaPublisher(brokers)
		deps.Subscriber = publisher.NewDefaultKafkaSubscriber(brokers)
		deps.EventSink = deps.Publisher
	} else if cfg.Webhook.URL != "" {
		deps.EventSink = notifier.NewWebhookPublisher(cfg.Webhook.URL, cfg.Webhook.Secret, cfg.Webhook.Timeout, logger)
	}

	logger.Info("dependencies initialized",
		slog.String("db_driver", cfg.EscrowDB.Driver),
		slog.String("ledger_mode", cfg.LedgerService.Mode),
		slog.Bool("kafka", cfg.KafkaService.Enabled),
		slog.Bool("webhook", cfg.Webhook.URL != ""),
	)
	return deps, nil
}

func initMemoryRepositories(cfg *config.EscrowConfig) *Repositories {
	store := memory.NewStore()
	return &Repositories{
		TxManager:      store,
		EscrowRepo:     memory.NewEscrowRepository(store),
		DisputeRepo:    memory.NewDisputeRepository(store),
		GovernanceRepo: memory.NewGovernanceRepository(store),
		OutboxRepo:     memory.NewOutboxRepository(store),
		Ledger:         memory.NewLedger(store),
		Stakes:         memory.NewStakeRegistry(store, cfg.Governance.StakeDivisor),
	}
}

func initPostgresRepositories(cfg *config.EscrowConfig, db *gorm.DB) *Repositories {
	return &Repositories{
		TxManager:      repository.NewTxManager(db),
		EscrowRepo:     repository.NewDefaultEscrowRepository(db),
		DisputeRepo:    repository.NewDefaultDisputeRepository(db),
		GovernanceRepo: repository.NewDefaultGovernanceRepository(db),
		OutboxRepo:     repository.NewDefaultOutboxRepository(db),
		Ledger:         repository.NewDefaultLedger(db),
		Stakes:         repository.NewDefaultStakeRepository(db, cfg.Governance.StakeDivisor),
	}
}

// Close освобождает соединения с брокером и базой
func (d *Dependencies) Close() {
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			d.Logger.Error("failed to close kafka publisher", slog.String("error", err.Error()))
		}
	}
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
