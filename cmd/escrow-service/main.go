package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/app/background"
	"github.com/LavaJover/shvark-escrow-service/internal/app/setup"
	"github.com/LavaJover/shvark-escrow-service/internal/config"
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/outbox"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	appLogger := logger.New(cfg.LogConfig, cfg.Env)
	slog.SetDefault(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories, ledger, kafka
	deps, err := setup.InitializeDependencies(cfg, appLogger)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}
	defer deps.Close()

	useCases, err := setup.InitializeUseCases(ctx, deps)
	if err != nil {
		log.Fatalf("failed to init usecases: %v", err)
	}

	// gRPC
	auth, err := grpcapi.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		log.Fatalf("failed to init authenticator: %v", err)
	}
	grpcServer, healthServer, err := grpcapi.NewServer(grpcapi.Handlers{
		Escrow:     grpcapi.NewEscrowHandler(useCases.EscrowUsecase),
		Dispute:    grpcapi.NewDisputeHandler(useCases.DisputeUsecase),
		Governance: grpcapi.NewGovernanceHandler(useCases.GovernanceUsecase),
	}, auth, appLogger)
	if err != nil {
		log.Fatalf("failed to init grpc server: %v", err)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	// /metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Workers
	var relay background.OutboxRelay
	var subscriber domain.SubscriberPort
	if deps.EventSink != nil {
		relay = outbox.NewRelay(deps.Repositories.OutboxRepo, deps.EventSink, domain.SystemClock{}, deps.Metrics, appLogger, cfg.Workers.OutboxBatchSize)
	}
	if deps.Subscriber != nil {
		subscriber = deps.Subscriber
	}
	tasks := background.NewBackgroundTasks(
		useCases.DisputeUsecase,
		useCases.GovernanceUsecase,
		relay,
		subscriber,
		deps.Repositories.Stakes,
		cfg.KafkaService.StakeGroupID,
		background.Intervals{
			ProposalSweep: cfg.Workers.ProposalSweepInterval,
			AutoResolve:   cfg.Workers.AutoResolveInterval,
			Outbox:        cfg.Workers.OutboxInterval,
		},
		appLogger,
	)

	g, gctx := errgroup.WithContext(ctx)
	tasks.StartAll(gctx, g)

	g.Go(func() error {
		appLogger.Info("gRPC server started", slog.String("addr", lis.Addr().String()))
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		appLogger.Info("metrics server started", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("shutting down")
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		grpcServer.GracefulStop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("service stopped: %v", err)
	}
}
