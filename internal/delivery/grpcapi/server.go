package grpcapi

import (
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Handlers struct {
	Escrow     *EscrowHandler
	Dispute    *DisputeHandler
	Governance *GovernanceHandler
}

// NewServer собирает gRPC сервер с перехватчиками и health-сервисом
func NewServer(handlers Handlers, auth *Authenticator, logger *slog.Logger) (*grpc.Server, *health.Server, error) {
	logging, err := LoggingInterceptor(logger)
	if err != nil {
		return nil, nil, err
	}
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(logging, AuthInterceptor(auth)))

	escrowDesc := handlers.Escrow.Desc()
	disputeDesc := handlers.Dispute.Desc()
	governanceDesc := handlers.Governance.Desc()
	server.RegisterService(&escrowDesc, handlers.Escrow)
	server.RegisterService(&disputeDesc, handlers.Dispute)
	server.RegisterService(&governanceDesc, handlers.Governance)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	for _, name := range []string{EscrowServiceName, DisputeServiceName, GovernanceServiceName} {
		healthServer.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return server, healthServer, nil
}
