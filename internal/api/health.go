package api

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthService is the name reported next to the overall ("") status.
const HealthService = "gacha.v1.Pulls"

// NewGRPCServer returns a gRPC server exposing only the standard health service.
func NewGRPCServer(h *health.Server) *grpc.Server {
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, h)
	return srv
}

// SyncHealth reports SERVING while the catalog has rewards to grant.
func SyncHealth(h *health.Server, ready bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.SetServingStatus("", status)
	h.SetServingStatus(HealthService, status)
}
