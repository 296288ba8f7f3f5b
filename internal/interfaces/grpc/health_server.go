// Package grpc exposes the gRPC surface of the supplier risk service: the standard health
// service, driven by periodic dependency checks.
package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/bell24h/supplierrisk/pkg/constants"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

// Pinger is a dependency whose reachability drives the serving status.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wraps a grpc.Server carrying the health service.
// Server 封装携带健康检查服务的 grpc.Server。
type Server struct {
	server *grpc.Server
	health *health.Server
	checks map[string]Pinger
	port   int
	log    logger.Logger
}

// NewServer creates the gRPC server. checks are pinged by WatchDependencies.
func NewServer(port int, checks map[string]Pinger, chain *InterceptorChain, log logger.Logger) *Server {
	s := &Server{
		server: grpc.NewServer(chain.ChainUnaryInterceptors()),
		health: health.NewServer(),
		checks: checks,
		port:   port,
		log:    log.WithComponent("GRPCServer"),
	}
	healthpb.RegisterHealthServer(s.server, s.health)
	s.SetServing(true)
	return s
}

// SetServing flips the status of both the overall and the named service.
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(constants.ServiceName, st)
}

// CheckDependencies pings every dependency once and updates the serving status.
func (s *Server) CheckDependencies(ctx context.Context) bool {
	serving := true
	for name, p := range s.checks {
		if err := p.Ping(ctx); err != nil {
			s.log.Warn(ctx, "Dependency check failed", logger.String("dependency", name), logger.Err(err))
			serving = false
		}
	}
	s.SetServing(serving)
	return serving
}

// WatchDependencies re-checks the dependencies every interval until ctx is done.
func (s *Server) WatchDependencies(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, interval/2)
			s.CheckDependencies(checkCtx)
			cancel()
		}
	}
}

// Serve listens on the configured port and blocks until Stop.
func (s *Server) Serve() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}
	return s.ServeListener(lis)
}

// ServeListener serves on an existing listener.
func (s *Server) ServeListener(lis net.Listener) error {
	s.log.Info(context.Background(), "Starting gRPC server", logger.String("address", lis.Addr().String()))
	return s.server.Serve(lis)
}

// Stop marks the service as not serving and drains in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
