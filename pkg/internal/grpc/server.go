package grpc

import (
	"context"
	"net"

	"git.solsynth.dev/hypernet/collab/pkg/internal/database"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	health "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type Server struct {
	health.UnimplementedHealthServer

	srv *grpc.Server
}

func NewGrpc() *Server {
	server := &Server{
		srv: grpc.NewServer(),
	}

	health.RegisterHealthServer(server.srv, server)

	reflection.Register(server.srv)

	return server
}

// Check reports SERVING only while the database answers.
func (v *Server) Check(ctx context.Context, req *health.HealthCheckRequest) (*health.HealthCheckResponse, error) {
	if err := database.Ping(); err != nil {
		log.Warn().Err(err).Msg("Health check failed, database is unreachable.")
		return &health.HealthCheckResponse{
			Status: health.HealthCheckResponse_NOT_SERVING,
		}, nil
	}
	return &health.HealthCheckResponse{
		Status: health.HealthCheckResponse_SERVING,
	}, nil
}

func (v *Server) Listen() error {
	listener, err := net.Listen("tcp", viper.GetString("grpc_bind"))
	if err != nil {
		return err
	}

	return v.srv.Serve(listener)
}

func (v *Server) Stop() {
	v.srv.GracefulStop()
}
