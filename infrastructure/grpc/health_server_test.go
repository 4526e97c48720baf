package grpc

import (
	"chat-relay/auth"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestHealthServer_Check_Is_Public(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Given a running health server
	server := NewHealthServer(logs.GetLoggerFromLevel(slog.LevelDebug), auth.NewTokens("secret", time.Hour))
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	req.NoError(err)
	done := make(chan error, 1)
	go func() { done <- server.Serve(listener) }()

	conn, err := grpc.NewClient(listener.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	req.NoError(err)
	defer func() { _ = conn.Close() }()
	client := healthpb.NewHealthClient(conn)

	// When checked without a token before and after a probe succeeded
	before, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	req.NoError(err)
	server.Health().SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	after, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	req.NoError(err)

	// Then the status follows the probe
	req.Equal(healthpb.HealthCheckResponse_NOT_SERVING, before.Status)
	req.Equal(healthpb.HealthCheckResponse_SERVING, after.Status)

	server.Stop()
	req.NoError(<-done)
}
