package workers

import (
	"chat-relay/observability"
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/shirou/gopsutil/process"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestHealthProbeWorker_Flips_Status(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	server := health.NewServer()
	failing := false

	worker := NewHealthProbeWorker(log, server, time.Second, Probe{
		Name: "storage",
		Check: func(context.Context) error {
			if failing {
				return fmt.Errorf("closed")
			}
			return nil
		},
	})

	// Given a healthy dependency
	status := worker.Check(ctx, healthpb.HealthCheckResponse_UNKNOWN)
	req.Equal(healthpb.HealthCheckResponse_SERVING, status)

	// When it fails
	failing = true
	status = worker.Check(ctx, status)

	// Then the node reports not serving
	req.Equal(healthpb.HealthCheckResponse_NOT_SERVING, status)
	resp, err := server.Check(ctx, &healthpb.HealthCheckRequest{})
	req.NoError(err)
	req.Equal(healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)
}

func TestNodeMonitoringWorker_Sample(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	monitor := observability.NewMonitoringManager(log, "node-a")
	worker := NewNodeMonitoringWorker(log, func() observability.NodeStats {
		return observability.NodeStats{OnlineUsers: 2, FanoutCapacity: 8}
	}, monitor, time.Second)

	p, err := process.NewProcess(int32(os.Getpid()))
	req.NoError(err)

	stats := worker.Sample(p)
	req.Equal(2, stats.OnlineUsers)
	req.Equal(8, stats.FanoutCapacity)
	req.False(stats.UpdatedAt.IsZero())

	monitor.Update(stats)
	req.Equal("node-a", monitor.GetLatest().NodeID)
}
