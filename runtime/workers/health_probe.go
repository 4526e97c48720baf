package workers

import (
	"context"
	"log/slog"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Probe checks one dependency of the node (storage, presence store).
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthSetter interface {
	SetServingStatus(service string, status healthpb.HealthCheckResponse_ServingStatus)
}

// HealthProbeWorker flips the overall serving status whenever a probe fails or recovers.
type HealthProbeWorker struct {
	log      *slog.Logger
	health   HealthSetter
	probes   []Probe
	interval time.Duration
	timeout  time.Duration
}

func NewHealthProbeWorker(log *slog.Logger, health HealthSetter, interval time.Duration, probes ...Probe) *HealthProbeWorker {
	return &HealthProbeWorker{log: log, health: health, probes: probes, interval: interval, timeout: interval / 2}
}

func (w *HealthProbeWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	last := w.Check(ctx, healthpb.HealthCheckResponse_UNKNOWN)
	for {
		select {
		case <-ctx.Done():
			w.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
			return nil
		case <-ticker.C:
			last = w.Check(ctx, last)
		}
	}
}

// Check runs every probe once and publishes the resulting status.
func (w *HealthProbeWorker) Check(ctx context.Context, previous healthpb.HealthCheckResponse_ServingStatus) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	for _, probe := range w.probes {
		probeCtx, cancel := context.WithTimeout(ctx, w.timeout)
		err := probe.Check(probeCtx)
		cancel()
		if err != nil {
			w.log.Warn("Health probe failed", "probe", probe.Name, "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	if status != previous {
		w.log.Info("Serving status changed", "from", previous.String(), "to", status.String())
	}
	w.health.SetServingStatus("", status)
	return status
}
