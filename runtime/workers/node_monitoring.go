package workers

import (
	"chat-relay/observability"
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// NodeMonitoringWorker samples routing figures and process usage at a fixed interval.
type NodeMonitoringWorker struct {
	log        *slog.Logger
	source     func() observability.NodeStats
	monitoring *observability.MonitoringManager
	interval   time.Duration
}

func NewNodeMonitoringWorker(
	log *slog.Logger,
	source func() observability.NodeStats,
	monitoring *observability.MonitoringManager,
	interval time.Duration,
) *NodeMonitoringWorker {
	return &NodeMonitoringWorker{log: log, source: source, monitoring: monitoring, interval: interval}
}

func (w *NodeMonitoringWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping node monitoring")
			return nil
		case <-ticker.C:
			w.monitoring.Update(w.Sample(p))
		}
	}
}

// Sample merges the routing figures with the usage of process p.
func (w *NodeMonitoringWorker) Sample(p *process.Process) observability.NodeStats {
	stats := w.source()
	stats.UpdatedAt = time.Now().UTC()

	if cpu, err := p.CPUPercent(); err != nil {
		w.log.Debug("Error while finding process cpu usage", "err", err)
	} else {
		stats.CPUPercent = cpu
	}
	if ram, err := p.MemoryPercent(); err != nil {
		w.log.Debug("Error while finding process ram usage", "err", err)
	} else {
		stats.RAMPercent = ram
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	stats.AllocMemMb = m.Alloc / 1024 / 1024
	stats.NumGC = m.NumGC
	return stats
}
