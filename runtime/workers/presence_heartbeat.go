package workers

import (
	"context"
	"log/slog"
	"time"
)

type PresenceRefresher interface {
	Refresh(ctx context.Context) error
}

// PresenceHeartbeatWorker keeps the shared presence entries of this node alive.
type PresenceHeartbeatWorker struct {
	log      *slog.Logger
	presence PresenceRefresher
	interval time.Duration
}

func NewPresenceHeartbeatWorker(log *slog.Logger, presence PresenceRefresher, interval time.Duration) *PresenceHeartbeatWorker {
	return &PresenceHeartbeatWorker{log: log, presence: presence, interval: interval}
}

func (w *PresenceHeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting presence heartbeat worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.presence.Refresh(ctx); err != nil {
				w.log.Warn("Presence store unreachable for heartbeat", "err", err)
			}
		}
	}
}
