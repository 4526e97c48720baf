// Package observability keeps the latest health figures of this relay node.
package observability

import (
	"log/slog"
	"sync"
	"time"
)

// NodeStats aggregates routing and process metrics for the stats endpoint.
type NodeStats struct {
	NodeID string `json:"node_id"`

	// Routing
	OnlineUsers     int    `json:"online_users"`
	FanoutBacklog   int    `json:"fanout_backlog"`
	FanoutCapacity  int    `json:"fanout_capacity"`
	PushesDelivered uint64 `json:"pushes_delivered"`
	PushesDropped   uint64 `json:"pushes_dropped"`

	// Process
	CPUPercent float64 `json:"cpu_percent"`
	RAMPercent float32 `json:"ram_percent"`
	AllocMemMb uint64  `json:"alloc_mem_mb"`
	NumGC      uint32  `json:"num_gc"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Saturated reports whether the group fan-out buffer is more than 90% full.
func (s NodeStats) Saturated() bool {
	return s.FanoutCapacity > 0 && s.FanoutBacklog*10 > s.FanoutCapacity*9
}

type MonitoringManager struct {
	log    *slog.Logger
	mu     sync.RWMutex
	latest NodeStats
}

func NewMonitoringManager(log *slog.Logger, nodeID string) *MonitoringManager {
	return &MonitoringManager{log: log, latest: NodeStats{NodeID: nodeID}}
}

func (mm *MonitoringManager) Update(stats NodeStats) {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	stats.NodeID = mm.latest.NodeID
	if stats.Saturated() && !mm.latest.Saturated() {
		mm.log.Warn("Group fan-out buffer is nearly full",
			"backlog", stats.FanoutBacklog,
			"capacity", stats.FanoutCapacity)
	}
	mm.latest = stats
	mm.log.Debug("Stats updated",
		"online", stats.OnlineUsers,
		"backlog", stats.FanoutBacklog,
		"dropped", stats.PushesDropped,
		"mem_mb", stats.AllocMemMb)
}

func (mm *MonitoringManager) GetLatest() NodeStats {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.latest
}
