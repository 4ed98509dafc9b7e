// Package monitoring exposes a point-in-time view of pipeline health. The
// orchestrator deliberately skips queue entries it cannot match against the
// fetched batch; queue depth and pending count give that behavior a
// watchable surface.
package monitoring

import (
	"context"
	"time"

	"github.com/gustavo-prezzoti/lead-qualifier/internal/gateway"
	"github.com/gustavo-prezzoti/lead-qualifier/internal/queue"
)

// Snapshot holds a point-in-time view of pipeline state.
type Snapshot struct {
	QueueDepth   int       `json:"queue_depth"`
	PendingLeads int       `json:"pending_leads"`
	QueueHealthy bool      `json:"queue_healthy"`
	CollectedAt  time.Time `json:"collected_at"`
}

// Collector gathers metrics from the work queue and the backend gateway.
type Collector struct {
	queue queue.Queue
	gw    gateway.Client
}

// NewCollector creates a metrics collector.
func NewCollector(q queue.Queue, gw gateway.Client) *Collector {
	return &Collector{queue: q, gw: gw}
}

// Collect gathers a snapshot. Both sources are fail-open, so a snapshot is
// always produced; an unreachable queue shows up as unhealthy with depth 0.
func (c *Collector) Collect(ctx context.Context) *Snapshot {
	return &Snapshot{
		QueueDepth:   c.queue.Len(ctx),
		PendingLeads: len(c.gw.PendingLeads(ctx)),
		QueueHealthy: c.queue.Ping(ctx) == nil,
		CollectedAt:  time.Now().UTC(),
	}
}
