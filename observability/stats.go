// Package observability aggregates runtime statistics for periodic
// logging by the monitoring worker.
package observability

import "runtime"

type Stats struct {
	LiveConnections int    `json:"live_connections"`
	Goroutines      int    `json:"goroutines"`
	AllocMemMb      uint64 `json:"alloc_mem_mb"`
	NumGC           uint32 `json:"num_gc"`
}

// Collector samples process-level metrics plus the live connection
// count supplied by the coordinator.
type Collector struct {
	liveConnections func() int
}

func NewCollector(liveConnections func() int) *Collector {
	return &Collector{liveConnections: liveConnections}
}

func (c *Collector) Snapshot() Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := Stats{
		Goroutines: runtime.NumGoroutine(),
		AllocMemMb: m.Alloc / 1024 / 1024,
		NumGC:      m.NumGC,
	}
	if c.liveConnections != nil {
		stats.LiveConnections = c.liveConnections()
	}
	return stats
}
