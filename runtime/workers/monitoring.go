package workers

import (
	"context"
	"log/slog"
	"time"

	"chat-hub/observability"
)

// MonitoringWorker logs a snapshot of process and connection stats at
// a fixed interval.
type MonitoringWorker struct {
	collector *observability.Collector
	log       *slog.Logger
	interval  time.Duration
}

func NewMonitoringWorker(collector *observability.Collector, log *slog.Logger, interval time.Duration) *MonitoringWorker {
	return &MonitoringWorker{collector: collector, log: log, interval: interval}
}

func (w *MonitoringWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping monitoring worker")
			return nil
		case <-ticker.C:
			stats := w.collector.Snapshot()
			w.log.Info("Server stats",
				"connections", stats.LiveConnections,
				"goroutines", stats.Goroutines,
				"alloc_mb", stats.AllocMemMb,
				"num_gc", stats.NumGC,
			)
		}
	}
}
