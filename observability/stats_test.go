package observability

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollector_Snapshot(t *testing.T) {
	req := require.New(t)
	collector := NewCollector(func() int { return 42 })

	stats := collector.Snapshot()

	req.Equal(42, stats.LiveConnections)
	req.Greater(stats.Goroutines, 0)
}

func TestCollector_Without_Connection_Source(t *testing.T) {
	req := require.New(t)
	collector := NewCollector(nil)

	stats := collector.Snapshot()

	req.Equal(0, stats.LiveConnections)
}
