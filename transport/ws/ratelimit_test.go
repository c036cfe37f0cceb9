package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allows_Up_To_Burst(t *testing.T) {
	req := require.New(t)
	rl := newRateLimiter(3, time.Minute)

	req.True(rl.allow())
	req.True(rl.allow())
	req.True(rl.allow())

	// Bucket exhausted, refill is a minute away
	req.False(rl.allow())
}

func TestRateLimiter_Refills_Over_Time(t *testing.T) {
	req := require.New(t)
	rl := newRateLimiter(2, 100*time.Millisecond)

	req.True(rl.allow())
	req.True(rl.allow())
	req.False(rl.allow())

	// After a full interval the bucket is back at capacity
	time.Sleep(120 * time.Millisecond)
	req.True(rl.allow())
	req.True(rl.allow())
}

func TestRateLimiter_Tolerates_Bad_Configuration(t *testing.T) {
	req := require.New(t)

	rl := newRateLimiter(0, 0)
	req.True(rl.allow())
}
