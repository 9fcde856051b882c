package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiterBlocksEleventhAction(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l := New(10, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		require.True(t, l.Allow(42), "action %d should be allowed", i+1)
		now = now.Add(time.Second)
	}

	require.False(t, l.Allow(42), "11th action within the window must be limited")
}

func TestLimiterResetsAfterWindow(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l := New(10, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		require.True(t, l.Allow(7))
	}
	require.False(t, l.Allow(7))

	now = now.Add(61 * time.Second)
	require.True(t, l.Allow(7), "counter must reset once the window elapses")
}

func TestLimiterIsPerUser(t *testing.T) {
	l := New(1, time.Minute)

	require.True(t, l.Allow(1))
	require.False(t, l.Allow(1))
	require.True(t, l.Allow(2))
}

func TestLimiterReset(t *testing.T) {
	l := New(1, time.Minute)

	require.True(t, l.Allow(5))
	require.False(t, l.Allow(5))

	l.Reset(5)
	require.True(t, l.Allow(5))
}
