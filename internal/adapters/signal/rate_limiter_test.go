package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnRateLimiter(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewConnRateLimiter(2, time.Second)
	rl.now = func() time.Time { return now }

	require.True(t, rl.Allow("a"))
	require.True(t, rl.Allow("a"))
	require.False(t, rl.Allow("a"))
	require.True(t, rl.Allow("b"))

	now = now.Add(1500 * time.Millisecond)
	require.True(t, rl.Allow("a"))

	rl.Forget("a")
	require.True(t, rl.Allow("a"))
	require.True(t, rl.Allow("a"))
	require.False(t, rl.Allow("a"))
}
