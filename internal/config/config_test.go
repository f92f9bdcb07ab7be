package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "missing")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 3001, cfg.Port)
	require.Equal(t, "release", cfg.Mode)
	require.Equal(t, StalePolicyRemove, cfg.StalePolicy)
	require.Equal(t, 54*time.Second, cfg.PingPeriod)
	require.Equal(t, 60*time.Second, cfg.PongWait)
	require.False(t, cfg.RequireStart)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CONFIG_ENV", "missing")
	t.Setenv("POT_PORT", "4100")
	t.Setenv("POT_STALE_POLICY", "keep")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 4100, cfg.Port)
	require.Equal(t, StalePolicyKeep, cfg.StalePolicy)
}

func TestLoadRejectsUnknownStalePolicy(t *testing.T) {
	t.Setenv("CONFIG_ENV", "missing")
	t.Setenv("POT_STALE_POLICY", "evaporate")

	_, err := Load()
	require.ErrorContains(t, err, "stale_policy")
}

func TestLoadRejectsNonPositiveTimings(t *testing.T) {
	for _, key := range []string{"POT_PING_PERIOD", "POT_PONG_WAIT", "POT_WRITE_WAIT"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv("CONFIG_ENV", "missing")
			t.Setenv(key, "0s")

			_, err := Load()
			require.ErrorContains(t, err, "must be positive")
		})
	}
}
