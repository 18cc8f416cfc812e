package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, uint16(8080), cfg.HTTP.Port)
	assert.Equal(t, 3, cfg.Lifecycle.GracePeriodDays)
	assert.Equal(t, time.Minute, cfg.Scheduler.LifecycleInterval)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE", StoreMemory)
	t.Setenv("LIFECYCLE_GRACE_PERIOD_DAYS", "5")
	t.Setenv("SCHEDULER_PAYMENT_INTERVAL", "30s")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 5, cfg.Lifecycle.GracePeriodDays)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.PaymentInterval)
	assert.Equal(t, "json", cfg.Log.SlogFormat())
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("SCHEDULER_LIFECYCLE_INTERVAL", "soon")

	_, err := Load()
	assert.Error(t, err)
}
