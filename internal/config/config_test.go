package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 1, cfg.NodeID)
	assert.True(t, cfg.Sync.DrainOnStart)
	assert.Equal(t, time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 5*time.Second, cfg.Sync.ProbeTimeout)
	assert.Equal(t, "pending_logs.db", cfg.QueuePath)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SNOWFLAKE_NODE_ID", "3")
	t.Setenv("SYNC_ON_START", "false")
	t.Setenv("SYNC_INTERVAL", "30s")

	cfg := Load()
	assert.Equal(t, 3, cfg.NodeID)
	assert.False(t, cfg.Sync.DrainOnStart)
	assert.Equal(t, 30*time.Second, cfg.Sync.Interval)
}

func TestLoadMalformedValuesFallBack(t *testing.T) {
	t.Setenv("SNOWFLAKE_NODE_ID", "zebra")
	t.Setenv("SYNC_ON_START", "maybe")
	t.Setenv("SYNC_INTERVAL", "soon")

	cfg := Load()
	assert.Equal(t, 1, cfg.NodeID)
	assert.True(t, cfg.Sync.DrainOnStart)
	assert.Equal(t, time.Minute, cfg.Sync.Interval)
}
