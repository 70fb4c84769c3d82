package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Engine.TopLimit)
	assert.Equal(t, 60, cfg.Engine.TimelinePeriod)
	assert.Equal(t, 120, cfg.Engine.SynScan.Window)
	assert.Equal(t, 150, cfg.Engine.SynScan.Threshold)
	assert.Equal(t, 600, cfg.Engine.Exfil.Window)
	assert.Equal(t, int64(50), cfg.Engine.Exfil.ThresholdMB)
	assert.Equal(t, 2, cfg.Engine.DNSRare.MinCount)
	assert.False(t, cfg.Alerts.Enabled)
}

func TestLoadConfigPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engine:
  syn_scan:
    threshold: 40
alerts:
  enabled: true
  nats:
    url: "nats://127.0.0.1:4222"
    subject: "flowscope.alerts"
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Engine.SynScan.Threshold)
	assert.Equal(t, 120, cfg.Engine.SynScan.Window, "unset fields keep defaults")
	assert.True(t, cfg.Alerts.Enabled)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Alerts.NATS.URL)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: ["), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}
