package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	sc, err := cfg.SearchConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(0), sc.Start.Int64())
	assert.Zero(t, sc.Limit)
	assert.Empty(t, cfg.Checkpoint.Dir)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zfsearch.yaml")
	doc := `
search:
  start: "123456789012345678901234567890"
  limit: 5000
  resume: true
  progress_interval: 30s
checkpoint:
  dir: /tmp/zf
log:
  level: debug
  json: true
metrics:
  addr: ":9090"
trace:
  enabled: true
  pretty: true
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), cfg.Search.Limit)
	assert.True(t, cfg.Search.Resume)
	assert.Equal(t, 30*time.Second, cfg.Search.ProgressInterval)
	assert.Equal(t, Default().Search.CheckpointEvery, cfg.Search.CheckpointEvery, "unset keys keep defaults")
	assert.Equal(t, "/tmp/zf", cfg.Checkpoint.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "zfsearch", cfg.Log.Service)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.True(t, cfg.Trace.Enabled)

	var out strings.Builder
	tc := cfg.TelemetryConfig("1.2.3", &out)
	assert.True(t, tc.Enabled)
	assert.True(t, tc.Pretty)
	assert.Equal(t, "zfsearch", tc.ServiceName)
	assert.Equal(t, "1.2.3", tc.Version)
	assert.Same(t, &out, tc.Output)
	assert.False(t, Default().TelemetryConfig("", nil).Pretty)

	sc, err := cfg.SearchConfig()
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", sc.Start.String())
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":    "search:\n  speed: 11\n",
		"negative start": "search:\n  start: \"-4\"\n",
		"decimal start":  "search:\n  start: \"1.5\"\n",
		"log level":      "log:\n  level: loud\n",
		"metrics addr":   "metrics:\n  addr: nowhere\n",
		"bad yaml":       "search: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
