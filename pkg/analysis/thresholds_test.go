package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadThresholdsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	content := "slow_query_seconds: 10\nhigh_volume_runs: 200\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	th, err := LoadThresholds(path)
	require.NoError(t, err)

	assert.Equal(t, float64(10), th.SlowQuerySeconds)
	assert.Equal(t, 200, th.HighVolumeRuns)
	// Unspecified fields keep their defaults.
	assert.Equal(t, 100, th.HighFrequencyRuns)
	assert.Equal(t, 3, th.TopMatViews)
}

func TestLoadThresholdsMissingFile(t *testing.T) {
	_, err := LoadThresholds(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadThresholdsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("slow_query_seconds: [oops"), 0o644))

	_, err := LoadThresholds(path)
	assert.Error(t, err)
}
