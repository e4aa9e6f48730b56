// Package analysis folds query patterns into workload statistics and
// synthesizes optimization signals from schema and workload facts. Everything
// here is a pure function over its inputs: no I/O, no caching, no shared
// state between analysis runs.
package analysis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Thresholds holds every policy constant the synthesizer applies. Tests and
// deployments override individual fields; the defaults are the documented
// production values.
type Thresholds struct {
	// SlowQuerySeconds marks a query slow when execution time strictly
	// exceeds it.
	SlowQuerySeconds float64 `yaml:"slow_query_seconds"`
	// HighVolumeRuns marks a query high-volume when run quantity strictly
	// exceeds it.
	HighVolumeRuns int `yaml:"high_volume_runs"`
	// HighFrequencyRuns feeds the informational high-frequency list.
	HighFrequencyRuns int `yaml:"high_frequency_runs"`
	// MatViewMinRuns is the per-query run floor for materialized-view
	// grouping.
	MatViewMinRuns int `yaml:"matview_min_runs"`
	// MatViewMinQueries is the minimum group size for a candidate.
	MatViewMinQueries int `yaml:"matview_min_queries"`
	// MatViewHighSavingsRuns separates "high" from "medium" savings.
	MatViewHighSavingsRuns int `yaml:"matview_high_savings_runs"`
	// ComplexJoinCount is the per-query JOIN count above which a query is
	// complex.
	ComplexJoinCount int `yaml:"complex_join_count"`
	// ComplexJoinRuns is the weighted complex-join volume for a "high"
	// denormalization opportunity.
	ComplexJoinRuns int `yaml:"complex_join_runs"`
	// TotalJoinRuns is the weighted total-join volume for a "medium"
	// denormalization opportunity.
	TotalJoinRuns int `yaml:"total_join_runs"`
	// TopHighVolumeDetails caps the detail list of the high-volume bucket.
	TopHighVolumeDetails int `yaml:"top_high_volume_details"`
	// TopMatViews caps the materialized-view candidate list.
	TopMatViews int `yaml:"top_matviews"`
}

// DefaultThresholds returns the documented production values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SlowQuerySeconds:       30,
		HighVolumeRuns:         1000,
		HighFrequencyRuns:      100,
		MatViewMinRuns:         500,
		MatViewMinQueries:      2,
		MatViewHighSavingsRuns: 5000,
		ComplexJoinCount:       3,
		ComplexJoinRuns:        1000,
		TotalJoinRuns:          5000,
		TopHighVolumeDetails:   5,
		TopMatViews:            3,
	}
}

// LoadThresholds reads a YAML override file on top of the defaults.
func LoadThresholds(path string) (Thresholds, error) {
	th := DefaultThresholds()
	data, err := os.ReadFile(path)
	if err != nil {
		return th, fmt.Errorf("read thresholds file: %w", err)
	}
	if err := yaml.Unmarshal(data, &th); err != nil {
		return th, fmt.Errorf("parse thresholds file: %w", err)
	}
	return th, nil
}
