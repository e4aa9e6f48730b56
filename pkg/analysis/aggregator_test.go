package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

func TestAggregateEmpty(t *testing.T) {
	stats := Aggregate(nil, DefaultThresholds())

	assert.Equal(t, 0, stats.TotalQueries)
	assert.Equal(t, float64(0), stats.AvgExecutionTime)
	assert.NotNil(t, stats.TableUsage)
	assert.Empty(t, stats.TableUsage)
	assert.Empty(t, stats.HighFrequencyQueries)
}

func TestAggregateWeighting(t *testing.T) {
	patterns := []models.QueryPattern{
		{
			QueryID:        "q1",
			QueryType:      models.QueryTypeSelect,
			TablesUsed:     []string{"flights"},
			FilterColumns:  []string{"flightdate"},
			GroupByColumns: []string{"airline"},
			Aggregations:   []string{"count"},
			RunQuantity:    5000,
			ExecutionTime:  10,
		},
		{
			QueryID:       "q2",
			QueryType:     models.QueryTypeSelect,
			TablesUsed:    []string{"flights", "airports"},
			Joins:         []models.Join{{Type: "LEFT JOIN", Table: "airports"}},
			FilterColumns: []string{"flightdate"},
			CTEUsage:      true,
			RunQuantity:   50,
			ExecutionTime: 30,
		},
	}
	stats := Aggregate(patterns, DefaultThresholds())

	assert.Equal(t, 2, stats.TotalQueries)
	assert.Equal(t, map[string]int{"SELECT": 2}, stats.QueryTypes)
	// Table usage is run-weighted: a table mentioned twice in one query
	// still counts that query's runs once.
	assert.Equal(t, 5050, stats.TableUsage["flights"])
	assert.Equal(t, 50, stats.TableUsage["airports"])
	assert.Equal(t, 5050, stats.FilterColumnUsage["flightdate"])
	assert.Equal(t, 5000, stats.GroupByColumnUsage["airline"])
	// Join and aggregation histograms count queries, not runs.
	assert.Equal(t, 1, stats.JoinPatterns["LEFT JOIN"])
	assert.Equal(t, 1, stats.AggregationUsage["count"])
	assert.Equal(t, 1, stats.CTEUsageCount)
	assert.Equal(t, float64(20), stats.AvgExecutionTime)
}

func TestAggregateHighFrequencyStrictThreshold(t *testing.T) {
	patterns := []models.QueryPattern{
		{QueryID: "at-limit", RunQuantity: 100},
		{QueryID: "above-limit", RunQuantity: 101},
	}
	stats := Aggregate(patterns, DefaultThresholds())

	require.Len(t, stats.HighFrequencyQueries, 1)
	assert.Equal(t, "above-limit", stats.HighFrequencyQueries[0].QueryID)
}

func TestAggregateDeterministic(t *testing.T) {
	patterns := []models.QueryPattern{
		{QueryID: "q1", TablesUsed: []string{"a", "b"}, RunQuantity: 10, ExecutionTime: 2},
		{QueryID: "q2", TablesUsed: []string{"b"}, RunQuantity: 20, ExecutionTime: 4},
	}
	first := Aggregate(patterns, DefaultThresholds())
	second := Aggregate(patterns, DefaultThresholds())
	assert.Equal(t, first, second)
}
