package analysis

import (
	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

// Aggregate folds per-query patterns into workload-wide statistics in a
// single pass. Table, filter, and group-by usage are weighted by run
// quantity; join and aggregation histograms count query occurrences. A table
// referenced several times inside one query still contributes that query's
// run quantity exactly once, because the pattern extractor already
// deduplicated the table list.
func Aggregate(patterns []models.QueryPattern, th Thresholds) models.WorkloadStatistics {
	stats := models.WorkloadStatistics{
		TotalQueries:         len(patterns),
		QueryTypes:           map[string]int{},
		TableUsage:           map[string]int{},
		JoinPatterns:         map[string]int{},
		AggregationUsage:     map[string]int{},
		FilterColumnUsage:    map[string]int{},
		GroupByColumnUsage:   map[string]int{},
		HighFrequencyQueries: []models.HighFrequencyQuery{},
	}

	var totalTime float64
	for _, p := range patterns {
		totalTime += p.ExecutionTime

		stats.QueryTypes[p.QueryType]++
		for _, table := range p.TablesUsed {
			stats.TableUsage[table] += p.RunQuantity
		}
		for _, join := range p.Joins {
			stats.JoinPatterns[join.Type]++
		}
		for _, agg := range p.Aggregations {
			stats.AggregationUsage[agg]++
		}
		for _, col := range p.FilterColumns {
			stats.FilterColumnUsage[col] += p.RunQuantity
		}
		for _, col := range p.GroupByColumns {
			stats.GroupByColumnUsage[col] += p.RunQuantity
		}
		if p.CTEUsage {
			stats.CTEUsageCount++
		}
		if p.RunQuantity > th.HighFrequencyRuns {
			stats.HighFrequencyQueries = append(stats.HighFrequencyQueries, models.HighFrequencyQuery{
				QueryID:       p.QueryID,
				RunQuantity:   p.RunQuantity,
				ExecutionTime: p.ExecutionTime,
			})
		}
	}

	if len(patterns) > 0 {
		stats.AvgExecutionTime = totalTime / float64(len(patterns))
	}
	return stats
}
