package analysis

import (
	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

// ClassifyArchetype labels the schema shape from table count and join
// pressure. A schema is normalized when more than half of all queries carry
// a join; otherwise a multi-table schema counts as denormalized.
func ClassifyArchetype(tables []models.Table, stats models.WorkloadStatistics) string {
	if len(tables) <= 1 {
		return models.ArchetypeSingleBigTable
	}
	joinOccurrences := 0
	for _, count := range stats.JoinPatterns {
		joinOccurrences += count
	}
	if float64(joinOccurrences) > float64(stats.TotalQueries)/2 {
		return models.ArchetypeNormalizedMultitable
	}
	return models.ArchetypeDenormalizedMultitable
}
