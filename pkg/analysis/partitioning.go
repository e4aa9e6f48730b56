package analysis

import (
	"strings"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

// Partition-key column name hints. A column qualifies through its name or,
// for the temporal class, through its declared type.
var (
	temporalNameHints = []string{
		"date", "time", "year", "month", "quarter", "day",
		"timestamp", "created", "updated", "modified",
	}
	categoricalNameHints = []string{
		"type", "category", "status", "region", "country", "state",
	}
	temporalTypeHints = []string{"date", "time", "timestamp"}
)

func containsAny(s string, hints []string) bool {
	for _, hint := range hints {
		if strings.Contains(s, hint) {
			return true
		}
	}
	return false
}

// IdentifyPartitionCandidates flags columns whose name or type suggests a
// natural partition key. Temporal columns map to RANGE partitioning,
// categorical ones to LIST. Tables with no qualifying column are omitted.
func IdentifyPartitionCandidates(tables []models.Table) []models.PartitionCandidateTable {
	var result []models.PartitionCandidateTable
	for _, t := range tables {
		var candidates []models.PartitionCandidate
		for _, c := range t.Columns {
			name := strings.ToLower(c.Name)
			dataType := strings.ToLower(c.DataType)
			switch {
			case containsAny(name, temporalNameHints) || containsAny(dataType, temporalTypeHints):
				candidates = append(candidates, models.PartitionCandidate{
					Column:   c.Name,
					DataType: c.DataType,
					Reason:   "Temporal column suitable for time-based partitioning",
					Strategy: "RANGE partitioning by date/time",
				})
			case containsAny(name, categoricalNameHints):
				candidates = append(candidates, models.PartitionCandidate{
					Column:   c.Name,
					DataType: c.DataType,
					Reason:   "Categorical column suitable for value-based partitioning",
					Strategy: "LIST partitioning by category",
				})
			}
		}
		if len(candidates) > 0 {
			result = append(result, models.PartitionCandidateTable{
				Table:      t.FullName(),
				Candidates: candidates,
			})
		}
	}
	return result
}
