package analysis

import (
	"sort"
	"strings"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

// IdentifyMatViewCandidates clusters frequently-run queries by their
// aggregation signature. Only queries above the run floor participate, and a
// signature must appear in at least MatViewMinQueries queries to become a
// candidate. Candidates rank by total executions, capped at TopMatViews.
func IdentifyMatViewCandidates(patterns []models.QueryPattern, th Thresholds) []models.MaterializedViewCandidate {
	type group struct {
		aggregations []string
		queryCount   int
		totalRuns    int
		totalTime    float64
	}
	groups := map[string]*group{}
	for _, p := range patterns {
		if len(p.Aggregations) == 0 || p.RunQuantity <= th.MatViewMinRuns {
			continue
		}
		aggs := append([]string(nil), p.Aggregations...)
		sort.Strings(aggs)
		key := strings.Join(aggs, ",")
		g, ok := groups[key]
		if !ok {
			g = &group{aggregations: aggs}
			groups[key] = g
		}
		g.queryCount++
		g.totalRuns += p.RunQuantity
		g.totalTime += p.ExecutionTime
	}

	var candidates []models.MaterializedViewCandidate
	for _, g := range groups {
		if g.queryCount < th.MatViewMinQueries {
			continue
		}
		savings := "medium"
		if g.totalRuns > th.MatViewHighSavingsRuns {
			savings = "high"
		}
		candidates = append(candidates, models.MaterializedViewCandidate{
			Aggregations:     g.aggregations,
			QueryCount:       g.queryCount,
			TotalExecutions:  g.totalRuns,
			AvgExecutionTime: g.totalTime / float64(g.queryCount),
			PotentialSavings: savings,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].TotalExecutions != candidates[j].TotalExecutions {
			return candidates[i].TotalExecutions > candidates[j].TotalExecutions
		}
		return strings.Join(candidates[i].Aggregations, ",") < strings.Join(candidates[j].Aggregations, ",")
	})
	if len(candidates) > th.TopMatViews {
		candidates = candidates[:th.TopMatViews]
	}
	return candidates
}
