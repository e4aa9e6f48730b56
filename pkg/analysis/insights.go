package analysis

import (
	"math"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

// estimateRows buckets a table's run-weighted reference count into a coarse
// row-count order of magnitude. Used only when no live profile exists.
func estimateRows(runs int) int64 {
	switch {
	case runs > 10000:
		return 1_000_000
	case runs > 1000:
		return 100_000
	case runs > 100:
		return 10_000
	default:
		return 1_000
	}
}

// TableInsights summarizes every declared table, estimating row counts from
// the query-coverage usage ranking.
func TableInsights(tables []models.Table, coverage models.QueryCoverage) []models.TableInsight {
	runsByTable := map[string]int{}
	for _, u := range coverage.TableUsage {
		runsByTable[u.Table] = u.Runs
	}

	insights := make([]models.TableInsight, 0, len(tables))
	for _, t := range tables {
		insights = append(insights, models.TableInsight{
			Name:          t.FullName(),
			ColumnCount:   len(t.Columns),
			EstimatedRows: estimateRows(runsByTable[canonicalKey(t)]),
			HasPrimaryKey: t.HasPrimaryKey(),
			IndexCount:    len(t.Indexes),
		})
	}
	return insights
}

// AnalyzeIndexCoverage scores the schema by the share of tables backed by an
// index or a primary key.
func AnalyzeIndexCoverage(tables []models.Table) models.IndexCoverage {
	coverage := models.IndexCoverage{}
	if len(tables) == 0 {
		coverage.Recommendation = "No tables found in schema"
		return coverage
	}
	for _, t := range tables {
		coverage.TotalIndexes += len(t.Indexes)
		if len(t.Indexes) > 0 || t.HasPrimaryKey() {
			coverage.IndexedTables++
		}
	}
	pct := float64(coverage.IndexedTables) / float64(len(tables)) * 100
	coverage.CoveragePercent = math.Round(pct*10) / 10
	switch {
	case coverage.CoveragePercent < 30:
		coverage.Recommendation = "Low index coverage - add indexes on frequently filtered columns"
	case coverage.CoveragePercent < 70:
		coverage.Recommendation = "Moderate index coverage - review hot filter columns for additional indexes"
	default:
		coverage.Recommendation = "Good index coverage"
	}
	return coverage
}
