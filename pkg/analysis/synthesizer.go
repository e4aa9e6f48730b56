package analysis

import (
	"sort"

	"go.uber.org/zap"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

// Synthesizer combines schema and workload facts into the insight structures
// the report assembler consumes. It is stateless apart from its thresholds.
type Synthesizer struct {
	thresholds Thresholds
	logger     *zap.Logger
}

// NewSynthesizer creates a Synthesizer. A nil logger disables logging.
func NewSynthesizer(thresholds Thresholds, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{thresholds: thresholds, logger: logger.Named("synthesizer")}
}

// Thresholds exposes the active policy constants.
func (s *Synthesizer) Thresholds() Thresholds {
	return s.thresholds
}

// SchemaInsights runs every schema-side analysis over the declared tables and
// the raw workload.
func (s *Synthesizer) SchemaInsights(tables []models.Table, records []models.QueryRecord) models.SchemaInsights {
	coverage := AnalyzeQueryCoverage(tables, records)
	insights := models.SchemaInsights{
		TotalTables:            len(tables),
		Tables:                 TableInsights(tables, coverage),
		IndexCoverage:          AnalyzeIndexCoverage(tables),
		DataQuality:            AnalyzeDataQuality(tables, records),
		QueryCoverage:          coverage,
		PartitioningCandidates: IdentifyPartitionCandidates(tables),
		Denormalization:        AssessDenormalization(tables, records, s.thresholds),
	}
	for _, t := range tables {
		insights.TotalColumns += len(t.Columns)
	}
	s.logger.Debug("schema insights synthesized",
		zap.Int("tables", insights.TotalTables),
		zap.Int("unresolved_refs", len(coverage.UnresolvedUsage)),
		zap.Int("unused_tables", len(coverage.UnusedTables)))
	return insights
}

// QueryPatternSummary condenses workload statistics for the report. The
// aggregation ranking is run-weighted, unlike the occurrence histogram in
// WorkloadStatistics.
func (s *Synthesizer) QueryPatternSummary(patterns []models.QueryPattern, stats models.WorkloadStatistics) models.QueryPatternSummary {
	summary := models.QueryPatternSummary{
		AvgExecutionTime:           stats.AvgExecutionTime,
		JoinFrequency:              stats.JoinPatterns,
		TopAggregations:            topAggregations(patterns, 5),
		MaterializedViewCandidates: IdentifyMatViewCandidates(patterns, s.thresholds),
	}
	for _, p := range patterns {
		summary.TotalQueryVolume += p.RunQuantity
	}
	if stats.TotalQueries > 0 {
		summary.CTEUsagePercent = float64(stats.CTEUsageCount) / float64(stats.TotalQueries) * 100
	}
	return summary
}

func topAggregations(patterns []models.QueryPattern, limit int) []models.AggregationVolume {
	runs := map[string]int{}
	for _, p := range patterns {
		for _, agg := range p.Aggregations {
			runs[agg] += p.RunQuantity
		}
	}
	ranked := make([]models.AggregationVolume, 0, len(runs))
	for fn, r := range runs {
		ranked = append(ranked, models.AggregationVolume{Function: fn, Runs: r})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Runs != ranked[j].Runs {
			return ranked[i].Runs > ranked[j].Runs
		}
		return ranked[i].Function < ranked[j].Function
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
