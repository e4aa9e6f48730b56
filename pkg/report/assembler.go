// Package report assembles analysis output into the optimization report, the
// schema design document, and the dashboard projection.
package report

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/schemalens-ai/schemalens-engine/pkg/analysis"
	"github.com/schemalens-ai/schemalens-engine/pkg/models"
	"github.com/schemalens-ai/schemalens-engine/pkg/sqlscan"
)

const estimatedBytesPerRow = 200

// Assembler builds the full optimization report from schema, workload, and
// optional live-profile inputs.
type Assembler struct {
	synthesizer *analysis.Synthesizer
	logger      *zap.Logger
}

// NewAssembler creates an Assembler. A nil logger disables logging.
func NewAssembler(synthesizer *analysis.Synthesizer, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{synthesizer: synthesizer, logger: logger.Named("report")}
}

// Assemble runs every synthesis step and produces the terminal report. The
// profile argument may be nil when no live connection was configured; the
// report then relies on workload-derived estimates throughout.
func (a *Assembler) Assemble(
	tables []models.Table,
	records []models.QueryRecord,
	patterns []models.QueryPattern,
	stats models.WorkloadStatistics,
	profile *models.ProfileResult,
) models.OptimizationReport {
	th := a.synthesizer.Thresholds()
	insights := a.synthesizer.SchemaInsights(tables, records)
	bottlenecks := analysis.IdentifyBottlenecks(patterns, th)
	patternSummary := a.synthesizer.QueryPatternSummary(patterns, stats)
	archetype := analysis.ClassifyArchetype(tables, stats)
	clusters := analysis.ClusterDimensions(stats.GroupByColumnUsage, tables)
	schemaStats := sqlscan.TableStats(tables)

	report := models.OptimizationReport{
		PerformanceBottlenecks: bottlenecks,
		SchemaInsights:         insights,
		SchemaOverview: models.SchemaOverview{
			Tables:        insights.Tables,
			IndexCoverage: insights.IndexCoverage,
		},
		QueryPatterns: patternSummary,
		DatabaseStats: profile,
	}
	report.DatabaseProfile = buildDatabaseProfile(insights, schemaStats, profile)
	report.ExecutiveSummary = buildExecutiveSummary(insights, bottlenecks, patternSummary, profile)
	report.Recommendations = buildRecommendations(insights, patternSummary, report.ExecutiveSummary)
	report.ImplementationPriority = implementationPriority(report.Recommendations)
	report.AgentInput = buildAgentInput(archetype, tables, insights, stats, profile, clusters)
	report.DesignDocument = RenderDesignDocument(report.AgentInput, insights)

	a.logger.Info("report assembled",
		zap.String("archetype", archetype),
		zap.Int("bottlenecks", len(bottlenecks)),
		zap.Int("recommendations", len(report.Recommendations)))
	return report
}

func totalEstimatedRows(insights models.SchemaInsights, profile *models.ProfileResult) int64 {
	if profile != nil && len(profile.TableStatistics) > 0 {
		var total int64
		for _, ts := range profile.TableStatistics {
			total += ts.RowCount
		}
		if total > 0 {
			return total
		}
	}
	var total int64
	for _, t := range insights.Tables {
		total += t.EstimatedRows
	}
	return total
}

// formatRows renders a row count the way the dashboard displays it.
func formatRows(rows int64) string {
	switch {
	case rows >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(rows)/1e9)
	case rows >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(rows)/1e6)
	case rows >= 1_000:
		return fmt.Sprintf("%.1fK", float64(rows)/1e3)
	default:
		return fmt.Sprintf("%d", rows)
	}
}

func buildExecutiveSummary(
	insights models.SchemaInsights,
	bottlenecks []models.Bottleneck,
	patterns models.QueryPatternSummary,
	profile *models.ProfileResult,
) models.ExecutiveSummary {
	rows := totalEstimatedRows(insights, profile)
	var sizeBytes int64
	if profile != nil {
		for _, ts := range profile.TableStatistics {
			sizeBytes += ts.SizeBytes
		}
	}
	if sizeBytes == 0 {
		sizeBytes = rows * estimatedBytesPerRow
	}

	summary := models.ExecutiveSummary{
		DatabaseSizeGB:    round2(float64(sizeBytes) / 1e9),
		TotalRows:         formatRows(rows),
		QueryVolumePerDay: patterns.TotalQueryVolume,
	}
	potential := "low"
	for _, b := range bottlenecks {
		if b.Severity == models.SeverityHigh {
			summary.CriticalIssues += b.Count
			potential = "high"
		} else if potential == "low" {
			potential = "medium"
		}
	}
	if insights.Denormalization.OpportunityLevel == "high" {
		potential = "high"
	}
	if potential == "low" && len(patterns.MaterializedViewCandidates) > 0 {
		potential = "medium"
	}
	summary.OptimizationPotential = potential
	return summary
}

func buildDatabaseProfile(
	insights models.SchemaInsights,
	schemaStats sqlscan.SchemaStats,
	profile *models.ProfileResult,
) models.DatabaseProfile {
	dbProfile := models.DatabaseProfile{
		DatabaseType:       "unknown",
		ColumnDistribution: schemaStats.ColumnTypeDistribution,
	}
	if profile != nil && profile.Overview.Driver != "" {
		dbProfile.DatabaseType = profile.Overview.Driver
	}

	// Main table is the one with the most rows: profiled counts when
	// available, workload estimates otherwise.
	profiledRows := map[string]int64{}
	profiledSize := map[string]int64{}
	if profile != nil {
		for _, ts := range profile.TableStatistics {
			profiledRows[ts.TableName] = ts.RowCount
			profiledSize[ts.TableName] = ts.SizeBytes
		}
	}
	var main models.TableInsight
	var mainRows int64 = -1
	for _, t := range insights.Tables {
		rows := t.EstimatedRows
		if r, ok := profiledRows[t.Name]; ok && r > 0 {
			rows = r
		}
		if rows > mainRows {
			mainRows = rows
			main = t
		}
	}
	if mainRows >= 0 {
		dbProfile.MainTable = models.MainTableProfile{
			Name:    main.Name,
			Rows:    formatRows(mainRows),
			SizeGB:  round2(float64(profiledSize[main.Name]) / 1e9),
			Columns: main.ColumnCount,
		}
		if profiledSize[main.Name] == 0 {
			dbProfile.MainTable.SizeGB = round2(float64(mainRows*estimatedBytesPerRow) / 1e9)
		}
	}
	return dbProfile
}

func buildRecommendations(
	insights models.SchemaInsights,
	patterns models.QueryPatternSummary,
	summary models.ExecutiveSummary,
) []models.Recommendation {
	recommendations := []models.Recommendation{}

	for _, pc := range insights.PartitioningCandidates {
		for _, c := range pc.Candidates {
			recommendations = append(recommendations, models.Recommendation{
				Type:                "partitioning",
				Priority:            "high",
				Description:         fmt.Sprintf("Partition %s by %s", pc.Table, c.Column),
				Implementation:      c.Strategy,
				ExpectedImprovement: "Faster pruning on filtered scans and cheaper maintenance",
				Effort:              "medium",
			})
			break // one recommendation per table, best candidate first
		}
	}

	for _, mv := range patterns.MaterializedViewCandidates {
		priority := "medium"
		if mv.PotentialSavings == "high" {
			priority = "high"
		}
		recommendations = append(recommendations, models.Recommendation{
			Type:                "materialized_view",
			Priority:            priority,
			Description:         fmt.Sprintf("Materialize the %v aggregation shared by %d queries", mv.Aggregations, mv.QueryCount),
			Implementation:      "CREATE MATERIALIZED VIEW with a scheduled refresh",
			ExpectedImprovement: fmt.Sprintf("Removes %d repeated aggregation executions", mv.TotalExecutions),
			Effort:              "medium",
		})
	}

	if insights.IndexCoverage.CoveragePercent < 70 && insights.TotalTables > 0 {
		recommendations = append(recommendations, models.Recommendation{
			Type:                "indexing",
			Priority:            "medium",
			Description:         "Add indexes on the most frequently filtered columns",
			Implementation:      "CREATE INDEX on hot filter columns identified by the workload",
			ExpectedImprovement: "Reduced scan cost on selective predicates",
			Effort:              "low",
		})
	}

	if summary.DatabaseSizeGB > 1 {
		recommendations = append(recommendations, models.Recommendation{
			Type:                "compression",
			Priority:            "low",
			Description:         "Enable column or page compression on the largest tables",
			Implementation:      "Apply the engine's native compression to cold data",
			ExpectedImprovement: "Lower storage footprint and I/O volume",
			Effort:              "low",
		})
	}
	return recommendations
}

func implementationPriority(recommendations []models.Recommendation) []string {
	rank := map[string]int{"high": 0, "medium": 1, "low": 2}
	ordered := append([]models.Recommendation(nil), recommendations...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return rank[ordered[i].Priority] < rank[ordered[j].Priority]
	})
	priority := make([]string, 0, len(ordered))
	for i, r := range ordered {
		priority = append(priority, fmt.Sprintf("%d. [%s] %s", i+1, r.Priority, r.Description))
	}
	return priority
}

func topKeys(usage map[string]int, limit int) []string {
	type entry struct {
		key  string
		runs int
	}
	entries := make([]entry, 0, len(usage))
	for k, v := range usage {
		entries = append(entries, entry{k, v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].runs != entries[j].runs {
			return entries[i].runs > entries[j].runs
		}
		return entries[i].key < entries[j].key
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.key)
	}
	return keys
}

func buildAgentInput(
	archetype string,
	tables []models.Table,
	insights models.SchemaInsights,
	stats models.WorkloadStatistics,
	profile *models.ProfileResult,
	clusters []models.DimensionCluster,
) models.AgentInput {
	profiledStats := map[string]models.TableStatistics{}
	if profile != nil {
		for _, ts := range profile.TableStatistics {
			profiledStats[ts.TableName] = ts
		}
	}
	estimatedRows := map[string]int64{}
	for _, t := range insights.Tables {
		estimatedRows[t.Name] = t.EstimatedRows
	}

	tablesProfile := make([]models.SourceTableProfile, 0, len(tables))
	for _, t := range tables {
		name := t.FullName()
		tp := models.SourceTableProfile{
			Name:     name,
			RowCount: estimatedRows[name],
		}
		if ts, ok := profiledStats[name]; ok && ts.RowCount > 0 {
			tp.RowCount = ts.RowCount
			for colName, cs := range ts.ColumnStats {
				tp.Columns = append(tp.Columns, models.SourceColumnProfile{
					Name:        colName,
					Type:        cs.DataType,
					Cardinality: cs.DistinctCount,
				})
			}
			sort.Slice(tp.Columns, func(i, j int) bool { return tp.Columns[i].Name < tp.Columns[j].Name })
		} else {
			for _, c := range t.Columns {
				tp.Columns = append(tp.Columns, models.SourceColumnProfile{
					Name: c.Name,
					Type: c.DataType,
				})
			}
		}
		tablesProfile = append(tablesProfile, tp)
	}

	return models.AgentInput{
		SourceSchemaArchetype: archetype,
		SourceTablesProfile:   tablesProfile,
		WorkloadProfile: models.WorkloadProfile{
			TopGroupByColumns: topKeys(stats.GroupByColumnUsage, 5),
			TopFilterColumns:  topKeys(stats.FilterColumnUsage, 5),
			TopJoinedTables:   topKeys(stats.TableUsage, 5),
			TopAggregations:   topKeys(stats.AggregationUsage, 5),
		},
		DimensionClusters: clusters,
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
