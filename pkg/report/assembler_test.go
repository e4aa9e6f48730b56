package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schemalens-ai/schemalens-engine/pkg/analysis"
	"github.com/schemalens-ai/schemalens-engine/pkg/models"
	"github.com/schemalens-ai/schemalens-engine/pkg/sqlscan"
)

func newAssembler() *Assembler {
	syn := analysis.NewSynthesizer(analysis.DefaultThresholds(), zap.NewNop())
	return NewAssembler(syn, zap.NewNop())
}

func TestAssembleFlightsScenario(t *testing.T) {
	ddl := `CREATE TABLE flights (
		flightdate date NOT NULL,
		airline varchar(10),
		depdelay int
	) WITH (appendonly=true);`
	parser := sqlscan.NewDDLParser(zap.NewNop())
	tables := parser.ParseStatements([]models.DDLStatement{{Statement: ddl}})
	require.Len(t, tables, 1)
	require.Len(t, tables[0].Columns, 3)

	records := []models.QueryRecord{
		{
			QueryID:       "q1",
			Query:         "SELECT airline, count(*) FROM flights WHERE flightdate > DATE '2020-01-01' GROUP BY airline",
			RunQuantity:   5000,
			ExecutionTime: 10,
		},
	}
	extractor := sqlscan.NewPatternExtractor(zap.NewNop())
	patterns := extractor.ExtractAll(records)
	require.Len(t, patterns, 1)
	assert.Equal(t, models.QueryTypeSelect, patterns[0].QueryType)
	assert.Equal(t, []string{"flights"}, patterns[0].TablesUsed)
	assert.Equal(t, []string{"count"}, patterns[0].Aggregations)
	assert.Equal(t, []string{"flightdate"}, patterns[0].FilterColumns)
	assert.Equal(t, []string{"airline"}, patterns[0].GroupByColumns)

	stats := analysis.Aggregate(patterns, analysis.DefaultThresholds())
	report := newAssembler().Assemble(tables, records, patterns, stats, nil)

	// Exactly one bottleneck: the query is high-volume but not slow.
	require.Len(t, report.PerformanceBottlenecks, 1)
	bn := report.PerformanceBottlenecks[0]
	assert.Equal(t, models.BottleneckHighVolumeQueries, bn.Type)
	assert.Equal(t, 5000, bn.TotalExecutions)

	assert.Equal(t, models.ArchetypeSingleBigTable, report.AgentInput.SourceSchemaArchetype)
	assert.Equal(t, []string{"airline"}, report.AgentInput.WorkloadProfile.TopGroupByColumns)
	assert.Equal(t, []string{"flightdate"}, report.AgentInput.WorkloadProfile.TopFilterColumns)

	require.Len(t, report.SchemaInsights.PartitioningCandidates, 1)
	assert.Equal(t, "flightdate", report.SchemaInsights.PartitioningCandidates[0].Candidates[0].Column)

	assert.Equal(t, "flights", report.SchemaInsights.QueryCoverage.MostQueriedTable)
	assert.Equal(t, 5000, report.SchemaInsights.QueryCoverage.MostQueriedCount)
	assert.Equal(t, 5000, report.ExecutiveSummary.QueryVolumePerDay)

	// A partitioning recommendation always leads the priority list.
	require.NotEmpty(t, report.Recommendations)
	assert.Equal(t, "partitioning", report.Recommendations[0].Type)
	require.NotEmpty(t, report.ImplementationPriority)
	assert.Contains(t, report.ImplementationPriority[0], "Partition flights by flightdate")

	assert.NotEmpty(t, report.DesignDocument)
	assert.Nil(t, report.DatabaseStats)
}

func TestAssembleEmptyInputs(t *testing.T) {
	report := newAssembler().Assemble(nil, nil, nil, models.WorkloadStatistics{}, nil)

	assert.Empty(t, report.PerformanceBottlenecks)
	assert.Equal(t, 0, report.SchemaInsights.TotalTables)
	assert.Equal(t, "0", report.ExecutiveSummary.TotalRows)
	assert.Equal(t, "low", report.ExecutiveSummary.OptimizationPotential)
	assert.Equal(t, "unknown", report.DatabaseProfile.DatabaseType)
	assert.NotEmpty(t, report.DesignDocument)
}

func TestAssembleDeterministic(t *testing.T) {
	tables := []models.Table{
		{Name: "flights", Columns: []models.Column{{Name: "flightdate", DataType: "date"}}},
	}
	records := []models.QueryRecord{
		{QueryID: "q1", Query: "SELECT * FROM flights", RunQuantity: 2000, ExecutionTime: 5},
	}
	extractor := sqlscan.NewPatternExtractor(nil)
	patterns := extractor.ExtractAll(records)
	stats := analysis.Aggregate(patterns, analysis.DefaultThresholds())

	first := newAssembler().Assemble(tables, records, patterns, stats, nil)
	second := newAssembler().Assemble(tables, records, patterns, stats, nil)
	assert.Equal(t, first, second)
}

func TestAssembleWithProfile(t *testing.T) {
	tables := []models.Table{
		{Name: "flights", Columns: []models.Column{{Name: "flightdate", DataType: "date"}}},
	}
	profile := &models.ProfileResult{
		Overview: models.DatabaseOverview{Driver: "postgresql", Connected: true},
		TableStatistics: []models.TableStatistics{
			{
				TableName: "flights",
				RowCount:  2_000_000,
				SizeBytes: 4_000_000_000,
				ColumnStats: map[string]models.ColumnStatistics{
					"flightdate": {DataType: "date", DistinctCount: 3650},
				},
			},
		},
	}
	report := newAssembler().Assemble(tables, nil, nil, models.WorkloadStatistics{}, profile)

	assert.Equal(t, "postgresql", report.DatabaseProfile.DatabaseType)
	assert.Equal(t, "2.0M", report.DatabaseProfile.MainTable.Rows)
	assert.Equal(t, 4.0, report.ExecutiveSummary.DatabaseSizeGB)
	require.Len(t, report.AgentInput.SourceTablesProfile, 1)
	assert.Equal(t, int64(2_000_000), report.AgentInput.SourceTablesProfile[0].RowCount)
	require.Len(t, report.AgentInput.SourceTablesProfile[0].Columns, 1)
	assert.Equal(t, int64(3650), report.AgentInput.SourceTablesProfile[0].Columns[0].Cardinality)
	assert.Same(t, profile, report.DatabaseStats)
}
