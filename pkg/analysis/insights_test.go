package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

func TestEstimateRowsBuckets(t *testing.T) {
	tests := []struct {
		runs int
		want int64
	}{
		{0, 1_000},
		{100, 1_000},
		{101, 10_000},
		{1000, 10_000},
		{1001, 100_000},
		{10000, 100_000},
		{10001, 1_000_000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, estimateRows(tt.runs), "runs=%d", tt.runs)
	}
}

func TestTableInsights(t *testing.T) {
	tables := []models.Table{
		{
			Schema: "public",
			Name:   "flights",
			Columns: []models.Column{
				{Name: "flightdate", DataType: "date"},
				{Name: "airline", DataType: "varchar(10)"},
			},
			Constraints: []string{"PRIMARY KEY (flightdate, airline)"},
			Indexes:     []string{"idx_flights_date"},
		},
	}
	coverage := models.QueryCoverage{
		TableUsage: []models.TableUsage{{Table: "public.flights", Runs: 5000}},
	}
	insights := TableInsights(tables, coverage)

	require.Len(t, insights, 1)
	assert.Equal(t, "public.flights", insights[0].Name)
	assert.Equal(t, 2, insights[0].ColumnCount)
	assert.Equal(t, int64(100_000), insights[0].EstimatedRows)
	assert.True(t, insights[0].HasPrimaryKey)
	assert.Equal(t, 1, insights[0].IndexCount)
}

func TestAnalyzeIndexCoverageTiers(t *testing.T) {
	indexed := models.Table{Name: "a", Indexes: []string{"idx_a"}}
	bare := models.Table{Name: "b"}

	tests := []struct {
		name   string
		tables []models.Table
		want   string
	}{
		{"low", []models.Table{indexed, bare, bare, bare}, "Low index coverage - add indexes on frequently filtered columns"},
		{"moderate", []models.Table{indexed, bare}, "Moderate index coverage - review hot filter columns for additional indexes"},
		{"good", []models.Table{indexed, indexed, indexed, bare}, "Good index coverage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coverage := AnalyzeIndexCoverage(tt.tables)
			assert.Equal(t, tt.want, coverage.Recommendation)
		})
	}
}

func TestAnalyzeIndexCoverageNoTables(t *testing.T) {
	coverage := AnalyzeIndexCoverage(nil)
	assert.Equal(t, float64(0), coverage.CoveragePercent)
	assert.Equal(t, "No tables found in schema", coverage.Recommendation)
}

func TestAnalyzeDataQuality(t *testing.T) {
	tables := []models.Table{
		{
			Name: "flights",
			Columns: []models.Column{
				{Name: "flightdate", Nullable: false},
				{Name: "airline", Nullable: true},
				{Name: "depdelay", Nullable: true},
			},
		},
		{
			Name:        "crews",
			Columns:     []models.Column{{Name: "id", Nullable: false}},
			Constraints: []string{"PRIMARY KEY (id)"},
		},
	}
	records := []models.QueryRecord{
		{Query: "SELECT * FROM flights", RunQuantity: 1},
	}
	quality := AnalyzeDataQuality(tables, records)

	assert.Equal(t, 4, quality.TotalColumns)
	assert.Equal(t, 50.0, quality.NullableColumnsPercent)
	assert.Equal(t, 1, quality.TablesWithoutPK)
	assert.Equal(t, 1, quality.OrphanedTables)
	assert.Len(t, quality.Recommendations, 2)
}

func TestIdentifyPartitionCandidates(t *testing.T) {
	tables := []models.Table{
		{
			Name: "flights",
			Columns: []models.Column{
				{Name: "flightdate", DataType: "date"},
				{Name: "status", DataType: "varchar(20)"},
				{Name: "depdelay", DataType: "int"},
				{Name: "booked_at", DataType: "timestamp"},
			},
		},
		{
			Name:    "lookup",
			Columns: []models.Column{{Name: "value", DataType: "varchar(5)"}},
		},
	}
	candidates := IdentifyPartitionCandidates(tables)

	require.Len(t, candidates, 1)
	assert.Equal(t, "flights", candidates[0].Table)
	require.Len(t, candidates[0].Candidates, 3)
	assert.Equal(t, "flightdate", candidates[0].Candidates[0].Column)
	assert.Equal(t, "RANGE partitioning by date/time", candidates[0].Candidates[0].Strategy)
	assert.Equal(t, "status", candidates[0].Candidates[1].Column)
	assert.Equal(t, "LIST partitioning by category", candidates[0].Candidates[1].Strategy)
	// Temporal wins by declared type even without a name hint.
	assert.Equal(t, "booked_at", candidates[0].Candidates[2].Column)
	assert.Equal(t, "RANGE partitioning by date/time", candidates[0].Candidates[2].Strategy)
}
