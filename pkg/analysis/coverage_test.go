package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

func TestAnalyzeQueryCoverageResolutionForms(t *testing.T) {
	tables := []models.Table{
		{Catalog: "analytics", Schema: "sales", Name: "orders"},
	}
	records := []models.QueryRecord{
		{Query: "SELECT * FROM orders", RunQuantity: 10},
		{Query: "SELECT * FROM sales.orders", RunQuantity: 20},
		{Query: "SELECT * FROM analytics.sales.orders", RunQuantity: 30},
	}
	coverage := AnalyzeQueryCoverage(tables, records)

	// All three reference forms resolve to the same canonical key.
	require.Len(t, coverage.TableUsage, 1)
	assert.Equal(t, "sales.orders", coverage.TableUsage[0].Table)
	assert.Equal(t, 60, coverage.TableUsage[0].Runs)
	assert.Empty(t, coverage.UnresolvedUsage)
	assert.Equal(t, "sales.orders", coverage.MostQueriedTable)
	assert.Equal(t, 60, coverage.MostQueriedCount)
}

func TestAnalyzeQueryCoverageUnresolvedStaysSeparate(t *testing.T) {
	tables := []models.Table{{Name: "flights"}}
	records := []models.QueryRecord{
		{Query: "SELECT * FROM flights", RunQuantity: 100},
		{Query: "SELECT * FROM flightz WHERE x = 1", RunQuantity: 40},
	}
	coverage := AnalyzeQueryCoverage(tables, records)

	require.Len(t, coverage.TableUsage, 1)
	assert.Equal(t, "flights", coverage.TableUsage[0].Table)
	require.Len(t, coverage.UnresolvedUsage, 1)
	assert.Equal(t, "flightz", coverage.UnresolvedUsage[0].Table)
	assert.Equal(t, 40, coverage.UnresolvedUsage[0].Runs)
}

func TestAnalyzeQueryCoverageUnusedTables(t *testing.T) {
	tables := []models.Table{
		{Name: "flights"},
		{Name: "audit_log"},
	}
	records := []models.QueryRecord{
		{Query: "SELECT count(*) FROM flights", RunQuantity: 5},
	}
	coverage := AnalyzeQueryCoverage(tables, records)

	assert.Equal(t, []string{"audit_log"}, coverage.UnusedTables)
}

func TestAnalyzeQueryCoverageQuotedReferences(t *testing.T) {
	tables := []models.Table{{Schema: "Sales", Name: "Orders"}}
	records := []models.QueryRecord{
		{Query: `SELECT * FROM "Sales"."Orders"`, RunQuantity: 7},
	}
	coverage := AnalyzeQueryCoverage(tables, records)

	require.Len(t, coverage.TableUsage, 1)
	assert.Equal(t, "sales.orders", coverage.TableUsage[0].Table)
	assert.Equal(t, 7, coverage.TableUsage[0].Runs)
}

func TestAnalyzeQueryCoverageEmpty(t *testing.T) {
	coverage := AnalyzeQueryCoverage(nil, nil)
	assert.Empty(t, coverage.TableUsage)
	assert.Empty(t, coverage.MostQueriedTable)
	assert.Equal(t, 0, coverage.MostQueriedCount)
}
