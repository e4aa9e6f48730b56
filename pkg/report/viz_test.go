package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

func TestBuildDashboard(t *testing.T) {
	report := models.OptimizationReport{
		ExecutiveSummary: models.ExecutiveSummary{
			DatabaseSizeGB:    2.5,
			TotalRows:         "1.0M",
			QueryVolumePerDay: 5000,
			CriticalIssues:    2,
		},
		SchemaInsights: models.SchemaInsights{
			QueryCoverage: models.QueryCoverage{
				TableUsage:      []models.TableUsage{{Table: "flights", Runs: 5000}},
				UnresolvedUsage: []models.TableUsage{{Table: "flightz", Runs: 40}},
			},
		},
		QueryPatterns: models.QueryPatternSummary{
			JoinFrequency: map[string]int{"LEFT JOIN": 2, "INNER JOIN": 5},
		},
		PerformanceBottlenecks: []models.Bottleneck{
			{
				Type:     models.BottleneckSlowQueries,
				Severity: models.SeverityHigh,
				Count:    1,
				Details:  []models.BottleneckDetail{{QueryID: "q9"}},
			},
		},
		Recommendations: []models.Recommendation{
			{Description: "Partition flights by flightdate"},
		},
	}
	view := BuildDashboard(report)

	require.Len(t, view.Cards, 4)
	assert.Equal(t, "2.5", view.Cards[0].Value)
	assert.Equal(t, "1.0M", view.Cards[1].Value)

	require.Len(t, view.TableUsage, 1)
	assert.Equal(t, ChartPoint{Label: "flights", Value: 5000}, view.TableUsage[0])
	require.Len(t, view.UnresolvedTables, 1)
	assert.Equal(t, "flightz", view.UnresolvedTables[0].Label)

	require.Len(t, view.JoinDistribution, 2)
	assert.Equal(t, ChartPoint{Label: "INNER JOIN", Value: 5}, view.JoinDistribution[0])

	require.Len(t, view.Bottlenecks, 1)
	assert.Equal(t, "q9", view.Bottlenecks[0].TopQuery)
	assert.Equal(t, []string{"Partition flights by flightdate"}, view.Recommendations)
}

func TestBuildDashboardEmptyReport(t *testing.T) {
	view := BuildDashboard(models.OptimizationReport{})

	require.Len(t, view.Cards, 4)
	assert.Equal(t, "0", view.Cards[0].Value)
	assert.Equal(t, "-", view.Cards[1].Value)
	assert.NotNil(t, view.TableUsage)
	assert.Empty(t, view.TableUsage)
	assert.NotNil(t, view.Bottlenecks)
	assert.Empty(t, view.Recommendations)
}
