package report

import (
	"sort"
	"strconv"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

// DashboardCard is one headline stat on the dashboard.
type DashboardCard struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ChartPoint is one bar or slice in a dashboard chart.
type ChartPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// BottleneckRow is one table row in the bottleneck panel.
type BottleneckRow struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Count    int    `json:"count"`
	TopQuery string `json:"top_query"`
}

// DashboardView is the flattened projection the dashboard renders. Every
// field is safe to template against: slices are non-nil and rows are complete
// even when the source report is partial.
type DashboardView struct {
	Cards            []DashboardCard  `json:"cards"`
	TableUsage       []ChartPoint     `json:"table_usage"`
	JoinDistribution []ChartPoint     `json:"join_distribution"`
	Bottlenecks      []BottleneckRow  `json:"bottlenecks"`
	Recommendations  []string         `json:"recommendations"`
	UnresolvedTables []ChartPoint     `json:"unresolved_tables"`
}

const maxChartBars = 10

// BuildDashboard projects a report into renderable form. Partial reports,
// including ones deserialized from older runs with missing sections, degrade
// to empty panels rather than failing.
func BuildDashboard(r models.OptimizationReport) DashboardView {
	view := DashboardView{
		Cards:            []DashboardCard{},
		TableUsage:       []ChartPoint{},
		JoinDistribution: []ChartPoint{},
		Bottlenecks:      []BottleneckRow{},
		Recommendations:  []string{},
		UnresolvedTables: []ChartPoint{},
	}

	view.Cards = append(view.Cards,
		DashboardCard{Label: "Database size (GB)", Value: trimFloat(r.ExecutiveSummary.DatabaseSizeGB)},
		DashboardCard{Label: "Total rows", Value: orDash(r.ExecutiveSummary.TotalRows)},
		DashboardCard{Label: "Query volume / day", Value: formatRows(int64(r.ExecutiveSummary.QueryVolumePerDay))},
		DashboardCard{Label: "Critical issues", Value: formatRows(int64(r.ExecutiveSummary.CriticalIssues))},
	)

	for i, u := range r.SchemaInsights.QueryCoverage.TableUsage {
		if i == maxChartBars {
			break
		}
		view.TableUsage = append(view.TableUsage, ChartPoint{Label: u.Table, Value: u.Runs})
	}
	for i, u := range r.SchemaInsights.QueryCoverage.UnresolvedUsage {
		if i == maxChartBars {
			break
		}
		view.UnresolvedTables = append(view.UnresolvedTables, ChartPoint{Label: u.Table, Value: u.Runs})
	}
	for join, count := range r.QueryPatterns.JoinFrequency {
		view.JoinDistribution = append(view.JoinDistribution, ChartPoint{Label: join, Value: count})
	}
	sortChartPoints(view.JoinDistribution)

	for _, b := range r.PerformanceBottlenecks {
		row := BottleneckRow{Type: b.Type, Severity: b.Severity, Count: b.Count}
		if len(b.Details) > 0 {
			row.TopQuery = b.Details[0].QueryID
		}
		view.Bottlenecks = append(view.Bottlenecks, row)
	}

	for _, rec := range r.Recommendations {
		view.Recommendations = append(view.Recommendations, rec.Description)
	}
	return view
}

func sortChartPoints(points []ChartPoint) {
	sort.Slice(points, func(i, j int) bool {
		if points[i].Value != points[j].Value {
			return points[i].Value > points[j].Value
		}
		return points[i].Label < points[j].Label
	})
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
