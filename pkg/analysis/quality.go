package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

// AnalyzeDataQuality runs schema-level sanity checks: nullable column ratio,
// missing primary keys, and tables the workload never mentions. Orphan
// detection is a plain substring scan of the concatenated query text, so a
// table name embedded in another identifier counts as referenced.
func AnalyzeDataQuality(tables []models.Table, records []models.QueryRecord) models.DataQuality {
	quality := models.DataQuality{}

	var nullable int
	for _, t := range tables {
		quality.TotalColumns += len(t.Columns)
		for _, c := range t.Columns {
			if c.Nullable {
				nullable++
			}
		}
		if !t.HasPrimaryKey() {
			quality.TablesWithoutPK++
		}
	}
	if quality.TotalColumns > 0 {
		pct := float64(nullable) / float64(quality.TotalColumns) * 100
		quality.NullableColumnsPercent = math.Round(pct*10) / 10
	}

	var allQueries strings.Builder
	for _, rec := range records {
		allQueries.WriteString(strings.ToLower(rec.Query))
		allQueries.WriteString(" ")
	}
	queryText := allQueries.String()
	for _, t := range tables {
		if !strings.Contains(queryText, strings.ToLower(t.Name)) {
			quality.OrphanedTables++
		}
	}

	if quality.NullableColumnsPercent > 50 {
		quality.Recommendations = append(quality.Recommendations,
			fmt.Sprintf("High nullable column ratio (%.1f%%) - review whether NOT NULL constraints are missing", quality.NullableColumnsPercent))
	}
	if quality.TablesWithoutPK > 0 {
		quality.Recommendations = append(quality.Recommendations,
			fmt.Sprintf("%d table(s) without a primary key - add explicit primary keys", quality.TablesWithoutPK))
	}
	if quality.OrphanedTables > 0 {
		quality.Recommendations = append(quality.Recommendations,
			fmt.Sprintf("%d table(s) never referenced by the workload - candidates for archival", quality.OrphanedTables))
	}
	return quality
}
