package analysis

import (
	"strings"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

// AssessDenormalization weighs how join-heavy the workload is. Join counting
// is textual: every occurrence of the word JOIN in a query contributes that
// query's run quantity, and a query with more than ComplexJoinCount joins is
// complex. A one-table schema is already denormalized and scores low without
// further inspection.
func AssessDenormalization(tables []models.Table, records []models.QueryRecord, th Thresholds) models.DenormalizationAssessment {
	if len(tables) <= 1 {
		return models.DenormalizationAssessment{
			OpportunityLevel: "low",
			Reason:           "Single table schema - already denormalized",
		}
	}

	assessment := models.DenormalizationAssessment{
		OpportunityLevel:     "low",
		JoinTypeDistribution: map[string]int{},
	}
	var complexJoinRuns int
	for _, rec := range records {
		upper := strings.ToUpper(rec.Query)
		joins := strings.Count(upper, "JOIN")
		if joins == 0 {
			continue
		}
		assessment.TotalJoinOperations += joins * rec.RunQuantity
		if joins > th.ComplexJoinCount {
			assessment.ComplexJoinQueries++
			complexJoinRuns += rec.RunQuantity
		}
		if strings.Contains(upper, "INNER JOIN") {
			assessment.JoinTypeDistribution["INNER"] += rec.RunQuantity
		}
		if strings.Contains(upper, "LEFT JOIN") || strings.Contains(upper, "LEFT OUTER JOIN") {
			assessment.JoinTypeDistribution["LEFT"] += rec.RunQuantity
		}
		if strings.Contains(upper, "RIGHT JOIN") || strings.Contains(upper, "RIGHT OUTER JOIN") {
			assessment.JoinTypeDistribution["RIGHT"] += rec.RunQuantity
		}
	}

	switch {
	case complexJoinRuns > th.ComplexJoinRuns:
		assessment.OpportunityLevel = "high"
		assessment.Reason = "Frequent complex multi-join queries dominate the workload"
		assessment.Recommendations = append(assessment.Recommendations,
			"Consider denormalizing the most joined tables into a wide table or materialized view")
	case assessment.TotalJoinOperations > th.TotalJoinRuns:
		assessment.OpportunityLevel = "medium"
		assessment.Reason = "High total join volume across the workload"
		assessment.Recommendations = append(assessment.Recommendations,
			"Review the hottest join paths for pre-join or caching opportunities")
	}
	return assessment
}
