package analysis

import (
	"sort"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

// IdentifyBottlenecks buckets the workload into slow and high-volume queries.
// Both thresholds are strict: a query at exactly the limit is not flagged.
// Slow queries rank by impact score (execution time times run quantity);
// high-volume queries rank by run quantity with only the top entries detailed,
// though TotalExecutions always sums the whole bucket.
func IdentifyBottlenecks(patterns []models.QueryPattern, th Thresholds) []models.Bottleneck {
	var slow, highVolume []models.QueryPattern
	for _, p := range patterns {
		if p.ExecutionTime > th.SlowQuerySeconds {
			slow = append(slow, p)
		}
		if p.RunQuantity > th.HighVolumeRuns {
			highVolume = append(highVolume, p)
		}
	}

	bottlenecks := []models.Bottleneck{}

	if len(slow) > 0 {
		details := make([]models.BottleneckDetail, 0, len(slow))
		for _, p := range slow {
			details = append(details, models.BottleneckDetail{
				QueryID:       p.QueryID,
				ExecutionTime: p.ExecutionTime,
				RunQuantity:   p.RunQuantity,
				ImpactScore:   p.ExecutionTime * float64(p.RunQuantity),
				TotalTime:     p.ExecutionTime * float64(p.RunQuantity),
			})
		}
		sort.Slice(details, func(i, j int) bool {
			if details[i].ImpactScore != details[j].ImpactScore {
				return details[i].ImpactScore > details[j].ImpactScore
			}
			return details[i].QueryID < details[j].QueryID
		})
		bottlenecks = append(bottlenecks, models.Bottleneck{
			Type:     models.BottleneckSlowQueries,
			Severity: models.SeverityHigh,
			Count:    len(slow),
			Details:  details,
		})
	}

	if len(highVolume) > 0 {
		totalExecutions := 0
		details := make([]models.BottleneckDetail, 0, len(highVolume))
		for _, p := range highVolume {
			totalExecutions += p.RunQuantity
			details = append(details, models.BottleneckDetail{
				QueryID:       p.QueryID,
				ExecutionTime: p.ExecutionTime,
				RunQuantity:   p.RunQuantity,
			})
		}
		sort.Slice(details, func(i, j int) bool {
			if details[i].RunQuantity != details[j].RunQuantity {
				return details[i].RunQuantity > details[j].RunQuantity
			}
			return details[i].QueryID < details[j].QueryID
		})
		if len(details) > th.TopHighVolumeDetails {
			details = details[:th.TopHighVolumeDetails]
		}
		bottlenecks = append(bottlenecks, models.Bottleneck{
			Type:            models.BottleneckHighVolumeQueries,
			Severity:        models.SeverityMedium,
			Count:           len(highVolume),
			TotalExecutions: totalExecutions,
			Details:         details,
		})
	}

	return bottlenecks
}
