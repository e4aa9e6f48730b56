package report

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

// QueryFinding is one anti-pattern hit on a workload query.
type QueryFinding struct {
	QueryID string `json:"query_id"`
	Issue   string `json:"issue"`
	Detail  string `json:"detail,omitempty"`
}

var (
	selectStarRe    = regexp.MustCompile(`(?i)\bSELECT\s+\*`)
	orderRandomRe   = regexp.MustCompile(`(?i)\bORDER\s+BY\s+(?:random|rand|newid)\s*\(`)
	crossJoinRe     = regexp.MustCompile(`(?i)\bCROSS\s+JOIN\b`)
	leadingWildRe   = regexp.MustCompile(`(?i)\bLIKE\s+'%`)
	stringLiteralRe = regexp.MustCompile(`'([^']*)'`)
)

// ScanAntiPatterns runs rule-based checks over every workload query: SELECT *,
// randomized ordering, cross joins, leading-wildcard LIKE, and string literals
// that fingerprint as injection payloads. The literal scan catches workload
// captures that recorded an attack rather than a legitimate query.
func ScanAntiPatterns(records []models.QueryRecord) []QueryFinding {
	findings := []QueryFinding{}
	for _, rec := range records {
		if selectStarRe.MatchString(rec.Query) {
			findings = append(findings, QueryFinding{
				QueryID: rec.QueryID,
				Issue:   "select_star",
				Detail:  "SELECT * fetches every column and defeats covering indexes",
			})
		}
		if orderRandomRe.MatchString(rec.Query) {
			findings = append(findings, QueryFinding{
				QueryID: rec.QueryID,
				Issue:   "random_ordering",
				Detail:  "ORDER BY random() forces a full sort on every execution",
			})
		}
		if crossJoinRe.MatchString(rec.Query) {
			findings = append(findings, QueryFinding{
				QueryID: rec.QueryID,
				Issue:   "cross_join",
				Detail:  "CROSS JOIN produces a cartesian product",
			})
		}
		if leadingWildRe.MatchString(rec.Query) {
			findings = append(findings, QueryFinding{
				QueryID: rec.QueryID,
				Issue:   "leading_wildcard_like",
				Detail:  "LIKE '%...' cannot use a btree index",
			})
		}
		for _, m := range stringLiteralRe.FindAllStringSubmatch(rec.Query, -1) {
			if isSQLi, fingerprint := libinjection.IsSQLi(m[1]); isSQLi {
				findings = append(findings, QueryFinding{
					QueryID: rec.QueryID,
					Issue:   "suspicious_literal",
					Detail:  fmt.Sprintf("literal fingerprints as injection payload (%s)", fingerprint),
				})
				break
			}
		}
	}
	return findings
}

// RenderFallbackReport writes the offline markdown summary used when no LLM
// is configured. It covers the same analysis output as the structured report
// but stays entirely deterministic.
func RenderFallbackReport(r models.OptimizationReport, findings []QueryFinding) string {
	var b strings.Builder
	b.WriteString("# Database Optimization Report\n\n")

	b.WriteString("## Executive Summary\n\n")
	fmt.Fprintf(&b, "- Database size: %.2f GB\n", r.ExecutiveSummary.DatabaseSizeGB)
	fmt.Fprintf(&b, "- Total rows: %s\n", orDash(r.ExecutiveSummary.TotalRows))
	fmt.Fprintf(&b, "- Query volume per day: %d\n", r.ExecutiveSummary.QueryVolumePerDay)
	fmt.Fprintf(&b, "- Critical issues: %d\n", r.ExecutiveSummary.CriticalIssues)
	fmt.Fprintf(&b, "- Optimization potential: %s\n\n", r.ExecutiveSummary.OptimizationPotential)

	if len(r.PerformanceBottlenecks) > 0 {
		b.WriteString("## Performance Bottlenecks\n\n")
		for _, bn := range r.PerformanceBottlenecks {
			fmt.Fprintf(&b, "- **%s** (%s): %d query(ies)\n", bn.Type, bn.Severity, bn.Count)
			for _, d := range bn.Details {
				fmt.Fprintf(&b, "  - `%s`: %d runs, %.2fs\n", d.QueryID, d.RunQuantity, d.ExecutionTime)
			}
		}
		b.WriteString("\n")
	}

	if len(findings) > 0 {
		b.WriteString("## Query Anti-Patterns\n\n")
		grouped := map[string][]QueryFinding{}
		for _, f := range findings {
			grouped[f.Issue] = append(grouped[f.Issue], f)
		}
		issues := make([]string, 0, len(grouped))
		for issue := range grouped {
			issues = append(issues, issue)
		}
		sort.Strings(issues)
		for _, issue := range issues {
			hits := grouped[issue]
			fmt.Fprintf(&b, "- **%s** (%d): %s\n", issue, len(hits), hits[0].Detail)
		}
		b.WriteString("\n")
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, line := range r.ImplementationPriority {
			fmt.Fprintf(&b, "%s\n", line)
		}
		b.WriteString("\n")
	}

	if r.DesignDocument != "" {
		b.WriteString("---\n\n")
		b.WriteString(r.DesignDocument)
	}
	return b.String()
}
