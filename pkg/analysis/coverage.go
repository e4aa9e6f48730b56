package analysis

import (
	"regexp"
	"sort"
	"strings"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

var tableRefRe = regexp.MustCompile("(?i)\\b(?:from|join)\\s+([a-zA-Z0-9_.\"`]+)")

// normalizeTableRef strips quoting characters and lowercases a table
// reference so that "Sales"."Orders" and sales.orders land on the same key.
func normalizeTableRef(ref string) string {
	replacer := strings.NewReplacer("\"", "", "`", "", " ", "")
	return strings.ToLower(replacer.Replace(ref))
}

// refForms expands a normalized reference into every suffix form a query
// could use to address the same table: bare name, schema-qualified, and
// fully qualified.
func refForms(ref string) []string {
	parts := strings.Split(ref, ".")
	switch len(parts) {
	case 1:
		return []string{parts[0]}
	case 2:
		return []string{parts[1], ref}
	default:
		table := parts[len(parts)-1]
		schema := parts[len(parts)-2]
		return []string{table, schema + "." + table, ref}
	}
}

// canonicalKey is the name a declared table is counted under: schema.table
// when a schema is declared, the bare name otherwise.
func canonicalKey(t models.Table) string {
	name := strings.ToLower(t.Name)
	if t.Schema != "" {
		return strings.ToLower(t.Schema) + "." + name
	}
	return name
}

// AnalyzeQueryCoverage resolves every FROM/JOIN reference in the raw query
// text against the declared tables and accumulates run-weighted usage.
// References are matched in shortest-form-first order so a bare table name
// wins over a qualified one. References that match no declared table stay in
// a separate unresolved list instead of polluting the resolved ranking.
func AnalyzeQueryCoverage(tables []models.Table, records []models.QueryRecord) models.QueryCoverage {
	// Every addressable form of every declared table points at its
	// canonical key.
	formToCanon := map[string]string{}
	usage := map[string]int{}
	for _, t := range tables {
		canon := canonicalKey(t)
		usage[canon] = 0
		name := strings.ToLower(t.Name)
		formToCanon[name] = canon
		if t.Schema != "" {
			formToCanon[strings.ToLower(t.Schema)+"."+name] = canon
			if t.Catalog != "" {
				full := strings.ToLower(t.Catalog) + "." + strings.ToLower(t.Schema) + "." + name
				formToCanon[full] = canon
			}
		}
	}

	unresolved := map[string]int{}
	for _, rec := range records {
		for _, m := range tableRefRe.FindAllStringSubmatch(rec.Query, -1) {
			ref := normalizeTableRef(m[1])
			if ref == "" {
				continue
			}
			forms := refForms(ref)
			matched := false
			for _, form := range forms {
				if canon, ok := formToCanon[form]; ok {
					usage[canon] += rec.RunQuantity
					matched = true
					break
				}
			}
			if !matched {
				key := forms[0]
				if len(forms) >= 2 {
					key = forms[1]
				}
				unresolved[key] += rec.RunQuantity
			}
		}
	}

	coverage := models.QueryCoverage{TableUsage: []models.TableUsage{}}
	for table, runs := range usage {
		if runs == 0 {
			coverage.UnusedTables = append(coverage.UnusedTables, table)
			continue
		}
		coverage.TableUsage = append(coverage.TableUsage, models.TableUsage{Table: table, Runs: runs})
	}
	for table, runs := range unresolved {
		coverage.UnresolvedUsage = append(coverage.UnresolvedUsage, models.TableUsage{Table: table, Runs: runs})
	}
	sortUsage(coverage.TableUsage)
	sortUsage(coverage.UnresolvedUsage)
	sort.Strings(coverage.UnusedTables)

	if len(coverage.TableUsage) > 0 {
		coverage.MostQueriedTable = coverage.TableUsage[0].Table
		coverage.MostQueriedCount = coverage.TableUsage[0].Runs
	} else if len(coverage.UnresolvedUsage) > 0 {
		coverage.MostQueriedTable = coverage.UnresolvedUsage[0].Table
		coverage.MostQueriedCount = coverage.UnresolvedUsage[0].Runs
	}
	return coverage
}

func sortUsage(usage []models.TableUsage) {
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Runs != usage[j].Runs {
			return usage[i].Runs > usage[j].Runs
		}
		return usage[i].Table < usage[j].Table
	})
}
