package analysis

import (
	"sort"
	"strings"
	"unicode"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

var (
	geographicNameHints = []string{
		"city", "state", "country", "region", "zip", "postal",
		"location", "address", "geo", "lat", "lon",
	}
	identifierNameHints = []string{"id", "key", "code", "uuid", "number"}
)

// splitNameTokens breaks a column name on underscores, whitespace, and
// camelCase boundaries, lowercasing every token.
func splitNameTokens(name string) []string {
	var tokens []string
	for _, raw := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || unicode.IsSpace(r)
	}) {
		start := 0
		for i, r := range raw {
			if i > 0 && unicode.IsUpper(r) {
				tokens = append(tokens, strings.ToLower(raw[start:i]))
				start = i
			}
		}
		tokens = append(tokens, strings.ToLower(raw[start:]))
	}
	return tokens
}

func tokenInAny(tokens []string, hints []string) bool {
	for _, t := range tokens {
		for _, hint := range hints {
			if t == hint || strings.Contains(t, hint) {
				return true
			}
		}
	}
	return false
}

// ClusterDimensions groups the workload's group-by columns into candidate
// dimensions. Lexical clustering runs first: columns sharing a name prefix
// (first token) form a cluster when at least two of them exist. Remaining
// columns fall into fixed semantic buckets: temporal, geographic, identifier,
// then categorical or measure from the declared column type. Anything left is
// its own single-column dimension.
func ClusterDimensions(groupByUsage map[string]int, tables []models.Table) []models.DimensionCluster {
	columns := make([]string, 0, len(groupByUsage))
	for col := range groupByUsage {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	byPrefix := map[string][]string{}
	for _, col := range columns {
		tokens := splitNameTokens(col)
		if len(tokens) == 0 {
			continue
		}
		byPrefix[tokens[0]] = append(byPrefix[tokens[0]], col)
	}

	var clusters []models.DimensionCluster
	clustered := map[string]bool{}
	prefixes := make([]string, 0, len(byPrefix))
	for prefix := range byPrefix {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)
	for _, prefix := range prefixes {
		members := byPrefix[prefix]
		if len(members) < 2 {
			continue
		}
		clusters = append(clusters, models.DimensionCluster{
			Name:    prefix,
			Kind:    models.ClusterKindPrefix,
			Columns: members,
		})
		for _, col := range members {
			clustered[col] = true
		}
	}

	columnTypes := map[string]models.Column{}
	for _, t := range tables {
		for _, c := range t.Columns {
			key := strings.ToLower(c.Name)
			if _, ok := columnTypes[key]; !ok {
				columnTypes[key] = c
			}
		}
	}

	buckets := map[string][]string{}
	for _, col := range columns {
		if clustered[col] {
			continue
		}
		tokens := splitNameTokens(col)
		kind := ""
		switch {
		case tokenInAny(tokens, temporalNameHints):
			kind = models.ClusterKindTemporal
		case tokenInAny(tokens, geographicNameHints):
			kind = models.ClusterKindGeographic
		case tokenInAny(tokens, identifierNameHints):
			kind = models.ClusterKindIdentifier
		default:
			if c, ok := columnTypes[strings.ToLower(col)]; ok {
				if c.IsNumeric() {
					kind = models.ClusterKindMeasure
				} else {
					kind = models.ClusterKindCategorical
				}
			}
		}
		if kind == "" {
			clusters = append(clusters, models.DimensionCluster{
				Name:    col,
				Kind:    models.ClusterKindSingle,
				Columns: []string{col},
			})
			continue
		}
		buckets[kind] = append(buckets[kind], col)
	}

	for _, kind := range []string{
		models.ClusterKindTemporal,
		models.ClusterKindGeographic,
		models.ClusterKindIdentifier,
		models.ClusterKindCategorical,
		models.ClusterKindMeasure,
	} {
		if members, ok := buckets[kind]; ok {
			clusters = append(clusters, models.DimensionCluster{
				Name:    kind,
				Kind:    kind,
				Columns: members,
			})
		}
	}
	return clusters
}
