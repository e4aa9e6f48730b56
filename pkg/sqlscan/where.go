package sqlscan

import (
	"regexp"
	"sort"
	"strings"
)

var (
	whereRe         = regexp.MustCompile(`(?is)\bWHERE\s+(.*)$`)
	whereBoundaryRe = regexp.MustCompile(`(?i)\s+(?:GROUP\s+BY|ORDER\s+BY|HAVING|LIMIT|WINDOW)\b`)

	// An identifier immediately followed by a comparison operator. The first
	// identifier of each comparison is the filter column.
	comparisonRe = regexp.MustCompile(`(?i)\b([a-zA-Z_][a-zA-Z0-9_.]*)\s*(?:=|!=|<>|<=|>=|<|>|\bNOT\s+LIKE\b|\bLIKE\b|\bIN\b|\bBETWEEN\b|\bIS\b)`)

	// A function call with a flat argument list; identifiers inside the
	// parens are filter columns (e.g. lower(city) = 'oslo').
	functionArgRe = regexp.MustCompile(`(?i)\b[a-zA-Z_][a-zA-Z0-9_]*\s*\(([^()]*)\)`)

	identifierRe = regexp.MustCompile(`(?i)\b([a-zA-Z_][a-zA-Z0-9_.]*)\b`)

	stringLiteralRe = regexp.MustCompile(`'[^']*'`)
)

// reservedFilterWords are tokens the comparison scan must never report as
// columns.
var reservedFilterWords = map[string]bool{
	"and": true, "or": true, "not": true, "in": true, "is": true,
	"like": true, "between": true, "null": true, "exists": true,
	"select": true, "from": true, "where": true, "case": true,
	"when": true, "then": true, "else": true, "end": true,
	"true": true, "false": true, "asc": true, "desc": true,
	"on": true, "join": true, "inner": true, "left": true,
	"right": true, "full": true, "cross": true, "as": true,
	"interval": true, "cast": true, "distinct": true,
}

// ExtractFilterColumns walks the WHERE clause and returns the de-duplicated,
// sorted set of column names used in comparisons and function arguments.
// Qualified references keep only the real name (o.user_id -> user_id).
func ExtractFilterColumns(query string) []string {
	m := whereRe.FindStringSubmatch(query)
	if m == nil {
		return nil
	}
	body := m[1]
	if b := whereBoundaryRe.FindStringIndex(body); b != nil {
		body = body[:b[0]]
	}

	// Strip string literals so their content never looks like an identifier.
	body = stringLiteralRe.ReplaceAllString(body, "''")

	seen := make(map[string]bool)

	for _, cm := range comparisonRe.FindAllStringSubmatch(body, -1) {
		name := realName(cm[1])
		if name != "" && !reservedFilterWords[strings.ToLower(name)] {
			seen[name] = true
		}
	}

	for _, fm := range functionArgRe.FindAllStringSubmatch(body, -1) {
		for _, im := range identifierRe.FindAllStringSubmatch(fm[1], -1) {
			name := realName(im[1])
			if name != "" && !reservedFilterWords[strings.ToLower(name)] {
				seen[name] = true
			}
		}
	}

	if len(seen) == 0 {
		return nil
	}
	cols := make([]string, 0, len(seen))
	for c := range seen {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// realName strips any qualifier prefix, keeping the last dotted segment.
func realName(ref string) string {
	if idx := strings.LastIndexByte(ref, '.'); idx >= 0 {
		return ref[idx+1:]
	}
	return ref
}
