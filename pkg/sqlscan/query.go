package sqlscan

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

// aggregateFunctions is the fixed vocabulary tested for presence. Order is
// fixed so extraction output is deterministic.
var aggregateFunctions = []string{
	"count", "sum", "avg", "min", "max", "stddev", "variance",
	"count_distinct", "percentile", "median",
}

// windowFunctions is the fixed window-function vocabulary. Detection requires
// the empty-parens-then-OVER form, so calls with arguments inside the parens
// are missed.
var windowFunctions = []string{
	"row_number", "rank", "dense_rank", "lead", "lag", "first_value",
	"last_value", "nth_value", "ntile",
}

var (
	tableRefRe = regexp.MustCompile(`(?i)\b(?:FROM|JOIN)\s+([a-zA-Z_][a-zA-Z0-9_.]*)`)

	joinRe = regexp.MustCompile(`(?i)\b((?:INNER\s+|LEFT\s+|RIGHT\s+|FULL\s+|CROSS\s+)?JOIN)\s+([a-zA-Z_][a-zA-Z0-9_.]*)(?:\s+AS\s+([a-zA-Z_][a-zA-Z0-9_]*))?`)

	onClauseRe     = regexp.MustCompile(`(?is)^\s*ON\s+`)
	joinBoundaryRe = regexp.MustCompile(`(?i)\s+(?:JOIN|INNER\s+JOIN|LEFT\s+JOIN|RIGHT\s+JOIN|FULL\s+JOIN|CROSS\s+JOIN|WHERE|GROUP|ORDER|LIMIT)\b`)

	cteRe    = regexp.MustCompile(`(?i)\bWITH\s+\w+\s+AS\s*\(`)
	selectRe = regexp.MustCompile(`(?i)\bSELECT\b`)

	groupByRe       = regexp.MustCompile(`(?is)\bGROUP\s+BY\s+(.*)$`)
	groupBoundaryRe = regexp.MustCompile(`(?i)\s+(?:HAVING|ORDER|LIMIT)\b`)
	orderByRe       = regexp.MustCompile(`(?is)\bORDER\s+BY\s+(.*)$`)
	orderBoundaryRe = regexp.MustCompile(`(?i)\s+LIMIT\b`)

	wsRe = regexp.MustCompile(`\s+`)
)

// aggregateRes / windowRes are the per-function presence regexes, built once.
var (
	aggregateRes = buildPresenceRes(aggregateFunctions, `\s*\(`)
	windowRes    = buildPresenceRes(windowFunctions, `\s*\(\s*\)\s+OVER\s*\(`)
)

func buildPresenceRes(funcs []string, suffix string) map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(funcs))
	for _, f := range funcs {
		res[f] = regexp.MustCompile(`(?i)\b` + f + suffix)
	}
	return res
}

// PatternExtractor turns raw query records into structured query patterns.
type PatternExtractor struct {
	logger *zap.Logger
}

// NewPatternExtractor creates a pattern extractor. A nil logger is replaced
// with a no-op.
func NewPatternExtractor(logger *zap.Logger) *PatternExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PatternExtractor{logger: logger.Named("pattern-extractor")}
}

// ExtractAll extracts one pattern per query record. Records that fail to
// extract are logged and dropped.
func (e *PatternExtractor) ExtractAll(records []models.QueryRecord) []models.QueryPattern {
	patterns := make([]models.QueryPattern, 0, len(records))
	for _, rec := range records {
		p, err := e.Extract(rec)
		if err != nil {
			e.logger.Warn("skipping unparseable query",
				zap.String("query_id", rec.QueryID),
				zap.Error(err))
			continue
		}
		patterns = append(patterns, *p)
	}
	return patterns
}

// Extract builds the structured pattern for a single query record.
func (e *PatternExtractor) Extract(rec models.QueryRecord) (*models.QueryPattern, error) {
	if strings.TrimSpace(rec.Query) == "" {
		return nil, fmt.Errorf("empty query text")
	}

	return &models.QueryPattern{
		QueryID:         rec.QueryID,
		QueryType:       queryType(rec.Query),
		TablesUsed:      extractTables(rec.Query),
		Joins:           extractJoins(rec.Query),
		Aggregations:    presentFunctions(rec.Query, aggregateFunctions, aggregateRes),
		FilterColumns:   ExtractFilterColumns(rec.Query),
		GroupByColumns:  clauseColumns(rec.Query, groupByRe, groupBoundaryRe),
		OrderByColumns:  clauseColumns(rec.Query, orderByRe, orderBoundaryRe),
		WindowFunctions: presentFunctions(rec.Query, windowFunctions, windowRes),
		CTEUsage:        cteRe.MatchString(rec.Query),
		SubqueryCount:   countSubqueries(rec.Query),
		RunQuantity:     rec.RunQuantity,
		ExecutionTime:   rec.ExecutionTime,
	}, nil
}

// queryType classifies by the first keyword. A WITH prefix means a
// CTE-wrapped SELECT.
func queryType(query string) string {
	upper := strings.ToUpper(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(upper, "SELECT"), strings.HasPrefix(upper, "WITH"):
		return models.QueryTypeSelect
	case strings.HasPrefix(upper, "INSERT"):
		return models.QueryTypeInsert
	case strings.HasPrefix(upper, "UPDATE"):
		return models.QueryTypeUpdate
	case strings.HasPrefix(upper, "DELETE"):
		return models.QueryTypeDelete
	default:
		return models.QueryTypeUnknown
	}
}

// extractTables returns every identifier following FROM or JOIN, alias
// stripped, de-duplicated and sorted. Subquery aliases are not distinguished
// from base tables.
func extractTables(query string) []string {
	seen := make(map[string]bool)
	for _, m := range tableRefRe.FindAllStringSubmatch(query, -1) {
		ref := m[1]
		if idx := strings.IndexByte(ref, ' '); idx >= 0 {
			ref = ref[:idx]
		}
		seen[ref] = true
	}
	tables := make([]string, 0, len(seen))
	for t := range seen {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return tables
}

// extractJoins finds each JOIN clause with its target, optional AS alias and
// optional ON condition. The condition text runs up to the next clause
// keyword or end of string.
func extractJoins(query string) []models.Join {
	var joins []models.Join
	for _, loc := range joinRe.FindAllStringSubmatchIndex(query, -1) {
		matched := joinRe.FindStringSubmatch(query[loc[0]:loc[1]])
		join := models.Join{
			Type:  normalizeJoinType(matched[1]),
			Table: matched[2],
			Alias: matched[3],
		}

		rest := query[loc[1]:]
		if on := onClauseRe.FindStringIndex(rest); on != nil {
			cond := rest[on[1]:]
			if b := joinBoundaryRe.FindStringIndex(cond); b != nil {
				cond = cond[:b[0]]
			}
			join.Condition = strings.TrimSpace(cond)
		}
		joins = append(joins, join)
	}
	return joins
}

// normalizeJoinType uppercases and collapses whitespace so "left  join" and
// "LEFT JOIN" land in the same histogram bucket.
func normalizeJoinType(joinType string) string {
	return wsRe.ReplaceAllString(strings.ToUpper(strings.TrimSpace(joinType)), " ")
}

// presentFunctions runs the presence test for each function in vocab order.
func presentFunctions(query string, vocab []string, res map[string]*regexp.Regexp) []string {
	var found []string
	for _, f := range vocab {
		if res[f].MatchString(query) {
			found = append(found, f)
		}
	}
	return found
}

// clauseColumns captures the clause body up to the next clause keyword and
// splits it on top-level commas. No expression parsing: GROUP BY foo(bar)
// yields the literal text "foo(bar)" as one column.
func clauseColumns(query string, clauseRe, boundaryRe *regexp.Regexp) []string {
	m := clauseRe.FindStringSubmatch(query)
	if m == nil {
		return nil
	}
	body := m[1]
	if b := boundaryRe.FindStringIndex(body); b != nil {
		body = body[:b[0]]
	}

	var cols []string
	for _, c := range splitTopLevel(body) {
		c = strings.TrimSpace(c)
		if c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

// splitTopLevel splits on commas outside parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	var current strings.Builder
	depth := 0
	for _, ch := range s {
		switch ch {
		case '(':
			depth++
			current.WriteRune(ch)
		case ')':
			depth--
			current.WriteRune(ch)
		case ',':
			if depth == 0 {
				parts = append(parts, current.String())
				current.Reset()
			} else {
				current.WriteRune(ch)
			}
		default:
			current.WriteRune(ch)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// countSubqueries counts SELECT keywords minus one, floored at zero. CTEs
// with their own subqueries can be over- or under-counted; this is an
// acknowledged approximation.
func countSubqueries(query string) int {
	n := len(selectRe.FindAllStringIndex(query, -1)) - 1
	if n < 0 {
		return 0
	}
	return n
}
