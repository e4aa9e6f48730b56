// Package sqlscan extracts structural facts from SQL text using regex and
// token scans. It is deliberately not a SQL parser: there is no grammar, no
// AST and no semantic resolution. Outputs are best-effort signals with
// documented failure modes, which downstream analysis treats as heuristics
// rather than guarantees.
package sqlscan

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

var (
	tableNameRe = regexp.MustCompile(`(?i)CREATE\s+TABLE\s+([^\s(]+)`)

	// The column block is everything between the opening paren and a trailing
	// ") WITH". This assumes a single top-level parenthesis group, which is
	// the normal case for flat CREATE TABLE DDL.
	columnBlockRe = regexp.MustCompile(`(?is)CREATE\s+TABLE[^(]+\((.*)\)\s*WITH`)
)

// table-level constraint fragments start with one of these keywords.
var tableConstraintKeywords = map[string]bool{
	"PRIMARY":    true,
	"CONSTRAINT": true,
	"UNIQUE":     true,
	"FOREIGN":    true,
	"CHECK":      true,
}

// DDLParser parses CREATE TABLE statements into table models. Statements that
// fail to parse are logged and skipped; partial success is the contract.
type DDLParser struct {
	logger *zap.Logger
}

// NewDDLParser creates a DDL parser. A nil logger is replaced with a no-op.
func NewDDLParser(logger *zap.Logger) *DDLParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DDLParser{logger: logger.Named("ddl-parser")}
}

// ParseStatements parses a batch of DDL statements. Each statement is
// expected to contain exactly one CREATE TABLE. Failing statements are
// skipped, never raised.
func (p *DDLParser) ParseStatements(statements []models.DDLStatement) []models.Table {
	tables := make([]models.Table, 0, len(statements))
	for i, stmt := range statements {
		table, err := p.parseCreateTable(stmt.Statement)
		if err != nil {
			p.logger.Warn("skipping unparseable DDL statement",
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		tables = append(tables, *table)
	}
	return tables
}

func (p *DDLParser) parseCreateTable(ddl string) (*models.Table, error) {
	m := tableNameRe.FindStringSubmatch(ddl)
	if m == nil {
		return nil, fmt.Errorf("no CREATE TABLE name found")
	}
	catalog, schema, name := splitFullTableName(m[1])

	block := columnBlockRe.FindStringSubmatch(ddl)
	if block == nil {
		return nil, fmt.Errorf("no column block found (missing WITH clause)")
	}

	table := &models.Table{
		Catalog: catalog,
		Schema:  schema,
		Name:    name,
	}

	// Simple comma split, not paren-depth-aware. Types like decimal(10,2) are
	// repaired by the merge heuristic in parseColumnDefinition; commas inside
	// nested constraint expressions are not.
	for _, def := range strings.Split(block[1], ",") {
		def = strings.TrimSpace(def)
		if def == "" {
			continue
		}
		fields := strings.Fields(def)
		if len(fields) > 0 && tableConstraintKeywords[strings.ToUpper(fields[0])] {
			table.Constraints = append(table.Constraints, def)
			continue
		}
		col := parseColumnDefinition(def)
		if col != nil {
			table.Columns = append(table.Columns, *col)
		}
	}

	return table, nil
}

// splitFullTableName splits a dotted table reference into catalog, schema and
// name: 3 parts fill all three, 2 parts fill schema.name, 1 part is name only.
func splitFullTableName(fullName string) (catalog, schema, name string) {
	parts := strings.Split(fullName, ".")
	switch len(parts) {
	case 3:
		return parts[0], parts[1], parts[2]
	case 2:
		return "", parts[0], parts[1]
	default:
		return "", "", parts[0]
	}
}

// parseColumnDefinition parses a single "name type [constraints...]" fragment.
// Returns nil for fragments with fewer than two tokens.
func parseColumnDefinition(def string) *models.Column {
	parts := strings.Fields(def)
	if len(parts) < 2 {
		return nil
	}

	name := parts[0]
	dataType := parts[1]
	rest := parts[2:]

	// Repair types split by the comma split above: "decimal(10" + "2)".
	if strings.Contains(dataType, "(") && !strings.Contains(dataType, ")") && len(rest) > 0 {
		dataType += rest[0]
		rest = rest[1:]
	}

	col := &models.Column{
		Name:     name,
		DataType: dataType,
		Nullable: true,
	}

	if len(rest) > 0 {
		constraint := strings.Join(rest, " ")
		col.Constraints = append(col.Constraints, constraint)
		if strings.Contains(strings.ToUpper(constraint), "NOT NULL") {
			col.Nullable = false
		}
	}

	return col
}

// SchemaStats summarizes a parsed table batch.
type SchemaStats struct {
	TotalTables            int            `json:"total_tables"`
	TotalColumns           int            `json:"total_columns"`
	TablesBySchema         map[string]int `json:"tables_by_schema"`
	ColumnTypeDistribution map[string]int `json:"column_types_distribution"`
}

// TableStats computes schema-wide statistics over a parsed table batch.
func TableStats(tables []models.Table) SchemaStats {
	stats := SchemaStats{
		TotalTables:            len(tables),
		TablesBySchema:         make(map[string]int),
		ColumnTypeDistribution: make(map[string]int),
	}

	for _, t := range tables {
		stats.TotalColumns += len(t.Columns)
		schemaKey := t.Catalog + "." + t.Schema
		stats.TablesBySchema[schemaKey]++
		for _, c := range t.Columns {
			baseType := strings.ToLower(c.DataType)
			if idx := strings.Index(baseType, "("); idx >= 0 {
				baseType = baseType[:idx]
			}
			stats.ColumnTypeDistribution[baseType]++
		}
	}

	return stats
}
