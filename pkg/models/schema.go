package models

import "strings"

// Column is one column parsed from a CREATE TABLE statement. Values are
// immutable once parsed; only the DDL parser constructs them.
type Column struct {
	Name        string   `json:"name"`
	DataType    string   `json:"type"`
	Nullable    bool     `json:"nullable"`
	Constraints []string `json:"constraints,omitempty"`
}

// IsNumeric reports whether the declared type is a numeric base type. The
// check is on the raw declared string, so "integer(11)" and "decimal(10,2)"
// both count.
func (c Column) IsNumeric() bool {
	base := strings.ToLower(c.DataType)
	if idx := strings.Index(base, "("); idx >= 0 {
		base = base[:idx]
	}
	switch base {
	case "int", "integer", "bigint", "smallint", "tinyint", "double", "float", "real", "decimal", "numeric":
		return true
	}
	return false
}

// Table is one parsed CREATE TABLE. Catalog and Schema may be empty; Name is
// always set. Two tables are the same entity iff their normalized full names
// match (case-insensitive, quote-stripped).
type Table struct {
	Catalog     string   `json:"catalog"`
	Schema      string   `json:"schema"`
	Name        string   `json:"name"`
	Columns     []Column `json:"columns"`
	Indexes     []string `json:"indexes,omitempty"`
	Constraints []string `json:"constraints,omitempty"`
}

// FullName returns catalog.schema.name with empty segments omitted.
func (t Table) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{t.Catalog, t.Schema, t.Name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}

// HasPrimaryKey scans column and table-level constraint strings for a
// PRIMARY KEY declaration.
func (t Table) HasPrimaryKey() bool {
	for _, col := range t.Columns {
		for _, c := range col.Constraints {
			if strings.Contains(strings.ToUpper(c), "PRIMARY KEY") {
				return true
			}
		}
	}
	for _, c := range t.Constraints {
		if strings.Contains(strings.ToUpper(c), "PRIMARY KEY") {
			return true
		}
	}
	return false
}
