// Package prompts builds the LLM prompts for the schema redesign pipeline.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

// RedesignSystemMessage frames the redesign step.
const RedesignSystemMessage = "You are a database architect. You design analytical schemas " +
	"optimized for the observed query workload. Respond with a single JSON object and nothing else."

// BuildRedesignPrompt creates the prompt for the schema redesign step. It
// includes the source schema profile, workload signals, dimension clusters,
// and the JSON response format with ddl and migrations arrays.
func BuildRedesignPrompt(input models.AgentInput) string {
	var prompt strings.Builder

	prompt.WriteString("# Schema Redesign\n\n")
	prompt.WriteString("Redesign the following schema for its analytical workload.\n\n")

	prompt.WriteString("## Source Schema\n\n")
	fmt.Fprintf(&prompt, "Archetype: %s\n\n", input.SourceSchemaArchetype)
	for _, table := range input.SourceTablesProfile {
		fmt.Fprintf(&prompt, "### %s\n", table.Name)
		fmt.Fprintf(&prompt, "Row count: %d\n", table.RowCount)
		if len(table.Columns) > 0 {
			prompt.WriteString("Columns:\n")
			for _, col := range table.Columns {
				if col.Cardinality > 0 {
					fmt.Fprintf(&prompt, "- %s (%s, %d distinct values)\n", col.Name, col.Type, col.Cardinality)
				} else {
					fmt.Fprintf(&prompt, "- %s (%s)\n", col.Name, col.Type)
				}
			}
		}
		prompt.WriteString("\n")
	}

	wp := input.WorkloadProfile
	prompt.WriteString("## Workload Signals\n\n")
	writeList(&prompt, "Top group-by columns", wp.TopGroupByColumns)
	writeList(&prompt, "Top filter columns", wp.TopFilterColumns)
	writeList(&prompt, "Top joined tables", wp.TopJoinedTables)
	writeList(&prompt, "Top aggregations", wp.TopAggregations)
	prompt.WriteString("\n")

	if len(input.DimensionClusters) > 0 {
		prompt.WriteString("## Candidate Dimensions\n\n")
		prompt.WriteString("Column clusters derived from the workload, usable as dimension tables:\n\n")
		for _, c := range input.DimensionClusters {
			fmt.Fprintf(&prompt, "- %s (%s): %s\n", c.Name, c.Kind, strings.Join(c.Columns, ", "))
		}
		prompt.WriteString("\n")
	}

	prompt.WriteString("## Design Guidelines\n\n")
	prompt.WriteString("- Favor a star layout: fact tables keyed by the hottest filter columns, dimensions from the clusters above\n")
	prompt.WriteString("- Partition large fact tables on the dominant temporal filter column\n")
	prompt.WriteString("- Keep every column of the source schema reachable in the new layout\n")
	prompt.WriteString("- Use portable ANSI DDL; one statement per array entry\n\n")

	prompt.WriteString("## Response Format\n\n")
	prompt.WriteString("Respond with JSON in exactly this shape:\n\n")
	prompt.WriteString("```json\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"ddl\": [{\"statement\": \"CREATE TABLE ...\"}],\n")
	prompt.WriteString("  \"migrations\": [\"INSERT INTO ... SELECT ...\"]\n")
	prompt.WriteString("}\n")
	prompt.WriteString("```\n")
	return prompt.String()
}

// RewriteSystemMessage frames the query rewrite step.
const RewriteSystemMessage = "You are a SQL expert. You rewrite queries against a redesigned schema " +
	"preserving their semantics. Respond with a single JSON object and nothing else."

// BuildRewritePrompt creates the prompt for the query rewrite step. The
// response must contain one rewritten query per input query, keyed by the
// original query id.
func BuildRewritePrompt(ddl []models.DDLStatement, queries []models.QueryRecord) string {
	var prompt strings.Builder

	prompt.WriteString("# Query Rewrite\n\n")
	prompt.WriteString("Rewrite every query below against the new schema. Preserve result semantics exactly.\n\n")

	prompt.WriteString("## New Schema\n\n")
	prompt.WriteString("```sql\n")
	for _, stmt := range ddl {
		prompt.WriteString(strings.TrimSpace(stmt.Statement))
		prompt.WriteString(";\n")
	}
	prompt.WriteString("```\n\n")

	prompt.WriteString("## Queries\n\n")
	for _, q := range queries {
		fmt.Fprintf(&prompt, "### %s\n", q.QueryID)
		prompt.WriteString("```sql\n")
		prompt.WriteString(strings.TrimSpace(q.Query))
		prompt.WriteString("\n```\n\n")
	}

	fmt.Fprintf(&prompt, "## Response Format\n\nRespond with JSON containing exactly %d entries:\n\n", len(queries))
	prompt.WriteString("```json\n")
	example, _ := json.Marshal(map[string]any{
		"queries": []map[string]string{{"queryid": "<original id>", "query": "<rewritten SQL>"}},
	})
	prompt.Write(example)
	prompt.WriteString("\n```\n")
	return prompt.String()
}

func writeList(prompt *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(prompt, "- %s: %s\n", label, strings.Join(values, ", "))
}
