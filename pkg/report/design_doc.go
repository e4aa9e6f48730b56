package report

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

// Target schema shapes recommended by the design document.
const (
	shapeStarSchema           = "star schema"
	shapeDenormalizedFact     = "denormalized fact table"
	shapeOptimizedSingleTable = "optimized single table"
)

// RenderDesignDocument writes the human-readable schema redesign narrative as
// markdown. Dimension tables are named dim_<singular cluster name>; the
// largest source table becomes the fact side.
func RenderDesignDocument(input models.AgentInput, insights models.SchemaInsights) string {
	var b strings.Builder
	b.WriteString("# Schema Redesign Proposal\n\n")

	b.WriteString("## Current State\n\n")
	fmt.Fprintf(&b, "Source schema archetype: `%s`. %d table(s), %d column(s).\n\n",
		input.SourceSchemaArchetype, insights.TotalTables, insights.TotalColumns)
	for _, t := range input.SourceTablesProfile {
		fmt.Fprintf(&b, "- `%s`: ~%s rows, %d profiled column(s)\n", t.Name, formatRows(t.RowCount), len(t.Columns))
	}
	b.WriteString("\n")

	shape, rationale := targetShape(input)
	b.WriteString("## Recommended Target Shape\n\n")
	fmt.Fprintf(&b, "**%s**. %s\n\n", capitalize(shape), rationale)

	if len(input.DimensionClusters) > 0 {
		b.WriteString("## Proposed Dimensions\n\n")
		b.WriteString("Workload group-by columns cluster into the following candidate dimension tables:\n\n")
		for _, c := range input.DimensionClusters {
			fmt.Fprintf(&b, "- `%s` (%s): %s\n", dimensionTableName(c), c.Kind, strings.Join(c.Columns, ", "))
		}
		b.WriteString("\n")
		writeFactSketch(&b, input, shape)
	}

	wp := input.WorkloadProfile
	if len(wp.TopFilterColumns) > 0 || len(wp.TopGroupByColumns) > 0 {
		b.WriteString("## Workload Signals\n\n")
		writeSignal(&b, "Top filter columns", wp.TopFilterColumns)
		writeSignal(&b, "Top group-by columns", wp.TopGroupByColumns)
		writeSignal(&b, "Top joined tables", wp.TopJoinedTables)
		writeSignal(&b, "Top aggregations", wp.TopAggregations)
		b.WriteString("\n")
	}

	writePhysicalDesign(&b, input, insights)

	b.WriteString("## Migration Plan\n\n")
	b.WriteString("1. **Shadow schema**: create the redesigned tables alongside the existing ones.\n")
	b.WriteString("2. **Backfill**: copy historical data into the new layout in partition-sized batches.\n")
	b.WriteString("3. **Dual write**: route inserts and updates to both layouts and compare row counts daily.\n")
	b.WriteString("4. **Cutover reads**: move the rewritten queries to the new layout behind a feature flag.\n")
	b.WriteString("5. **Decommission**: drop the old layout after a full retention cycle of parity.\n")
	return b.String()
}

// targetShape picks the recommended shape from the archetype and how many
// dimension clusters the group-by workload produced.
func targetShape(input models.AgentInput) (string, string) {
	clusters := len(input.DimensionClusters)
	switch input.SourceSchemaArchetype {
	case models.ArchetypeSingleBigTable:
		if clusters >= 2 {
			return shapeStarSchema, "The single wide table groups by several distinct dimension families; splitting them out narrows the scan on aggregate queries."
		}
		return shapeOptimizedSingleTable, "The workload groups by too few columns to justify dimension tables; keep one table and optimize its layout."
	case models.ArchetypeNormalizedMultitable:
		if clusters >= 2 {
			return shapeStarSchema, "The join-heavy workload and clustered group-by columns fit a star layout with conformed dimensions."
		}
		return shapeDenormalizedFact, "Joins dominate the workload but the group-by surface is narrow; folding the joined tables into one fact table removes the join cost."
	default:
		return shapeDenormalizedFact, "The schema is already partially denormalized; consolidate the remaining joins into the fact table."
	}
}

// writeFactSketch renders the fact-side counterpart to the dimension list.
func writeFactSketch(b *strings.Builder, input models.AgentInput, shape string) {
	if shape == shapeOptimizedSingleTable || len(input.SourceTablesProfile) == 0 {
		return
	}
	main := input.SourceTablesProfile[0]
	for _, t := range input.SourceTablesProfile[1:] {
		if t.RowCount > main.RowCount {
			main = t
		}
	}

	b.WriteString("### Fact Table\n\n")
	fmt.Fprintf(b, "- `%s` (from `%s`, ~%s rows)\n", factTableName(main.Name), main.Name, formatRows(main.RowCount))
	for _, c := range input.DimensionClusters {
		fmt.Fprintf(b, "  - foreign key to `%s`\n", dimensionTableName(c))
	}
	if measures := measureColumns(input.DimensionClusters); len(measures) > 0 {
		fmt.Fprintf(b, "  - measures: %s\n", strings.Join(measures, ", "))
	}
	b.WriteString("\n")
}

// writePhysicalDesign renders partitioning, file format, and distribution
// notes. Skipped entirely when no signal supports any of them.
func writePhysicalDesign(b *strings.Builder, input models.AgentInput, insights models.SchemaInsights) {
	partition := partitionKeyLine(insights.PartitioningCandidates)
	distribution := distributionLine(input.WorkloadProfile)
	if partition == "" && distribution == "" {
		return
	}

	b.WriteString("## Physical Design\n\n")
	if partition != "" {
		fmt.Fprintf(b, "- Partitioning: %s\n", partition)
	}
	b.WriteString("- File format: columnar (Parquet or ORC) with per-file column statistics for scan pruning.\n")
	if distribution != "" {
		fmt.Fprintf(b, "- Distribution: %s\n", distribution)
	}
	b.WriteString("\n")
}

func partitionKeyLine(candidates []models.PartitionCandidateTable) string {
	for _, table := range candidates {
		if len(table.Candidates) == 0 {
			continue
		}
		c := table.Candidates[0]
		return fmt.Sprintf("partition `%s` by `%s` (%s)", table.Table, c.Column, c.Strategy)
	}
	return ""
}

func distributionLine(wp models.WorkloadProfile) string {
	if len(wp.TopGroupByColumns) > 0 {
		return fmt.Sprintf("hash-distribute on `%s` to co-locate rows for the dominant group-by.", wp.TopGroupByColumns[0])
	}
	if len(wp.TopFilterColumns) > 0 {
		return fmt.Sprintf("hash-distribute on `%s` to keep the dominant filter local to one node.", wp.TopFilterColumns[0])
	}
	return ""
}

func measureColumns(clusters []models.DimensionCluster) []string {
	var measures []string
	for _, c := range clusters {
		if c.Kind == models.ClusterKindMeasure {
			measures = append(measures, c.Columns...)
		}
	}
	return measures
}

func dimensionTableName(c models.DimensionCluster) string {
	name := strings.ToLower(c.Name)
	name = strings.ReplaceAll(name, " ", "_")
	return "dim_" + inflection.Singular(name)
}

func factTableName(source string) string {
	parts := strings.Split(strings.ToLower(source), ".")
	return "fact_" + inflection.Singular(parts[len(parts)-1])
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func writeSignal(b *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(values, ", "))
}
