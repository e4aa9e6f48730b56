package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

func TestBuildRedesignPrompt(t *testing.T) {
	input := models.AgentInput{
		SourceSchemaArchetype: models.ArchetypeSingleBigTable,
		SourceTablesProfile: []models.SourceTableProfile{
			{
				Name:     "flights",
				RowCount: 1_000_000,
				Columns: []models.SourceColumnProfile{
					{Name: "airline", Type: "varchar(10)", Cardinality: 20},
					{Name: "depdelay", Type: "int"},
				},
			},
		},
		WorkloadProfile: models.WorkloadProfile{
			TopGroupByColumns: []string{"airline"},
			TopFilterColumns:  []string{"flightdate"},
			TopAggregations:   []string{"count"},
		},
		DimensionClusters: []models.DimensionCluster{
			{Name: "temporal", Kind: models.ClusterKindTemporal, Columns: []string{"flightdate"}},
		},
	}
	prompt := BuildRedesignPrompt(input)

	assert.Contains(t, prompt, "Archetype: single_big_table")
	assert.Contains(t, prompt, "### flights")
	assert.Contains(t, prompt, "- airline (varchar(10), 20 distinct values)")
	assert.Contains(t, prompt, "- depdelay (int)")
	assert.Contains(t, prompt, "Top group-by columns: airline")
	assert.Contains(t, prompt, "temporal (temporal): flightdate")
	assert.Contains(t, prompt, `"ddl"`)
	assert.Contains(t, prompt, `"migrations"`)
}

func TestBuildRewritePrompt(t *testing.T) {
	ddl := []models.DDLStatement{
		{Statement: "CREATE TABLE fact_flights (flightdate date)"},
	}
	queries := []models.QueryRecord{
		{QueryID: "q1", Query: "SELECT count(*) FROM flights"},
		{QueryID: "q2", Query: "SELECT airline FROM flights"},
	}
	prompt := BuildRewritePrompt(ddl, queries)

	assert.Contains(t, prompt, "CREATE TABLE fact_flights (flightdate date);")
	assert.Contains(t, prompt, "### q1")
	assert.Contains(t, prompt, "### q2")
	assert.Contains(t, prompt, "exactly 2 entries")
	assert.Contains(t, prompt, `"queryid"`)
}
