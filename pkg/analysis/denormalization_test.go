package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

func TestAssessDenormalizationSingleTable(t *testing.T) {
	tables := []models.Table{{Name: "flights"}}
	assessment := AssessDenormalization(tables, nil, DefaultThresholds())

	assert.Equal(t, "low", assessment.OpportunityLevel)
	assert.Equal(t, "Single table schema - already denormalized", assessment.Reason)
}

func TestAssessDenormalizationHighOpportunity(t *testing.T) {
	tables := []models.Table{{Name: "a"}, {Name: "b"}}
	records := []models.QueryRecord{
		{
			// Four joins makes this a complex query.
			Query:       "SELECT * FROM a INNER JOIN b ON 1=1 LEFT JOIN c ON 1=1 INNER JOIN d ON 1=1 LEFT JOIN e ON 1=1",
			RunQuantity: 1500,
		},
	}
	assessment := AssessDenormalization(tables, records, DefaultThresholds())

	assert.Equal(t, "high", assessment.OpportunityLevel)
	assert.Equal(t, 1, assessment.ComplexJoinQueries)
	assert.Equal(t, 6000, assessment.TotalJoinOperations)
	assert.Equal(t, 1500, assessment.JoinTypeDistribution["INNER"])
	assert.Equal(t, 1500, assessment.JoinTypeDistribution["LEFT"])
	assert.NotEmpty(t, assessment.Recommendations)
}

func TestAssessDenormalizationMediumOpportunity(t *testing.T) {
	tables := []models.Table{{Name: "a"}, {Name: "b"}}
	records := []models.QueryRecord{
		{Query: "SELECT * FROM a INNER JOIN b ON a.id = b.a_id", RunQuantity: 6000},
	}
	assessment := AssessDenormalization(tables, records, DefaultThresholds())

	assert.Equal(t, "medium", assessment.OpportunityLevel)
	assert.Equal(t, 0, assessment.ComplexJoinQueries)
	assert.Equal(t, 6000, assessment.TotalJoinOperations)
}

func TestAssessDenormalizationLowOpportunity(t *testing.T) {
	tables := []models.Table{{Name: "a"}, {Name: "b"}}
	records := []models.QueryRecord{
		{Query: "SELECT * FROM a JOIN b ON a.id = b.a_id", RunQuantity: 10},
	}
	assessment := AssessDenormalization(tables, records, DefaultThresholds())

	assert.Equal(t, "low", assessment.OpportunityLevel)
	assert.Empty(t, assessment.Recommendations)
}
