package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

func findCluster(t *testing.T, clusters []models.DimensionCluster, name string) models.DimensionCluster {
	t.Helper()
	for _, c := range clusters {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cluster %q not found in %v", name, clusters)
	return models.DimensionCluster{}
}

func TestClusterDimensionsPrefix(t *testing.T) {
	usage := map[string]int{
		"origin_city":    10,
		"origin_airport": 20,
		"originState":    5,
	}
	clusters := ClusterDimensions(usage, nil)

	require.Len(t, clusters, 1)
	assert.Equal(t, models.ClusterKindPrefix, clusters[0].Kind)
	assert.Equal(t, "origin", clusters[0].Name)
	assert.Equal(t, []string{"originState", "origin_airport", "origin_city"}, clusters[0].Columns)
}

func TestClusterDimensionsSemanticBuckets(t *testing.T) {
	usage := map[string]int{
		"flightdate":  100,
		"dest_city":   50,
		"aircraft_id": 10,
	}
	clusters := ClusterDimensions(usage, nil)

	temporal := findCluster(t, clusters, models.ClusterKindTemporal)
	assert.Equal(t, []string{"flightdate"}, temporal.Columns)
	geographic := findCluster(t, clusters, models.ClusterKindGeographic)
	assert.Equal(t, []string{"dest_city"}, geographic.Columns)
	identifier := findCluster(t, clusters, models.ClusterKindIdentifier)
	assert.Equal(t, []string{"aircraft_id"}, identifier.Columns)
}

func TestClusterDimensionsTypeFallback(t *testing.T) {
	tables := []models.Table{
		{
			Name: "flights",
			Columns: []models.Column{
				{Name: "airline", DataType: "varchar(10)"},
				{Name: "depdelay", DataType: "int"},
			},
		},
	}
	usage := map[string]int{"airline": 10, "depdelay": 5}
	clusters := ClusterDimensions(usage, tables)

	categorical := findCluster(t, clusters, models.ClusterKindCategorical)
	assert.Equal(t, []string{"airline"}, categorical.Columns)
	measure := findCluster(t, clusters, models.ClusterKindMeasure)
	assert.Equal(t, []string{"depdelay"}, measure.Columns)
}

func TestClusterDimensionsSingleColumnFallback(t *testing.T) {
	usage := map[string]int{"mystery": 1}
	clusters := ClusterDimensions(usage, nil)

	require.Len(t, clusters, 1)
	assert.Equal(t, models.ClusterKindSingle, clusters[0].Kind)
	assert.Equal(t, "mystery", clusters[0].Name)
}

func TestClassifyArchetype(t *testing.T) {
	oneTable := []models.Table{{Name: "flights"}}
	twoTables := []models.Table{{Name: "a"}, {Name: "b"}}

	assert.Equal(t, models.ArchetypeSingleBigTable,
		ClassifyArchetype(oneTable, models.WorkloadStatistics{TotalQueries: 10}))

	// Six of ten queries join: more than half, so normalized.
	joined := models.WorkloadStatistics{
		TotalQueries: 10,
		JoinPatterns: map[string]int{"INNER JOIN": 4, "LEFT JOIN": 2},
	}
	assert.Equal(t, models.ArchetypeNormalizedMultitable, ClassifyArchetype(twoTables, joined))

	// Four of ten is not more than half.
	sparse := models.WorkloadStatistics{
		TotalQueries: 10,
		JoinPatterns: map[string]int{"INNER JOIN": 4},
	}
	assert.Equal(t, models.ArchetypeDenormalizedMultitable, ClassifyArchetype(twoTables, sparse))
}
