package models

// Bottleneck types and severities.
const (
	BottleneckSlowQueries       = "slow_queries"
	BottleneckHighVolumeQueries = "high_volume_queries"

	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// BottleneckDetail is one query inside a bottleneck bucket. ImpactScore is
// execution_time * run_quantity.
type BottleneckDetail struct {
	QueryID       string  `json:"query_id"`
	ExecutionTime float64 `json:"execution_time"`
	RunQuantity   int     `json:"run_quantity"`
	ImpactScore   float64 `json:"impact_score,omitempty"`
	TotalTime     float64 `json:"total_time,omitempty"`
}

// Bottleneck is a group of disproportionately expensive queries.
type Bottleneck struct {
	Type            string             `json:"type"`
	Severity        string             `json:"severity"`
	Count           int                `json:"count"`
	TotalExecutions int                `json:"total_executions,omitempty"`
	Details         []BottleneckDetail `json:"details"`
}

// TableInsight is the per-table summary in the schema insights view.
// EstimatedRows comes from a coarse bucket heuristic on referencing-query run
// quantity when no live profile is available.
type TableInsight struct {
	Name          string `json:"name"`
	ColumnCount   int    `json:"column_count"`
	EstimatedRows int64  `json:"estimated_rows"`
	HasPrimaryKey bool   `json:"has_primary_key"`
	IndexCount    int    `json:"index_count"`
}

// IndexCoverage scores how much of the schema is index-backed.
type IndexCoverage struct {
	IndexedTables   int     `json:"indexed_tables"`
	TotalIndexes    int     `json:"total_indexes"`
	CoveragePercent float64 `json:"coverage_percent"`
	Recommendation  string  `json:"recommendations"`
}

// DataQuality holds schema-level quality checks.
type DataQuality struct {
	NullableColumnsPercent float64  `json:"nullable_columns_percent"`
	TablesWithoutPK        int      `json:"tables_without_pk"`
	OrphanedTables         int      `json:"orphaned_tables"`
	TotalColumns           int      `json:"total_columns"`
	Recommendations        []string `json:"recommendations,omitempty"`
}

// TableUsage is one entry of the query-coverage usage ranking.
type TableUsage struct {
	Table string `json:"table"`
	Runs  int    `json:"runs"`
}

// QueryCoverage maps workload references back to declared tables. Unresolved
// references (typos, unlisted tables) are kept in a separate list rather than
// merged with resolved canonical keys.
type QueryCoverage struct {
	TableUsage       []TableUsage `json:"table_usage"`
	UnresolvedUsage  []TableUsage `json:"unresolved_usage,omitempty"`
	UnusedTables     []string     `json:"unused_tables,omitempty"`
	MostQueriedTable string       `json:"most_queried_table,omitempty"`
	MostQueriedCount int          `json:"most_queried_count"`
}

// PartitionCandidate flags one column as partition-key material.
type PartitionCandidate struct {
	Column   string `json:"column"`
	DataType string `json:"type"`
	Reason   string `json:"reason"`
	Strategy string `json:"strategy"`
}

// PartitionCandidateTable groups partition candidates per table.
type PartitionCandidateTable struct {
	Table      string               `json:"table"`
	Candidates []PartitionCandidate `json:"candidates"`
}

// DenormalizationAssessment scores how much the workload would gain from
// denormalizing the schema.
type DenormalizationAssessment struct {
	OpportunityLevel     string         `json:"opportunity_level"`
	Reason               string         `json:"reason,omitempty"`
	TotalJoinOperations  int            `json:"total_join_operations"`
	ComplexJoinQueries   int            `json:"complex_join_queries"`
	JoinTypeDistribution map[string]int `json:"join_type_distribution,omitempty"`
	Recommendations      []string       `json:"recommendations,omitempty"`
}

// DimensionCluster is one candidate dimension grouping of workload columns,
// derived from lexical-prefix and semantic-keyword clustering only.
type DimensionCluster struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Columns []string `json:"columns"`
}

// Dimension cluster kinds.
const (
	ClusterKindPrefix      = "prefix"
	ClusterKindTemporal    = "temporal"
	ClusterKindGeographic  = "geographic"
	ClusterKindIdentifier  = "identifier"
	ClusterKindCategorical = "categorical"
	ClusterKindMeasure     = "measure"
	ClusterKindSingle      = "single"
)

// SchemaInsights is the schema-side synthesis bundle.
type SchemaInsights struct {
	TotalTables            int                       `json:"total_tables"`
	TotalColumns           int                       `json:"total_columns"`
	Tables                 []TableInsight            `json:"tables"`
	IndexCoverage          IndexCoverage             `json:"index_coverage"`
	DataQuality            DataQuality               `json:"data_quality"`
	QueryCoverage          QueryCoverage             `json:"query_coverage"`
	PartitioningCandidates []PartitionCandidateTable `json:"partitioning_candidates,omitempty"`
	Denormalization        DenormalizationAssessment `json:"denormalization_opportunities"`
}

// MaterializedViewCandidate is a cluster of frequently-run queries sharing an
// aggregation signature.
type MaterializedViewCandidate struct {
	Aggregations     []string `json:"aggregations"`
	QueryCount       int      `json:"query_count"`
	TotalExecutions  int      `json:"total_executions"`
	AvgExecutionTime float64  `json:"avg_execution_time"`
	PotentialSavings string   `json:"potential_savings"`
}

// AggregationVolume is one entry of the run-weighted aggregation ranking.
type AggregationVolume struct {
	Function string `json:"function"`
	Runs     int    `json:"runs"`
}

// QueryPatternSummary is the workload-side synthesis bundle.
type QueryPatternSummary struct {
	TotalQueryVolume           int                         `json:"total_query_volume"`
	AvgExecutionTime           float64                     `json:"avg_execution_time"`
	CTEUsagePercent            float64                     `json:"cte_usage_percent"`
	JoinFrequency              map[string]int              `json:"join_frequency"`
	TopAggregations            []AggregationVolume         `json:"top_aggregations"`
	MaterializedViewCandidates []MaterializedViewCandidate `json:"materialized_view_candidates"`
}

// Recommendation is one ranked optimization suggestion.
type Recommendation struct {
	Type                string `json:"type"`
	Priority            string `json:"priority"`
	Description         string `json:"description"`
	Implementation      string `json:"implementation"`
	ExpectedImprovement string `json:"expected_improvement"`
	Effort              string `json:"effort"`
}

// ExecutiveSummary is the top-of-report snapshot.
type ExecutiveSummary struct {
	DatabaseSizeGB        float64 `json:"database_size"`
	TotalRows             string  `json:"total_rows"`
	QueryVolumePerDay     int     `json:"query_volume_per_day"`
	CriticalIssues        int     `json:"critical_issues"`
	OptimizationPotential string  `json:"optimization_potential"`
}

// MainTableProfile summarizes the largest profiled table.
type MainTableProfile struct {
	Name    string  `json:"name"`
	Rows    string  `json:"rows"`
	SizeGB  float64 `json:"size_gb"`
	Columns int     `json:"columns"`
}

// DatabaseProfile holds basic characteristics of the analyzed database.
type DatabaseProfile struct {
	DatabaseType       string           `json:"database_type"`
	MainTable          MainTableProfile `json:"main_table"`
	ColumnDistribution map[string]int   `json:"column_distribution"`
}

// Schema archetypes.
const (
	ArchetypeSingleBigTable         = "single_big_table"
	ArchetypeNormalizedMultitable   = "normalized_multitable"
	ArchetypeDenormalizedMultitable = "denormalized_multitable"
)

// SourceColumnProfile is one column in the agent input payload.
type SourceColumnProfile struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Cardinality int64  `json:"cardinality,omitempty"`
}

// SourceTableProfile is one table in the agent input payload.
type SourceTableProfile struct {
	Name     string                `json:"name"`
	RowCount int64                 `json:"row_count"`
	Columns  []SourceColumnProfile `json:"columns"`
}

// WorkloadProfile is the condensed workload signal handed to the redesign
// step.
type WorkloadProfile struct {
	TopGroupByColumns []string `json:"top_group_by_columns"`
	TopFilterColumns  []string `json:"top_filter_columns"`
	TopJoinedTables   []string `json:"top_joined_tables"`
	TopAggregations   []string `json:"top_aggregated_functions"`
}

// AgentInput is the machine-consumable payload used to prompt the schema
// redesign step.
type AgentInput struct {
	SourceSchemaArchetype string               `json:"source_schema_archetype"`
	SourceTablesProfile   []SourceTableProfile `json:"source_tables_profile"`
	WorkloadProfile       WorkloadProfile      `json:"workload_profile"`
	DimensionClusters     []DimensionCluster   `json:"dimension_clusters,omitempty"`
}

// SchemaOverview is the slice of insights the UI renders directly.
type SchemaOverview struct {
	Tables        []TableInsight `json:"tables"`
	IndexCoverage IndexCoverage  `json:"index_coverage"`
}

// OptimizationReport is the terminal aggregate of one analysis run and the
// sole contract boundary toward the LLM-orchestration layer.
type OptimizationReport struct {
	ExecutiveSummary       ExecutiveSummary    `json:"executive_summary"`
	DatabaseProfile        DatabaseProfile     `json:"database_profile"`
	PerformanceBottlenecks []Bottleneck        `json:"performance_bottlenecks"`
	SchemaInsights         SchemaInsights      `json:"schema_insights"`
	SchemaOverview         SchemaOverview      `json:"schema_overview"`
	QueryPatterns          QueryPatternSummary `json:"query_patterns"`
	Recommendations        []Recommendation    `json:"recommendations"`
	ImplementationPriority []string            `json:"implementation_priority"`
	AgentInput             AgentInput          `json:"agent_input"`
	DesignDocument         string              `json:"design_document,omitempty"`
	FallbackSummary        string              `json:"fallback_summary,omitempty"`
	DatabaseStats          *ProfileResult      `json:"database_stats,omitempty"`
}
