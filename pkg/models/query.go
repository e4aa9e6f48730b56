package models

// QueryRecord is one inbound workload trace entry: a SQL query with its
// execution count and timing. ExecutionTime is treated as an opaque weight;
// callers may supply a sum or an average.
type QueryRecord struct {
	QueryID       string  `json:"queryid"`
	Query         string  `json:"query"`
	RunQuantity   int     `json:"runquantity"`
	ExecutionTime float64 `json:"executiontime"`
}

// Join describes one JOIN clause found in a query.
type Join struct {
	Type      string `json:"type"`
	Table     string `json:"table"`
	Alias     string `json:"alias,omitempty"`
	Condition string `json:"condition,omitempty"`
}

// Query types as determined by the first keyword of the statement.
const (
	QueryTypeSelect  = "SELECT"
	QueryTypeInsert  = "INSERT"
	QueryTypeUpdate  = "UPDATE"
	QueryTypeDelete  = "DELETE"
	QueryTypeUnknown = "UNKNOWN"
)

// QueryPattern is the structured extraction of a single query. All list
// fields are de-duplicated and deterministically ordered; a pattern is never
// mutated after creation.
type QueryPattern struct {
	QueryID         string   `json:"query_id"`
	QueryType       string   `json:"type"`
	TablesUsed      []string `json:"tables_used"`
	Joins           []Join   `json:"joins,omitempty"`
	Aggregations    []string `json:"aggregations,omitempty"`
	FilterColumns   []string `json:"filter_columns,omitempty"`
	GroupByColumns  []string `json:"group_by_columns,omitempty"`
	OrderByColumns  []string `json:"order_by_columns,omitempty"`
	WindowFunctions []string `json:"window_functions,omitempty"`
	CTEUsage        bool     `json:"cte_usage"`
	SubqueryCount   int      `json:"subqueries_count"`
	RunQuantity     int      `json:"run_quantity"`
	ExecutionTime   float64  `json:"execution_time"`
}

// HighFrequencyQuery marks a pattern whose run quantity exceeded the
// high-frequency threshold. Informational only.
type HighFrequencyQuery struct {
	QueryID       string  `json:"query_id"`
	RunQuantity   int     `json:"run_quantity"`
	ExecutionTime float64 `json:"execution_time"`
}

// WorkloadStatistics aggregates a batch of query patterns. Every histogram is
// derived purely from the pattern list: recomputing from the same list yields
// the same statistics.
//
// TableUsage, FilterColumnUsage and GroupByColumnUsage are weighted by run
// quantity. JoinPatterns and AggregationUsage count pattern occurrences, not
// executions. Join topology is structural, not volumetric.
type WorkloadStatistics struct {
	TotalQueries         int                  `json:"total_queries"`
	QueryTypes           map[string]int       `json:"query_types"`
	TableUsage           map[string]int       `json:"most_used_tables"`
	JoinPatterns         map[string]int       `json:"join_patterns"`
	AggregationUsage     map[string]int       `json:"aggregation_usage"`
	FilterColumnUsage    map[string]int       `json:"most_used_filter_columns"`
	GroupByColumnUsage   map[string]int       `json:"most_used_group_by_columns"`
	CTEUsageCount        int                  `json:"cte_usage"`
	AvgExecutionTime     float64              `json:"avg_execution_time"`
	HighFrequencyQueries []HighFrequencyQuery `json:"high_frequency_queries"`
}
