package models

// ColumnStatistics holds live-profiled statistics for one column. Min/Max/Avg
// are only populated for numeric types. Error records a per-column collection
// failure without failing the table.
type ColumnStatistics struct {
	DataType      string   `json:"data_type"`
	DistinctCount int64    `json:"distinct_count"`
	NullCount     int64    `json:"null_count"`
	MinValue      *float64 `json:"min_value,omitempty"`
	MaxValue      *float64 `json:"max_value,omitempty"`
	AvgValue      *float64 `json:"avg_value,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// TableStatistics holds live-profiled statistics for one table. Fetched fresh
// per analysis run, never cached. Error records a per-table collection failure.
type TableStatistics struct {
	TableName           string                      `json:"table_name"`
	RowCount            int64                       `json:"row_count"`
	SizeBytes           int64                       `json:"size_bytes"`
	ColumnStats         map[string]ColumnStatistics `json:"column_stats,omitempty"`
	PartitioningColumns []string                    `json:"partitioning_columns,omitempty"`
	Error               string                      `json:"error,omitempty"`
}

// DatabaseOverview describes the profiled database as a whole.
type DatabaseOverview struct {
	Driver      string   `json:"driver"`
	Host        string   `json:"host"`
	Database    string   `json:"database"`
	Version     string   `json:"version,omitempty"`
	Schemas     []string `json:"schemas,omitempty"`
	TotalTables int      `json:"total_tables"`
	Connected   bool     `json:"connection_successful"`
	Error       string   `json:"error,omitempty"`
}

// ProfileResult bundles the optional live-profiling output. A nil
// ProfileResult means no connection string was configured; a non-nil result
// with Error set means the whole profiling phase degraded.
type ProfileResult struct {
	Overview        DatabaseOverview  `json:"overview"`
	TableStatistics []TableStatistics `json:"table_statistics,omitempty"`
	Error           string            `json:"error,omitempty"`
}
