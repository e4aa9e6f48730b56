package models

import (
	"time"

	"github.com/google/uuid"
)

// Task statuses.
const (
	TaskStatusRunning = "RUNNING"
	TaskStatusDone    = "DONE"
	TaskStatusFailed  = "FAILED"
)

// DDLStatement is one inbound or outbound DDL statement.
type DDLStatement struct {
	Statement string `json:"statement"`
}

// AnalysisRequest is the inbound task payload: a DDL batch, a query batch and
// an optional JDBC connection URL for live profiling.
type AnalysisRequest struct {
	URL     string         `json:"url,omitempty"`
	DDL     []DDLStatement `json:"ddl"`
	Queries []QueryRecord  `json:"queries"`
}

// RewrittenQuery pairs an original query id with its rewritten SQL.
type RewrittenQuery struct {
	QueryID string `json:"queryid"`
	Query   string `json:"query"`
}

// AnalysisResult is the terminal task output: the redesigned DDL, the data
// migration statements and the rewritten queries.
type AnalysisResult struct {
	DDL        []DDLStatement   `json:"ddl"`
	Migrations []DDLStatement   `json:"migrations"`
	Queries    []RewrittenQuery `json:"queries"`
}

// Task is one analysis run tracked by the orchestration layer.
type Task struct {
	ID          uuid.UUID           `json:"id"`
	Status      string              `json:"status"`
	SubmittedAt time.Time           `json:"submitted_at"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	Input       *AnalysisRequest    `json:"input,omitempty"`
	Report      *OptimizationReport `json:"report,omitempty"`
	Result      *AnalysisResult     `json:"result,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// LogEntry is one per-task log line persisted alongside the task record.
type LogEntry struct {
	ID        int64     `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}
