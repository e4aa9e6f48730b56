package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schemalens-ai/schemalens-engine/pkg/apperrors"
	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

// PostgresTaskStore persists tasks in postgres. Payloads are stored as JSONB
// so reporting queries can reach into them.
type PostgresTaskStore struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskStore creates a store on an existing pool.
func NewPostgresTaskStore(pool *pgxpool.Pool) *PostgresTaskStore {
	return &PostgresTaskStore{pool: pool}
}

// Create implements TaskStore.
func (s *PostgresTaskStore) Create(ctx context.Context, task *models.Task) error {
	input, report, result, err := marshalPayloads(task)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO tasks (id, status, submitted_at, completed_at, input, report, result, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		task.ID, task.Status, task.SubmittedAt, task.CompletedAt, input, report, result, task.Error)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// Get implements TaskStore.
func (s *PostgresTaskStore) Get(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, status, submitted_at, completed_at, input, report, result, error
		FROM tasks WHERE id = $1`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("select task: %w", err)
	}
	return task, nil
}

// Update implements TaskStore.
func (s *PostgresTaskStore) Update(ctx context.Context, task *models.Task) error {
	input, report, result, err := marshalPayloads(task)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE tasks
		SET status = $2, completed_at = $3, input = $4, report = $5, result = $6, error = $7
		WHERE id = $1`,
		task.ID, task.Status, task.CompletedAt, input, report, result, task.Error)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

// List implements TaskStore.
func (s *PostgresTaskStore) List(ctx context.Context) ([]*models.Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, status, submitted_at, completed_at, input, report, result, error
		FROM tasks ORDER BY submitted_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task rows: %w", err)
	}
	return tasks, nil
}

// AppendLog implements TaskStore.
func (s *PostgresTaskStore) AppendLog(ctx context.Context, taskID uuid.UUID, level, message string) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO task_logs (task_id, level, message) VALUES ($1, $2, $3)",
		taskID, level, message)
	if err != nil {
		return fmt.Errorf("insert task log: %w", err)
	}
	return nil
}

// Logs implements TaskStore.
func (s *PostgresTaskStore) Logs(ctx context.Context, taskID uuid.UUID) ([]models.LogEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, task_id, ts, level, message
		FROM task_logs WHERE task_id = $1 ORDER BY id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("select task logs: %w", err)
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(&e.ID, &e.TaskID, &e.Timestamp, &e.Level, &e.Message); err != nil {
			return nil, fmt.Errorf("scan log row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log rows: %w", err)
	}
	return entries, nil
}

func marshalPayloads(task *models.Task) ([]byte, []byte, []byte, error) {
	input, err := marshalNullable(task.Input)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal task input: %w", err)
	}
	report, err := marshalNullable(task.Report)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal task report: %w", err)
	}
	result, err := marshalNullable(task.Result)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal task result: %w", err)
	}
	return input, report, result, nil
}

func marshalNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var task models.Task
	var input, report, result []byte
	err := row.Scan(&task.ID, &task.Status, &task.SubmittedAt, &task.CompletedAt,
		&input, &report, &result, &task.Error)
	if err != nil {
		return nil, err
	}
	if len(input) > 0 {
		task.Input = &models.AnalysisRequest{}
		if err := json.Unmarshal(input, task.Input); err != nil {
			return nil, fmt.Errorf("unmarshal task input: %w", err)
		}
	}
	if len(report) > 0 {
		task.Report = &models.OptimizationReport{}
		if err := json.Unmarshal(report, task.Report); err != nil {
			return nil, fmt.Errorf("unmarshal task report: %w", err)
		}
	}
	if len(result) > 0 {
		task.Result = &models.AnalysisResult{}
		if err := json.Unmarshal(result, task.Result); err != nil {
			return nil, fmt.Errorf("unmarshal task result: %w", err)
		}
	}
	return &task, nil
}

var _ TaskStore = (*PostgresTaskStore)(nil)
