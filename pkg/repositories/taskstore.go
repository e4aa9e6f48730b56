// Package repositories persists analysis tasks and their logs.
package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

// TaskStore persists tasks across their lifecycle. Implementations must be
// safe for concurrent use; the pipeline updates tasks from background
// goroutines while handlers read them.
type TaskStore interface {
	// Create persists a new task.
	Create(ctx context.Context, task *models.Task) error

	// Get returns a task by id. Returns apperrors.ErrTaskNotFound when no
	// such task exists.
	Get(ctx context.Context, id uuid.UUID) (*models.Task, error)

	// Update overwrites an existing task. Returns apperrors.ErrTaskNotFound
	// when no such task exists.
	Update(ctx context.Context, task *models.Task) error

	// List returns all tasks ordered by submission time, newest first.
	List(ctx context.Context) ([]*models.Task, error)

	// AppendLog records one per-task log line.
	AppendLog(ctx context.Context, taskID uuid.UUID, level, message string) error

	// Logs returns a task's log lines in insertion order.
	Logs(ctx context.Context, taskID uuid.UUID) ([]models.LogEntry, error)
}
