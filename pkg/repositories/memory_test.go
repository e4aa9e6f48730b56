package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemalens-ai/schemalens-engine/pkg/apperrors"
	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

func TestMemoryTaskStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTaskStore()

	task := &models.Task{
		ID:          uuid.New(),
		Status:      models.TaskStatusRunning,
		SubmittedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Create(ctx, task))

	got, err := store.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusRunning, got.Status)

	now := time.Now().UTC()
	task.Status = models.TaskStatusDone
	task.CompletedAt = &now
	task.Report = &models.OptimizationReport{}
	require.NoError(t, store.Update(ctx, task))

	got, err = store.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.NotNil(t, got.Report)
}

func TestMemoryTaskStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTaskStore()

	_, err := store.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)

	err = store.Update(ctx, &models.Task{ID: uuid.New()})
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
}

func TestMemoryTaskStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTaskStore()

	task := &models.Task{ID: uuid.New(), Status: models.TaskStatusRunning}
	require.NoError(t, store.Create(ctx, task))

	first, err := store.Get(ctx, task.ID)
	require.NoError(t, err)
	first.Status = models.TaskStatusFailed

	second, err := store.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusRunning, second.Status)
}

func TestMemoryTaskStoreList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTaskStore()

	older := &models.Task{ID: uuid.New(), SubmittedAt: time.Now().Add(-time.Hour)}
	newer := &models.Task{ID: uuid.New(), SubmittedAt: time.Now()}
	require.NoError(t, store.Create(ctx, older))
	require.NoError(t, store.Create(ctx, newer))

	tasks, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, newer.ID, tasks[0].ID)
	assert.Equal(t, older.ID, tasks[1].ID)
}

func TestMemoryTaskStoreLogs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTaskStore()
	taskID := uuid.New()

	require.NoError(t, store.AppendLog(ctx, taskID, "info", "analysis started"))
	require.NoError(t, store.AppendLog(ctx, taskID, "warn", "1 statement skipped"))

	entries, err := store.Logs(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "analysis started", entries[0].Message)
	assert.Equal(t, "warn", entries[1].Level)
	assert.True(t, entries[0].ID < entries[1].ID)
}
