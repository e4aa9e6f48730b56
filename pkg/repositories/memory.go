package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/schemalens-ai/schemalens-engine/pkg/apperrors"
	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

// MemoryTaskStore keeps tasks in process memory. The default store when no
// database URL is configured; tasks do not survive a restart.
type MemoryTaskStore struct {
	mu     sync.RWMutex
	tasks  map[uuid.UUID]models.Task
	logs   map[uuid.UUID][]models.LogEntry
	nextID int64
}

// NewMemoryTaskStore creates an empty store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks: make(map[uuid.UUID]models.Task),
		logs:  make(map[uuid.UUID][]models.LogEntry),
	}
}

// Create implements TaskStore.
func (s *MemoryTaskStore) Create(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = *task
	return nil
}

// Get implements TaskStore.
func (s *MemoryTaskStore) Get(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, apperrors.ErrTaskNotFound
	}
	copied := task
	return &copied, nil
}

// Update implements TaskStore.
func (s *MemoryTaskStore) Update(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; !ok {
		return apperrors.ErrTaskNotFound
	}
	s.tasks[task.ID] = *task
	return nil
}

// List implements TaskStore.
func (s *MemoryTaskStore) List(ctx context.Context) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := make([]*models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		copied := task
		tasks = append(tasks, &copied)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].SubmittedAt.Equal(tasks[j].SubmittedAt) {
			return tasks[i].SubmittedAt.After(tasks[j].SubmittedAt)
		}
		return tasks[i].ID.String() < tasks[j].ID.String()
	})
	return tasks, nil
}

// AppendLog implements TaskStore.
func (s *MemoryTaskStore) AppendLog(ctx context.Context, taskID uuid.UUID, level, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.logs[taskID] = append(s.logs[taskID], models.LogEntry{
		ID:        s.nextID,
		TaskID:    taskID,
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
	})
	return nil
}

// Logs implements TaskStore.
func (s *MemoryTaskStore) Logs(ctx context.Context, taskID uuid.UUID) ([]models.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.logs[taskID]
	copied := make([]models.LogEntry, len(entries))
	copy(copied, entries)
	return copied, nil
}

var _ TaskStore = (*MemoryTaskStore)(nil)
