package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schemalens-ai/schemalens-engine/pkg/apperrors"
	"github.com/schemalens-ai/schemalens-engine/pkg/models"
	"github.com/schemalens-ai/schemalens-engine/pkg/pipeline"
	"github.com/schemalens-ai/schemalens-engine/pkg/report"
	"github.com/schemalens-ai/schemalens-engine/pkg/repositories"
)

// TaskHandler exposes task submission and retrieval endpoints.
type TaskHandler struct {
	runner *pipeline.Runner
	store  repositories.TaskStore
	logger *zap.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(runner *pipeline.Runner, store repositories.TaskStore, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{runner: runner, store: store, logger: logger}
}

// RegisterRoutes registers the task API on the given mux.
func (h *TaskHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /new", h.Submit)
	mux.HandleFunc("GET /status/{id}", h.Status)
	mux.HandleFunc("GET /getresult/{id}", h.Result)
	mux.HandleFunc("GET /report/{id}", h.Report)
	mux.HandleFunc("GET /logs/{id}", h.Logs)
}

// SubmitResponse acknowledges an accepted task.
type SubmitResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// Submit handles POST /new: validates the payload and starts a background
// analysis run. Responds 202 with the task id for polling.
func (h *TaskHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = writeError(w, http.StatusBadRequest, "invalid_payload", "request body is not valid JSON")
		return
	}

	task, err := h.runner.Submit(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoInput) {
			_ = writeError(w, http.StatusBadRequest, "no_input", "request contains neither DDL nor queries")
			return
		}
		h.logger.Error("task submission failed", zap.Error(err))
		_ = writeError(w, http.StatusInternalServerError, "internal", "failed to create task")
		return
	}

	_ = writeJSON(w, http.StatusAccepted, SubmitResponse{
		TaskID: task.ID.String(),
		Status: task.Status,
	})
}

// StatusResponse reports a task's lifecycle state.
type StatusResponse struct {
	TaskID      string `json:"task_id"`
	Status      string `json:"status"`
	SubmittedAt string `json:"submitted_at"`
	CompletedAt string `json:"completed_at,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Status handles GET /status/{id}.
func (h *TaskHandler) Status(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}
	resp := StatusResponse{
		TaskID:      task.ID.String(),
		Status:      task.Status,
		SubmittedAt: task.SubmittedAt.Format("2006-01-02T15:04:05Z07:00"),
		Error:       task.Error,
	}
	if task.CompletedAt != nil {
		resp.CompletedAt = task.CompletedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	_ = writeJSON(w, http.StatusOK, resp)
}

// Result handles GET /getresult/{id}: the redesigned schema and rewritten
// queries. Running tasks respond 409, failed tasks 410.
func (h *TaskHandler) Result(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}
	switch task.Status {
	case models.TaskStatusRunning:
		_ = writeError(w, http.StatusConflict, "task_running", apperrors.ErrTaskRunning.Error())
	case models.TaskStatusFailed:
		_ = writeError(w, http.StatusGone, "task_failed", task.Error)
	default:
		if task.Result == nil {
			// Offline run: the report is the terminal artifact.
			_ = writeJSON(w, http.StatusOK, task.Report)
			return
		}
		_ = writeJSON(w, http.StatusOK, task.Result)
	}
}

// Report handles GET /report/{id}: the optimization report, available as
// soon as the analysis phase finished even while LLM steps still run.
func (h *TaskHandler) Report(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}
	if task.Report == nil {
		if task.Status == models.TaskStatusFailed {
			_ = writeError(w, http.StatusGone, "task_failed", task.Error)
			return
		}
		_ = writeError(w, http.StatusConflict, "task_running", apperrors.ErrTaskRunning.Error())
		return
	}
	if r.URL.Query().Get("view") == "dashboard" {
		_ = writeJSON(w, http.StatusOK, report.BuildDashboard(*task.Report))
		return
	}
	_ = writeJSON(w, http.StatusOK, task.Report)
}

// Logs handles GET /logs/{id}.
func (h *TaskHandler) Logs(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}
	entries, err := h.store.Logs(r.Context(), task.ID)
	if err != nil {
		h.logger.Error("failed to load task logs", zap.Error(err))
		_ = writeError(w, http.StatusInternalServerError, "internal", "failed to load logs")
		return
	}
	_ = writeJSON(w, http.StatusOK, entries)
}

func (h *TaskHandler) loadTask(w http.ResponseWriter, r *http.Request) (*models.Task, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = writeError(w, http.StatusBadRequest, "invalid_id", "task id is not a valid UUID")
		return nil, false
	}
	task, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrTaskNotFound) {
			_ = writeError(w, http.StatusNotFound, "not_found", "no such task")
			return nil, false
		}
		h.logger.Error("failed to load task", zap.Error(err))
		_ = writeError(w, http.StatusInternalServerError, "internal", "failed to load task")
		return nil, false
	}
	return task, true
}
