// Package pipeline orchestrates one analysis task from submission to its
// terminal state: parse, analyze, profile, report, and the optional
// LLM-driven redesign steps.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schemalens-ai/schemalens-engine/pkg/analysis"
	"github.com/schemalens-ai/schemalens-engine/pkg/apperrors"
	"github.com/schemalens-ai/schemalens-engine/pkg/llm"
	"github.com/schemalens-ai/schemalens-engine/pkg/logging"
	"github.com/schemalens-ai/schemalens-engine/pkg/models"
	"github.com/schemalens-ai/schemalens-engine/pkg/profiler"
	"github.com/schemalens-ai/schemalens-engine/pkg/prompts"
	"github.com/schemalens-ai/schemalens-engine/pkg/report"
	"github.com/schemalens-ai/schemalens-engine/pkg/repositories"
	"github.com/schemalens-ai/schemalens-engine/pkg/sqlscan"
)

const (
	defaultTaskTimeout = 10 * time.Minute
	// failureMarkTimeout bounds the store writes that record a failure.
	// Independent of the run deadline: when the failure is the run timeout
	// itself, the run context is already expired.
	failureMarkTimeout = 30 * time.Second
	llmTemperature     = 0.2
	llmRetries         = 1
)

// Runner executes analysis tasks in the background. The LLM client is
// optional; without one the pipeline completes after report assembly.
type Runner struct {
	store      repositories.TaskStore
	collector  *profiler.Collector
	assembler  *report.Assembler
	parser     *sqlscan.DDLParser
	extractor  *sqlscan.PatternExtractor
	llmClient  llm.Client
	thresholds analysis.Thresholds
	timeout    time.Duration
	logger     *zap.Logger
}

// Config wires a Runner. Store is required; LLMClient may be nil. A zero
// Timeout uses the default.
type Config struct {
	Store     repositories.TaskStore
	Collector *profiler.Collector
	LLMClient llm.Client
	Timeout   time.Duration
}

// NewRunner creates a Runner. A nil logger disables logging.
func NewRunner(cfg Config, thresholds analysis.Thresholds, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("pipeline")
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTaskTimeout
	}
	collector := cfg.Collector
	if collector == nil {
		collector = profiler.NewCollector(logger)
	}
	synthesizer := analysis.NewSynthesizer(thresholds, logger)
	return &Runner{
		store:      cfg.Store,
		collector:  collector,
		assembler:  report.NewAssembler(synthesizer, logger),
		parser:     sqlscan.NewDDLParser(logger),
		extractor:  sqlscan.NewPatternExtractor(logger),
		llmClient:  cfg.LLMClient,
		thresholds: thresholds,
		timeout:    timeout,
		logger:     logger,
	}
}

// Submit validates the request, persists a RUNNING task, and starts the
// background run. The task id is usable for status polling immediately.
func (r *Runner) Submit(ctx context.Context, req models.AnalysisRequest) (*models.Task, error) {
	if len(req.DDL) == 0 && len(req.Queries) == 0 {
		return nil, apperrors.ErrNoInput
	}
	task := &models.Task{
		ID:          uuid.New(),
		Status:      models.TaskStatusRunning,
		SubmittedAt: time.Now().UTC(),
		Input:       &req,
	}
	if err := r.store.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	r.logger.Info("task submitted",
		zap.String("task_id", task.ID.String()),
		zap.Int("ddl_statements", len(req.DDL)),
		zap.Int("queries", len(req.Queries)))

	go r.run(task.ID, req)
	return task, nil
}

// run executes one task to its terminal state. Detached from the submit
// context: the caller's request ending must not cancel the analysis.
func (r *Runner) run(taskID uuid.UUID, req models.AnalysisRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.execute(ctx, taskID, req); err != nil {
		r.logger.Error("task failed",
			zap.String("task_id", taskID.String()),
			zap.String("error", logging.SanitizeError(err)))
		failCtx, failCancel := context.WithTimeout(context.Background(), failureMarkTimeout)
		defer failCancel()
		r.fail(failCtx, taskID, err)
	}
}

func (r *Runner) execute(ctx context.Context, taskID uuid.UUID, req models.AnalysisRequest) error {
	r.log(ctx, taskID, "info", "analysis started")

	tables := r.parser.ParseStatements(req.DDL)
	if skipped := len(req.DDL) - len(tables); skipped > 0 {
		r.log(ctx, taskID, "warn", fmt.Sprintf("%d DDL statement(s) skipped", skipped))
	}
	patterns := r.extractor.ExtractAll(req.Queries)
	stats := analysis.Aggregate(patterns, r.thresholds)

	profile := r.collector.Profile(ctx, req.URL, tables)
	if profile != nil && profile.Error != "" {
		r.log(ctx, taskID, "warn", "live profiling degraded: "+profile.Error)
	}

	optReport := r.assembler.Assemble(tables, req.Queries, patterns, stats, profile)
	if r.llmClient == nil {
		findings := report.ScanAntiPatterns(req.Queries)
		optReport.FallbackSummary = report.RenderFallbackReport(optReport, findings)
	}

	task, err := r.store.Get(ctx, taskID)
	if err != nil {
		return err
	}
	task.Report = &optReport
	if err := r.store.Update(ctx, task); err != nil {
		return fmt.Errorf("persist report: %w", err)
	}
	r.log(ctx, taskID, "info", "report assembled")

	if r.llmClient == nil {
		r.log(ctx, taskID, "info", "no llm configured, completing with report only")
		return r.complete(ctx, taskID, nil)
	}

	result, err := r.redesign(ctx, taskID, optReport, req.Queries)
	if err != nil {
		return err
	}
	return r.complete(ctx, taskID, result)
}

// redesign runs the two LLM steps: schema redesign, then query rewrite with
// a completeness check on the returned query set.
func (r *Runner) redesign(ctx context.Context, taskID uuid.UUID, optReport models.OptimizationReport, queries []models.QueryRecord) (*models.AnalysisResult, error) {
	var schema struct {
		DDL        []models.DDLStatement `json:"ddl"`
		Migrations []string              `json:"migrations"`
	}
	prompt := prompts.BuildRedesignPrompt(optReport.AgentInput)
	if err := r.generateJSON(ctx, prompt, prompts.RedesignSystemMessage, &schema); err != nil {
		return nil, fmt.Errorf("schema redesign step: %w", err)
	}
	if len(schema.DDL) == 0 {
		return nil, fmt.Errorf("schema redesign step: response contained no DDL")
	}
	r.log(ctx, taskID, "info", fmt.Sprintf("redesign produced %d statement(s)", len(schema.DDL)))

	result := &models.AnalysisResult{DDL: schema.DDL}
	for _, m := range schema.Migrations {
		result.Migrations = append(result.Migrations, models.DDLStatement{Statement: m})
	}

	if len(queries) > 0 {
		var rewritten struct {
			Queries []models.RewrittenQuery `json:"queries"`
		}
		prompt = prompts.BuildRewritePrompt(schema.DDL, queries)
		if err := r.generateJSON(ctx, prompt, prompts.RewriteSystemMessage, &rewritten); err != nil {
			return nil, fmt.Errorf("query rewrite step: %w", err)
		}
		if len(rewritten.Queries) != len(queries) {
			return nil, fmt.Errorf("query rewrite step: expected %d queries, got %d",
				len(queries), len(rewritten.Queries))
		}
		result.Queries = rewritten.Queries
		r.log(ctx, taskID, "info", fmt.Sprintf("rewrote %d query(ies)", len(result.Queries)))
	}
	return result, nil
}

// generateJSON calls the LLM and decodes the JSON payload, retrying once on
// malformed output.
func (r *Runner) generateJSON(ctx context.Context, prompt, system string, v any) error {
	var lastErr error
	for attempt := 0; attempt <= llmRetries; attempt++ {
		response, err := r.llmClient.GenerateResponse(ctx, prompt, system, llmTemperature)
		if err != nil {
			lastErr = err
			continue
		}
		if err := llm.DecodeJSON(response, v); err != nil {
			lastErr = fmt.Errorf("decode response: %w", err)
			continue
		}
		return nil
	}
	return lastErr
}

func (r *Runner) complete(ctx context.Context, taskID uuid.UUID, result *models.AnalysisResult) error {
	task, err := r.store.Get(ctx, taskID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	task.Status = models.TaskStatusDone
	task.CompletedAt = &now
	task.Result = result
	if err := r.store.Update(ctx, task); err != nil {
		return fmt.Errorf("persist completion: %w", err)
	}
	r.log(ctx, taskID, "info", "analysis complete")
	r.logger.Info("task complete", zap.String("task_id", taskID.String()))
	return nil
}

func (r *Runner) fail(ctx context.Context, taskID uuid.UUID, cause error) {
	task, err := r.store.Get(ctx, taskID)
	if err != nil {
		r.logger.Error("failed to load task for failure update", zap.Error(err))
		return
	}
	now := time.Now().UTC()
	task.Status = models.TaskStatusFailed
	task.CompletedAt = &now
	task.Error = logging.SanitizeError(cause)
	if err := r.store.Update(ctx, task); err != nil {
		r.logger.Error("failed to persist task failure", zap.Error(err))
		return
	}
	r.log(ctx, taskID, "error", task.Error)
}

func (r *Runner) log(ctx context.Context, taskID uuid.UUID, level, message string) {
	if err := r.store.AppendLog(ctx, taskID, level, message); err != nil {
		r.logger.Warn("failed to append task log", zap.Error(err))
	}
}
