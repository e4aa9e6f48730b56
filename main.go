package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/schemalens-ai/schemalens-engine/pkg/analysis"
	"github.com/schemalens-ai/schemalens-engine/pkg/config"
	"github.com/schemalens-ai/schemalens-engine/pkg/database"
	"github.com/schemalens-ai/schemalens-engine/pkg/handlers"
	"github.com/schemalens-ai/schemalens-engine/pkg/llm"
	"github.com/schemalens-ai/schemalens-engine/pkg/logging"
	"github.com/schemalens-ai/schemalens-engine/pkg/pipeline"
	"github.com/schemalens-ai/schemalens-engine/pkg/repositories"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load("config.yaml", Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	store, cleanup, err := newTaskStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize task store", zap.Error(err))
	}
	defer cleanup()

	thresholds := analysis.DefaultThresholds()
	if cfg.ThresholdsPath != "" {
		thresholds, err = analysis.LoadThresholds(cfg.ThresholdsPath)
		if err != nil {
			logger.Fatal("Failed to load thresholds", zap.String("path", cfg.ThresholdsPath), zap.Error(err))
		}
	}

	llmClient, err := llm.NewFromConfig(cfg.LLM, logger)
	if err != nil {
		logger.Fatal("Failed to initialize LLM client", zap.Error(err))
	}
	if llmClient == nil {
		logger.Info("No LLM provider configured, running in report-only mode")
	} else {
		logger.Info("LLM provider configured", zap.String("model", llmClient.GetModel()))
	}

	runner := pipeline.NewRunner(pipeline.Config{
		Store:     store,
		LLMClient: llmClient,
		Timeout:   time.Duration(cfg.TaskTimeoutMinutes) * time.Minute,
	}, thresholds, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg.Version, logger).RegisterRoutes(mux)
	handlers.NewTaskHandler(runner, store, logger).RegisterRoutes(mux)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting schemalens-engine",
			zap.String("addr", cfg.Addr()),
			zap.String("env", cfg.Env),
			zap.String("version", cfg.Version))
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	case sig := <-stop:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed", zap.Error(err))
		}
	}
}

// newTaskStore picks the task store backend. A configured DATABASE_URL gets
// the PostgreSQL store with migrations applied; otherwise tasks live in
// memory and do not survive restarts.
func newTaskStore(cfg *config.Config, logger *zap.Logger) (repositories.TaskStore, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("No DATABASE_URL configured, using in-memory task store")
		return repositories.NewMemoryTaskStore(), func() {}, nil
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(db, cfg.MigrationsPath, logger); err != nil {
		db.Close() //nolint:errcheck
		return nil, nil, err
	}
	if err := db.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, nil, err
	}

	logger.Info("Using PostgreSQL task store")
	return repositories.NewPostgresTaskStore(pool), pool.Close, nil
}
