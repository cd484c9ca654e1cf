package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"portfolio_backend/internal/config"
	"portfolio_backend/internal/platform/database"
	"portfolio_backend/internal/platform/elasticsearch"
	"portfolio_backend/internal/platform/logger"
	"portfolio_backend/internal/project"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	if len(os.Args) > 1 && os.Args[1] == "sync-projects" {
		if err := runProjectSync(cfg, appLogger, os.Args[2:]); err != nil {
			appLogger.Fatal("Project synchronization failed", zap.Error(err))
		}
		return
	}

	startServer(cfg, appLogger)
}

func startServer(cfg *config.Config, appLogger *zap.Logger) {
	server, cleanup, err := initializeServer(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize server", zap.Error(err))
	}
	defer cleanup()

	if err := server.Prepare(context.Background()); err != nil {
		appLogger.Fatal("Failed to prepare server", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		appLogger.Info("Received signal, shutting down server", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			appLogger.Error("Server stopped unexpectedly", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	appLogger.Info("Server shutdown complete")
}

// runProjectSync re-indexes every project into Elasticsearch.
func runProjectSync(cfg *config.Config, appLogger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("sync-projects", flag.ContinueOnError)
	batchSize := fs.Int("batch-size", 100, "Batch size for syncing projects")
	esRefresh := fs.String("es-refresh", "false", "Elasticsearch refresh policy (true, false, wait_for)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, closeDB, err := database.NewGORM(cfg, appLogger)
	if err != nil {
		return err
	}
	defer closeDB()

	esClient, err := elasticsearch.NewClient(cfg, appLogger)
	if err != nil {
		return err
	}
	if esClient == nil {
		return errors.New("ELASTICSEARCH_URL must be set to sync projects")
	}

	ctx := context.Background()
	index := project.NewESIndex(esClient, appLogger).WithRefresh(*esRefresh)
	if err := index.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure projects index: %w", err)
	}

	result, err := index.SyncAll(ctx, project.NewGORMRepository(db, cfg), *batchSize)
	if err != nil {
		return err
	}
	appLogger.Info("Project synchronization completed successfully", zap.Int("indexed", result.Indexed))
	return nil
}
