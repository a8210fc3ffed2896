package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rodrigozago/sietch-faces/internal/api"
	"github.com/rodrigozago/sietch-faces/internal/config"
	"github.com/rodrigozago/sietch-faces/internal/database"
	"github.com/rodrigozago/sietch-faces/internal/face"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Sietch Faces API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run pending migrations before opening the pool
	sqlDB, err := database.NewSQLDB(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	migrator, err := database.NewMigrator(sqlDB, "")
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("migrator close", slog.Any("error", err))
	}

	// Connection pool
	poolCfg := database.DefaultPoolConfig(cfg.DatabaseURL)
	pool, err := database.NewPool(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	detector, err := face.NewFaceDetector(cfg)
	if err != nil {
		return err
	}
	logger.Info("face detector ready", slog.String("type", cfg.DetectorType))

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		DB:       pool,
		Detector: detector,
		Config:   cfg,
	})
	router.Setup()

	// Load the claimed-face index; the API works without it, so a failure
	// here only logs
	if err := router.WarmIndex(ctx); err != nil {
		logger.Warn("index warmup failed", slog.Any("error", err))
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
