// Package cli provides process bootstrap helpers for cmd/chargelog.
package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"chargelog/internal/amqp"
	"chargelog/internal/config"
	applog "chargelog/internal/log"
	"chargelog/internal/storage"
)

// SetupLogger initializes structured logging at the given level name and
// installs it as the slog default.
func SetupLogger(level string) *applog.Logger {
	lvl, err := config.ParseLogLevel(level)
	logger := applog.New(applog.NewTextConfig(os.Stdout, lvl, applog.ComponentApp))
	applog.SetDefault(logger)
	if err != nil {
		logger.Warn("Unknown log level, using info", "level", level)
	}
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed",
			applog.NewFields().WithError(err).WithErrorType(applog.ErrorTypeConfiguration).WithOperation(applog.OpStartup).ToSlice()...)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite initializes a SQLite repository with the given path.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// InitAMQP connects the record event publisher when configured. A broker that
// cannot be reached is logged and publishing stays disabled.
func InitAMQP(logger *applog.Logger, cfg *config.Config) *amqp.Client {
	if !cfg.AMQPEnabled() {
		logger.Info("AMQP not configured, record events disabled")
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, record events disabled", "error", err, "exchange", cfg.AMQPExchange)
		return nil
	}
	logger.Info("AMQP publisher connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}

// Server is the part of *http.Server that Serve drives.
type Server interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// Serve runs srv until SIGINT/SIGTERM or ctx cancellation, then shuts it
// down within timeout.
func Serve(ctx context.Context, logger *applog.Logger, srv Server, timeout time.Duration) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	logger.Info("Server starting", applog.FieldOperation, applog.OpStartup)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err, applog.FieldOperation, applog.OpShutdown)
			return err
		}
		logger.Info("Server shut down", applog.FieldOperation, applog.OpShutdown)
		return nil
	})

	return g.Wait()
}
