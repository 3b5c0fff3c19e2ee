package main

import (
	"context"
	"os"

	"chargelog/internal/cli"
	"chargelog/internal/export"
	apphttp "chargelog/internal/http"
	"chargelog/internal/metrics"
	"chargelog/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	metrics.Init(repo.DB())

	// A nil *amqp.Client must not reach the service as a non-nil interface.
	var svc *services.RecordService
	if client := cli.InitAMQP(logger, cfg); client != nil {
		defer client.Close()
		svc = services.NewRecordService(repo, client)
	} else {
		svc = services.NewRecordService(repo, nil)
	}

	exporter := export.NewExporter(cfg.ExportDir)
	srv := apphttp.NewServer(":"+cfg.Port, svc, exporter, repo, cfg.PostRateLimit)

	logger.Info("Starting chargelog server",
		"port", cfg.Port,
		"db_path", cfg.SQLiteDBPath,
		"export_dir", cfg.ExportDir)

	if err := cli.Serve(context.Background(), logger, srv, cfg.ShutdownTimeout); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
