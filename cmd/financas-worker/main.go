// Command financas-worker consumes entry events and appends a row per event
// to the journal spreadsheet.
package main

import (
	"os"
	"time"

	"minhasfinancas/internal/backend"
	"minhasfinancas/internal/cli"
	"minhasfinancas/internal/config"
	"minhasfinancas/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	factory := backend.NewFactory(logger)

	// The worker only reads entries, so the store must not publish.
	storageCfg := backendCfg
	storageCfg.Events = backend.NoEvents
	res, err := factory.CreateBackend(ctx, storageCfg)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err, "storage", cfg.DataBackend)
		os.Exit(1)
	}

	src, closeSource, err := factory.CreateEventSource(backendCfg)
	if err != nil {
		logger.Error("Failed to initialize event source", "error", err, "events", cfg.EventsBackend)
		cli.Cleanup(logger, shutdownTimeout, res.Cleanup)
		os.Exit(1)
	}

	journal, err := factory.CreateJournal(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize journal", "error", err)
		cli.Cleanup(logger, shutdownTimeout, closeSource)
		cli.Cleanup(logger, shutdownTimeout, res.Cleanup)
		os.Exit(1)
	}

	logger.Info("Starting financas-worker",
		"events", cfg.EventsBackend,
		"storage", cfg.DataBackend,
		"journal_enabled", cfg.GoogleSpreadsheetID != "")

	runErr := worker.NewJournalWorker(res.Entries, journal).Run(ctx, src)

	cli.Cleanup(logger, shutdownTimeout, closeSource)
	cli.Cleanup(logger, shutdownTimeout, res.Cleanup)
	if runErr != nil {
		logger.Error("Journal worker stopped", "error", runErr)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
