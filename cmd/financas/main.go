package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"minhasfinancas/internal/cli"
	apphttp "minhasfinancas/internal/http"
	applog "minhasfinancas/internal/log"
	"minhasfinancas/internal/services"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger, nil)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	res := cli.InitBackend(ctx, logger, cfg)
	defer cli.Cleanup(logger, shutdownTimeout, res.Cleanup)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Options{
		Ledger:   services.NewLedgerService(res.Entries),
		Auth:     services.NewAuthService(res.Users),
		Balances: services.NewBalanceService(res.Entries),
		Ready:    res.Ready,
		Logger: applog.New(applog.Config{
			Handler:   logger.Handler(),
			Component: applog.ComponentHTTP,
		}),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		BalanceCacheTTL:    cfg.BalanceCacheTTL,
	})
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting financas server",
			"port", cfg.Port,
			"storage", cfg.DataBackend,
			"events", cfg.EventsBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return srv.RunBackground(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		cli.Cleanup(logger, shutdownTimeout, res.Cleanup)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
