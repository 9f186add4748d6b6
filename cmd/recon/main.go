/*
main.go - Reconciliation run entry point

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Build the zap logger
  3. Load configuration (.env + environment)
  4. Open the staging database session (pgx)
  5. Run the pipeline; write snapshot artifacts
  6. Optionally serve the reports over HTTP

COMMAND-LINE FLAGS:
  -serve   Address to serve the report API on after a successful run
           (e.g. ":8080"). Empty (the default) exits after the run.

ENVIRONMENT:
  DB_NAME, DB_HOST, DB_PORT, DB_USER, DB_PWD, DB_SSLMODE
  PAYSHEET_DIR, SNAPSHOT_DIR
  INSPECT_FROM, INSPECT_TO   (YYYY-MM-DD, inclusive window)
  A .env file in the working directory is honored.

FAILURE POLICY:
  Every fatal error is caught here, logged with context, and terminates
  the process with a non-zero exit code. The database session is released
  on all exit paths.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/allstake/payrecon/api"
	"github.com/allstake/payrecon/config"
	"github.com/allstake/payrecon/paysheet"
	"github.com/allstake/payrecon/pipeline"
	"github.com/allstake/payrecon/recon"
	"github.com/allstake/payrecon/staging"
)

func main() {
	logger, err := newLogger()
	if err != nil {
		os.Stderr.WriteString("logger init failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	// os.Exit skips deferred calls, so the whole run lives in a helper
	// whose defers (session close, server shutdown) complete first.
	code := run(logger)
	_ = logger.Sync()
	os.Exit(code)
}

func run(logger *zap.Logger) int {
	serve := flag.String("serve", "", "serve the report API on this address after the run")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", zap.Error(err))
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reader, err := staging.Open(ctx, "pgx", cfg.DSN())
	if err != nil {
		logger.Error("database connection failed", zap.Error(err))
		if errors.Is(err, recon.ErrConnection) {
			logger.Error("check that PostgreSQL is running and the .env credentials are current")
		}
		return 1
	}
	defer reader.Close()

	p := pipeline.New(reader, paysheet.NewAggregator(logger), logger, pipeline.Options{
		PaysheetDir: cfg.PaysheetDir,
		SnapshotDir: cfg.SnapshotDir,
		From:        cfg.InspectFrom,
		To:          cfg.InspectTo,
	})

	result, err := p.Run(ctx)
	if err != nil {
		logger.Error("reconciliation run failed", zap.Error(err))
		return 1
	}
	logger.Info("reconciliation run finished",
		zap.Int("jobs", len(result.Reconciliation)),
		zap.String("snapshots", cfg.SnapshotDir))

	if *serve == "" {
		return 0
	}

	srv := &http.Server{
		Addr:    *serve,
		Handler: api.NewRouter(api.NewHandler(cfg.SnapshotDir, logger)),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving reports", zap.String("addr", *serve))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("report server failed", zap.Error(err))
		return 1
	}
	return 0
}

// newLogger builds the production JSON logger: ISO8601 timestamps,
// stdout for entries, stderr for internal errors.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
