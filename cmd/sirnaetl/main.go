// Command sirnaetl fetches the two siRNA source sheets, merges and cleans
// them, derives the typed columns and writes the result to a database table
// and to CSV and parquet files.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"sirnaetl/internal/config"
	"sirnaetl/internal/credentials"
	"sirnaetl/internal/datasource"
	"sirnaetl/internal/datasource/file"
	"sirnaetl/internal/datasource/httpds"
	"sirnaetl/internal/datasource/sheets"
	"sirnaetl/internal/logger"
	"sirnaetl/internal/metrics"
	"sirnaetl/internal/metrics/prompush"
	"sirnaetl/internal/pipeline"
	"sirnaetl/internal/storage"
	"sirnaetl/internal/transformer"

	// register every backend; --storage picks one.
	_ "sirnaetl/internal/storage/all"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}

	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		fmt.Fprintln(os.Stderr, "configuration is invalid")
		return 1
	}

	runID := uuid.NewString()
	log := logger.New(cfg.Verbose)
	slog.SetDefault(log)

	switch cfg.MetricsBackend {
	case "pushgateway":
		b, err := prompush.NewBackend(cfg.MetricsJob, cfg.PushgatewayURL)
		if err != nil {
			log.Warn("metrics: prom push backend unavailable, using nop", "error", err)
			break
		}
		log.Debug("metrics enabled", "url", cfg.PushgatewayURL, "job", cfg.MetricsJob)
		metrics.SetBackend(b.WithGrouping("run_id", runID))
		defer func() {
			if err := metrics.Flush(); err != nil {
				log.Warn("metrics: flush failed", "error", err)
			}
		}()
	case "", "none":
		log.Debug("metrics disabled")
	default:
		log.Warn("metrics: unknown backend, metrics disabled", "backend", cfg.MetricsBackend)
	}

	policy, _ := transformer.ParseCastPolicy(cfg.OnCastError)
	opts := pipeline.Options{
		Job:        cfg.MetricsJob,
		RunID:      runID,
		SourceA:    cfg.SourceA,
		SourceB:    cfg.SourceB,
		Format:     cfg.Format,
		Fetcher:    newFetcher(cfg),
		CastPolicy: policy,
		Table:      cfg.TableName,
		MaxRows:    cfg.MaxRows,
		SkipDB:     cfg.SkipDB,
		SkipCSV:    cfg.SkipCSV,
		OutDir:     cfg.OutDir,
		Log:        log,
	}
	if !cfg.SkipDB {
		b, err := storage.Lookup(cfg.Storage)
		if err != nil {
			fmt.Fprintf(os.Stderr, "storage: %v\n", err)
			return 1
		}
		creds := credentials.Chain{
			credentials.Env{Getenv: os.Getenv, File: cfg.EnvFile},
			credentials.SQLiteStore{Path: cfg.CredsDB},
		}
		opts.Loader = storage.NewLoader(b, creds, cfg.SQLitePath, log)
	}

	p, err := pipeline.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	log.Info("pipeline starting", "run_id", runID, "source_a", cfg.SourceA, "source_b", cfg.SourceB,
		"storage", cfg.Storage, "table", cfg.TableName, "skip_db", cfg.SkipDB)
	sum, err := p.Run(ctx)
	if err != nil {
		printChain(err)
		return 1
	}
	printSummary(sum, time.Since(start))
	return 0
}

func newFetcher(cfg *config.Config) datasource.Fetcher {
	if cfg.SourceDir != "" {
		return file.NewDir(cfg.SourceDir)
	}
	return sheets.New(httpds.NewClient(httpds.Config{
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.HTTPRetries,
	}))
}

// printChain writes err and each error it wraps, outermost first.
func printChain(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	for e := errors.Unwrap(err); e != nil; e = errors.Unwrap(e) {
		fmt.Fprintf(os.Stderr, "  caused by: %v\n", e)
	}
}

func printSummary(s pipeline.Summary, took time.Duration) {
	fmt.Printf("run %s finished in %s\n", s.RunID, took.Truncate(time.Millisecond))
	fmt.Printf("  rows: %d, columns: %d\n", s.Rows, s.Columns)
	fmt.Printf("  raw csv:  %s\n", s.RawPath)
	fmt.Printf("  parquet:  %s (copy %s)\n", s.ParquetPath, s.RootParquetPath)
	if s.CSVPath != "" {
		fmt.Printf("  csv:      %s\n", s.CSVPath)
	}
	switch {
	case s.Loaded():
		fmt.Printf("  table %s: %d inserted, %d failed, %d in table (%s)\n",
			s.Load.Table, s.Load.RowsInserted, s.Load.RowsFailed, s.Load.RowsInTable, storage.ShortVersion(s.Load.ServerVersion))
	case s.LoadErr != nil:
		fmt.Printf("  table %s: not loaded: %v\n", s.Table, s.LoadErr)
	default:
		fmt.Println("  database load skipped")
	}
	for _, f := range s.Report.Findings() {
		fmt.Printf("  warning: %s\n", f)
	}
}
