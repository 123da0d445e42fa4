// Package pipeline runs one extract, transform and load pass:
//
//	fetch A, fetch B -> parse -> merge -> clean -> raw CSV
//	-> derive -> hard gate -> soft report -> [load] -> parquet -> [final CSV]
//
// Every failure is fatal except the database load, whose failure is logged
// and recorded in the Summary so the file outputs are still produced.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"sirnaetl/internal/credentials"
	"sirnaetl/internal/dataset"
	"sirnaetl/internal/datasource"
	"sirnaetl/internal/metrics"
	csvparser "sirnaetl/internal/parser/csv"
	"sirnaetl/internal/persist"
	"sirnaetl/internal/storage"
	"sirnaetl/internal/transformer"
	"sirnaetl/internal/validate"
)

// Loader writes a dataset into a table. *storage.Loader implements it.
type Loader interface {
	Load(ctx context.Context, d *dataset.Dataset, table string, rowCap int) (storage.LoadResult, error)
}

// Options configures a Pipeline.
type Options struct {
	// Job labels metrics. Defaults to "sirnaetl".
	Job   string
	RunID string

	SourceA string
	SourceB string
	Format  string
	Fetcher datasource.Fetcher

	CastPolicy transformer.CastPolicy

	// Loader is required unless SkipDB is set.
	Loader  Loader
	Table   string
	MaxRows int
	SkipDB  bool
	SkipCSV bool

	OutDir string
	Log    *slog.Logger
}

// Summary describes a finished run.
type Summary struct {
	RunID string

	RawPath         string
	ParquetPath     string
	RootParquetPath string
	CSVPath         string // empty when skipped

	Table   string
	Load    *storage.LoadResult // nil when skipped or failed
	LoadErr error

	Rows    int
	Columns int

	Merge  transformer.MergeStats
	Clean  transformer.CleanStats
	Derive transformer.DeriveStats
	Report validate.Report
}

// Loaded reports whether the database load ran and succeeded.
func (s Summary) Loaded() bool { return s.Load != nil && s.LoadErr == nil }

// Pipeline is a configured run.
type Pipeline struct {
	opts   Options
	parser *csvparser.Parser
	log    *slog.Logger
}

// New validates opts and builds a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("pipeline: a fetcher is required")
	}
	if !opts.SkipDB && opts.Loader == nil {
		return nil, errors.New("pipeline: a loader is required unless the database load is skipped")
	}
	parser, err := csvparser.ForFormat(opts.Format)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if opts.Format == "" {
		opts.Format = "csv"
	}
	if opts.Job == "" {
		opts.Job = "sirnaetl"
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{opts: opts, parser: parser, log: log.With("run_id", opts.RunID)}, nil
}

func (p *Pipeline) path(rel string) string { return filepath.Join(p.opts.OutDir, rel) }

// step times fn and records it under name.
func (p *Pipeline) step(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(p.opts.Job, name, err, time.Since(start))
	return err
}

// Run executes the pipeline once.
func (p *Pipeline) Run(ctx context.Context) (sum Summary, err error) {
	o := p.opts
	sum = Summary{RunID: o.RunID, Table: o.Table}
	defer func() { metrics.RecordRun(o.Job, err) }()

	a, err := p.fetch(ctx, "fetch_a", o.SourceA)
	if err != nil {
		return sum, err
	}
	b, err := p.fetch(ctx, "fetch_b", o.SourceB)
	if err != nil {
		return sum, err
	}

	var merged *dataset.Dataset
	err = p.step("merge", func() (err error) {
		merged, sum.Merge, err = transformer.Merge(a, b, transformer.KeyColumn)
		return err
	})
	if err != nil {
		return sum, fmt.Errorf("merge: %w", err)
	}
	metrics.RecordRow(o.Job, metrics.RowsMerged, int64(merged.Len()))
	p.log.Info("merged", "rows", merged.Len(), "columns", merged.Width(),
		"left_rows", sum.Merge.LeftRows, "right_rows", sum.Merge.RightRows, "alias_renamed", sum.Merge.AliasRenamed)
	if len(sum.Merge.Suffixed) > 0 {
		p.log.Debug("suffixed overlapping columns", "columns", sum.Merge.Suffixed)
	}

	start := time.Now()
	cleaned, cleanStats := transformer.Clean(merged)
	sum.Clean = cleanStats
	metrics.RecordStep(o.Job, "clean", nil, time.Since(start))
	metrics.RecordRow(o.Job, metrics.RowsCleaned, int64(cleaned.Len()))
	p.log.Info("cleaned", "rows", cleaned.Len(), "columns", cleaned.Width(),
		"dropped_columns", sum.Clean.ColumnsDropped, "dropped_rows", sum.Clean.RowsDropped)

	sum.RawPath = p.path(persist.RawCSVPath)
	if err := p.step("write_raw", func() error { return persist.WriteCSV(sum.RawPath, cleaned) }); err != nil {
		return sum, err
	}
	p.log.Info("wrote raw data", "path", sum.RawPath)

	var derived *dataset.Dataset
	err = p.step("derive", func() (err error) {
		derived, sum.Derive, err = transformer.Derive(cleaned, o.CastPolicy)
		return err
	})
	if err != nil {
		return sum, fmt.Errorf("derive: %w", err)
	}
	metrics.RecordRow(o.Job, metrics.RowsDerived, int64(derived.Len()))
	metrics.RecordRow(o.Job, metrics.RowsCastDropped, int64(sum.Derive.DroppedCast))
	p.log.Info("derived", "rows", derived.Len(), "dropped_no_match", sum.Derive.DroppedNoMatch,
		"dropped_cast", sum.Derive.DroppedCast, "policy", o.CastPolicy.String())
	if len(sum.Derive.MissingSources) > 0 {
		p.log.Warn("source columns absent, nothing derived from them", "columns", sum.Derive.MissingSources)
	}

	if err := p.step("validate", func() error { return validate.ValidateRaw(derived) }); err != nil {
		return sum, err
	}

	sum.Report = validate.ReportTransformed(derived)
	for _, f := range sum.Report.Findings() {
		p.log.Warn("data check", "finding", f)
	}
	for _, t := range sum.Report.Types {
		p.log.Debug("column type", "column", t.Column, "kind", t.Kind.String(), "numeric", t.Numeric)
	}

	if o.SkipDB {
		p.log.Info("database load skipped")
	} else if err := p.load(ctx, derived, &sum); err != nil {
		return sum, err
	}

	sum.ParquetPath = p.path(persist.ProcessedParquetPath)
	sum.RootParquetPath = p.path(persist.RootParquetPath)
	err = p.step("write_parquet", func() error {
		if err := persist.WriteParquet(sum.ParquetPath, derived); err != nil {
			return err
		}
		return persist.WriteParquet(sum.RootParquetPath, derived)
	})
	if err != nil {
		return sum, err
	}
	p.log.Info("wrote parquet", "path", sum.ParquetPath, "copy", sum.RootParquetPath)

	if o.SkipCSV {
		p.log.Info("csv output skipped")
	} else {
		path := p.path(persist.FinalCSVPath)
		if err := p.step("write_csv", func() error { return persist.WriteCSV(path, derived) }); err != nil {
			return sum, err
		}
		sum.CSVPath = path
		p.log.Info("wrote csv", "path", path)
	}

	sum.Rows, sum.Columns = derived.Len(), derived.Width()
	p.log.Info("pipeline finished", "rows", sum.Rows, "columns", sum.Columns, "loaded", sum.Loaded())
	return sum, nil
}

func (p *Pipeline) fetch(ctx context.Context, step, id string) (*dataset.Dataset, error) {
	var d *dataset.Dataset
	err := p.step(step, func() error {
		raw, err := p.opts.Fetcher.Fetch(ctx, id, p.opts.Format)
		if err != nil {
			return err
		}
		d, err = p.parser.ParseBytes(raw)
		if err != nil {
			return &datasource.FetchError{ID: id, Format: p.opts.Format, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordRow(p.opts.Job, metrics.RowsFetched, int64(d.Len()))
	p.log.Info("fetched", "source", id, "rows", d.Len(), "columns", d.Width())
	return d, nil
}

// load runs the Loader. Only a credentials failure is returned; anything
// else is recorded in sum and the run carries on.
func (p *Pipeline) load(ctx context.Context, d *dataset.Dataset, sum *Summary) error {
	var res storage.LoadResult
	err := p.step("load", func() (err error) {
		res, err = p.opts.Loader.Load(ctx, d, p.opts.Table, p.opts.MaxRows)
		return err
	})
	var credErr *credentials.Error
	switch {
	case errors.As(err, &credErr):
		return fmt.Errorf("load: %w", err)
	case err != nil:
		sum.LoadErr = err
		p.log.Error("database load failed, continuing with file outputs", "table", p.opts.Table, "error", err)
		return nil
	}
	sum.Load = &res
	metrics.RecordRow(p.opts.Job, metrics.RowsInserted, int64(res.RowsInserted))
	metrics.RecordRow(p.opts.Job, metrics.RowsLoadFailed, int64(res.RowsFailed))
	p.log.Info("loaded", "table", res.Table, "inserted", res.RowsInserted, "failed", res.RowsFailed,
		"rows_in_table", res.RowsInTable, "server", res.ServerVersion, "database", res.Database)
	return nil
}
