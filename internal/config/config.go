// Package config holds the run configuration. Every setting is a command-line
// flag whose default is seeded from an environment variable, so the same
// binary works from a shell, a cron entry or a container.
//
// For tests, use LoadFromArgs with a private FlagSet and a map-backed getenv:
//
//	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
//	cfg, err := config.LoadFromArgs(fs, func(k string) string { return env[k] }, []string{"--skip-db"})
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Published spreadsheet ids of the two source datasets.
const (
	DefaultSourceA = "1scmkeENxadknow2rZ6H9LiG9m_BJmkBH"
	DefaultSourceB = "1G6m-QoLgdWbOV3rSUBOaxn1cQBKkKk1H"
)

// Config is the fully resolved run configuration.
type Config struct {
	// Destination table and row cap.
	TableName string
	MaxRows   int

	SkipDB  bool
	SkipCSV bool
	Verbose bool

	// Storage backend kind and, for sqlite, the database file.
	Storage    string
	SQLitePath string

	// Sources. When SourceDir is set, <dir>/<id>.<format> is read from disk.
	SourceA   string
	SourceB   string
	Format    string
	SourceDir string

	OutDir string

	// Credential fallbacks.
	CredsDB string
	EnvFile string

	OnCastError string

	MetricsBackend string
	PushgatewayURL string
	MetricsJob     string

	HTTPTimeout time.Duration
	HTTPRetries int
}

// LoadFromArgs defines flags on fs, seeds each default from getenv and
// parses args.
//
// Precedence:
//  1. built-in defaults
//  2. environment variables
//  3. explicit flags in args
func LoadFromArgs(fs *pflag.FlagSet, getenv func(string) string, args []string) (*Config, error) {
	cfg := &Config{}

	envOr := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	intEnvOr := func(k string, d int) int {
		if v := getenv(k); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
		return d
	}
	boolEnvOr := func(k string, d bool) bool {
		switch strings.ToLower(getenv(k)) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
		return d
	}
	durEnvOr := func(k string, d time.Duration) time.Duration {
		if v := getenv(k); v != "" {
			if x, err := time.ParseDuration(v); err == nil {
				return x
			}
		}
		return d
	}

	fs.StringVar(&cfg.TableName, "table-name", envOr("ETL_TABLE_NAME", "greskova"), "Destination table name")
	fs.IntVar(&cfg.MaxRows, "max-rows", intEnvOr("ETL_MAX_ROWS", 100), "Maximum number of rows written to the database")
	fs.BoolVar(&cfg.SkipDB, "skip-db", boolEnvOr("ETL_SKIP_DB", false), "Skip the database load")
	fs.BoolVar(&cfg.SkipCSV, "skip-csv", boolEnvOr("ETL_SKIP_CSV", false), "Skip writing new_data.csv")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", boolEnvOr("ETL_VERBOSE", false), "Debug logging")

	fs.StringVar(&cfg.Storage, "storage", envOr("ETL_STORAGE", "postgres"), "Storage backend: postgres, sqlite, mssql or mysql")
	fs.StringVar(&cfg.SQLitePath, "sqlite-path", envOr("ETL_SQLITE_PATH", "etl.db"), "SQLite database file (storage=sqlite)")

	fs.StringVar(&cfg.SourceA, "source-a", envOr("ETL_SOURCE_A", DefaultSourceA), "Spreadsheet id of the first dataset")
	fs.StringVar(&cfg.SourceB, "source-b", envOr("ETL_SOURCE_B", DefaultSourceB), "Spreadsheet id of the second dataset")
	fs.StringVar(&cfg.Format, "format", envOr("ETL_FORMAT", "csv"), "Export format: csv or tsv")
	fs.StringVar(&cfg.SourceDir, "source-dir", getenv("ETL_SOURCE_DIR"), "Read <dir>/<id>.<format> instead of downloading")
	fs.StringVar(&cfg.OutDir, "out-dir", envOr("ETL_OUT_DIR", "."), "Base directory for output files")

	fs.StringVar(&cfg.CredsDB, "creds-db", envOr("ETL_CREDS_DB", "creds.db"), "SQLite credential store used when the environment is incomplete")
	fs.StringVar(&cfg.EnvFile, "env-file", envOr("ETL_ENV_FILE", ".env"), "Dotenv file with DB_* settings")

	fs.StringVar(&cfg.OnCastError, "on-cast-error", envOr("ETL_ON_CAST_ERROR", "abort"), "Derived value that fails its numeric cast: abort or drop")

	fs.StringVar(&cfg.MetricsBackend, "metrics-backend", envOr("METRICS_BACKEND", "none"), "Metrics backend: none or pushgateway")
	fs.StringVar(&cfg.PushgatewayURL, "pushgateway-url", getenv("PUSHGATEWAY_URL"), "Pushgateway base URL")
	fs.StringVar(&cfg.MetricsJob, "metrics-job", envOr("METRICS_JOB", "sirnaetl"), "Pushgateway job name")

	fs.DurationVar(&cfg.HTTPTimeout, "http-timeout", durEnvOr("ETL_HTTP_TIMEOUT", 30*time.Second), "Per-request timeout for source downloads")
	fs.IntVar(&cfg.HTTPRetries, "http-retries", intEnvOr("ETL_HTTP_RETRIES", 3), "Retries for 429/5xx or transport errors")

	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads os.Args and the process environment.
func Load() (*Config, error) {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	return LoadFromArgs(fs, os.Getenv, os.Args[1:])
}
