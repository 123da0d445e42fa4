package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, env map[string]string, args ...string) *Config {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg, err := LoadFromArgs(fs, func(k string) string { return env[k] }, args)
	require.NoError(t, err)
	return cfg
}

func TestLoadFromArgs_Defaults(t *testing.T) {
	t.Parallel()

	cfg := load(t, nil)
	require.Equal(t, "greskova", cfg.TableName)
	require.Equal(t, 100, cfg.MaxRows)
	require.False(t, cfg.SkipDB)
	require.False(t, cfg.SkipCSV)
	require.Equal(t, "postgres", cfg.Storage)
	require.Equal(t, DefaultSourceA, cfg.SourceA)
	require.Equal(t, DefaultSourceB, cfg.SourceB)
	require.Equal(t, "csv", cfg.Format)
	require.Equal(t, ".", cfg.OutDir)
	require.Equal(t, "creds.db", cfg.CredsDB)
	require.Equal(t, ".env", cfg.EnvFile)
	require.Equal(t, "abort", cfg.OnCastError)
	require.Equal(t, "none", cfg.MetricsBackend)
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 3, cfg.HTTPRetries)
}

func TestLoadFromArgs_EnvSeedsAndFlagsWin(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"ETL_TABLE_NAME":   "from_env",
		"ETL_MAX_ROWS":     "7",
		"ETL_SKIP_DB":      "yes",
		"ETL_STORAGE":      "sqlite",
		"ETL_HTTP_TIMEOUT": "5s",
	}

	cfg := load(t, env)
	require.Equal(t, "from_env", cfg.TableName)
	require.Equal(t, 7, cfg.MaxRows)
	require.True(t, cfg.SkipDB)
	require.Equal(t, "sqlite", cfg.Storage)
	require.Equal(t, 5*time.Second, cfg.HTTPTimeout)

	cfg = load(t, env, "--table-name=from_flag", "--max-rows", "2", "--skip-db=false", "--skip-csv", "-v")
	require.Equal(t, "from_flag", cfg.TableName)
	require.Equal(t, 2, cfg.MaxRows)
	require.False(t, cfg.SkipDB)
	require.True(t, cfg.SkipCSV)
	require.True(t, cfg.Verbose)
}

func TestLoadFromArgs_BadEnvFallsBack(t *testing.T) {
	t.Parallel()

	cfg := load(t, map[string]string{"ETL_MAX_ROWS": "lots", "ETL_SKIP_DB": "maybe"})
	require.Equal(t, 100, cfg.MaxRows)
	require.False(t, cfg.SkipDB)
}

func TestLoadFromArgs_UnknownFlag(t *testing.T) {
	t.Parallel()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(testWriter{t})
	_, err := LoadFromArgs(fs, func(string) string { return "" }, []string{"--nope"})
	require.Error(t, err)
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
