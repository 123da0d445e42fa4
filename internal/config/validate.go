package config

import (
	"fmt"
	"net/url"
	"strings"

	"sirnaetl/internal/storage"
	"sirnaetl/internal/transformer"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks the run.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is reported but does not block the run.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a single validation finding. Path names the flag.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks cfg without mutating it. Storage kinds are checked
// against the registered backends, so callers must import the backends
// first.
func Validate(cfg *Config) []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(cfg.TableName) == "" {
		add(SeverityError, "table-name", "table name must not be empty")
	}
	if cfg.MaxRows < 0 {
		add(SeverityError, "max-rows", "max-rows must be >= 0, got %d", cfg.MaxRows)
	} else if cfg.MaxRows == 0 && !cfg.SkipDB {
		add(SeverityWarning, "max-rows", "max-rows is 0; the table will be truncated and left empty")
	}

	if !cfg.SkipDB {
		if _, err := storage.Lookup(cfg.Storage); err != nil {
			add(SeverityError, "storage", "%v (known: %s)", err, strings.Join(storage.ListKinds(), ", "))
		}
		if cfg.Storage == "sqlite" && strings.TrimSpace(cfg.SQLitePath) == "" {
			add(SeverityError, "sqlite-path", "storage=sqlite requires a database path")
		}
	}

	if strings.TrimSpace(cfg.SourceA) == "" {
		add(SeverityError, "source-a", "source id must not be empty")
	}
	if strings.TrimSpace(cfg.SourceB) == "" {
		add(SeverityError, "source-b", "source id must not be empty")
	}
	switch cfg.Format {
	case "csv", "tsv":
	default:
		add(SeverityError, "format", "unsupported format %q (want csv or tsv)", cfg.Format)
	}
	if strings.TrimSpace(cfg.OutDir) == "" {
		add(SeverityError, "out-dir", "output directory must not be empty")
	}

	if _, err := transformer.ParseCastPolicy(cfg.OnCastError); err != nil {
		add(SeverityError, "on-cast-error", "%v", err)
	}

	switch cfg.MetricsBackend {
	case "", "none":
	case "pushgateway":
		if cfg.PushgatewayURL == "" {
			add(SeverityError, "pushgateway-url", "metrics-backend=pushgateway requires a Pushgateway URL")
		} else if u, err := url.Parse(cfg.PushgatewayURL); err != nil || u.Scheme == "" || u.Host == "" {
			add(SeverityError, "pushgateway-url", "invalid URL %q", cfg.PushgatewayURL)
		}
	default:
		add(SeverityWarning, "metrics-backend", "unknown metrics backend %q; metrics disabled", cfg.MetricsBackend)
	}

	if cfg.HTTPTimeout <= 0 {
		add(SeverityError, "http-timeout", "http-timeout must be positive")
	}
	if cfg.HTTPRetries < 0 {
		add(SeverityError, "http-retries", "http-retries must be >= 0")
	}
	return issues
}
