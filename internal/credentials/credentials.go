// Package credentials resolves the connection parameters for the relational
// sink. Resolution is injected into the loader as a Resolver so tests can
// substitute fixtures for the process environment and the fallback store.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// DefaultDatabase is used when no database name is configured.
const DefaultDatabase = "homeworks"

// Record is a set of connection parameters.
type Record struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

// Missing lists the empty required fields. Database is not required; it
// defaults to DefaultDatabase.
func (r Record) Missing() []string {
	var out []string
	for _, f := range []struct{ name, v string }{
		{"host", r.Host}, {"port", r.Port}, {"user", r.User}, {"password", r.Password},
	} {
		if strings.TrimSpace(f.v) == "" {
			out = append(out, f.name)
		}
	}
	return out
}

// Complete reports whether every required field is set.
func (r Record) Complete() bool { return len(r.Missing()) == 0 }

// WithDefaults fills Database when empty.
func (r Record) WithDefaults() Record {
	if strings.TrimSpace(r.Database) == "" {
		r.Database = DefaultDatabase
	}
	return r
}

// LogValue keeps the password out of logs.
func (r Record) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("host", r.Host),
		slog.String("port", r.Port),
		slog.String("user", r.User),
		slog.String("database", r.Database),
	)
}

// String renders the record without its password.
func (r Record) String() string {
	return fmt.Sprintf("%s@%s:%s/%s", r.User, r.Host, r.Port, r.Database)
}

// Resolver produces a connection record.
type Resolver interface {
	Resolve(ctx context.Context) (Record, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context) (Record, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context) (Record, error) { return f(ctx) }

// Static always resolves to r.
func Static(r Record) Resolver {
	return ResolverFunc(func(context.Context) (Record, error) {
		if !r.Complete() {
			return Record{}, &Error{Reasons: []string{"static: missing " + strings.Join(r.Missing(), ", ")}}
		}
		return r.WithDefaults(), nil
	})
}

// Error reports that no source produced a complete record.
type Error struct {
	Reasons []string
	Err     error
}

func (e *Error) Error() string {
	return "credentials: no usable connection parameters: " + strings.Join(e.Reasons, "; ")
}

func (e *Error) Unwrap() error { return e.Err }

// Chain tries resolvers in order and returns the first complete record.
type Chain []Resolver

// Resolve implements Resolver. When every source fails the returned *Error
// carries one reason per source.
func (c Chain) Resolve(ctx context.Context) (Record, error) {
	var reasons []string
	var errs []error
	for _, r := range c {
		rec, err := r.Resolve(ctx)
		if err == nil {
			return rec, nil
		}
		if ctx.Err() != nil {
			return Record{}, ctx.Err()
		}
		var ce *Error
		if errors.As(err, &ce) {
			reasons = append(reasons, ce.Reasons...)
			if ce.Err != nil {
				errs = append(errs, ce.Err)
			}
			continue
		}
		reasons = append(reasons, err.Error())
		errs = append(errs, err)
	}
	if len(reasons) == 0 {
		reasons = []string{"no sources configured"}
	}
	return Record{}, &Error{Reasons: reasons, Err: errors.Join(errs...)}
}
