package credentials

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvHost     = "DB_HOST"
	EnvPort     = "DB_PORT"
	EnvUser     = "DB_USER"
	EnvPassword = "DB_PASSWORD"
	EnvName     = "DB_NAME"
)

// Env resolves from environment variables. Values from File (a dotenv
// file) are read first and the process environment, via Getenv, wins over
// them. A missing File is not an error.
type Env struct {
	Getenv func(string) string
	File   string
}

// Resolve implements Resolver.
func (e Env) Resolve(ctx context.Context) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	vars := map[string]string{}
	if e.File != "" {
		fileVars, err := godotenv.Read(e.File)
		switch {
		case err == nil:
			vars = fileVars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Record{}, &Error{Reasons: []string{fmt.Sprintf("env file %s: %v", e.File, err)}, Err: err}
		}
	}
	lookup := func(k string) string {
		if e.Getenv != nil {
			if v := strings.TrimSpace(e.Getenv(k)); v != "" {
				return v
			}
		}
		return strings.TrimSpace(vars[k])
	}

	rec := Record{
		Host:     lookup(EnvHost),
		Port:     lookup(EnvPort),
		User:     lookup(EnvUser),
		Password: lookup(EnvPassword),
		Database: lookup(EnvName),
	}
	if missing := rec.Missing(); len(missing) > 0 {
		return Record{}, &Error{Reasons: []string{"environment: missing " + strings.Join(envNames(missing), ", ")}}
	}
	return rec.WithDefaults(), nil
}

func envNames(fields []string) []string {
	names := map[string]string{"host": EnvHost, "port": EnvPort, "user": EnvUser, "password": EnvPassword}
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = names[f]
	}
	return out
}

// WriteEnvFile writes r as a dotenv file with the DB_* keys.
func WriteEnvFile(path string, r Record) error {
	r = r.WithDefaults()
	if err := godotenv.Write(map[string]string{
		EnvHost:     r.Host,
		EnvPort:     r.Port,
		EnvUser:     r.User,
		EnvPassword: r.Password,
		EnvName:     r.Database,
	}, path); err != nil {
		return fmt.Errorf("credentials: write %s: %w", path, err)
	}
	return nil
}
