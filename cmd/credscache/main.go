// Command credscache copies the database connection parameters stored in a
// local SQLite file into a dotenv file, so later runs can read them from the
// environment.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"sirnaetl/internal/credentials"
)

func main() {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	db := fs.String("creds-db", "creds.db", "SQLite file holding the access table")
	out := fs.StringP("out", "o", ".env", "dotenv file to write")
	_ = fs.Parse(os.Args[1:])

	rec, err := credentials.SQLiteStore{Path: *db}.Resolve(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "credscache: %v\n", err)
		os.Exit(1)
	}
	if err := credentials.WriteEnvFile(*out, rec); err != nil {
		fmt.Fprintf(os.Stderr, "credscache: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s for %s\n", *out, rec)
}
