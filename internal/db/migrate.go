// internal/db/migrate.go
package db

import (
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/qustavo/dotsql"
)

// Schema files embedded per dialect; a single binary bootstraps its
// own tables on either backend.
//
//go:embed schema/*.sql
var schemaFS embed.FS

// Tables in dependency order: logs reference campaigns, campaigns
// reference segments.
var schemaQueries = []string{
	"create-customers",
	"create-segments",
	"create-campaigns",
	"create-communication-logs",
	"create-log-vendor-index",
}

// Migrate creates the schema for the connection's driver if it does
// not exist yet.
func Migrate(conn *sqlx.DB) error {
	file := "schema/postgres.sql"
	if conn.DriverName() == "sqlite3" {
		file = "schema/sqlite.sql"
	}

	content, err := schemaFS.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	dot, err := dotsql.LoadFromString(string(content))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
	}

	for _, name := range schemaQueries {
		if _, err := dot.Exec(conn, name); err != nil {
			return fmt.Errorf("migration %s failed: %w", name, err)
		}
	}
	return nil
}
