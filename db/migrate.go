// Package db holds the SQL migrations, embedded so the binary can migrate
// without the source tree.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var Migrations embed.FS

const TableName = "schema_migrations"

// Dialect maps a configured database driver to the goose dialect and the
// embedded migration directory for it.
func Dialect(driver string) (dialect, dir string, err error) {
	switch driver {
	case "postgres":
		return "postgres", path.Join("migrations", "postgres"), nil
	case "sqlite":
		return "sqlite3", path.Join("migrations", "sqlite"), nil
	default:
		return "", "", fmt.Errorf("no migrations for database driver %q", driver)
	}
}

type MigrateOptions struct {
	Driver string
	// Dir reads migrations from disk instead of the embedded set.
	Dir      string
	Rollback bool
}

// Migrate applies every pending migration, or rolls back the latest one.
func Migrate(ctx context.Context, sqlDB *sql.DB, opts MigrateOptions) error {
	dialect, dir, err := Dialect(opts.Driver)
	if err != nil {
		return err
	}

	if opts.Dir != "" {
		goose.SetBaseFS(os.DirFS(opts.Dir))
		dir = "."
	} else {
		goose.SetBaseFS(Migrations)
	}
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	goose.SetTableName(TableName)

	if opts.Rollback {
		if err := goose.DownContext(ctx, sqlDB, dir); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		return nil
	}

	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Version reports the latest applied migration.
func Version(ctx context.Context, sqlDB *sql.DB) (int64, error) {
	return goose.GetDBVersionContext(ctx, sqlDB)
}
