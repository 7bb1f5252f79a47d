package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/expenzor/db"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded db migrations, or the files under --dir",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "", "sql migrations directory; defaults to the embedded set for the configured driver")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	gdb, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("migrate: failed to open DB: %w", err)
	}
	defer func() {
		if err := closeDB(gdb); err != nil {
			log.Printf("migrate: close DB: %v", err)
		}
	}()

	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	opts := db.MigrateOptions{
		Driver:   cfg.Database.Driver,
		Dir:      migrateDir,
		Rollback: migrateRollback,
	}
	if err := db.Migrate(ctx, sqlDB, opts); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	version, err := db.Version(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Printf("migrate: database at version %d", version)

	return nil
}
