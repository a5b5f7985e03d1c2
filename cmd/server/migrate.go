package main

import (
	"fmt"

	"github.com/dfryer1193/catalog/shared/db/sqlite"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	database := sqlite.NewSQLiteDB(sqlite.NewSQLiteConfig(cfg.SQLite.Path))
	if err := database.Connect(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	version, err := database.SchemaVersion()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is at schema version %d\n", cfg.SQLite.Path, version)
	return nil
}
