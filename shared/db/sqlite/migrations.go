package sqlite

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	up      string
}

// migrations is applied in order; versions must only ever be appended
var migrations = []migration{
	{
		version: 1,
		name:    "create_products_table",
		up: `
			CREATE TABLE IF NOT EXISTS products (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				product_name TEXT NOT NULL,
				details TEXT NOT NULL,
				image TEXT,
				size TEXT NOT NULL,
				color TEXT NOT NULL,
				category TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			);

			CREATE INDEX IF NOT EXISTS idx_products_created_at
			ON products(created_at DESC);
		`,
	},
}

func currentVersion(conn *sql.DB) (int, error) {
	version := 0
	err := conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return version, nil
}

// runMigrations applies every migration newer than the recorded schema version
// and returns the ones it applied
func runMigrations(conn *sql.DB) ([]migration, error) {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	version, err := currentVersion(conn)
	if err != nil {
		return nil, err
	}

	var applied []migration
	for _, m := range migrations {
		if m.version <= version {
			continue
		}

		if err := applyMigration(conn, m); err != nil {
			return applied, err
		}
		applied = append(applied, m)
	}

	return applied, nil
}

func applyMigration(conn *sql.DB, m migration) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", m.version, err)
	}

	if _, err := tx.Exec(m.up); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to execute migration %d (%s): %w", m.version, m.name, err)
	}

	if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.version, m.name); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", m.version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
	}

	return nil
}
