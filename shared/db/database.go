package db

import (
	"database/sql"
)

// Database owns a connection whose schema is current once Connect returns
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB

	// SchemaVersion reports the highest applied migration
	SchemaVersion() (int, error)
}
