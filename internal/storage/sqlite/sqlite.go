package sqlite

import (
	"database/sql"
	"embed"
	"fmt"

	sqliteutil "github.com/agalitsyn/sqlite"
)

//go:embed *.sql
var migrations embed.FS

// Open connects to the database at path and applies pending migrations.
func Open(path string) (*sql.DB, error) {
	db, err := sqliteutil.Connect(path)
	if err != nil {
		return nil, err
	}

	// a single connection keeps pragmas and in-memory databases consistent
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not enable foreign keys: %w", err)
	}

	if err = sqliteutil.MigrateUp(db, migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not migrate database: %w", err)
	}
	return db, nil
}
