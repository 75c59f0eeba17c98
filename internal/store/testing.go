package store

import (
	"database/sql"
	"fmt"
)

// OpenInMemory creates a migrated Store backed by an in-memory database.
// This is only intended for use in tests.
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// every pooled connection would otherwise get its own empty database
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return newStore(db), nil
}
