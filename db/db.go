package db

import (
	"database/sql"
)

// SQLite represents the SQLite database
type SQLite struct {
	db *sql.DB
}

// NewSQLite returns a new *SQLite database
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{
		db: db,
	}
}

// Migrate creates the tables needed for the database
func (r *SQLite) Migrate() error {
	query := `
	PRAGMA foreign_keys = ON;
	`
	_, err := r.db.Exec(query)
	if err != nil {
		return err
	}

	query = `
	CREATE TABLE IF NOT EXISTS registrations(
		id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		voteKey BLOB NOT NULL,
		verificationKey BLOB NOT NULL,
		rewardsAddress BLOB NOT NULL,
		slot INTEGER NOT NULL,
		signature BLOB NOT NULL,
		txHash BLOB,
		insertedDatetime DATETIME
	);
	`
	_, err = r.db.Exec(query)
	if err != nil {
		return err
	}

	return nil
}
