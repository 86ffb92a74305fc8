package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// NewDB opens a PostgreSQL connection and ensures the schema exists.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// initSchema creates the tables if they do not exist yet.
func initSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS chapters (
			id            SERIAL PRIMARY KEY,
			slug          TEXT NOT NULL UNIQUE,
			title         TEXT NOT NULL,
			position      INTEGER NOT NULL,
			word_count    INTEGER NOT NULL DEFAULT 0,
			section_count INTEGER NOT NULL DEFAULT 0,
			qa_count      INTEGER NOT NULL DEFAULT 0,
			checksum      TEXT NOT NULL,
			content       TEXT NOT NULL,
			fetched_at    TIMESTAMPTZ NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS chapter_snapshots (
			id            SERIAL PRIMARY KEY,
			slug          TEXT NOT NULL,
			title         TEXT NOT NULL,
			word_count    INTEGER NOT NULL DEFAULT 0,
			section_count INTEGER NOT NULL DEFAULT 0,
			qa_count      INTEGER NOT NULL DEFAULT 0,
			checksum      TEXT NOT NULL,
			snapshot_date DATE NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (slug, snapshot_date)
		)`,
		`CREATE TABLE IF NOT EXISTS glossary (
			id          SERIAL PRIMARY KEY,
			term        TEXT NOT NULL UNIQUE,
			definition  TEXT NOT NULL,
			chapter_slug TEXT NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS metrics (
			id            SERIAL PRIMARY KEY,
			metric_name   TEXT NOT NULL,
			metric_value  TEXT NOT NULL,
			calculated_at TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
