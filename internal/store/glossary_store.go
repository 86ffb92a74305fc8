package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jharris/bookbinder/internal/model"
)

// GlossaryStore handles database operations for the corpus glossary.
type GlossaryStore struct {
	db *sql.DB
}

// NewGlossaryStore creates a new GlossaryStore.
func NewGlossaryStore(db *sql.DB) *GlossaryStore {
	return &GlossaryStore{db: db}
}

// ReplaceAll swaps the stored glossary for the given entries in one
// transaction. The glossary is small; rewriting it wholesale on import
// keeps deletions honest.
func (s *GlossaryStore) ReplaceAll(ctx context.Context, entries []model.GlossaryEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM glossary`); err != nil {
		return fmt.Errorf("failed to clear glossary: %w", err)
	}

	insert := `
		INSERT INTO glossary (term, definition, chapter_slug, updated_at)
		VALUES ($1, $2, $3, now())
	`
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, insert, e.Term, e.Definition, e.ChapterSlug); err != nil {
			return fmt.Errorf("failed to insert glossary term %q: %w", e.Term, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetAll retrieves every glossary entry ordered by term.
func (s *GlossaryStore) GetAll(ctx context.Context) ([]model.GlossaryEntry, error) {
	query := `
		SELECT term, definition, chapter_slug
		FROM glossary
		ORDER BY lower(term)
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get glossary: %w", err)
	}
	defer rows.Close()

	var entries []model.GlossaryEntry
	for rows.Next() {
		var e model.GlossaryEntry
		if err := rows.Scan(&e.Term, &e.Definition, &e.ChapterSlug); err != nil {
			return nil, fmt.Errorf("failed to scan glossary entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// CountTerms returns the number of glossary terms.
func (s *GlossaryStore) CountTerms(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM glossary").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count glossary terms: %w", err)
	}
	return count, nil
}
