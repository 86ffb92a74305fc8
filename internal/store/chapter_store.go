package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/jharris/bookbinder/internal/model"
)

// ChapterStore handles database operations for chapters.
type ChapterStore struct {
	db *sql.DB
}

// NewChapterStore creates a new ChapterStore.
func NewChapterStore(db *sql.DB) *ChapterStore {
	return &ChapterStore{db: db}
}

// GetBySlug retrieves a chapter by its slug.
func (s *ChapterStore) GetBySlug(ctx context.Context, slug string) (*model.StoredChapter, error) {
	query := `
		SELECT id, slug, title, position, word_count, section_count, qa_count,
		       checksum, content, fetched_at, created_at
		FROM chapters
		WHERE slug = $1
	`

	var ch model.StoredChapter
	err := s.db.QueryRowContext(ctx, query, slug).Scan(
		&ch.ID,
		&ch.Slug,
		&ch.Title,
		&ch.Position,
		&ch.WordCount,
		&ch.SectionCount,
		&ch.QACount,
		&ch.Checksum,
		&ch.Content,
		&ch.FetchedAt,
		&ch.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chapter %s: %w", slug, err)
	}

	return &ch, nil
}

// GetAll retrieves all chapters in book order, including content.
func (s *ChapterStore) GetAll(ctx context.Context) ([]model.StoredChapter, error) {
	query := `
		SELECT id, slug, title, position, word_count, section_count, qa_count,
		       checksum, content, fetched_at, created_at
		FROM chapters
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get chapters: %w", err)
	}
	defer rows.Close()

	var chapters []model.StoredChapter
	for rows.Next() {
		var ch model.StoredChapter
		err := rows.Scan(
			&ch.ID,
			&ch.Slug,
			&ch.Title,
			&ch.Position,
			&ch.WordCount,
			&ch.SectionCount,
			&ch.QACount,
			&ch.Checksum,
			&ch.Content,
			&ch.FetchedAt,
			&ch.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chapter: %w", err)
		}
		chapters = append(chapters, ch)
	}

	return chapters, rows.Err()
}

// SaveChapterWithSnapshot saves the current chapter state and only creates
// a snapshot when the content checksum changed for that date, so re-imports
// of the same date stay idempotent.
func (s *ChapterStore) SaveChapterWithSnapshot(ctx context.Context, ch *model.StoredChapter, snapshotDate time.Time) (changed bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existingChecksum sql.NullString
	checksumQuery := `
		SELECT checksum FROM chapter_snapshots
		WHERE slug = $1 AND snapshot_date = $2
	`
	tx.QueryRowContext(ctx, checksumQuery, ch.Slug, snapshotDate).Scan(&existingChecksum)

	changed = !existingChecksum.Valid || existingChecksum.String != ch.Checksum

	upsertQuery := `
		INSERT INTO chapters (slug, title, position, word_count, section_count,
		                      qa_count, checksum, content, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			position = EXCLUDED.position,
			word_count = EXCLUDED.word_count,
			section_count = EXCLUDED.section_count,
			qa_count = EXCLUDED.qa_count,
			checksum = EXCLUDED.checksum,
			content = EXCLUDED.content,
			fetched_at = EXCLUDED.fetched_at
		RETURNING id
	`

	err = tx.QueryRowContext(ctx, upsertQuery,
		ch.Slug,
		ch.Title,
		ch.Position,
		ch.WordCount,
		ch.SectionCount,
		ch.QACount,
		ch.Checksum,
		ch.Content,
		ch.FetchedAt,
	).Scan(&ch.ID)
	if err != nil {
		return false, fmt.Errorf("failed to upsert chapter %s: %w", ch.Slug, err)
	}

	if changed {
		snapshotQuery := `
			INSERT INTO chapter_snapshots (slug, title, word_count, section_count,
			                               qa_count, checksum, snapshot_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (slug, snapshot_date) DO UPDATE SET
				title = EXCLUDED.title,
				word_count = EXCLUDED.word_count,
				section_count = EXCLUDED.section_count,
				qa_count = EXCLUDED.qa_count,
				checksum = EXCLUDED.checksum
		`

		_, err = tx.ExecContext(ctx, snapshotQuery,
			ch.Slug,
			ch.Title,
			ch.WordCount,
			ch.SectionCount,
			ch.QACount,
			ch.Checksum,
			snapshotDate,
		)
		if err != nil {
			return false, fmt.Errorf("failed to insert snapshot for chapter %s: %w", ch.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return changed, nil
}

// DeleteMissing removes chapters whose slugs are no longer in the source
// set, so a renamed or deleted file does not linger in the served book.
func (s *ChapterStore) DeleteMissing(ctx context.Context, keep []string) (int64, error) {
	query := `DELETE FROM chapters WHERE NOT (slug = ANY($1))`
	res, err := s.db.ExecContext(ctx, query, pq.Array(keep))
	if err != nil {
		return 0, fmt.Errorf("failed to delete removed chapters: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// GetSnapshots retrieves all snapshots for a chapter, newest first.
func (s *ChapterStore) GetSnapshots(ctx context.Context, slug string) ([]model.ChapterSnapshot, error) {
	query := `
		SELECT id, slug, title, word_count, section_count, qa_count,
		       checksum, snapshot_date, created_at
		FROM chapter_snapshots
		WHERE slug = $1
		ORDER BY snapshot_date DESC
	`

	rows, err := s.db.QueryContext(ctx, query, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshots for chapter %s: %w", slug, err)
	}
	defer rows.Close()

	var snapshots []model.ChapterSnapshot
	for rows.Next() {
		var snap model.ChapterSnapshot
		err := rows.Scan(
			&snap.ID,
			&snap.Slug,
			&snap.Title,
			&snap.WordCount,
			&snap.SectionCount,
			&snap.QACount,
			&snap.Checksum,
			&snap.SnapshotDate,
			&snap.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}

	return snapshots, rows.Err()
}

// GetSnapshotDates returns all unique snapshot dates, newest first.
func (s *ChapterStore) GetSnapshotDates(ctx context.Context) ([]time.Time, error) {
	query := `SELECT DISTINCT snapshot_date FROM chapter_snapshots ORDER BY snapshot_date DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("failed to scan date: %w", err)
		}
		dates = append(dates, date)
	}

	return dates, rows.Err()
}

// CountChapters returns the total number of chapters.
func (s *ChapterStore) CountChapters(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chapters").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chapters: %w", err)
	}
	return count, nil
}
