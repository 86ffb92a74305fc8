package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jharris/bookbinder/internal/model"
)

// CorpusMetrics represents book-wide reading metrics.
type CorpusMetrics struct {
	TotalChapters  int
	TotalWords     int
	TotalSections  int
	TotalQuestions int
	TotalTerms     int
	AverageDensity float64
	LargestChapter string
	LargestWords   int
	MostQuizzed    string
	MostQuestions  int
}

// CalculateMetrics derives metrics from a built corpus. Pure function; the
// same corpus always yields the same numbers.
func CalculateMetrics(c *model.Corpus) *CorpusMetrics {
	m := &CorpusMetrics{
		TotalChapters: len(c.Chapters),
		TotalTerms:    len(c.Glossary),
	}

	for _, ch := range c.Chapters {
		m.TotalWords += ch.WordCount
		m.TotalSections += ch.SectionCount
		m.TotalQuestions += ch.QACount

		if ch.WordCount > m.LargestWords {
			m.LargestWords = ch.WordCount
			m.LargestChapter = ch.Title
		}
		if ch.QACount > m.MostQuestions {
			m.MostQuestions = ch.QACount
			m.MostQuizzed = ch.Title
		}
	}

	if m.TotalSections > 0 {
		m.AverageDensity = float64(m.TotalWords) / float64(m.TotalSections)
	}
	return m
}

// MetricsService stores calculated metrics for the history view.
type MetricsService struct {
	db *sql.DB
}

// NewMetricsService creates a new MetricsService.
func NewMetricsService(db *sql.DB) *MetricsService {
	return &MetricsService{db: db}
}

// Store persists one row per metric.
func (m *MetricsService) Store(ctx context.Context, metrics *CorpusMetrics) error {
	values := map[string]string{
		"total_chapters":  fmt.Sprintf("%d", metrics.TotalChapters),
		"total_words":     fmt.Sprintf("%d", metrics.TotalWords),
		"total_sections":  fmt.Sprintf("%d", metrics.TotalSections),
		"total_questions": fmt.Sprintf("%d", metrics.TotalQuestions),
		"total_terms":     fmt.Sprintf("%d", metrics.TotalTerms),
		"average_density": fmt.Sprintf("%.2f", metrics.AverageDensity),
		"largest_chapter": metrics.LargestChapter,
		"most_quizzed":    metrics.MostQuizzed,
	}

	for name, value := range values {
		if err := m.storeMetric(ctx, name, value); err != nil {
			return err
		}
	}
	return nil
}

// storeMetric stores a single metric value.
func (m *MetricsService) storeMetric(ctx context.Context, name, value string) error {
	query := `
		INSERT INTO metrics (metric_name, metric_value, calculated_at)
		VALUES ($1, $2, $3)
	`

	_, err := m.db.ExecContext(ctx, query, name, value, time.Now())
	if err != nil {
		return fmt.Errorf("failed to store metric %s: %w", name, err)
	}

	return nil
}

// GetLatestMetrics retrieves the most recent value of each metric.
func (m *MetricsService) GetLatestMetrics(ctx context.Context) (map[string]string, error) {
	query := `
		SELECT DISTINCT ON (metric_name) metric_name, metric_value
		FROM metrics
		ORDER BY metric_name, calculated_at DESC
	`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics: %w", err)
	}
	defer rows.Close()

	metrics := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		metrics[name] = value
	}

	return metrics, rows.Err()
}
