package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jharris/bookbinder/internal/book"
	"github.com/jharris/bookbinder/internal/model"
	"github.com/jharris/bookbinder/internal/store"
)

// ImportStats tracks import statistics.
type ImportStats struct {
	Total     int
	Imported  int
	Changed   int
	Unchanged int
	Failed    int
	Issues    []model.ValidationIssue
}

// Importer orchestrates the chapter import process: read the source
// directory, build and validate the corpus, persist chapters with
// change-detecting snapshots, and refresh the glossary.
type Importer struct {
	loader        *book.Loader
	chapterStore  *store.ChapterStore
	glossaryStore *store.GlossaryStore
	logger        *log.Logger
	errLogger     *log.Logger
}

// NewImporter creates a new Importer.
func NewImporter(loader *book.Loader, chapterStore *store.ChapterStore, glossaryStore *store.GlossaryStore) *Importer {
	return &Importer{
		loader:        loader,
		chapterStore:  chapterStore,
		glossaryStore: glossaryStore,
		logger:        log.New(os.Stdout, "", log.LstdFlags),
		errLogger:     log.New(os.Stderr, "ERROR: ", log.LstdFlags),
	}
}

// Import builds the corpus from dir and stores it. The returned corpus is
// the freshly built in-memory book; stats carry all validation issues.
func (i *Importer) Import(ctx context.Context, dir, bookTitle string, snapshotDate time.Time) (*ImportStats, *model.Corpus, error) {
	stats := &ImportStats{}

	i.logger.Printf("Reading chapters from %s...", dir)
	sources, err := book.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	corpus, issues, err := i.loader.Load(bookTitle, sources)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build corpus: %w", err)
	}
	issues = append(issues, book.Validate(corpus)...)
	stats.Issues = issues
	stats.Total = len(corpus.Chapters)

	i.logger.Printf("Found %d chapters to import", stats.Total)

	keep := make([]string, 0, len(corpus.Chapters))
	for idx, ch := range corpus.Chapters {
		select {
		case <-ctx.Done():
			return stats, corpus, ctx.Err()
		default:
		}

		progress := fmt.Sprintf("[%d/%d]", idx+1, stats.Total)
		i.logger.Printf("%s Importing %s: %s...", progress, ch.Slug, ch.Title)

		stored := &model.StoredChapter{
			Slug:         ch.Slug,
			Title:        ch.Title,
			Position:     ch.Order,
			WordCount:    ch.WordCount,
			SectionCount: ch.SectionCount,
			QACount:      ch.QACount,
			Checksum:     ch.Checksum,
			Content:      string(sources[idx].Content),
			FetchedAt:    time.Now(),
		}

		changed, err := i.chapterStore.SaveChapterWithSnapshot(ctx, stored, snapshotDate)
		if err != nil {
			i.errLogger.Printf("Failed to import chapter %s: %v", ch.Slug, err)
			stats.Failed++
			continue
		}

		stats.Imported++
		keep = append(keep, ch.Slug)
		if changed {
			i.logger.Printf("  Chapter %s changed (snapshot created)", ch.Slug)
			stats.Changed++
		} else {
			i.logger.Printf("  Chapter %s unchanged", ch.Slug)
			stats.Unchanged++
		}
	}

	if removed, err := i.chapterStore.DeleteMissing(ctx, keep); err != nil {
		i.errLogger.Printf("Failed to prune removed chapters: %v", err)
	} else if removed > 0 {
		i.logger.Printf("Pruned %d removed chapter(s)", removed)
	}

	i.logger.Printf("Storing %d glossary terms...", len(corpus.Glossary))
	if err := i.glossaryStore.ReplaceAll(ctx, corpus.Glossary); err != nil {
		i.errLogger.Printf("Failed to store glossary: %v", err)
	}

	return stats, corpus, nil
}

// PrintSummary prints the import statistics.
func (i *Importer) PrintSummary(stats *ImportStats) {
	errs, warns, infos := model.CountBySeverity(stats.Issues)

	i.logger.Println("")
	i.logger.Println("=== Import Summary ===")
	i.logger.Printf("Total chapters:  %d", stats.Total)
	i.logger.Printf("Imported:        %d", stats.Imported)
	i.logger.Printf("Changed:         %d", stats.Changed)
	i.logger.Printf("Unchanged:       %d", stats.Unchanged)
	i.logger.Printf("Failed:          %d", stats.Failed)
	i.logger.Printf("Lint findings:   %d error(s), %d warning(s), %d note(s)", errs, warns, infos)
}

// PrintIssues prints every validation issue on its own line.
func (i *Importer) PrintIssues(issues []model.ValidationIssue) {
	for _, issue := range issues {
		if issue.Severity == model.SeverityError {
			i.errLogger.Println(issue.String())
		} else {
			i.logger.Println(issue.String())
		}
	}
}
