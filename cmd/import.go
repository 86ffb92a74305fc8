package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jharris/bookbinder/internal/book"
	"github.com/jharris/bookbinder/internal/service"
	"github.com/jharris/bookbinder/internal/store"
)

var importDir string
var importDate string
var importTitle string
var importDB string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import markdown chapters into the database",
	Long: `Import parses every chapter file in the source directory, validates the
corpus, and stores chapters in PostgreSQL with change-detecting snapshots.

Validation warnings (broken cross-links, duplicate glossary terms) are
reported but do not block the import; structural errors (duplicate chapter
slugs, skipped heading levels) do.

Examples:
  # Import the chapters/ directory for today's date
  ./bookbinder import --dir chapters

  # Import under a specific snapshot date
  ./bookbinder import --dir chapters --date 2026-01-15`,
	Run: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	today := time.Now().Format("2006-01-02")
	importCmd.Flags().StringVarP(&importDir, "dir", "d", "chapters", "Directory of chapter markdown files")
	importCmd.Flags().StringVar(&importDate, "date", today, "Snapshot date (YYYY-MM-DD)")
	importCmd.Flags().StringVar(&importTitle, "title", "Course Book", "Book title")
	importCmd.Flags().StringVar(&importDB, "db", "", "PostgreSQL connection string (defaults to DATABASE_URL)")
}

func runImport(cmd *cobra.Command, args []string) {
	dbURL := importDB
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("Set --db or the DATABASE_URL environment variable")
	}

	snapshotDate, err := time.Parse("2006-01-02", importDate)
	if err != nil {
		log.Fatalf("Invalid date format: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	log.Println("Connecting to database...")
	db, err := store.NewDB(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	loader := book.NewLoader()
	chapterStore := store.NewChapterStore(db)
	glossaryStore := store.NewGlossaryStore(db)
	importer := service.NewImporter(loader, chapterStore, glossaryStore)

	log.Printf("Starting import from %s (snapshot %s)", importDir, importDate)
	stats, corpus, err := importer.Import(ctx, importDir, importTitle, snapshotDate)
	if err != nil {
		if ctx.Err() != nil {
			log.Println("Import cancelled")
			os.Exit(1)
		}
		log.Fatalf("Import failed: %v", err)
	}

	importer.PrintIssues(stats.Issues)
	importer.PrintSummary(stats)

	log.Println("\nCalculating corpus metrics...")
	metrics := service.CalculateMetrics(corpus)
	metricsService := service.NewMetricsService(db)
	if err := metricsService.Store(ctx, metrics); err != nil {
		log.Printf("Warning: Failed to store metrics: %v", err)
	} else {
		log.Println("")
		log.Println("=== Corpus Metrics ===")
		log.Printf("Total chapters:   %d", metrics.TotalChapters)
		log.Printf("Total words:      %d", metrics.TotalWords)
		log.Printf("Total sections:   %d", metrics.TotalSections)
		log.Printf("Total questions:  %d", metrics.TotalQuestions)
		log.Printf("Glossary terms:   %d", metrics.TotalTerms)
		log.Printf("Average density:  %.2f words/section", metrics.AverageDensity)
		log.Printf("Largest chapter:  %s (%d words)", metrics.LargestChapter, metrics.LargestWords)
	}

	if stats.Failed > 0 {
		os.Exit(1)
	}
}
