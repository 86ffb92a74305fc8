package cmd

import (
	"errors"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jharris/bookbinder/internal/book"
	"github.com/jharris/bookbinder/internal/model"
)

var checkDir string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Lint a chapter directory without touching the database",
	Long: `Check parses and validates the chapters and prints every finding.

The exit code is 1 only for structural errors that would break navigation
(duplicate chapter slugs, skipped heading levels, out-of-range answers).
Warnings like broken cross-links are reported but do not fail the check.`,
	Run: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkDir, "dir", "d", "chapters", "Directory of chapter markdown files")
}

func runCheck(cmd *cobra.Command, args []string) {
	loader := book.NewLoader()

	corpus, issues, err := loader.LoadDir("check", checkDir)
	if err != nil {
		var headingErr *book.MalformedHeadingError
		var slugErr *book.DuplicateSlugError
		switch {
		case errors.As(err, &headingErr):
			log.Printf("Structural error: %v", headingErr)
		case errors.As(err, &slugErr):
			log.Printf("Structural error: %v", slugErr)
		case errors.Is(err, book.ErrEmptyCorpus):
			log.Printf("No chapters found in %s", checkDir)
		default:
			log.Printf("Check failed: %v", err)
		}
		os.Exit(1)
	}

	issues = append(issues, book.Validate(corpus)...)
	for _, issue := range issues {
		log.Println(issue.String())
	}

	errs, warns, infos := model.CountBySeverity(issues)
	log.Printf("%d chapter(s), %d error(s), %d warning(s), %d note(s)",
		len(corpus.Chapters), errs, warns, infos)

	if errs > 0 {
		os.Exit(1)
	}
}
