package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bookbinder",
	Short: "Build and serve a markdown course book",
	Long: `Bookbinder turns a directory of markdown chapter files into a
navigable course book: it parses chapters into section trees, validates
heading structure and cross-links, generates tables of contents, and serves
the book with collapsible practice questions.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
