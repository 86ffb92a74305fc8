package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/jharris/bookbinder/internal/book"
	"github.com/jharris/bookbinder/internal/model"
)

var quizDir string
var quizChapter string

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Run an interactive quiz over a chapter's practice questions",
	Long: `Quiz walks the practice questions of one chapter in the terminal,
grades each answer, and always shows the explanation. Scenario questions
are shown for reflection without grading.

Example:
  ./bookbinder quiz --dir chapters --chapter 03-nosql-essentials`,
	Run: runQuiz,
}

func init() {
	rootCmd.AddCommand(quizCmd)
	quizCmd.Flags().StringVarP(&quizDir, "dir", "d", "chapters", "Directory of chapter markdown files")
	quizCmd.Flags().StringVarP(&quizChapter, "chapter", "c", "", "Chapter slug to quiz on (required)")
	quizCmd.MarkFlagRequired("chapter")
}

func runQuiz(cmd *cobra.Command, args []string) {
	loader := book.NewLoader()
	corpus, _, err := loader.LoadDir("quiz", quizDir)
	if err != nil {
		log.Fatalf("Failed to load chapters: %v", err)
	}

	ch := corpus.ChapterBySlug(quizChapter)
	if ch == nil {
		log.Printf("Chapter %q not found. Available chapters:", quizChapter)
		for _, c := range corpus.Chapters {
			log.Printf("  %s  (%d questions)", c.Slug, c.QACount)
		}
		os.Exit(1)
	}

	units := collectQuestions(ch)
	if len(units) == 0 {
		log.Fatalf("Chapter %q has no practice questions", quizChapter)
	}

	rl, err := readline.New("> ")
	if err != nil {
		log.Fatalf("Failed to initialize terminal: %v", err)
	}
	defer rl.Close()

	fmt.Printf("Quiz: %s (%d questions)\n", ch.Title, len(units))
	fmt.Println("Press Ctrl+C or type 'quit' to stop early.")

	correct, graded := 0, 0
	for i, u := range units {
		fmt.Printf("\n[%d/%d] %s\n", i+1, len(units), u.Prompt)
		for j, opt := range u.Options {
			fmt.Printf("  %c. %s\n", 'A'+j, opt)
		}

		if u.Kind == model.QAScenario {
			fmt.Println("(open-ended; press Enter to see the answer)")
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Failed to read answer: %v", err)
		}
		line = strings.TrimSpace(line)
		if strings.EqualFold(line, "quit") || strings.EqualFold(line, "exit") {
			break
		}

		result, err := book.CheckAnswer(u, line)
		if err != nil {
			fmt.Printf("  %v\n", err)
		} else if result.Gradable {
			graded++
			if result.Correct {
				correct++
				fmt.Println("  Correct!")
			} else {
				fmt.Println("  Incorrect.")
			}
		}

		fmt.Println()
		fmt.Println(indent(result.Explanation, "  "))
	}

	fmt.Println()
	fmt.Println("=== Quiz Summary ===")
	fmt.Printf("Questions seen:  %d\n", len(units))
	fmt.Printf("Graded:          %d\n", graded)
	fmt.Printf("Correct:         %d\n", correct)
	if graded > 0 {
		fmt.Printf("Score:           %.0f%%\n", float64(correct)/float64(graded)*100)
	}
}

// collectQuestions gathers a chapter's questions in document order.
func collectQuestions(ch *model.Chapter) []model.QAUnit {
	var units []model.QAUnit
	var walk func(secs []*model.Section)
	walk = func(secs []*model.Section) {
		for _, sec := range secs {
			for _, b := range sec.Blocks {
				if qa, ok := b.(model.QAUnit); ok {
					units = append(units, qa)
				}
			}
			walk(sec.Children)
		}
	}
	walk(ch.Sections)
	return units
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
