package templates

import (
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/jharris/bookbinder/internal/model"
	"github.com/jharris/bookbinder/internal/service"
)

// Home renders the metrics dashboard.
func Home(bookTitle string, m *service.CorpusMetrics) templ.Component {
	body := component(func(w io.Writer) error {
		_, err := fmt.Fprintf(w, `<h1>%s</h1>
<table>
<tr><th>Chapters</th><td>%d</td></tr>
<tr><th>Sections</th><td>%d</td></tr>
<tr><th>Words</th><td>%d</td></tr>
<tr><th>Practice questions</th><td>%d</td></tr>
<tr><th>Glossary terms</th><td>%d</td></tr>
<tr><th>Average words per section</th><td>%.1f</td></tr>
<tr><th>Largest chapter</th><td>%s (%d words)</td></tr>
<tr><th>Most practice questions</th><td>%s (%d)</td></tr>
</table>
<p><a href="/chapters">Start reading &rarr;</a></p>
`,
			esc(bookTitle),
			m.TotalChapters, m.TotalSections, m.TotalWords, m.TotalQuestions,
			m.TotalTerms, m.AverageDensity,
			esc(m.LargestChapter), m.LargestWords,
			esc(m.MostQuizzed), m.MostQuestions)
		return err
	})
	return Layout(bookTitle, body)
}

// Chapters renders the sortable chapter list page.
func Chapters(bookTitle string, chapters []*model.Chapter, sortBy, order string) templ.Component {
	body := component(func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>Chapters</h1>
<table>
<thead>
<tr>
<th>%s</th>
<th>%s</th>
<th>%s</th>
<th>%s</th>
<th>%s</th>
</tr>
</thead>
<tbody id="chapter-rows">
`,
			sortLink("position", "#", sortBy, order),
			sortLink("title", "Title", sortBy, order),
			sortLink("words", "Words", sortBy, order),
			sortLink("sections", "Sections", sortBy, order),
			sortLink("questions", "Questions", sortBy, order),
		); err != nil {
			return err
		}
		if err := writeChapterRows(w, chapters); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</tbody>\n</table>\n")
		return err
	})
	return Layout(bookTitle, body)
}

// ChaptersTableBody renders only the rows, for htmx re-sorting.
func ChaptersTableBody(chapters []*model.Chapter) templ.Component {
	return component(func(w io.Writer) error {
		return writeChapterRows(w, chapters)
	})
}

func writeChapterRows(w io.Writer, chapters []*model.Chapter) error {
	for _, ch := range chapters {
		if _, err := fmt.Fprintf(w,
			"<tr><td>%d</td><td><a href=\"/chapters/%s\">%s</a></td><td>%d</td><td>%d</td><td>%d</td></tr>\n",
			ch.Order+1, esc(ch.Slug), esc(ch.Title), ch.WordCount, ch.SectionCount, ch.QACount,
		); err != nil {
			return err
		}
	}
	return nil
}

// sortLink emits a column header that re-sorts the table body via htmx,
// flipping the order when the column is already active.
func sortLink(key, label, sortBy, order string) string {
	next := "asc"
	marker := ""
	if key == sortBy {
		if order == "asc" {
			next = "desc"
			marker = " &#9650;"
		} else {
			marker = " &#9660;"
		}
	}
	return fmt.Sprintf(
		`<a href="/chapters?sort=%s&order=%s" hx-get="/chapters?sort=%s&order=%s" hx-target="#chapter-rows">%s%s</a>`,
		key, next, key, next, esc(label), marker)
}

// Glossary renders the term/definition registry.
func Glossary(bookTitle string, entries []model.GlossaryEntry) templ.Component {
	body := component(func(w io.Writer) error {
		if _, err := io.WriteString(w, "<h1>Glossary</h1>\n<dl>\n"); err != nil {
			return err
		}
		for _, e := range entries {
			if _, err := fmt.Fprintf(w,
				"<dt><strong>%s</strong> <small>(<a href=\"/chapters/%s\">%s</a>)</small></dt>\n<dd>%s</dd>\n",
				esc(e.Term), esc(e.ChapterSlug), esc(e.ChapterSlug), esc(e.Definition),
			); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</dl>\n")
		return err
	})
	return Layout(bookTitle, body)
}

// SearchPage renders the search form and any results.
func SearchPage(bookTitle, query string, results []service.SearchResult) templ.Component {
	body := component(func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>Search</h1>
<form method="get" action="/search">
<input type="search" name="q" value="%s" placeholder="Search the book..." autofocus>
<button type="submit">Search</button>
</form>
`, esc(query)); err != nil {
			return err
		}
		if query == "" {
			return nil
		}
		if len(results) == 0 {
			_, err := fmt.Fprintf(w, "<p>No results for <em>%s</em>.</p>\n", esc(query))
			return err
		}
		if _, err := fmt.Fprintf(w, "<p>%d result(s) for <em>%s</em>:</p>\n<ul>\n", len(results), esc(query)); err != nil {
			return err
		}
		for _, r := range results {
			if _, err := fmt.Fprintf(w,
				"<li><a href=\"/chapters/%s#%s\">%s &mdash; %s</a><br><small>%s</small></li>\n",
				esc(r.ChapterSlug), esc(r.Anchor), esc(r.ChapterTitle), esc(r.Section), esc(r.Snippet),
			); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</ul>\n")
		return err
	})
	return Layout(bookTitle, body)
}

// History renders the list of import snapshot dates.
func History(bookTitle string, dates []time.Time, metrics map[string]string) templ.Component {
	body := component(func(w io.Writer) error {
		if _, err := io.WriteString(w, "<h1>Import History</h1>\n"); err != nil {
			return err
		}
		if len(metrics) > 0 {
			if _, err := fmt.Fprintf(w,
				"<p>Current: %s chapters, %s words, %s practice questions.</p>\n",
				esc(metrics["total_chapters"]), esc(metrics["total_words"]), esc(metrics["total_questions"]),
			); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "<ul>\n"); err != nil {
			return err
		}
		for _, d := range dates {
			if _, err := fmt.Fprintf(w, "<li>%s</li>\n", d.Format("2006-01-02")); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</ul>\n")
		return err
	})
	return Layout(bookTitle, body)
}
