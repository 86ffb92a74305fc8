package templates

import (
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/jharris/bookbinder/internal/book"
	"github.com/jharris/bookbinder/internal/model"
)

// ChapterDetail renders one chapter: generated table of contents, the
// section tree, and prev/next navigation derived from corpus order.
func ChapterDetail(bookTitle string, ch *model.Chapter, toc []book.TOCEntry) templ.Component {
	body := component(func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<h1>%s</h1>\n", esc(ch.Title)); err != nil {
			return err
		}

		if len(toc) > 1 {
			if _, err := io.WriteString(w, "<nav class=\"toc\">\n<strong>Contents</strong>\n<ul>\n"); err != nil {
				return err
			}
			for _, entry := range toc {
				indent := strings.Repeat("&nbsp;&nbsp;", entry.Level-1)
				if _, err := fmt.Fprintf(w, "<li>%s<a href=\"#%s\">%s</a></li>\n",
					indent, esc(entry.Anchor), esc(entry.Title)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</ul>\n</nav>\n"); err != nil {
				return err
			}
		}

		if err := writeBlocks(w, ch.Slug, ch.Preamble); err != nil {
			return err
		}
		for _, sec := range ch.Sections {
			if err := writeSection(w, ch.Slug, sec); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `<div class="pager">`); err != nil {
			return err
		}
		if ch.Prev != nil {
			if _, err := fmt.Fprintf(w, `<a href="/chapters/%s">&larr; %s</a>`,
				esc(ch.Prev.Slug), esc(ch.Prev.Title)); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, "<span></span>"); err != nil {
				return err
			}
		}
		if ch.Next != nil {
			if _, err := fmt.Fprintf(w, `<a href="/chapters/%s">%s &rarr;</a>`,
				esc(ch.Next.Slug), esc(ch.Next.Title)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</div>\n")
		return err
	})
	return Layout(bookTitle, body)
}

func writeSection(w io.Writer, chapterSlug string, sec *model.Section) error {
	level := sec.Level + 1 // h1 is the chapter title
	if level > 6 {
		level = 6
	}
	if _, err := fmt.Fprintf(w, "<h%d id=\"%s\">%s</h%d>\n",
		level, esc(sec.Anchor), esc(sec.Heading), level); err != nil {
		return err
	}
	if err := writeBlocks(w, chapterSlug, sec.Blocks); err != nil {
		return err
	}
	for _, child := range sec.Children {
		if err := writeSection(w, chapterSlug, child); err != nil {
			return err
		}
	}
	return nil
}

func writeBlocks(w io.Writer, chapterSlug string, blocks []model.Block) error {
	for _, b := range blocks {
		switch v := b.(type) {
		case model.Paragraph:
			if _, err := fmt.Fprintf(w, "<p>%s</p>\n",
				strings.ReplaceAll(esc(v.Text), "\n", "<br>\n")); err != nil {
				return err
			}
		case model.Table:
			if err := writeHTMLTable(w, v); err != nil {
				return err
			}
		case model.CodeBlock:
			if v.Caption != "" {
				if _, err := fmt.Fprintf(w, "<p class=\"caption\">%s</p>\n", esc(v.Caption)); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "<pre><code class=\"language-%s\">%s</code></pre>\n",
				esc(v.Language), esc(v.Source)); err != nil {
				return err
			}
		case model.QAUnit:
			if err := writeQAUnit(w, chapterSlug, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeHTMLTable(w io.Writer, t model.Table) error {
	if _, err := io.WriteString(w, "<table>\n<thead>\n<tr>"); err != nil {
		return err
	}
	for _, cell := range t.Header {
		if _, err := fmt.Fprintf(w, "<th>%s</th>", esc(cell)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</tr>\n</thead>\n<tbody>\n"); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if _, err := io.WriteString(w, "<tr>"); err != nil {
			return err
		}
		for _, cell := range row {
			if _, err := fmt.Fprintf(w, "<td>%s</td>", esc(cell)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</tr>\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</tbody>\n</table>\n")
	return err
}

// writeQAUnit renders the visible prompt and options, an answer form, and
// a collapsed disclosure that fetches the hidden payload on demand. The
// answer stays out of the initial page; revealing is a presentation
// transition, not a grading step.
func writeQAUnit(w io.Writer, chapterSlug string, u model.QAUnit) error {
	visible, _ := book.Render(u)

	if _, err := fmt.Fprintf(w, "<div class=\"qa\" id=\"%s\">\n<p><strong>Q:</strong> %s</p>\n",
		esc(u.ID), strings.ReplaceAll(esc(visible.Prompt), "\n", "<br>\n")); err != nil {
		return err
	}

	if len(visible.Options) > 0 {
		if _, err := io.WriteString(w, "<ol type=\"A\">\n"); err != nil {
			return err
		}
		for _, opt := range visible.Options {
			if _, err := fmt.Fprintf(w, "<li>%s</li>\n", esc(opt)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</ol>\n"); err != nil {
			return err
		}
	}

	if u.Kind != model.QAScenario {
		if _, err := fmt.Fprintf(w, `<form hx-post="/chapters/%s/qa/%s/check" hx-target="#%s-result">
<input type="text" name="answer" placeholder="Your answer">
<button type="submit">Check</button>
</form>
<div id="%s-result"></div>
`, esc(chapterSlug), esc(u.ID), esc(u.ID), esc(u.ID)); err != nil {
			return err
		}
	}

	summary := visible.Summary
	if summary == "" {
		summary = "View Answer"
	}
	if _, err := fmt.Fprintf(w, `<details>
<summary hx-get="/chapters/%s/qa/%s/reveal" hx-target="#%s-answer" hx-trigger="click once">%s</summary>
<div id="%s-answer"></div>
</details>
</div>
`, esc(chapterSlug), esc(u.ID), esc(u.ID), esc(summary), esc(u.ID)); err != nil {
		return err
	}
	return nil
}

// QAAnswer is the revealed payload fragment.
func QAAnswer(u model.QAUnit) templ.Component {
	return component(func(w io.Writer) error {
		_, hidden := book.Render(u)
		_, err := fmt.Fprintf(w, "<p>%s</p>\n",
			strings.ReplaceAll(esc(hidden.Explanation), "\n", "<br>\n"))
		return err
	})
}

// QACheckResult is the grading fragment returned by the check endpoint.
func QACheckResult(result book.CheckResult) templ.Component {
	return component(func(w io.Writer) error {
		if !result.Gradable {
			_, err := fmt.Fprintf(w,
				"<p class=\"qa-result\">Open-ended question.</p>\n<p>%s</p>\n",
				esc(result.Explanation))
			return err
		}
		verdict, class := "Incorrect.", "incorrect"
		if result.Correct {
			verdict, class = "Correct!", "correct"
		}
		_, err := fmt.Fprintf(w, "<p class=\"qa-result %s\">%s</p>\n<p>%s</p>\n",
			class, verdict, strings.ReplaceAll(esc(result.Explanation), "\n", "<br>\n"))
		return err
	})
}
