package service

import (
	"sort"
	"strings"

	"github.com/jharris/bookbinder/internal/model"
)

const maxSearchResults = 20

// SearchResult is one matching line from the book.
type SearchResult struct {
	ChapterSlug  string
	ChapterTitle string
	Anchor       string
	Section      string
	Snippet      string
	Relevance    float64
}

// Search scans chapter prose for the query words and ranks lines by the
// fraction of words they contain. Code blocks are skipped: example source
// is opaque text, not book content.
func Search(c *model.Corpus, query string) []SearchResult {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}

	var results []SearchResult
	for _, ch := range c.Chapters {
		var walk func(secs []*model.Section)
		walk = func(secs []*model.Section) {
			for _, sec := range secs {
				for _, b := range sec.Blocks {
					para, ok := b.(model.Paragraph)
					if !ok {
						continue
					}
					for _, line := range strings.Split(para.Text, "\n") {
						lower := strings.ToLower(line)
						matched := 0
						for _, w := range words {
							if strings.Contains(lower, w) {
								matched++
							}
						}
						if matched == 0 {
							continue
						}

						snippet := line
						if len(snippet) > 200 {
							snippet = snippet[:200] + "..."
						}
						results = append(results, SearchResult{
							ChapterSlug:  ch.Slug,
							ChapterTitle: ch.Title,
							Anchor:       sec.Anchor,
							Section:      sec.Heading,
							Snippet:      snippet,
							Relevance:    float64(matched) / float64(len(words)),
						})
					}
				}
				walk(sec.Children)
			}
		}
		walk(ch.Sections)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	return results
}
