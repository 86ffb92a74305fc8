package book

import "github.com/jharris/bookbinder/internal/model"

// TOCEntry is one line of a chapter outline.
type TOCEntry struct {
	Anchor string
	Title  string
	Level  int
}

// Outline derives a table of contents from a chapter's section tree:
// pre-order, one entry per section, nesting level preserved for
// indentation. Pure function of the chapter, so hand-maintained tables of
// contents can never drift from the headings.
func Outline(ch *model.Chapter) []TOCEntry {
	var entries []TOCEntry
	walkSections(ch.Sections, func(s *model.Section) {
		entries = append(entries, TOCEntry{Anchor: s.Anchor, Title: s.Heading, Level: s.Level})
	})
	return entries
}
