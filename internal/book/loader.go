package book

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jharris/bookbinder/internal/model"
)

var glossaryBulletRe = regexp.MustCompile(`^\s*(?:[-*]\s+)?\*\*(.+?)\*\*\s*[:：]\s*(.+)$`)

// Loader assembles parsed chapters into a single navigable corpus.
type Loader struct {
	parser *Parser
}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{parser: NewParser()}
}

// ReadDir collects the chapter sources from a directory: every .md file,
// ordered by filename. Chapter numbering prefixes (01_, 02_, ...) make the
// filename order the book order.
func ReadDir(dir string) ([]ChapterSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read chapter directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		if strings.EqualFold(e.Name(), "README.md") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	sources := make([]ChapterSource, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read chapter %s: %w", path, err)
		}
		sources = append(sources, ChapterSource{Path: path, Content: content})
	}
	return sources, nil
}

// Load parses each source into a chapter, assigns derived prev/next links
// by position, and builds the glossary by scanning all chapters. Structural
// errors that would make navigation ambiguous (duplicate slugs, skipped
// heading levels, an empty corpus) are fatal; everything else comes back as
// validation issues alongside a usable corpus.
func (l *Loader) Load(title string, sources []ChapterSource) (*model.Corpus, []model.ValidationIssue, error) {
	if len(sources) == 0 {
		return nil, nil, ErrEmptyCorpus
	}

	corpus := &model.Corpus{Title: title}
	var issues []model.ValidationIssue
	slugPath := make(map[string]string)

	for i, src := range sources {
		ch, chIssues, err := l.parser.Parse(src)
		if err != nil {
			return nil, issues, fmt.Errorf("failed to parse %s: %w", src.Path, err)
		}
		issues = append(issues, chIssues...)

		if prev, ok := slugPath[ch.Slug]; ok {
			return nil, issues, &DuplicateSlugError{Slug: ch.Slug, PathA: prev, PathB: src.Path}
		}
		slugPath[ch.Slug] = src.Path

		ch.Order = i
		corpus.Chapters = append(corpus.Chapters, ch)
	}

	linkChapters(corpus)
	issues = append(issues, l.buildGlossary(corpus)...)

	return corpus, issues, nil
}

// LoadDir is Load over the .md files of a directory.
func (l *Loader) LoadDir(title, dir string) (*model.Corpus, []model.ValidationIssue, error) {
	sources, err := ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	return l.Load(title, sources)
}

// linkChapters derives prev/next references from corpus position. Derived,
// never stored: reordering chapters can't leave stale links.
func linkChapters(c *model.Corpus) {
	for i, ch := range c.Chapters {
		ch.Prev = nil
		ch.Next = nil
		if i > 0 {
			p := c.Chapters[i-1]
			ch.Prev = &model.ChapterRef{Slug: p.Slug, Title: p.Title}
		}
		if i < len(c.Chapters)-1 {
			n := c.Chapters[i+1]
			ch.Next = &model.ChapterRef{Slug: n.Slug, Title: n.Title}
		}
	}
}

// buildGlossary harvests **Term**: definition bullets from every section
// titled "Glossary". Duplicate terms (case-insensitive) keep the first
// definition and report a warning.
func (l *Loader) buildGlossary(c *model.Corpus) []model.ValidationIssue {
	var issues []model.ValidationIssue
	seen := make(map[string]string)

	for _, ch := range c.Chapters {
		walkSections(ch.Sections, func(sec *model.Section) {
			if !strings.HasPrefix(sec.Anchor, "glossary") && !strings.EqualFold(sec.Heading, "Glossary") {
				return
			}
			for _, b := range sec.Blocks {
				para, ok := b.(model.Paragraph)
				if !ok {
					continue
				}
				for _, line := range strings.Split(para.Text, "\n") {
					m := glossaryBulletRe.FindStringSubmatch(line)
					if m == nil {
						continue
					}
					term := strings.TrimSpace(m[1])
					def := strings.TrimSpace(m[2])
					key := strings.ToLower(term)
					if firstCh, dup := seen[key]; dup {
						issues = append(issues, model.ValidationIssue{
							Severity: model.SeverityWarning,
							Code:     model.IssueDuplicateTerm,
							Chapter:  ch.Slug,
							Anchor:   sec.Anchor,
							Message:  fmt.Sprintf("term %q already defined in %s, keeping the first definition", term, firstCh),
						})
						continue
					}
					seen[key] = ch.Slug
					c.Glossary = append(c.Glossary, model.GlossaryEntry{
						Term:        term,
						Definition:  def,
						ChapterSlug: ch.Slug,
					})
				}
			}
		})
	}

	sort.Slice(c.Glossary, func(i, j int) bool {
		return strings.ToLower(c.Glossary[i].Term) < strings.ToLower(c.Glossary[j].Term)
	})
	return issues
}

// walkSections visits every section in pre-order.
func walkSections(secs []*model.Section, fn func(*model.Section)) {
	for _, s := range secs {
		fn(s)
		walkSections(s.Children, fn)
	}
}
