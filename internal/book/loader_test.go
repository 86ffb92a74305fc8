package book

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jharris/bookbinder/internal/model"
)

func src(path, content string) ChapterSource {
	return ChapterSource{Path: path, Content: []byte(content)}
}

func TestLoad_ChapterNavigation(t *testing.T) {
	corpus, _, err := NewLoader().Load("Course Book", []ChapterSource{
		src("01-intro.md", "# Intro\n\nHello.\n"),
		src("02-modeling.md", "# Modeling\n\nTables.\n"),
		src("03-queries.md", "# Queries\n\nSelects.\n"),
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(corpus.Chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(corpus.Chapters))
	}

	first, mid, last := corpus.Chapters[0], corpus.Chapters[1], corpus.Chapters[2]
	if first.Prev != nil {
		t.Error("first chapter should have no previous")
	}
	if first.Next == nil || first.Next.Slug != "02-modeling" {
		t.Errorf("unexpected next of first: %+v", first.Next)
	}
	if mid.Prev == nil || mid.Prev.Slug != "01-intro" {
		t.Errorf("unexpected prev of middle: %+v", mid.Prev)
	}
	if mid.Next == nil || mid.Next.Slug != "03-queries" {
		t.Errorf("unexpected next of middle: %+v", mid.Next)
	}
	if last.Next != nil {
		t.Error("last chapter should have no next")
	}
	if mid.Order != 1 {
		t.Errorf("expected order 1, got %d", mid.Order)
	}
}

func TestLoad_EmptyCorpus(t *testing.T) {
	_, _, err := NewLoader().Load("Empty", nil)
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestLoad_DuplicateSlug(t *testing.T) {
	_, _, err := NewLoader().Load("Book", []ChapterSource{
		src("01_intro.md", "# A\n"),
		src("01 intro.md", "# B\n"),
	})
	var dup *DuplicateSlugError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateSlugError, got %v", err)
	}
	if dup.Slug != "01-intro" {
		t.Errorf("unexpected slug: %q", dup.Slug)
	}
}

func TestLoad_GlossaryHarvest(t *testing.T) {
	corpus, issues, err := NewLoader().Load("Book", []ChapterSource{
		src("01-intro.md", `# Intro

## Glossary

- **Index**: A structure that speeds up lookups.
- **Shard**: A horizontal partition of data.
`),
		src("02-scaling.md", `# Scaling

## Glossary

- **shard**: Duplicate definition that should lose.
- **Replica**: A copy of data on another node.
`),
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(corpus.Glossary) != 3 {
		t.Fatalf("expected 3 glossary entries, got %d: %v", len(corpus.Glossary), corpus.Glossary)
	}
	// Sorted by term, first definition kept for the duplicate.
	if corpus.Glossary[0].Term != "Index" || corpus.Glossary[1].Term != "Replica" || corpus.Glossary[2].Term != "Shard" {
		t.Errorf("unexpected glossary order: %v", corpus.Glossary)
	}
	if corpus.Glossary[2].ChapterSlug != "01-intro" {
		t.Errorf("duplicate term should keep the first definition, got %q", corpus.Glossary[2].ChapterSlug)
	}

	found := false
	for _, iss := range issues {
		if iss.Code == model.IssueDuplicateTerm && iss.Severity == model.SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Error("expected a duplicate-term warning")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"02-second.md": "# Second\n",
		"01-first.md":  "# First\n",
		"README.md":    "# Not a chapter\n",
		"notes.txt":    "ignored\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	corpus, _, err := NewLoader().LoadDir("Book", dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(corpus.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(corpus.Chapters))
	}
	if corpus.Chapters[0].Slug != "01-first" || corpus.Chapters[1].Slug != "02-second" {
		t.Errorf("chapters out of filename order: %q, %q",
			corpus.Chapters[0].Slug, corpus.Chapters[1].Slug)
	}
}
