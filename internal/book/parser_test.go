package book

import (
	"errors"
	"strings"
	"testing"

	"github.com/jharris/bookbinder/internal/model"
)

func mustParse(t *testing.T, path, content string) (*model.Chapter, []model.ValidationIssue) {
	t.Helper()
	ch, issues, err := NewParser().Parse(ChapterSource{Path: path, Content: []byte(content)})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return ch, issues
}

func TestParse_SectionTree(t *testing.T) {
	ch, _ := mustParse(t, "01-intro.md", `# Getting Started

Welcome text.

## Installation

Run the installer.

## Configuration

Edit the config file.

# Advanced Topics

Deeper material.
`)

	if ch.Title != "Getting Started" {
		t.Errorf("unexpected chapter title: %q", ch.Title)
	}
	if ch.Slug != "01-intro" {
		t.Errorf("unexpected slug: %q", ch.Slug)
	}
	if len(ch.Sections) != 2 {
		t.Fatalf("expected 2 top-level sections, got %d", len(ch.Sections))
	}

	first := ch.Sections[0]
	if first.Anchor != "getting-started" || first.Level != 1 {
		t.Errorf("unexpected first section: %q level %d", first.Anchor, first.Level)
	}
	if len(first.Children) != 2 {
		t.Fatalf("expected 2 children under first section, got %d", len(first.Children))
	}
	if first.Children[0].Anchor != "installation" || first.Children[1].Anchor != "configuration" {
		t.Errorf("unexpected child anchors: %q, %q", first.Children[0].Anchor, first.Children[1].Anchor)
	}
	if ch.Sections[1].Anchor != "advanced-topics" {
		t.Errorf("unexpected second section anchor: %q", ch.Sections[1].Anchor)
	}
	if ch.SectionCount != 4 {
		t.Errorf("expected 4 sections counted, got %d", ch.SectionCount)
	}
}

func TestParse_SkippedHeadingLevelFails(t *testing.T) {
	_, _, err := NewParser().Parse(ChapterSource{
		Path:    "bad.md",
		Content: []byte("# Top\n\n### Skipped\n"),
	})
	var mh *MalformedHeadingError
	if !errors.As(err, &mh) {
		t.Fatalf("expected MalformedHeadingError, got %v", err)
	}
	if mh.Prev != 1 || mh.Got != 3 {
		t.Errorf("expected skip from 1 to 3, got %d to %d", mh.Prev, mh.Got)
	}
	if mh.Line != 3 {
		t.Errorf("expected error at line 3, got %d", mh.Line)
	}
}

func TestParse_DuplicateAnchorsDisambiguated(t *testing.T) {
	ch, issues := mustParse(t, "ch.md", `# Chapter

## Overview

First overview.

## Details

## Overview

Second overview.
`)

	var anchors []string
	walkSections(ch.Sections, func(s *model.Section) {
		anchors = append(anchors, s.Anchor)
	})
	want := []string{"chapter", "overview", "details", "overview-2"}
	if len(anchors) != len(want) {
		t.Fatalf("expected %d anchors, got %v", len(want), anchors)
	}
	for i := range want {
		if anchors[i] != want[i] {
			t.Errorf("anchor %d: expected %q, got %q", i, want[i], anchors[i])
		}
	}

	found := false
	for _, iss := range issues {
		if iss.Code == model.IssueAnchorResolved && iss.Anchor == "overview-2" {
			found = true
		}
	}
	if !found {
		t.Error("expected a duplicate-anchor-resolved issue for overview-2")
	}
}

func TestParse_FenceIsVerbatim(t *testing.T) {
	ch, _ := mustParse(t, "ch.md", "# Chapter\n\n<!-- caption: Creating a table -->\n```sql\n-- not a heading\nCREATE TABLE users (id INT);\n# also not a heading\n```\n\nAfter the code.\n")

	sec := ch.Sections[0]
	if len(sec.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(sec.Blocks))
	}
	code, ok := sec.Blocks[0].(model.CodeBlock)
	if !ok {
		t.Fatalf("expected first block to be code, got %T", sec.Blocks[0])
	}
	if code.Language != "sql" {
		t.Errorf("unexpected language: %q", code.Language)
	}
	if code.Caption != "Creating a table" {
		t.Errorf("unexpected caption: %q", code.Caption)
	}
	if !strings.Contains(code.Source, "# also not a heading") {
		t.Errorf("fence contents should be verbatim, got %q", code.Source)
	}
	if ch.SectionCount != 1 {
		t.Errorf("heading-like lines inside the fence must not open sections, got %d", ch.SectionCount)
	}
}

func TestParse_UnclosedFenceRunsToEOF(t *testing.T) {
	ch, _ := mustParse(t, "ch.md", "# Chapter\n\n```go\nfunc main() {}")
	code, ok := ch.Sections[0].Blocks[0].(model.CodeBlock)
	if !ok {
		t.Fatalf("expected code block, got %T", ch.Sections[0].Blocks[0])
	}
	if code.Source != "func main() {}" {
		t.Errorf("unexpected source: %q", code.Source)
	}
}

func TestParse_Table(t *testing.T) {
	ch, _ := mustParse(t, "ch.md", `# Chapter

| Name | Type |
| --- | --- |
| id | INT |
| email | TEXT |

Trailing prose.
`)

	tbl, ok := ch.Sections[0].Blocks[0].(model.Table)
	if !ok {
		t.Fatalf("expected table, got %T", ch.Sections[0].Blocks[0])
	}
	if len(tbl.Header) != 2 || tbl.Header[0] != "Name" {
		t.Errorf("unexpected header: %v", tbl.Header)
	}
	if len(tbl.Rows) != 2 || tbl.Rows[1][1] != "TEXT" {
		t.Errorf("unexpected rows: %v", tbl.Rows)
	}
	if _, ok := ch.Sections[0].Blocks[1].(model.Paragraph); !ok {
		t.Errorf("expected paragraph after table, got %T", ch.Sections[0].Blocks[1])
	}
}

func TestParse_MultipleChoiceQuestion(t *testing.T) {
	ch, _ := mustParse(t, "ch.md", `# Chapter

## Practice

Which index type suits range scans best?

A. Hash index
B. B-tree index
C. Bitmap index

<details>
<summary>View Answer</summary>

Answer: B

B-trees keep keys ordered, so range scans walk the leaves.
</details>
`)

	sec := ch.Sections[0].Children[0]
	if len(sec.Blocks) != 1 {
		t.Fatalf("prompt and options should fold into the question, got %d blocks", len(sec.Blocks))
	}
	qa, ok := sec.Blocks[0].(model.QAUnit)
	if !ok {
		t.Fatalf("expected question, got %T", sec.Blocks[0])
	}
	if qa.Kind != model.QAMultipleChoice {
		t.Errorf("unexpected kind: %q", qa.Kind)
	}
	if qa.Prompt != "Which index type suits range scans best?" {
		t.Errorf("unexpected prompt: %q", qa.Prompt)
	}
	if len(qa.Options) != 3 || qa.Options[1] != "B-tree index" {
		t.Errorf("unexpected options: %v", qa.Options)
	}
	if qa.AnswerIndex != 1 {
		t.Errorf("expected answer index 1, got %d", qa.AnswerIndex)
	}
	if qa.State != model.StateCollapsed {
		t.Errorf("question should start collapsed, got %q", qa.State)
	}
	if qa.Summary != "View Answer" {
		t.Errorf("unexpected summary: %q", qa.Summary)
	}
	if !strings.Contains(qa.Explanation, "Answer: B") {
		t.Errorf("explanation should keep the answer line, got %q", qa.Explanation)
	}
	if ch.QACount != 1 {
		t.Errorf("expected 1 question counted, got %d", ch.QACount)
	}
}

func TestParse_TrueFalseQuestion(t *testing.T) {
	ch, _ := mustParse(t, "ch.md", `# Chapter

Primary keys may contain NULL values. (True/False)

<details>
<summary>Reveal</summary>

Answer: False

A primary key must uniquely identify every row.
</details>
`)

	qa := firstQA(t, ch)
	if qa.Kind != model.QATrueFalse {
		t.Errorf("unexpected kind: %q", qa.Kind)
	}
	if qa.AnswerBool {
		t.Error("expected answer false")
	}
}

func TestParse_FillBlankQuestion(t *testing.T) {
	ch, _ := mustParse(t, "ch.md", `# Chapter

The ____ clause filters grouped rows.

<details>
<summary>Answer</summary>

Answer: HAVING / having clause

WHERE filters before grouping; HAVING filters after.
</details>
`)

	qa := firstQA(t, ch)
	if qa.Kind != model.QAFillBlank {
		t.Errorf("unexpected kind: %q", qa.Kind)
	}
	if len(qa.Accepted) != 2 || qa.Accepted[0] != "HAVING" || qa.Accepted[1] != "having clause" {
		t.Errorf("unexpected accepted answers: %v", qa.Accepted)
	}
}

func TestParse_ScenarioQuestion(t *testing.T) {
	ch, _ := mustParse(t, "ch.md", `# Chapter

Your checkout service times out under load. Walk through how you would diagnose it.

<details>
<summary>Discussion</summary>

Start from the slow query log, then check lock contention.
</details>
`)

	qa := firstQA(t, ch)
	if qa.Kind != model.QAScenario {
		t.Errorf("unexpected kind: %q", qa.Kind)
	}
	if len(qa.Options) != 0 {
		t.Errorf("scenario should have no options, got %v", qa.Options)
	}
}

func TestParse_CrossLinks(t *testing.T) {
	ch, _ := mustParse(t, "01-intro.md", `# Intro

See [indexing](03-indexes.md#b-trees) and [below](#summary).
Also [the docs](https://example.com/docs) which we do not track.

## Summary

Done.
`)

	if len(ch.Links) != 2 {
		t.Fatalf("expected 2 internal links, got %d: %v", len(ch.Links), ch.Links)
	}
	if ch.Links[0].TargetSlug != "03-indexes" || ch.Links[0].Anchor != "b-trees" {
		t.Errorf("unexpected first link: %+v", ch.Links[0])
	}
	if ch.Links[1].TargetSlug != "" || ch.Links[1].Anchor != "summary" {
		t.Errorf("unexpected second link: %+v", ch.Links[1])
	}
}

func TestParse_PreambleAndWordCount(t *testing.T) {
	ch, _ := mustParse(t, "ch.md", "Opening remarks here.\n\n# Chapter\n\nTwo words.\n\n```\nignored code words\n```\n")

	if len(ch.Preamble) != 1 {
		t.Fatalf("expected 1 preamble block, got %d", len(ch.Preamble))
	}
	// 3 preamble + 1 heading + 2 body; fence contents never count.
	if ch.WordCount != 6 {
		t.Errorf("expected word count 6, got %d", ch.WordCount)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Getting Started", "getting-started"},
		{"What is ACID?", "what-is-acid"},
		{"snake_case_name", "snake-case-name"},
		{"  Spaced   Out  ", "spaced-out"},
		{"Already-Hyphenated", "already-hyphenated"},
		{"A.1", "a1"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func firstQA(t *testing.T, ch *model.Chapter) model.QAUnit {
	t.Helper()
	var qa *model.QAUnit
	walkSections(ch.Sections, func(s *model.Section) {
		for _, b := range s.Blocks {
			if u, ok := b.(model.QAUnit); ok && qa == nil {
				qa = &u
			}
		}
	})
	if qa == nil {
		for _, b := range ch.Preamble {
			if u, ok := b.(model.QAUnit); ok {
				return u
			}
		}
		t.Fatal("chapter has no question")
	}
	return *qa
}
