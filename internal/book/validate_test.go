package book

import (
	"testing"

	"github.com/jharris/bookbinder/internal/model"
)

func findIssue(issues []model.ValidationIssue, code string) *model.ValidationIssue {
	for i := range issues {
		if issues[i].Code == code {
			return &issues[i]
		}
	}
	return nil
}

func TestValidate_CleanCorpus(t *testing.T) {
	corpus, _, err := NewLoader().Load("Book", []ChapterSource{
		src("01-intro.md", "# Intro\n\nSee [queries](02-queries.md#joins).\n"),
		src("02-queries.md", "# Queries\n\n## Joins\n\nInner and outer.\n"),
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if issues := Validate(corpus); len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
}

func TestValidate_DanglingLinks(t *testing.T) {
	corpus, _, err := NewLoader().Load("Book", []ChapterSource{
		src("01-intro.md", `# Intro

See [missing chapter](99-nowhere.md) and [missing anchor](02-queries.md#nope)
and [bad local](#gone).
`),
		src("02-queries.md", "# Queries\n"),
	})
	if err != nil {
		t.Fatalf("load should survive broken links: %v", err)
	}

	issues := Validate(corpus)
	var dangling int
	for _, iss := range issues {
		if iss.Code == model.IssueDanglingLink {
			dangling++
			if iss.Severity != model.SeverityWarning {
				t.Errorf("dangling link should warn, got %q", iss.Severity)
			}
		}
	}
	if dangling != 3 {
		t.Errorf("expected 3 dangling-link warnings, got %d: %v", dangling, issues)
	}
}

func TestValidate_AnswerOutOfRange(t *testing.T) {
	corpus, _, err := NewLoader().Load("Book", []ChapterSource{
		src("01-intro.md", `# Intro

Pick one.

A. First
B. Second

<details>
<summary>View Answer</summary>

Answer: E

The key names an option that does not exist.
</details>
`),
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	iss := findIssue(Validate(corpus), model.IssueAnswerOutOfRange)
	if iss == nil {
		t.Fatal("expected an answer-out-of-range issue")
	}
	if iss.Severity != model.SeverityError {
		t.Errorf("expected an error, got %q", iss.Severity)
	}
}

func TestCountBySeverity(t *testing.T) {
	issues := []model.ValidationIssue{
		{Severity: model.SeverityError},
		{Severity: model.SeverityWarning},
		{Severity: model.SeverityWarning},
		{Severity: model.SeverityInfo},
	}
	errs, warns, infos := model.CountBySeverity(issues)
	if errs != 1 || warns != 2 || infos != 1 {
		t.Errorf("unexpected tally: %d/%d/%d", errs, warns, infos)
	}
}
