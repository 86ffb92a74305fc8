package book

import (
	"fmt"
	"strings"

	"github.com/jharris/bookbinder/internal/model"
)

// Validate lints a built corpus: cross-link resolution, anchor uniqueness,
// heading-level contiguity, and answer-key bounds. It never fails; all
// findings come back as issues, because partial documentation is still
// useful output.
func Validate(c *model.Corpus) []model.ValidationIssue {
	var issues []model.ValidationIssue

	anchorsByChapter := make(map[string]map[string]bool, len(c.Chapters))
	for _, ch := range c.Chapters {
		anchors := make(map[string]bool)
		walkSections(ch.Sections, func(s *model.Section) {
			anchors[s.Anchor] = true
		})
		anchorsByChapter[ch.Slug] = anchors
	}

	for _, ch := range c.Chapters {
		issues = append(issues, checkStructure(ch)...)
		issues = append(issues, checkAnswers(ch)...)
		issues = append(issues, checkLinks(c, ch, anchorsByChapter)...)
	}

	return issues
}

// checkStructure re-verifies the invariants the parser enforces: anchor
// uniqueness within the chapter, and each child sitting exactly one level
// below its parent.
func checkStructure(ch *model.Chapter) []model.ValidationIssue {
	var issues []model.ValidationIssue
	seen := make(map[string]bool)

	var walk func(secs []*model.Section, parentLevel int)
	walk = func(secs []*model.Section, parentLevel int) {
		for _, s := range secs {
			if seen[s.Anchor] {
				issues = append(issues, model.ValidationIssue{
					Severity: model.SeverityError,
					Code:     model.IssueDuplicateAnchor,
					Chapter:  ch.Slug,
					Anchor:   s.Anchor,
					Message:  fmt.Sprintf("anchor %q appears more than once", s.Anchor),
				})
			}
			seen[s.Anchor] = true
			if s.Level != parentLevel+1 {
				issues = append(issues, model.ValidationIssue{
					Severity: model.SeverityError,
					Code:     model.IssueMalformedHeading,
					Chapter:  ch.Slug,
					Anchor:   s.Anchor,
					Message:  fmt.Sprintf("section %q at level %d under level %d", s.Heading, s.Level, parentLevel),
				})
			}
			walk(s.Children, s.Level)
		}
	}
	walk(ch.Sections, 0)
	return issues
}

// checkAnswers flags multiple-choice units whose answer index escapes the
// option list.
func checkAnswers(ch *model.Chapter) []model.ValidationIssue {
	var issues []model.ValidationIssue
	walkSections(ch.Sections, func(s *model.Section) {
		for _, b := range s.Blocks {
			qa, ok := b.(model.QAUnit)
			if !ok || qa.Kind != model.QAMultipleChoice {
				continue
			}
			if qa.AnswerIndex < 0 || qa.AnswerIndex >= len(qa.Options) {
				issues = append(issues, model.ValidationIssue{
					Severity: model.SeverityError,
					Code:     model.IssueAnswerOutOfRange,
					Chapter:  ch.Slug,
					Anchor:   s.Anchor,
					Message: fmt.Sprintf("question %s: answer index %d outside %d options",
						qa.ID, qa.AnswerIndex, len(qa.Options)),
				})
			}
		}
	})
	return issues
}

// checkLinks resolves every internal cross-link against the corpus's
// chapter slugs and section anchors. A broken link is a warning, never a
// build failure.
func checkLinks(c *model.Corpus, ch *model.Chapter, anchors map[string]map[string]bool) []model.ValidationIssue {
	var issues []model.ValidationIssue
	for _, link := range ch.Links {
		targetSlug := link.TargetSlug
		if targetSlug == "" {
			targetSlug = ch.Slug
		}

		target := c.ChapterBySlug(targetSlug)
		if target == nil {
			issues = append(issues, model.ValidationIssue{
				Severity: model.SeverityWarning,
				Code:     model.IssueDanglingLink,
				Chapter:  ch.Slug,
				Message:  fmt.Sprintf("link %q targets unknown chapter %q", link.Text, displayTarget(link)),
			})
			continue
		}
		if link.Anchor == "" {
			continue
		}
		if !anchors[target.Slug][link.Anchor] {
			issues = append(issues, model.ValidationIssue{
				Severity: model.SeverityWarning,
				Code:     model.IssueDanglingLink,
				Chapter:  ch.Slug,
				Message: fmt.Sprintf("link %q targets missing anchor %q in chapter %q",
					link.Text, link.Anchor, target.Slug),
			})
		}
	}
	return issues
}

func displayTarget(link model.CrossLink) string {
	if link.TargetFile != "" {
		return link.TargetFile
	}
	return "#" + strings.TrimPrefix(link.Anchor, "#")
}
