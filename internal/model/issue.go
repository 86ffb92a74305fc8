package model

import "fmt"

// Severity ranks a validation issue. Only SeverityError blocks a build;
// warnings and infos are collected and reported because a partially broken
// corpus still serves readers better than none.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue codes emitted by the parser, loader, and validator.
const (
	IssueMalformedHeading = "malformed-heading"
	IssueDuplicateSlug    = "duplicate-slug"
	IssueAnchorResolved   = "duplicate-anchor-resolved"
	IssueDuplicateAnchor  = "duplicate-anchor"
	IssueDanglingLink     = "dangling-link"
	IssueAnswerOutOfRange = "answer-out-of-range"
	IssueDuplicateTerm    = "duplicate-term"
	IssueEmptyCorpus      = "empty-corpus"
)

// ValidationIssue is one finding from the corpus linter.
type ValidationIssue struct {
	Severity Severity
	Code     string
	Chapter  string
	Anchor   string
	Message  string
}

func (i ValidationIssue) String() string {
	loc := i.Chapter
	if i.Anchor != "" {
		loc = loc + "#" + i.Anchor
	}
	if loc == "" {
		return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Code, i.Message)
	}
	return fmt.Sprintf("[%s] %s (%s): %s", i.Severity, i.Code, loc, i.Message)
}

// CountBySeverity tallies issues per severity level.
func CountBySeverity(issues []ValidationIssue) (errors, warnings, infos int) {
	for _, i := range issues {
		switch i.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		default:
			infos++
		}
	}
	return
}
