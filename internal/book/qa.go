package book

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jharris/bookbinder/internal/model"
)

// RenderedPrompt is the always-visible part of a question.
type RenderedPrompt struct {
	ID      string
	Kind    model.QAKind
	Prompt  string
	Options []string
	Summary string
}

// HiddenPayload carries the answer and explanation withheld from the
// visible rendering. This is a presentation contract, not a security
// boundary: any client that receives the payload can open it.
type HiddenPayload struct {
	AnswerIndex int
	AnswerBool  bool
	Accepted    []string
	Explanation string
}

// CheckResult is the outcome of grading one submission. The explanation is
// always populated, right or wrong: explain both.
type CheckResult struct {
	Correct     bool
	Gradable    bool
	Explanation string
}

// Render splits a question into its visible prompt and hidden payload.
func Render(u model.QAUnit) (RenderedPrompt, HiddenPayload) {
	visible := RenderedPrompt{
		ID:      u.ID,
		Kind:    u.Kind,
		Prompt:  u.Prompt,
		Options: u.Options,
		Summary: u.Summary,
	}
	hidden := HiddenPayload{
		AnswerIndex: u.AnswerIndex,
		AnswerBool:  u.AnswerBool,
		Accepted:    u.Accepted,
		Explanation: u.Explanation,
	}
	return visible, hidden
}

// CheckAnswer grades a submission against the question's answer key.
// Multiple-choice accepts an option index or letter; true/false accepts the
// boolean words; fill-blank compares case-insensitively after trimming
// against every accepted literal. Scenario questions are not gradable.
func CheckAnswer(u model.QAUnit, submitted string) (CheckResult, error) {
	result := CheckResult{Explanation: u.Explanation}
	submitted = strings.TrimSpace(submitted)

	switch u.Kind {
	case model.QAMultipleChoice:
		idx, err := parseOptionChoice(submitted, len(u.Options))
		if err != nil {
			return result, err
		}
		result.Gradable = true
		result.Correct = idx == u.AnswerIndex

	case model.QATrueFalse:
		b, err := parseBoolWord(submitted)
		if err != nil {
			return result, err
		}
		result.Gradable = true
		result.Correct = b == u.AnswerBool

	case model.QAFillBlank:
		result.Gradable = true
		for _, accepted := range u.Accepted {
			if strings.EqualFold(submitted, strings.TrimSpace(accepted)) {
				result.Correct = true
				break
			}
		}

	case model.QAScenario:
		// Open-ended: no answer key, only the explanation.

	default:
		return result, fmt.Errorf("unknown question kind %q", u.Kind)
	}

	return result, nil
}

// parseOptionChoice accepts "2" (zero-based index), "B", or "b".
func parseOptionChoice(s string, optionCount int) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty answer")
	}
	idx := -1
	if n, err := strconv.Atoi(s); err == nil {
		idx = n
	} else if len(s) == 1 {
		c := s[0]
		switch {
		case c >= 'A' && c <= 'Z':
			idx = int(c - 'A')
		case c >= 'a' && c <= 'z':
			idx = int(c - 'a')
		}
	}
	if idx < 0 || idx >= optionCount {
		return 0, fmt.Errorf("answer %q is not one of the %d options", s, optionCount)
	}
	return idx, nil
}

func parseBoolWord(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "t", "yes", "y":
		return true, nil
	case "false", "f", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("answer %q is not true or false", s)
}

// Reveal returns a copy of the unit flipped to the revealed state. The
// transition is one-directional per view; a fresh parse or page load starts
// collapsed again.
func Reveal(u model.QAUnit) model.QAUnit {
	u.State = model.StateRevealed
	return u
}
