package book

import (
	"testing"

	"github.com/jharris/bookbinder/internal/model"
)

func mcUnit() model.QAUnit {
	return model.QAUnit{
		ID:          "qa-1",
		Kind:        model.QAMultipleChoice,
		Prompt:      "Which isolation level prevents dirty reads?",
		Options:     []string{"Read Uncommitted", "Read Committed", "None of these"},
		AnswerIndex: 1,
		Explanation: "Answer: B\nRead Committed hides uncommitted writes.",
		State:       model.StateCollapsed,
	}
}

func TestCheckAnswer_MultipleChoice(t *testing.T) {
	u := mcUnit()
	cases := []struct {
		submitted string
		correct   bool
	}{
		{"1", true},
		{"B", true},
		{"b", true},
		{"0", false},
		{"A", false},
	}
	for _, c := range cases {
		result, err := CheckAnswer(u, c.submitted)
		if err != nil {
			t.Fatalf("CheckAnswer(%q) failed: %v", c.submitted, err)
		}
		if !result.Gradable {
			t.Errorf("CheckAnswer(%q) should be gradable", c.submitted)
		}
		if result.Correct != c.correct {
			t.Errorf("CheckAnswer(%q): correct = %v, want %v", c.submitted, result.Correct, c.correct)
		}
		if result.Explanation == "" {
			t.Errorf("CheckAnswer(%q) dropped the explanation", c.submitted)
		}
	}
}

func TestCheckAnswer_MultipleChoiceOutOfRange(t *testing.T) {
	u := mcUnit()
	result, err := CheckAnswer(u, "Z")
	if err == nil {
		t.Error("expected an error for an answer outside the options")
	}
	if result.Explanation == "" {
		t.Error("explanation should survive a rejected submission")
	}
}

func TestCheckAnswer_TrueFalse(t *testing.T) {
	u := model.QAUnit{
		Kind:        model.QATrueFalse,
		AnswerBool:  false,
		Explanation: "A primary key cannot be NULL.",
	}
	for _, s := range []string{"false", "F", "no", "N"} {
		result, err := CheckAnswer(u, s)
		if err != nil {
			t.Fatalf("CheckAnswer(%q) failed: %v", s, err)
		}
		if !result.Correct {
			t.Errorf("CheckAnswer(%q) should be correct", s)
		}
	}
	if result, _ := CheckAnswer(u, "true"); result.Correct {
		t.Error("true should be incorrect here")
	}
	if _, err := CheckAnswer(u, "maybe"); err == nil {
		t.Error("expected an error for a non-boolean answer")
	}
}

func TestCheckAnswer_FillBlank(t *testing.T) {
	u := model.QAUnit{
		Kind:        model.QAFillBlank,
		Accepted:    []string{"HAVING", "having clause"},
		Explanation: "HAVING filters after grouping.",
	}
	for _, s := range []string{"HAVING", "having", "  Having Clause  "} {
		result, err := CheckAnswer(u, s)
		if err != nil {
			t.Fatalf("CheckAnswer(%q) failed: %v", s, err)
		}
		if !result.Correct {
			t.Errorf("CheckAnswer(%q) should be correct", s)
		}
	}
	if result, _ := CheckAnswer(u, "WHERE"); result.Correct {
		t.Error("WHERE should be incorrect")
	}
}

func TestCheckAnswer_ScenarioNotGradable(t *testing.T) {
	u := model.QAUnit{
		Kind:        model.QAScenario,
		Explanation: "Look at the slow query log first.",
	}
	result, err := CheckAnswer(u, "I would add an index")
	if err != nil {
		t.Fatalf("CheckAnswer failed: %v", err)
	}
	if result.Gradable {
		t.Error("scenario questions are not gradable")
	}
	if result.Explanation != u.Explanation {
		t.Errorf("unexpected explanation: %q", result.Explanation)
	}
}

func TestRender_SplitsVisibleFromHidden(t *testing.T) {
	u := mcUnit()
	visible, hidden := Render(u)

	if visible.Prompt != u.Prompt || len(visible.Options) != 3 {
		t.Errorf("unexpected visible rendering: %+v", visible)
	}
	if hidden.AnswerIndex != 1 {
		t.Errorf("unexpected hidden answer index: %d", hidden.AnswerIndex)
	}
	if hidden.Explanation != u.Explanation {
		t.Errorf("unexpected hidden explanation: %q", hidden.Explanation)
	}
}

func TestReveal(t *testing.T) {
	u := mcUnit()
	revealed := Reveal(u)
	if revealed.State != model.StateRevealed {
		t.Errorf("expected revealed state, got %q", revealed.State)
	}
	if u.State != model.StateCollapsed {
		t.Error("Reveal must not mutate its input")
	}
}
