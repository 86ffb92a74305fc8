package model

// QAKind categorizes a self-check question.
type QAKind string

const (
	QAFillBlank      QAKind = "fill-blank"
	QATrueFalse      QAKind = "true-false"
	QAMultipleChoice QAKind = "multiple-choice"
	QAScenario       QAKind = "scenario"
)

// DisclosureState is the presentation flag governing whether a question's
// answer is currently shown. It never affects correctness data.
type DisclosureState string

const (
	StateCollapsed DisclosureState = "collapsed"
	StateRevealed  DisclosureState = "revealed"
)

// QAUnit is a self-check question with a hidden answer and explanation.
// Exactly one of AnswerIndex, AnswerBool, or Accepted carries the answer
// key, selected by Kind. Scenario questions have no gradable key.
type QAUnit struct {
	// ID is unique within the owning chapter ("qa-1", "qa-2", ...), assigned
	// in document order by the parser.
	ID string

	Kind    QAKind
	Prompt  string
	Options []string

	// AnswerIndex indexes Options for multiple-choice; -1 otherwise.
	AnswerIndex int
	AnswerBool  bool
	// Accepted lists the literal answers allowed for fill-blank questions.
	Accepted []string

	Explanation string
	State       DisclosureState

	// Summary is the disclosure label from the source document
	// ("View Answer" and the like).
	Summary string
}

func (QAUnit) BlockKind() BlockKind { return BlockQA }
