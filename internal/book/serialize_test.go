package book

import (
	"reflect"
	"testing"

	"github.com/jharris/bookbinder/internal/model"
)

const roundTripDoc = `# Transactions

Opening words about transactions.

## ACID Properties

| Property | Meaning |
| --- | --- |
| Atomicity | All or nothing |
| Durability | Survives crashes |

<!-- caption: Starting a transaction -->
` + "```sql\nBEGIN;\nUPDATE accounts SET balance = balance - 100 WHERE id = 1;\nCOMMIT;\n```" + `

## Practice

Which property guarantees all-or-nothing execution?

A. Atomicity
B. Isolation
C. Durability

<details>
<summary>View Answer</summary>

Answer: A
Partial writes never become visible.
</details>
`

func TestWriteMarkdown_RoundTrip(t *testing.T) {
	ch, _ := mustParse(t, "05-transactions.md", roundTripDoc)

	out := WriteMarkdown(ch)
	ch2, _, err := NewParser().Parse(ChapterSource{Path: "05-transactions.md", Content: []byte(out)})
	if err != nil {
		t.Fatalf("reparse failed: %v\nserialized:\n%s", err, out)
	}

	if !reflect.DeepEqual(Outline(ch2), Outline(ch)) {
		t.Errorf("outline changed across round trip:\n got %v\nwant %v", Outline(ch2), Outline(ch))
	}
	if ch2.SectionCount != ch.SectionCount || ch2.QACount != ch.QACount {
		t.Errorf("counts changed: sections %d->%d, questions %d->%d",
			ch.SectionCount, ch2.SectionCount, ch.QACount, ch2.QACount)
	}

	qa1 := firstQA(t, ch)
	qa2 := firstQA(t, ch2)
	if qa2.Kind != qa1.Kind || qa2.Prompt != qa1.Prompt || qa2.AnswerIndex != qa1.AnswerIndex {
		t.Errorf("question changed across round trip:\n got %+v\nwant %+v", qa2, qa1)
	}
	if !reflect.DeepEqual(qa2.Options, qa1.Options) {
		t.Errorf("options changed: %v vs %v", qa2.Options, qa1.Options)
	}

	tbl1 := firstTable(t, ch)
	tbl2 := firstTable(t, ch2)
	if !reflect.DeepEqual(tbl1, tbl2) {
		t.Errorf("table changed across round trip: %v vs %v", tbl2, tbl1)
	}

	code1 := firstCode(t, ch)
	code2 := firstCode(t, ch2)
	if code1.Source != code2.Source || code1.Language != code2.Language || code1.Caption != code2.Caption {
		t.Errorf("code block changed across round trip: %+v vs %+v", code2, code1)
	}

	// Serializing again is a fixed point.
	if out2 := WriteMarkdown(ch2); out2 != out {
		t.Errorf("serialization is not stable:\n%s\nvs\n%s", out2, out)
	}
}

func TestWriteMarkdown_FenceCollision(t *testing.T) {
	ch := &model.Chapter{
		Sections: []*model.Section{{
			Anchor:  "docs",
			Heading: "Docs",
			Level:   1,
			Blocks: []model.Block{
				model.CodeBlock{Language: "markdown", Source: "```go\nfunc main() {}\n```"},
			},
		}},
	}
	out := WriteMarkdown(ch)

	ch2, _, err := NewParser().Parse(ChapterSource{Path: "docs.md", Content: []byte(out)})
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	code := firstCode(t, ch2)
	if code.Source != "```go\nfunc main() {}\n```" {
		t.Errorf("nested fence mangled: %q", code.Source)
	}
}

func firstTable(t *testing.T, ch *model.Chapter) (tbl model.Table) {
	t.Helper()
	found := false
	walkSections(ch.Sections, func(s *model.Section) {
		for _, b := range s.Blocks {
			if v, ok := b.(model.Table); ok && !found {
				tbl, found = v, true
			}
		}
	})
	if !found {
		t.Fatal("chapter has no table")
	}
	return tbl
}

func firstCode(t *testing.T, ch *model.Chapter) (code model.CodeBlock) {
	t.Helper()
	found := false
	walkSections(ch.Sections, func(s *model.Section) {
		for _, b := range s.Blocks {
			if v, ok := b.(model.CodeBlock); ok && !found {
				code, found = v, true
			}
		}
	})
	if !found {
		t.Fatal("chapter has no code block")
	}
	return code
}
