package book

import (
	"strings"

	"github.com/jharris/bookbinder/internal/model"
)

// WriteMarkdown re-serializes a chapter's section tree back to markdown.
// Re-parsing the output yields a structurally equivalent chapter: anchors,
// nesting levels, and body-content order are preserved.
func WriteMarkdown(ch *model.Chapter) string {
	var b strings.Builder
	writeBlocks(&b, ch.Preamble)
	for _, sec := range ch.Sections {
		writeSection(&b, sec)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeSection(b *strings.Builder, sec *model.Section) {
	b.WriteString(strings.Repeat("#", sec.Level))
	b.WriteString(" ")
	b.WriteString(sec.Heading)
	b.WriteString("\n\n")
	writeBlocks(b, sec.Blocks)
	for _, child := range sec.Children {
		writeSection(b, child)
	}
}

func writeBlocks(b *strings.Builder, blocks []model.Block) {
	for _, block := range blocks {
		switch v := block.(type) {
		case model.Paragraph:
			b.WriteString(v.Text)
			b.WriteString("\n\n")
		case model.Table:
			writeTable(b, v)
		case model.CodeBlock:
			writeCode(b, v)
		case model.QAUnit:
			writeQA(b, v)
		}
	}
}

func writeTable(b *strings.Builder, t model.Table) {
	writeRow(b, t.Header)
	delim := make([]string, len(t.Header))
	for i := range delim {
		delim[i] = "---"
	}
	writeRow(b, delim)
	for _, row := range t.Rows {
		writeRow(b, row)
	}
	b.WriteString("\n")
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

func writeCode(b *strings.Builder, c model.CodeBlock) {
	if c.Caption != "" {
		b.WriteString("<!-- caption: ")
		b.WriteString(c.Caption)
		b.WriteString(" -->\n")
	}
	fence := "```"
	if strings.Contains(c.Source, "```") {
		fence = "~~~"
	}
	b.WriteString(fence)
	b.WriteString(c.Language)
	b.WriteString("\n")
	b.WriteString(c.Source)
	b.WriteString("\n")
	b.WriteString(fence)
	b.WriteString("\n\n")
}

func writeQA(b *strings.Builder, u model.QAUnit) {
	if u.Prompt != "" {
		b.WriteString(u.Prompt)
		b.WriteString("\n\n")
	}
	if len(u.Options) > 0 {
		for i, opt := range u.Options {
			b.WriteString(string(rune('A' + i)))
			b.WriteString(". ")
			b.WriteString(opt)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("<details>\n")
	if u.Summary != "" {
		b.WriteString("<summary>")
		b.WriteString(u.Summary)
		b.WriteString("</summary>\n")
	}
	b.WriteString("\n")
	b.WriteString(u.Explanation)
	b.WriteString("\n\n</details>\n\n")
}
