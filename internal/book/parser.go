package book

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/jharris/bookbinder/internal/model"
)

// ChapterSource is one raw markdown document handed to the parser.
type ChapterSource struct {
	Path    string
	Content []byte
}

var (
	headingRe     = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*$`)
	fenceRe       = regexp.MustCompile("^(`{3,}|~{3,})\\s*(\\S*)\\s*$")
	captionRe     = regexp.MustCompile(`^<!--\s*caption:\s*(.*?)\s*-->$`)
	summaryRe     = regexp.MustCompile(`<summary>(.*?)</summary>`)
	optionLineRe  = regexp.MustCompile(`^\s*(?:[-*]\s+)?([A-Da-d])[.)]\s+(.+)$`)
	answerLineRe  = regexp.MustCompile(`(?i)^\**answer\**\s*:\s*(.*?)\**\s*$`)
	linkRe        = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)
	blankRe       = regexp.MustCompile(`^\s*$`)
	fillBlankRe   = regexp.MustCompile(`_{2,}`)
	trueFalseHint = regexp.MustCompile(`(?i)\(true\s*/\s*false\)`)
)

// Parser converts raw heading-structured markdown into a chapter's section
// tree. It is stateless; one Parser serves any number of chapters.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// parseState carries the walk state for a single chapter.
type parseState struct {
	ch      *model.Chapter
	stack   []*model.Section
	anchors *anchorSet
	issues  []model.ValidationIssue

	para    []string
	caption string
	qaSeq   int
	words   int
}

// Parse walks the document top to bottom, opening a new section on each
// heading and appending subsequent content to the innermost open section
// until a heading of equal-or-higher level closes it. A heading that skips
// a nesting level fails the whole chapter with MalformedHeadingError.
func (p *Parser) Parse(src ChapterSource) (*model.Chapter, []model.ValidationIssue, error) {
	stem := strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	sum := md5.Sum(src.Content)

	st := &parseState{
		ch: &model.Chapter{
			Slug:       Slugify(stem),
			Title:      stem,
			SourcePath: src.Path,
			Checksum:   hex.EncodeToString(sum[:]),
		},
		anchors: newAnchorSet(),
	}

	text := strings.ReplaceAll(string(src.Content), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	sawTitle := false

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		// Caption comments bind to the next code fence.
		if m := captionRe.FindStringSubmatch(trimmed); m != nil {
			st.flushPara()
			st.caption = m[1]
			continue
		}

		// Fenced code block: contents are verbatim and opaque.
		if m := fenceRe.FindStringSubmatch(trimmed); m != nil {
			st.flushPara()
			// An unclosed fence runs to end of file.
			var body []string
			for i++; i < len(lines); i++ {
				if isClosingFence(strings.TrimSpace(lines[i]), m[1]) {
					break
				}
				body = append(body, lines[i])
			}
			st.appendBlock(model.CodeBlock{
				Language: m[2],
				Source:   strings.Join(body, "\n"),
				Caption:  st.caption,
			})
			st.caption = ""
			continue
		}

		// Heading: close sections down to the parent level, open a new one.
		if m := headingRe.FindStringSubmatch(line); m != nil {
			st.flushPara()
			level := len(m[1])
			heading := m[2]

			prev := 0
			if len(st.stack) > 0 {
				prev = st.stack[len(st.stack)-1].Level
			}
			if level > prev+1 {
				return nil, st.issues, &MalformedHeadingError{
					Path:    src.Path,
					Line:    i + 1,
					Heading: heading,
					Prev:    prev,
					Got:     level,
				}
			}

			anchor, collided := st.anchors.claim(Slugify(heading))
			if collided {
				st.issues = append(st.issues, model.ValidationIssue{
					Severity: model.SeverityInfo,
					Code:     model.IssueAnchorResolved,
					Chapter:  st.ch.Slug,
					Anchor:   anchor,
					Message:  fmt.Sprintf("heading %q collides with an earlier anchor, renamed to %q", heading, anchor),
				})
			}

			sec := &model.Section{Anchor: anchor, Heading: heading, Level: level}
			for len(st.stack) > 0 && st.stack[len(st.stack)-1].Level >= level {
				st.stack = st.stack[:len(st.stack)-1]
			}
			if len(st.stack) == 0 {
				st.ch.Sections = append(st.ch.Sections, sec)
			} else {
				parent := st.stack[len(st.stack)-1]
				parent.Children = append(parent.Children, sec)
			}
			st.stack = append(st.stack, sec)
			st.ch.SectionCount++
			st.words += len(strings.Fields(heading))

			if level == 1 && !sawTitle {
				st.ch.Title = heading
				sawTitle = true
			}
			continue
		}

		// Disclosure block: becomes a Q&A unit with a collapsed answer.
		if strings.HasPrefix(trimmed, "<details") {
			st.flushPara()
			summary := ""
			var body []string
			for ; i < len(lines); i++ {
				l := lines[i]
				if m := summaryRe.FindStringSubmatch(l); m != nil {
					summary = strings.TrimSpace(m[1])
					continue
				}
				if strings.Contains(l, "</details>") {
					break
				}
				t := strings.TrimSpace(l)
				if t == "" || strings.HasPrefix(t, "<details") {
					continue
				}
				body = append(body, l)
			}
			st.appendQA(summary, strings.TrimSpace(strings.Join(body, "\n")))
			continue
		}

		// Table: a pipe row followed by a delimiter row.
		if strings.Contains(trimmed, "|") && i+1 < len(lines) && isTableDelim(lines[i+1]) {
			st.flushPara()
			tbl := model.Table{Header: splitRow(trimmed)}
			st.countWords(tbl.Header...)
			i += 2
			for ; i < len(lines); i++ {
				rt := strings.TrimSpace(lines[i])
				if rt == "" || !strings.Contains(rt, "|") {
					i--
					break
				}
				row := splitRow(rt)
				st.countWords(row...)
				tbl.Rows = append(tbl.Rows, row)
			}
			st.appendBlock(tbl)
			continue
		}

		if blankRe.MatchString(line) {
			st.flushPara()
			continue
		}

		st.para = append(st.para, strings.TrimRight(line, " \t"))
	}
	st.flushPara()

	st.ch.WordCount = st.words
	return st.ch, st.issues, nil
}

// curBlocks returns the block list content should currently append to:
// the innermost open section, or the chapter preamble before any heading.
func (s *parseState) curBlocks() *[]model.Block {
	if len(s.stack) == 0 {
		return &s.ch.Preamble
	}
	return &s.stack[len(s.stack)-1].Blocks
}

func (s *parseState) appendBlock(b model.Block) {
	blocks := s.curBlocks()
	*blocks = append(*blocks, b)
}

// flushPara closes the pending paragraph, harvesting cross-links and words.
func (s *parseState) flushPara() {
	if len(s.para) == 0 {
		return
	}
	text := strings.Join(s.para, "\n")
	s.para = nil
	s.collectLinks(text)
	s.words += len(strings.Fields(text))
	s.appendBlock(model.Paragraph{Text: text})
}

// collectLinks records internal markdown links for the validation pass.
// Absolute URLs are not the corpus's business.
func (s *parseState) collectLinks(text string) {
	for _, m := range linkRe.FindAllStringSubmatch(text, -1) {
		target := m[2]
		if strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:") {
			continue
		}
		link := model.CrossLink{Text: m[1], Chapter: s.ch.Slug}
		if idx := strings.Index(target, "#"); idx >= 0 {
			link.Anchor = target[idx+1:]
			target = target[:idx]
		}
		if target != "" {
			if !strings.HasSuffix(target, ".md") {
				continue
			}
			link.TargetFile = target
			base := strings.TrimSuffix(filepath.Base(target), ".md")
			link.TargetSlug = Slugify(base)
		}
		if link.TargetFile == "" && link.Anchor == "" {
			continue
		}
		s.ch.Links = append(s.ch.Links, link)
	}
}

func (s *parseState) countWords(cells ...string) {
	for _, c := range cells {
		s.words += len(strings.Fields(c))
	}
}

// appendQA builds a QAUnit from the disclosure body plus the prompt and
// option paragraphs that immediately precede the block.
func (s *parseState) appendQA(summary, body string) {
	blocks := s.curBlocks()
	remaining, prompt, options := takePrompt(*blocks)
	*blocks = remaining

	s.qaSeq++
	unit := model.QAUnit{
		ID:          "qa-" + strconv.Itoa(s.qaSeq),
		Prompt:      prompt,
		Options:     options,
		AnswerIndex: -1,
		Explanation: body,
		State:       model.StateCollapsed,
		Summary:     summary,
	}

	answer, hasAnswer := extractAnswer(body)
	switch {
	case len(options) > 0:
		unit.Kind = model.QAMultipleChoice
		unit.AnswerIndex = resolveOptionIndex(answer, options)
	case hasAnswer && isBoolWord(answer):
		unit.Kind = model.QATrueFalse
		unit.AnswerBool = strings.EqualFold(answer, "true")
	case trueFalseHint.MatchString(prompt):
		unit.Kind = model.QATrueFalse
		unit.AnswerBool = strings.EqualFold(answer, "true")
	case hasAnswer && fillBlankRe.MatchString(prompt):
		unit.Kind = model.QAFillBlank
		for _, a := range strings.Split(answer, "/") {
			if a = strings.TrimSpace(a); a != "" {
				unit.Accepted = append(unit.Accepted, a)
			}
		}
	default:
		unit.Kind = model.QAScenario
	}

	s.ch.QACount++
	s.appendBlock(unit)
}

// takePrompt pops the trailing paragraph(s) that form a question's prompt
// and option list. The prompt stays out of the section body; it is owned by
// the QAUnit from here on.
func takePrompt(blocks []model.Block) (remaining []model.Block, prompt string, options []string) {
	remaining = blocks
	if len(remaining) == 0 {
		return remaining, "", nil
	}
	last, ok := remaining[len(remaining)-1].(model.Paragraph)
	if !ok {
		return remaining, "", nil
	}
	remaining = remaining[:len(remaining)-1]

	promptText, options := splitPromptOptions(last.Text)
	if promptText == "" && len(options) > 0 && len(remaining) > 0 {
		// Options stood alone in their own paragraph; the prompt is the
		// paragraph before it.
		if prev, ok := remaining[len(remaining)-1].(model.Paragraph); ok {
			remaining = remaining[:len(remaining)-1]
			promptText = prev.Text
		}
	}
	return remaining, promptText, options
}

// splitPromptOptions separates a paragraph into prose and a trailing
// A./B./C. option list, if one is present.
func splitPromptOptions(text string) (prompt string, options []string) {
	lines := strings.Split(text, "\n")
	firstOpt := -1
	for i, l := range lines {
		if optionLineRe.MatchString(l) {
			firstOpt = i
			break
		}
	}
	if firstOpt < 0 {
		return text, nil
	}
	for _, l := range lines[firstOpt:] {
		if m := optionLineRe.FindStringSubmatch(l); m != nil {
			options = append(options, strings.TrimSpace(m[2]))
		}
	}
	return strings.TrimSpace(strings.Join(lines[:firstOpt], "\n")), options
}

// extractAnswer finds the first "Answer: ..." line in a disclosure body.
// The body itself stays intact as the explanation.
func extractAnswer(body string) (string, bool) {
	for _, l := range strings.Split(body, "\n") {
		if m := answerLineRe.FindStringSubmatch(strings.TrimSpace(l)); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// resolveOptionIndex maps an answer literal to an option index: a letter
// (A-D), a 1-based number, or the option text itself. Unresolvable answers
// yield -1 and are flagged by the validator.
func resolveOptionIndex(answer string, options []string) int {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return -1
	}
	if len(answer) == 1 {
		c := answer[0]
		if c >= 'A' && c <= 'Z' {
			return int(c - 'A')
		}
		if c >= 'a' && c <= 'z' {
			return int(c - 'a')
		}
	}
	if n, err := strconv.Atoi(answer); err == nil {
		return n - 1
	}
	for i, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), answer) {
			return i
		}
	}
	// "C. Some text" style answers
	if m := optionLineRe.FindStringSubmatch(answer); m != nil {
		return resolveOptionIndex(m[1], options)
	}
	return -1
}

func isBoolWord(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}

// isClosingFence reports whether the line closes a fence opened with the
// given marker: same character, at least as long, nothing else on the line.
func isClosingFence(line, marker string) bool {
	if len(line) < len(marker) {
		return false
	}
	ch := marker[0]
	for i := 0; i < len(line); i++ {
		if line[i] != ch {
			return false
		}
	}
	return true
}

// isTableDelim reports whether the line is a GFM table delimiter row
// (cells of dashes with optional alignment colons).
func isTableDelim(line string) bool {
	t := strings.TrimSpace(line)
	if !strings.Contains(t, "-") || !strings.ContainsAny(t, "|") {
		return false
	}
	t = strings.Trim(t, "|")
	for _, cell := range strings.Split(t, "|") {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			return false
		}
		for _, r := range cell {
			if r != '-' && r != ':' {
				return false
			}
		}
		if !strings.Contains(cell, "-") {
			return false
		}
	}
	return true
}

// splitRow splits a table row into trimmed cells.
func splitRow(line string) []string {
	t := strings.TrimSpace(line)
	t = strings.Trim(t, "|")
	parts := strings.Split(t, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}
