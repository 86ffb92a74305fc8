package model

// Corpus is the full ordered collection of chapters forming one book.
// It is built once by the loader and treated as read-only afterwards;
// concurrent readers may share a Corpus without synchronization.
type Corpus struct {
	Title    string
	Chapters []*Chapter
	Glossary []GlossaryEntry
}

// ChapterBySlug returns the chapter with the given slug, or nil.
func (c *Corpus) ChapterBySlug(slug string) *Chapter {
	for _, ch := range c.Chapters {
		if ch.Slug == slug {
			return ch
		}
	}
	return nil
}

// ChapterRef is a lightweight pointer to a chapter, used for derived
// prev/next navigation. Navigation is always recomputed from corpus order
// so reordering chapters can never leave stale links behind.
type ChapterRef struct {
	Slug  string
	Title string
}

// Chapter is a top-level document unit parsed from one markdown file.
type Chapter struct {
	Slug       string
	Title      string
	Order      int
	SourcePath string

	// Preamble holds any content appearing before the first heading.
	Preamble []Block
	Sections []*Section

	// Links collects every internal cross-link found in the chapter body,
	// resolved later by the corpus validator.
	Links []CrossLink

	WordCount    int
	SectionCount int
	QACount      int
	Checksum     string

	// Derived from corpus position, never authored.
	Prev *ChapterRef
	Next *ChapterRef
}

// Section is a heading-delimited unit of content. Children must sit at
// exactly Level+1; the parser rejects skipped levels.
type Section struct {
	Anchor   string
	Heading  string
	Level    int
	Blocks   []Block
	Children []*Section
}

// BlockKind discriminates the body content types a section can hold.
type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockTable     BlockKind = "table"
	BlockCode      BlockKind = "code"
	BlockQA        BlockKind = "qa"
)

// Block is one unit of section body content, in document order.
type Block interface {
	BlockKind() BlockKind
}

// Paragraph is a run of prose lines separated from its neighbors by blank
// lines. List items are carried as paragraph lines; the content model does
// not distinguish them.
type Paragraph struct {
	Text string
}

func (Paragraph) BlockKind() BlockKind { return BlockParagraph }

// Table is a GitHub-flavored markdown table.
type Table struct {
	Header []string
	Rows   [][]string
}

func (Table) BlockKind() BlockKind { return BlockTable }

// CodeBlock is a fenced snippet. Source is verbatim and opaque: it is never
// parsed, executed, or validated against anything, only displayed.
type CodeBlock struct {
	Language string
	Source   string
	Caption  string
}

func (CodeBlock) BlockKind() BlockKind { return BlockCode }

// CrossLink is an internal markdown link ([text](file.md#anchor)) collected
// for the validation pass. Absolute URLs are not recorded.
type CrossLink struct {
	Text       string
	TargetFile string
	TargetSlug string
	Anchor     string
	Chapter    string
}

// GlossaryEntry maps one domain term to its definition. Terms are unique
// case-insensitively across the whole corpus.
type GlossaryEntry struct {
	Term        string
	Definition  string
	ChapterSlug string
}
