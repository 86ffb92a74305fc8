package book

import (
	"errors"
	"fmt"
)

// ErrEmptyCorpus is returned when Load is given zero chapter sources.
var ErrEmptyCorpus = errors.New("corpus has no chapters")

// MalformedHeadingError reports a heading that skips a nesting level
// (for example a level-1 heading followed directly by a level-3). Broken
// heading hierarchies silently break the generated table of contents, so
// this is fatal for the chapter rather than repaired by guessing.
type MalformedHeadingError struct {
	Path    string
	Line    int
	Heading string
	Prev    int
	Got     int
}

func (e *MalformedHeadingError) Error() string {
	return fmt.Sprintf("%s:%d: heading %q skips from level %d to level %d",
		e.Path, e.Line, e.Heading, e.Prev, e.Got)
}

// DuplicateSlugError reports two chapters claiming the same slug, which
// would make navigation ambiguous. Fatal at corpus assembly.
type DuplicateSlugError struct {
	Slug  string
	PathA string
	PathB string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("duplicate chapter slug %q (%s and %s)", e.Slug, e.PathA, e.PathB)
}
