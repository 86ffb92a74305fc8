package book

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	slugStripRe   = regexp.MustCompile(`[^\p{L}\p{N}-]`)
	slugHyphenRe  = regexp.MustCompile(`-+`)
	slugSpacingRe = regexp.MustCompile(`[\s_]+`)
)

// Slugify converts heading or filename text to a URL-safe anchor:
// lowercase, spaces and underscores to hyphens, punctuation stripped,
// hyphen runs collapsed.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugSpacingRe.ReplaceAllString(s, "-")
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugHyphenRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// anchorSet hands out unique anchors within one chapter. Distinct headings
// can slugify to the same anchor; collisions get a numeric suffix (-2, -3,
// ...) rather than an error, since anchors are navigation aids and
// rejecting duplicate headings would reject legitimate documents.
type anchorSet struct {
	seen map[string]int
}

func newAnchorSet() *anchorSet {
	return &anchorSet{seen: make(map[string]int)}
}

// claim returns the anchor to use for the given slug and whether it had to
// be disambiguated.
func (a *anchorSet) claim(slug string) (anchor string, collided bool) {
	if slug == "" {
		slug = "section"
	}
	n := a.seen[slug]
	a.seen[slug]++
	if n == 0 {
		return slug, false
	}
	return slug + "-" + strconv.Itoa(n+1), true
}
