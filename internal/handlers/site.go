package handlers

import (
	"sync/atomic"

	"github.com/jharris/bookbinder/internal/model"
)

// Site holds the served corpus behind an atomic pointer. The corpus is
// immutable once built, so readers never lock; live mode swaps in a whole
// new corpus after a rebuild.
type Site struct {
	Title  string
	corpus atomic.Pointer[model.Corpus]
}

// NewSite creates a Site serving the given corpus.
func NewSite(title string, c *model.Corpus) *Site {
	s := &Site{Title: title}
	s.corpus.Store(c)
	return s
}

// Corpus returns the currently served corpus.
func (s *Site) Corpus() *model.Corpus {
	return s.corpus.Load()
}

// Swap replaces the served corpus.
func (s *Site) Swap(c *model.Corpus) {
	s.corpus.Store(c)
}
