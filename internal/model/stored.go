package model

import "time"

// StoredChapter is the persisted form of a chapter: derived counts plus the
// raw markdown source, keyed by slug.
type StoredChapter struct {
	ID           int
	Slug         string
	Title        string
	Position     int
	WordCount    int
	SectionCount int
	QACount      int
	Checksum     string
	Content      string
	FetchedAt    time.Time
	CreatedAt    time.Time
}

// ChapterSnapshot records the state of a chapter as of one import date.
// A snapshot is only written when the chapter's checksum changed for that
// date, so re-importing the same content is idempotent.
type ChapterSnapshot struct {
	ID           int
	Slug         string
	Title        string
	WordCount    int
	SectionCount int
	QACount      int
	Checksum     string
	SnapshotDate time.Time
	CreatedAt    time.Time
}
