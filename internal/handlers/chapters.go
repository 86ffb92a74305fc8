package handlers

import (
	"sort"
	"strings"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jharris/bookbinder/internal/book"
	"github.com/jharris/bookbinder/internal/model"
	"github.com/jharris/bookbinder/internal/templates"
)

func ChaptersHandler(site *Site) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sortBy := c.Query("sort", "position")
		order := c.Query("order", "asc")

		chapters := sortedChapters(site.Corpus(), sortBy, order)

		// htmx requests get just the table body
		if c.Get("HX-Request") == "true" {
			page := templates.ChaptersTableBody(chapters)
			handler := adaptor.HTTPHandler(templ.Handler(page))
			return handler(c)
		}

		page := templates.Chapters(site.Title, chapters, sortBy, order)
		handler := adaptor.HTTPHandler(templ.Handler(page))

		return handler(c)
	}
}

func ChapterDetailHandler(site *Site) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := c.Params("slug")

		ch := site.Corpus().ChapterBySlug(slug)
		if ch == nil {
			return c.Status(fiber.StatusNotFound).SendString("Chapter not found")
		}

		toc := book.Outline(ch)

		page := templates.ChapterDetail(site.Title, ch, toc)
		handler := adaptor.HTTPHandler(templ.Handler(page))

		return handler(c)
	}
}

// sortedChapters returns a sorted copy of the corpus chapter list. Sort
// keys are whitelisted; anything else falls back to book order.
func sortedChapters(corpus *model.Corpus, sortBy, order string) []*model.Chapter {
	chapters := make([]*model.Chapter, len(corpus.Chapters))
	copy(chapters, corpus.Chapters)

	less := func(a, b *model.Chapter) bool { return a.Order < b.Order }
	switch sortBy {
	case "title":
		less = func(a, b *model.Chapter) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case "words":
		less = func(a, b *model.Chapter) bool { return a.WordCount < b.WordCount }
	case "sections":
		less = func(a, b *model.Chapter) bool { return a.SectionCount < b.SectionCount }
	case "questions":
		less = func(a, b *model.Chapter) bool { return a.QACount < b.QACount }
	}

	sort.SliceStable(chapters, func(i, j int) bool {
		if order == "desc" {
			return less(chapters[j], chapters[i])
		}
		return less(chapters[i], chapters[j])
	})
	return chapters
}
