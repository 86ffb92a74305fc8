package handlers

import (
	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jharris/bookbinder/internal/book"
	"github.com/jharris/bookbinder/internal/model"
	"github.com/jharris/bookbinder/internal/templates"
)

// findQA locates a question by chapter slug and unit ID.
func findQA(corpus *model.Corpus, slug, qaID string) (model.QAUnit, bool) {
	ch := corpus.ChapterBySlug(slug)
	if ch == nil {
		return model.QAUnit{}, false
	}

	var found model.QAUnit
	ok := false
	var walk func(secs []*model.Section)
	walk = func(secs []*model.Section) {
		for _, sec := range secs {
			for _, b := range sec.Blocks {
				if qa, isQA := b.(model.QAUnit); isQA && qa.ID == qaID {
					found = qa
					ok = true
					return
				}
			}
			walk(sec.Children)
			if ok {
				return
			}
		}
	}
	walk(ch.Sections)
	return found, ok
}

// QACheckHandler grades a submitted answer. htmx callers get an HTML
// fragment; everyone else gets JSON. The explanation is returned whether
// the answer was right or wrong.
func QACheckHandler(site *Site) fiber.Handler {
	return func(c *fiber.Ctx) error {
		qa, ok := findQA(site.Corpus(), c.Params("slug"), c.Params("id"))
		if !ok {
			return c.Status(fiber.StatusNotFound).SendString("Question not found")
		}

		answer := c.FormValue("answer")
		if answer == "" {
			var payload struct {
				Answer string `json:"answer"`
			}
			if err := c.BodyParser(&payload); err == nil {
				answer = payload.Answer
			}
		}

		result, err := book.CheckAnswer(qa, answer)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}

		if c.Get("HX-Request") == "true" {
			page := templates.QACheckResult(result)
			handler := adaptor.HTTPHandler(templ.Handler(page))
			return handler(c)
		}

		return c.JSON(fiber.Map{
			"correct":     result.Correct,
			"gradable":    result.Gradable,
			"explanation": result.Explanation,
		})
	}
}

// QARevealHandler serves the hidden payload of one question: the
// collapsed-to-revealed transition for a single page view.
func QARevealHandler(site *Site) fiber.Handler {
	return func(c *fiber.Ctx) error {
		qa, ok := findQA(site.Corpus(), c.Params("slug"), c.Params("id"))
		if !ok {
			return c.Status(fiber.StatusNotFound).SendString("Question not found")
		}

		page := templates.QAAnswer(book.Reveal(qa))
		handler := adaptor.HTTPHandler(templ.Handler(page))

		return handler(c)
	}
}
