package handlers

import (
	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jharris/bookbinder/internal/templates"
)

func GlossaryHandler(site *Site) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := templates.Glossary(site.Title, site.Corpus().Glossary)
		handler := adaptor.HTTPHandler(templ.Handler(page))

		return handler(c)
	}
}
