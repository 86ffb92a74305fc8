package handlers

import (
	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jharris/bookbinder/internal/service"
	"github.com/jharris/bookbinder/internal/templates"
)

func SearchHandler(site *Site) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")

		var results []service.SearchResult
		if query != "" {
			results = service.Search(site.Corpus(), query)
		}

		page := templates.SearchPage(site.Title, query, results)
		handler := adaptor.HTTPHandler(templ.Handler(page))

		return handler(c)
	}
}
