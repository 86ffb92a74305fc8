package handlers

import (
	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jharris/bookbinder/internal/service"
	"github.com/jharris/bookbinder/internal/templates"
)

func HomeHandler(site *Site) fiber.Handler {
	return func(c *fiber.Ctx) error {
		metrics := service.CalculateMetrics(site.Corpus())

		page := templates.Home(site.Title, metrics)
		handler := adaptor.HTTPHandler(templ.Handler(page))

		return handler(c)
	}
}
