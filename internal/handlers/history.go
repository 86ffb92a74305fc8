package handlers

import (
	"context"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jharris/bookbinder/internal/service"
	"github.com/jharris/bookbinder/internal/store"
	"github.com/jharris/bookbinder/internal/templates"
)

// HistoryHandler lists import snapshot dates. Only registered when the
// server is backed by a database; live mode has no history to show.
func HistoryHandler(site *Site, chapterStore *store.ChapterStore, metricsService *service.MetricsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		dates, err := chapterStore.GetSnapshotDates(ctx)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading snapshots")
		}

		metrics, err := metricsService.GetLatestMetrics(ctx)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading metrics")
		}

		page := templates.History(site.Title, dates, metrics)
		handler := adaptor.HTTPHandler(templ.Handler(page))

		return handler(c)
	}
}
