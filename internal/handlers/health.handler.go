package handlers

import (
	"roomflow/internal/app"

	"github.com/gofiber/fiber/v2"
)

func HealthHandler(router fiber.Router, app *app.App) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"version":   app.Config.GeneralVersion,
			"service":   "roomflow_api",
			"websocket": app.Websocket.OnlineCount(),
			"scheduler": app.SchedulerService.IsRunning(),
		})
	})
}
