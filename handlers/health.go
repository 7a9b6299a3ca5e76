package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/studyplanner/api/database"
)

// HandleRoot is the public greeting at GET /
func HandleRoot(c *fiber.Ctx) error {
	return c.SendString("Hello from the Study Planner Backend!")
}

// HandleCheckHealth reports process and database health at GET /ping
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if err := store.HealthCheck(); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
