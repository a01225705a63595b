package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gtiq/database"
)

// Health reports liveness including a database ping
func (h *Handler) Health(c *fiber.Ctx) error {
	sqlDB, err := h.DB.DB()
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "database unavailable")
	}
	if err := sqlDB.Ping(); err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "database unavailable")
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// GetSQLLogs returns the recent query log
func (h *Handler) GetSQLLogs(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"queries": database.SQLLogger.GetQueries()})
}

// ClearSQLLogs empties the query log
func (h *Handler) ClearSQLLogs(c *fiber.Ctx) error {
	database.SQLLogger.Clear()
	return c.JSON(fiber.Map{"success": true})
}
