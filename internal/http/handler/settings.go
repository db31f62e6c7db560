package handler

import (
	"backend-campus-queue/internal/config"
	"backend-campus-queue/internal/models"
	"backend-campus-queue/internal/realtime"
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetSettings - Department settings (public: the portal shows the marquee
// and the queue toggle)
func GetSettings(c *fiber.Ctx) error {
	department := c.Params("department")

	var s models.Settings
	err := config.DB.QueryRow(`
		SELECT id, department, is_queueing_enabled, open_time, close_time, marquee_text
		FROM settings WHERE department = ?
	`, department).Scan(
		&s.ID,
		&s.Department,
		&s.IsQueueingEnabled,
		&s.OpenTime,
		&s.CloseTime,
		&s.MarqueeText,
	)

	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Department settings not configured",
		})
	}

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read settings",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    s,
	})
}

// UpdateSettings - Change department settings; toggling the queue emits
// the queue-toggle event
func UpdateSettings(c *fiber.Ctx) error {
	department := c.Params("department")

	var req models.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var current string
	err := config.DB.QueryRow(
		"SELECT is_queueing_enabled FROM settings WHERE department = ?", department,
	).Scan(&current)

	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Department settings not configured",
		})
	}

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read settings",
		})
	}

	sets := []string{}
	args := []interface{}{}

	if req.IsQueueingEnabled != "" {
		sets = append(sets, "is_queueing_enabled = ?")
		args = append(args, req.IsQueueingEnabled)
	}
	if req.OpenTime != "" {
		sets = append(sets, "open_time = ?")
		args = append(args, req.OpenTime)
	}
	if req.CloseTime != "" {
		sets = append(sets, "close_time = ?")
		args = append(args, req.CloseTime)
	}
	if req.MarqueeText != "" {
		sets = append(sets, "marquee_text = ?")
		args = append(args, req.MarqueeText)
	}

	if len(sets) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Nothing to update",
		})
	}

	query := "UPDATE settings SET " + strings.Join(sets, ", ") + " WHERE department = ?"
	args = append(args, department)

	if _, err := config.DB.Exec(query, args...); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update settings",
		})
	}

	writeAuditLog(c, "settings.update", "settings", department, "Updated settings")

	toggled := req.IsQueueingEnabled != "" && req.IsQueueingEnabled != current

	event := realtime.Event{
		Department: department,
		Type:       realtime.EventSettingsUpdated,
		Data: fiber.Map{
			"subtype":             "queue-toggle",
			"is_queueing_enabled": req.IsQueueingEnabled,
		},
	}
	if !toggled {
		event.Data = nil
	}

	realtime.Queue.Broadcast(realtime.AdminRoom(department), event)
	realtime.Queue.Broadcast(realtime.QueueRoom(department), event)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Settings updated",
	})
}
