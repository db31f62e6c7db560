package handler

import (
	"backend-campus-queue/internal/config"
	"backend-campus-queue/internal/helper"
	"backend-campus-queue/internal/models"
	"backend-campus-queue/internal/realtime"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// guardQueueingDisabled rejects structural changes while a department's
// queue is live. Returns false after writing the response.
func guardQueueingDisabled(c *fiber.Ctx, department string) bool {
	enabled, err := helper.IsQueueingEnabled(department)
	if err != nil {
		c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read department settings",
		})
		return false
	}

	if enabled {
		c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"warning": true,
			"error":   "Cannot modify this while queueing is active",
		})
		return false
	}

	return true
}

// GetAllWindows - All windows, optionally filtered by department
func GetAllWindows(c *fiber.Ctx) error {
	department := c.Query("department")
	isOpen := c.Query("is_open")

	query := "SELECT id, code, name, department, service_id, admin_id, is_open, is_serving, created_at, updated_at FROM windows WHERE 1=1"
	args := []interface{}{}

	if department != "" {
		query += " AND department = ?"
		args = append(args, department)
	}

	if isOpen != "" {
		query += " AND is_open = ?"
		args = append(args, isOpen)
	}

	query += " ORDER BY name ASC"

	rows, err := config.DB.Query(query, args...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read windows",
		})
	}
	defer rows.Close()

	windows := []models.WindowResponse{}
	for rows.Next() {
		var w models.Window
		err := rows.Scan(
			&w.ID,
			&w.Code,
			&w.Name,
			&w.Department,
			&w.ServiceID,
			&w.AdminID,
			&w.IsOpen,
			&w.IsServing,
			&w.CreatedAt,
			&w.UpdatedAt,
		)
		if err != nil {
			continue
		}
		windows = append(windows, models.ToWindowResponse(w))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    windows,
	})
}

// GetAllWindowsPagination - Windows with pagination and search
func GetAllWindowsPagination(c *fiber.Ctx) error {
	department := c.Query("department")
	search := c.Query("search")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	offset := (page - 1) * limit

	countQuery := "SELECT COUNT(*) FROM windows WHERE 1=1"
	countArgs := []interface{}{}

	if department != "" {
		countQuery += " AND department = ?"
		countArgs = append(countArgs, department)
	}

	if search != "" {
		like := "%" + strings.TrimSpace(search) + "%"
		countQuery += " AND (code LIKE ? OR name LIKE ?)"
		countArgs = append(countArgs, like, like)
	}

	var totalData int
	err := config.DB.QueryRow(countQuery, countArgs...).Scan(&totalData)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to count windows",
		})
	}

	query := "SELECT id, code, name, department, service_id, admin_id, is_open, is_serving, created_at, updated_at FROM windows WHERE 1=1"
	args := []interface{}{}

	if department != "" {
		query += " AND department = ?"
		args = append(args, department)
	}

	if search != "" {
		like := "%" + strings.TrimSpace(search) + "%"
		query += " AND (code LIKE ? OR name LIKE ?)"
		args = append(args, like, like)
	}

	query += " ORDER BY name ASC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := config.DB.Query(query, args...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read windows",
		})
	}
	defer rows.Close()

	windows := []models.WindowResponse{}
	for rows.Next() {
		var w models.Window
		err := rows.Scan(
			&w.ID,
			&w.Code,
			&w.Name,
			&w.Department,
			&w.ServiceID,
			&w.AdminID,
			&w.IsOpen,
			&w.IsServing,
			&w.CreatedAt,
			&w.UpdatedAt,
		)
		if err != nil {
			continue
		}
		windows = append(windows, models.ToWindowResponse(w))
	}

	totalPages := (totalData + limit - 1) / limit

	return c.JSON(fiber.Map{
		"success": true,
		"data":    windows,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total_data":  totalData,
			"total_pages": totalPages,
		},
	})
}

// GetWindowByID - Single window
func GetWindowByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid window id",
		})
	}

	window, err := getWindow(int64(id))
	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Window not found",
		})
	}

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read window",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    models.ToWindowResponse(*window),
	})
}

// CreateWindow - Add a window to a department
func CreateWindow(c *fiber.Ctx) error {
	var req models.CreateWindowRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Code == "" || req.Name == "" || req.Department == "" || req.ServiceID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "code, name, department and service_id are required",
		})
	}

	if !guardQueueingDisabled(c, req.Department) {
		return nil
	}

	if req.IsOpen == "" {
		req.IsOpen = "y"
	}

	result, err := config.DB.Exec(`
		INSERT INTO windows (code, name, department, service_id, admin_id, is_open, is_serving, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 'n', NOW(), NOW())
	`, req.Code, req.Name, req.Department, req.ServiceID, req.AdminID, req.IsOpen)

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create window",
		})
	}

	id, _ := result.LastInsertId()

	writeAuditLog(c, "window.create", "window", fmt.Sprintf("%d", id), "Created window "+req.Name)

	realtime.Queue.Broadcast(realtime.AdminRoom(req.Department), realtime.Event{
		Department: req.Department,
		Type:       realtime.EventWindowsUpdated,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Window created",
		"data":    fiber.Map{"id": id},
	})
}

// UpdateWindow - Modify a window
func UpdateWindow(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid window id",
		})
	}

	var req models.UpdateWindowRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	window, err := getWindow(int64(id))
	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Window not found",
		})
	}

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read window",
		})
	}

	// Toggling open/serving is allowed live; structural edits are not
	structural := req.Code != "" || req.Name != "" || req.ServiceID != nil || req.AdminID != nil
	if structural && !guardQueueingDisabled(c, window.Department) {
		return nil
	}

	sets := []string{}
	args := []interface{}{}

	if req.Code != "" {
		sets = append(sets, "code = ?")
		args = append(args, req.Code)
	}
	if req.Name != "" {
		sets = append(sets, "name = ?")
		args = append(args, req.Name)
	}
	if req.ServiceID != nil {
		sets = append(sets, "service_id = ?")
		args = append(args, *req.ServiceID)
	}
	if req.AdminID != nil {
		sets = append(sets, "admin_id = ?")
		args = append(args, *req.AdminID)
	}
	if req.IsOpen != "" {
		sets = append(sets, "is_open = ?")
		args = append(args, req.IsOpen)
	}
	if req.IsServing != "" {
		sets = append(sets, "is_serving = ?")
		args = append(args, req.IsServing)
	}

	if len(sets) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Nothing to update",
		})
	}

	query := "UPDATE windows SET " + strings.Join(sets, ", ") + ", updated_at = NOW() WHERE id = ?"
	args = append(args, id)

	if _, err := config.DB.Exec(query, args...); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update window",
		})
	}

	writeAuditLog(c, "window.update", "window", fmt.Sprintf("%d", id), "Updated window "+window.Name)

	if req.IsServing != "" || req.IsOpen != "" {
		emitWindowEvent(window.Department, realtime.EventWindowStatusUpdated, window.ID, fiber.Map{
			"window_id":  window.ID,
			"is_open":    req.IsOpen,
			"is_serving": req.IsServing,
		})
	} else {
		realtime.Queue.Broadcast(realtime.AdminRoom(window.Department), realtime.Event{
			Department: window.Department,
			Type:       realtime.EventWindowsUpdated,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Window updated",
	})
}

// DeleteWindow - Remove a window
func DeleteWindow(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid window id",
		})
	}

	window, err := getWindow(int64(id))
	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Window not found",
		})
	}

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read window",
		})
	}

	if !guardQueueingDisabled(c, window.Department) {
		return nil
	}

	if _, err := config.DB.Exec("DELETE FROM windows WHERE id = ?", id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete window",
		})
	}

	writeAuditLog(c, "window.delete", "window", fmt.Sprintf("%d", id), "Deleted window "+window.Name)

	realtime.Queue.Broadcast(realtime.AdminRoom(window.Department), realtime.Event{
		Department: window.Department,
		Type:       realtime.EventWindowsUpdated,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Window deleted",
	})
}
