package handler

import (
	"backend-campus-queue/internal/config"
	"backend-campus-queue/internal/models"
	"backend-campus-queue/internal/realtime"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetAllServices - All services, optionally filtered
func GetAllServices(c *fiber.Ctx) error {
	department := c.Query("department")
	isActive := c.Query("is_active")

	query := "SELECT id, department, name, code, daily_limit, is_active, created_at, updated_at FROM services WHERE 1=1"
	args := []interface{}{}

	if department != "" {
		query += " AND department = ?"
		args = append(args, department)
	}

	if isActive != "" {
		query += " AND is_active = ?"
		args = append(args, isActive)
	}

	query += " ORDER BY name ASC"

	rows, err := config.DB.Query(query, args...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read services",
		})
	}
	defer rows.Close()

	services := []models.Service{}
	for rows.Next() {
		var s models.Service
		err := rows.Scan(
			&s.ID,
			&s.Department,
			&s.Name,
			&s.Code,
			&s.DailyLimit,
			&s.IsActive,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			continue
		}
		services = append(services, s)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    services,
	})
}

// GetAllServicesPagination - Services with pagination and search
func GetAllServicesPagination(c *fiber.Ctx) error {
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

	countQuery := "SELECT COUNT(*) FROM services WHERE 1=1"
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
	if err := config.DB.QueryRow(countQuery, countArgs...).Scan(&totalData); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to count services",
		})
	}

	query := "SELECT id, department, name, code, daily_limit, is_active, created_at, updated_at FROM services WHERE 1=1"
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
			"error": "Failed to read services",
		})
	}
	defer rows.Close()

	services := []models.Service{}
	for rows.Next() {
		var s models.Service
		err := rows.Scan(
			&s.ID,
			&s.Department,
			&s.Name,
			&s.Code,
			&s.DailyLimit,
			&s.IsActive,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			continue
		}
		services = append(services, s)
	}

	totalPages := (totalData + limit - 1) / limit

	return c.JSON(fiber.Map{
		"success": true,
		"data":    services,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total_data":  totalData,
			"total_pages": totalPages,
		},
	})
}

// GetServiceByID - Single service
func GetServiceByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var s models.Service
	err := config.DB.QueryRow(
		"SELECT id, department, name, code, daily_limit, is_active, created_at, updated_at FROM services WHERE id = ?",
		id,
	).Scan(
		&s.ID,
		&s.Department,
		&s.Name,
		&s.Code,
		&s.DailyLimit,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Service not found",
		})
	}

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read service",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    s,
	})
}

// CreateService - Add a service to a department
func CreateService(c *fiber.Ctx) error {
	var req models.CreateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Department == "" || req.Name == "" || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "department, name and code are required",
		})
	}

	if !guardQueueingDisabled(c, req.Department) {
		return nil
	}

	if req.IsActive == "" {
		req.IsActive = "y"
	}

	result, err := config.DB.Exec(`
		INSERT INTO services (department, name, code, daily_limit, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())
	`, req.Department, req.Name, req.Code, req.DailyLimit, req.IsActive)

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create service",
		})
	}

	id, _ := result.LastInsertId()

	writeAuditLog(c, "service.create", "service", fmt.Sprintf("%d", id), "Created service "+req.Name)

	realtime.Queue.Broadcast(realtime.AdminRoom(req.Department), realtime.Event{
		Department: req.Department,
		Type:       realtime.EventServicesUpdated,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Service created",
		"data":    fiber.Map{"id": id},
	})
}

// UpdateService - Modify a service
func UpdateService(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid service id",
		})
	}

	var req models.UpdateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var department, name string
	err = config.DB.QueryRow("SELECT department, name FROM services WHERE id = ?", id).Scan(&department, &name)
	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Service not found",
		})
	}

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read service",
		})
	}

	if !guardQueueingDisabled(c, department) {
		return nil
	}

	sets := []string{}
	args := []interface{}{}

	if req.Name != "" {
		sets = append(sets, "name = ?")
		args = append(args, req.Name)
	}
	if req.Code != "" {
		sets = append(sets, "code = ?")
		args = append(args, req.Code)
	}
	if req.DailyLimit != nil {
		sets = append(sets, "daily_limit = ?")
		args = append(args, *req.DailyLimit)
	}
	if req.IsActive != "" {
		sets = append(sets, "is_active = ?")
		args = append(args, req.IsActive)
	}

	if len(sets) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Nothing to update",
		})
	}

	query := "UPDATE services SET " + strings.Join(sets, ", ") + ", updated_at = NOW() WHERE id = ?"
	args = append(args, id)

	if _, err := config.DB.Exec(query, args...); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update service",
		})
	}

	writeAuditLog(c, "service.update", "service", fmt.Sprintf("%d", id), "Updated service "+name)

	realtime.Queue.Broadcast(realtime.AdminRoom(department), realtime.Event{
		Department: department,
		Type:       realtime.EventServicesUpdated,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Service updated",
	})
}

// DeleteService - Remove a service
func DeleteService(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid service id",
		})
	}

	var department, name string
	err = config.DB.QueryRow("SELECT department, name FROM services WHERE id = ?", id).Scan(&department, &name)
	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Service not found",
		})
	}

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read service",
		})
	}

	if !guardQueueingDisabled(c, department) {
		return nil
	}

	// Windows still pointing at this service block the delete
	var windowCount int
	config.DB.QueryRow("SELECT COUNT(*) FROM windows WHERE service_id = ?", id).Scan(&windowCount)
	if windowCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": fmt.Sprintf("Service is still assigned to %d window(s)", windowCount),
		})
	}

	if _, err := config.DB.Exec("DELETE FROM services WHERE id = ?", id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete service",
		})
	}

	writeAuditLog(c, "service.delete", "service", fmt.Sprintf("%d", id), "Deleted service "+name)

	realtime.Queue.Broadcast(realtime.AdminRoom(department), realtime.Event{
		Department: department,
		Type:       realtime.EventServicesUpdated,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Service deleted",
	})
}
