package handler

import (
	"backend-campus-queue/internal/config"
	"backend-campus-queue/internal/helper"
	"backend-campus-queue/internal/models"
	"backend-campus-queue/internal/realtime"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// TakeQueue - Issue a new queue number for a department service
func TakeQueue(c *fiber.Ctx) error {
	var req models.TakeQueueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	// Validate input
	if req.Department == "" || req.ServiceID == 0 || req.CustomerName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "department, service_id and customer_name are required",
		})
	}

	if req.Role == "" {
		req.Role = models.RoleVisitor
	}

	// 1. Check the department's queue toggle
	enabled, err := helper.IsQueueingEnabled(req.Department)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read department settings",
		})
	}

	if !enabled {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Queueing is currently disabled for this department",
		})
	}

	// 2. Check that the service exists, is active, and belongs to the department
	var serviceActive string
	var serviceName string
	var serviceCode string
	var dailyLimit int
	var serviceDept string

	err = config.DB.QueryRow(
		"SELECT is_active, name, code, daily_limit, department FROM services WHERE id = ?",
		req.ServiceID,
	).Scan(&serviceActive, &serviceName, &serviceCode, &dailyLimit, &serviceDept)

	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Service not found",
		})
	}

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to validate service",
		})
	}

	if serviceDept != req.Department {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Service is not available in this department",
		})
	}

	if serviceActive != "y" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   fmt.Sprintf("Service %s is currently closed", serviceName),
		})
	}

	// 3. Count today's entries for this service
	var todayCount int
	err = config.DB.QueryRow(`
		SELECT COUNT(*)
		FROM queue_entries
		WHERE service_id = ?
		AND DATE(created_at) = CURDATE()
	`, req.ServiceID).Scan(&todayCount)

	if err != nil {
		log.Printf("[TakeQueue] Error counting queue: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to count today's queue",
		})
	}

	// 4. Enforce daily limit (if daily_limit > 0)
	if dailyLimit > 0 && todayCount >= dailyLimit {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   fmt.Sprintf("Today's quota for %s is full (%d/%d)", serviceName, todayCount, dailyLimit),
		})
	}

	// 5. Next queue number for the day+department from the Redis counter
	counterKey := fmt.Sprintf("queue:%s:%s", req.Department, time.Now().Format("2006-01-02"))
	number, err := config.Redis.Incr(config.Ctx, counterKey).Result()
	if err != nil {
		log.Printf("[TakeQueue] Redis counter error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to allocate queue number",
		})
	}
	config.Redis.Expire(config.Ctx, counterKey, 48*time.Hour)

	var idNumber *string
	if req.IDNumber != "" {
		idNumber = &req.IDNumber
	}

	// 6. Insert the entry
	result, err := config.DB.Exec(`
		INSERT INTO queue_entries
		(number, customer_name, role, service_id, department, status, id_number, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 'waiting', ?, NOW(), NOW())
	`, number, req.CustomerName, req.Role, req.ServiceID, req.Department, idNumber)

	if err != nil {
		log.Printf("[TakeQueue] Error inserting entry: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to create queue entry",
		})
	}

	entryID, _ := result.LastInsertId()

	// 7. Record the take transaction
	if err := recordTransaction(entryID, int(number), models.EventTake, nil, nil, req.Department); err != nil {
		log.Printf("[TakeQueue] Error inserting transaction: %v", err)
		// Roll the entry back so the log never disagrees with the queue
		config.DB.Exec("DELETE FROM queue_entries WHERE id = ?", entryID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to record queue transaction",
		})
	}

	// Broadcast the hint; clients refetch the snapshot
	realtime.Queue.NotifyQueueUpdated(req.Department)

	remaining := 0
	if dailyLimit > 0 {
		remaining = dailyLimit - todayCount - 1
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Queue number issued",
		"data": fiber.Map{
			"id":           entryID,
			"queue_number": number,
			"ticket_code":  fmt.Sprintf("%s%03d", serviceCode, number),
			"service_name": serviceName,
			"department":   req.Department,
			"total_today":  todayCount + 1,
			"daily_limit":  dailyLimit,
			"remaining":    remaining,
		},
	})
}
