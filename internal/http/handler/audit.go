package handler

import (
	"backend-campus-queue/internal/config"
	"backend-campus-queue/internal/models"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// writeAuditLog records an admin action. Failures are logged and
// swallowed so auditing never blocks the action itself.
func writeAuditLog(c *fiber.Ctx, action, targetType, targetID, detail string) {
	adminID, _ := c.Locals("admin_id").(int64)
	adminName, _ := c.Locals("name").(string)
	department, _ := c.Locals("department").(string)

	_, err := config.DB.Exec(`
		INSERT INTO audit_logs
		(audit_id, admin_id, admin_name, department, action, target_type, target_id, detail, ip, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`, uuid.NewString(), adminID, adminName, department, action, targetType, targetID, detail, c.IP(), c.Get("User-Agent"))

	if err != nil {
		log.Printf("[audit] failed to write log for %s: %v", action, err)
	}
}

// GetAuditLogs - Paginated audit trail for the admin's department
func GetAuditLogs(c *fiber.Ctx) error {
	department := c.Locals("department").(string)
	search := c.Query("search")
	filterBy := c.Query("filter_by")
	date := c.Query("date")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	// Validate pagination
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Date must be YYYY-MM-DD (example: 2026-02-01)",
			})
		}
	}

	offset := (page - 1) * limit

	countQuery := "SELECT COUNT(*) FROM audit_logs WHERE department = ?"
	countArgs := []interface{}{department}

	query := `
		SELECT id, audit_id, admin_id, admin_name, department, action, target_type, target_id, detail, ip, user_agent, created_at
		FROM audit_logs WHERE department = ?
	`
	args := []interface{}{department}

	if search != "" {
		like := "%" + search + "%"
		clause := " AND (admin_name LIKE ? OR action LIKE ? OR detail LIKE ?)"
		countQuery += clause
		query += clause
		countArgs = append(countArgs, like, like, like)
		args = append(args, like, like, like)
	}

	if filterBy != "" {
		countQuery += " AND action = ?"
		query += " AND action = ?"
		countArgs = append(countArgs, filterBy)
		args = append(args, filterBy)
	}

	if date != "" {
		countQuery += " AND DATE(created_at) = ?"
		query += " AND DATE(created_at) = ?"
		countArgs = append(countArgs, date)
		args = append(args, date)
	}

	var totalData int
	if err := config.DB.QueryRow(countQuery, countArgs...).Scan(&totalData); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to count audit logs",
		})
	}

	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := config.DB.Query(query, args...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read audit logs",
		})
	}
	defer rows.Close()

	logs := []models.AuditLog{}
	for rows.Next() {
		var entry models.AuditLog
		err := rows.Scan(
			&entry.ID,
			&entry.AuditID,
			&entry.AdminID,
			&entry.AdminName,
			&entry.Department,
			&entry.Action,
			&entry.TargetType,
			&entry.TargetID,
			&entry.Detail,
			&entry.IP,
			&entry.UserAgent,
			&entry.CreatedAt,
		)
		if err != nil {
			continue
		}
		logs = append(logs, entry)
	}

	totalPages := (totalData + limit - 1) / limit

	return c.JSON(fiber.Map{
		"success": true,
		"data":    logs,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total_data":  totalData,
			"total_pages": totalPages,
		},
	})
}
