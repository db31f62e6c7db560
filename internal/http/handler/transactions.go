package handler

import (
	"backend-campus-queue/internal/config"
	"backend-campus-queue/internal/models"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
)

// recordTransaction appends one event to the queue transaction log.
func recordTransaction(entryID int64, number int, event string, actorAdminID, windowID *int64, department string) error {
	_, err := config.DB.Exec(`
		INSERT INTO transactions
		(entry_id, queue_number, event, actor_admin_id, window_id, department, created_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW())
	`, entryID, number, event, actorAdminID, windowID, department)
	return err
}

// GetTransactions - Paginated queue event log
func GetTransactions(c *fiber.Ctx) error {
	department := c.Locals("department").(string)
	filterBy := c.Query("filter_by")
	date := c.Query("date")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

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

	countQuery := "SELECT COUNT(*) FROM transactions WHERE department = ?"
	countArgs := []interface{}{department}

	query := `
		SELECT id, entry_id, queue_number, event, actor_admin_id, window_id, department, created_at
		FROM transactions WHERE department = ?
	`
	args := []interface{}{department}

	if filterBy != "" {
		countQuery += " AND event = ?"
		query += " AND event = ?"
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
			"error": "Failed to count transactions",
		})
	}

	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := config.DB.Query(query, args...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read transactions",
		})
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var actorID, windowID sql.NullInt64
		err := rows.Scan(
			&t.ID,
			&t.EntryID,
			&t.QueueNumber,
			&t.Event,
			&actorID,
			&windowID,
			&t.Department,
			&t.CreatedAt,
		)
		if err != nil {
			continue
		}
		if actorID.Valid {
			t.ActorAdminID = &actorID.Int64
		}
		if windowID.Valid {
			t.WindowID = &windowID.Int64
		}
		transactions = append(transactions, t)
	}

	totalPages := (totalData + limit - 1) / limit

	return c.JSON(fiber.Map{
		"success": true,
		"data":    transactions,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total_data":  totalData,
			"total_pages": totalPages,
		},
	})
}
