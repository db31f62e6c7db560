package handler

import (
	"backend-campus-queue/internal/config"
	"backend-campus-queue/internal/models"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CreateRating - Public rating submission from the portal
func CreateRating(c *fiber.Ctx) error {
	var req models.CreateRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if req.Department == "" || req.QueueNumber < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "department and queue_number are required",
		})
	}

	if req.Stars < 1 || req.Stars > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "stars must be between 1 and 5",
		})
	}

	// One rating per queue number per day
	var exists int
	config.DB.QueryRow(`
		SELECT COUNT(*) FROM queue_ratings
		WHERE department = ? AND queue_number = ? AND DATE(created_at) = CURDATE()
	`, req.Department, req.QueueNumber).Scan(&exists)

	if exists > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "This queue number has already submitted a rating today",
		})
	}

	_, err := config.DB.Exec(`
		INSERT INTO queue_ratings (department, queue_number, service_id, stars, comment, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())
	`, req.Department, req.QueueNumber, req.ServiceID, req.Stars, req.Comment)

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to save rating",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Thank you for your feedback",
	})
}

// GetRatings - Paginated ratings with average for the admin's department
func GetRatings(c *fiber.Ctx) error {
	department := c.Locals("department").(string)
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

	countQuery := "SELECT COUNT(*), COALESCE(AVG(stars), 0) FROM queue_ratings WHERE department = ?"
	countArgs := []interface{}{department}

	query := `
		SELECT id, department, queue_number, service_id, stars, comment, created_at
		FROM queue_ratings WHERE department = ?
	`
	args := []interface{}{department}

	if date != "" {
		countQuery += " AND DATE(created_at) = ?"
		query += " AND DATE(created_at) = ?"
		countArgs = append(countArgs, date)
		args = append(args, date)
	}

	var totalData int
	var average float64
	if err := config.DB.QueryRow(countQuery, countArgs...).Scan(&totalData, &average); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to count ratings",
		})
	}

	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := config.DB.Query(query, args...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read ratings",
		})
	}
	defer rows.Close()

	ratings := []models.QueueRating{}
	for rows.Next() {
		var r models.QueueRating
		var serviceID sql.NullInt64
		err := rows.Scan(
			&r.ID,
			&r.Department,
			&r.QueueNumber,
			&serviceID,
			&r.Stars,
			&r.Comment,
			&r.CreatedAt,
		)
		if err != nil {
			continue
		}
		if serviceID.Valid {
			r.ServiceID = &serviceID.Int64
		}
		ratings = append(ratings, r)
	}

	totalPages := (totalData + limit - 1) / limit

	return c.JSON(fiber.Map{
		"success": true,
		"data":    ratings,
		"average": average,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total_data":  totalData,
			"total_pages": totalPages,
		},
	})
}
