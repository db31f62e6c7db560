package handler

import (
	"backend-campus-queue/internal/config"
	"backend-campus-queue/internal/models"
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
)

/*
|--------------------------------------------------------------------------
| Snapshot Query
|--------------------------------------------------------------------------
| The snapshot is the authoritative read every client falls back to;
| realtime events are only hints that one is stale.
*/

// fetchSnapshot builds the department snapshot, optionally narrowed to
// one window's service.
func fetchSnapshot(department string, windowID *int64) (models.Snapshot, error) {
	snapshot := models.Snapshot{
		WaitingQueue: []models.QueueEntry{},
		SkippedQueue: []int{},
	}

	var serviceFilter *int64
	if windowID != nil {
		window, err := getWindow(*windowID)
		if err != nil {
			return snapshot, err
		}

		serviceFilter = &window.ServiceID

		current, err := getServingEntry(*windowID)
		if err != nil {
			return snapshot, err
		}
		snapshot.CurrentlyServing = current
	} else {
		// Department-wide view: the most recently called serving entry
		row := config.DB.QueryRow(`
			SELECT `+entryColumns+`
			FROM queue_entries
			WHERE department = ? AND status = 'serving'
			AND DATE(created_at) = CURDATE()
			ORDER BY called_at DESC
			LIMIT 1
		`, department)

		current, err := scanEntry(row)
		if err != nil && err != sql.ErrNoRows {
			return snapshot, err
		}
		if err == nil {
			snapshot.CurrentlyServing = current
		}
	}

	// Waiting queue, priority entries first then FIFO by number
	query := `
		SELECT ` + entryColumns + `
		FROM queue_entries
		WHERE department = ? AND status = 'waiting'
		AND DATE(created_at) = CURDATE()
	`
	args := []interface{}{department}

	if serviceFilter != nil {
		query += " AND service_id = ?"
		args = append(args, *serviceFilter)
	}
	query += " ORDER BY (role = 'priority') DESC, number ASC"

	rows, err := config.DB.Query(query, args...)
	if err != nil {
		return snapshot, err
	}
	defer rows.Close()

	for rows.Next() {
		var e models.QueueEntry
		var wID sql.NullInt64
		var idNumber, transactionNo sql.NullString
		var calledAt sql.NullTime

		err := rows.Scan(
			&e.ID,
			&e.Number,
			&e.CustomerName,
			&e.Role,
			&e.ServiceID,
			&e.Department,
			&e.Status,
			&wID,
			&idNumber,
			&transactionNo,
			&calledAt,
			&e.CreatedAt,
			&e.UpdatedAt,
		)
		if err != nil {
			log.Printf("[snapshot] scan error: %v", err)
			continue
		}

		if wID.Valid {
			e.WindowID = &wID.Int64
		}
		if idNumber.Valid {
			e.IDNumber = &idNumber.String
		}
		if transactionNo.Valid {
			e.TransactionNo = &transactionNo.String
		}
		if calledAt.Valid {
			e.CalledAt = &calledAt.Time
		}

		snapshot.WaitingQueue = append(snapshot.WaitingQueue, e)
	}

	// Skipped numbers, disjoint from the waiting list by definition
	skippedQuery := `
		SELECT number FROM queue_entries
		WHERE department = ? AND status = 'skipped'
		AND DATE(created_at) = CURDATE()
	`
	skippedArgs := []interface{}{department}

	if windowID != nil {
		skippedQuery += " AND window_id = ?"
		skippedArgs = append(skippedArgs, *windowID)
	}
	skippedQuery += " ORDER BY number ASC"

	skippedRows, err := config.DB.Query(skippedQuery, skippedArgs...)
	if err != nil {
		return snapshot, err
	}
	defer skippedRows.Close()

	for skippedRows.Next() {
		var number int
		if err := skippedRows.Scan(&number); err != nil {
			log.Printf("[snapshot] scan error: %v", err)
			continue
		}
		snapshot.SkippedQueue = append(snapshot.SkippedQueue, number)
	}

	return snapshot, nil
}

/*
|--------------------------------------------------------------------------
| Public Endpoints
|--------------------------------------------------------------------------
*/

// GetQueueData - Public snapshot of a department's queue
func GetQueueData(c *fiber.Ctx) error {
	department := c.Params("department")
	if department != "registrar" && department != "admissions" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Unknown department",
		})
	}

	var windowID *int64
	if raw := c.QueryInt("window_id", 0); raw > 0 {
		id := int64(raw)
		windowID = &id
	}

	snapshot, err := fetchSnapshot(department, windowID)
	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Window not found",
		})
	}

	if err != nil {
		log.Printf("[GetQueueData] %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read queue data",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    snapshot,
	})
}

// QueueLookup - Public status check for one issued queue entry
func QueueLookup(c *fiber.Ctx) error {
	queueID, err := c.ParamsInt("queueId")
	if err != nil || queueID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid queue id",
		})
	}

	row := config.DB.QueryRow(`
		SELECT `+entryColumns+`
		FROM queue_entries
		WHERE id = ?
	`, queueID)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Queue entry not found",
		})
	}

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read queue entry",
		})
	}

	// Window name and location when assigned
	windowName := ""
	location := ""
	if entry.WindowID != nil {
		window, err := getWindow(*entry.WindowID)
		if err == nil {
			windowName = window.Name
			location = window.Code
		}
	}

	// Department's currently serving number
	currentServing := 0
	var current sql.NullInt64
	err = config.DB.QueryRow(`
		SELECT number FROM queue_entries
		WHERE department = ? AND status = 'serving'
		AND DATE(created_at) = CURDATE()
		ORDER BY called_at DESC
		LIMIT 1
	`, entry.Department).Scan(&current)
	if err == nil && current.Valid {
		currentServing = int(current.Int64)
	}

	// The next few numbers ahead of the visitor
	upcoming := []int{}
	rows, err := config.DB.Query(`
		SELECT number FROM queue_entries
		WHERE department = ? AND service_id = ? AND status = 'waiting'
		AND DATE(created_at) = CURDATE()
		ORDER BY (role = 'priority') DESC, number ASC
		LIMIT 5
	`, entry.Department, entry.ServiceID)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var n int
			if err := rows.Scan(&n); err == nil {
				upcoming = append(upcoming, n)
			}
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"status":           entry.Status,
			"queue_number":     entry.Number,
			"window_name":      windowName,
			"location":         location,
			"current_serving":  currentServing,
			"upcoming_numbers": upcoming,
		},
	})
}
