package handler

import (
	"backend-campus-queue/internal/config"
	"backend-campus-queue/internal/helper"
	"backend-campus-queue/internal/models"
	"backend-campus-queue/internal/realtime"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

/*
|--------------------------------------------------------------------------
| Shared Row Helpers
|--------------------------------------------------------------------------
*/

func getWindow(windowID int64) (*models.Window, error) {
	var w models.Window
	err := config.DB.QueryRow(`
		SELECT id, code, name, department, service_id, admin_id, is_open, is_serving, created_at, updated_at
		FROM windows WHERE id = ?
	`, windowID).Scan(
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
		return nil, err
	}
	return &w, nil
}

const entryColumns = `id, number, customer_name, role, service_id, department, status,
	window_id, id_number, transaction_no, called_at, created_at, updated_at`

func scanEntry(row *sql.Row) (*models.QueueEntry, error) {
	var e models.QueueEntry
	var windowID sql.NullInt64
	var idNumber, transactionNo sql.NullString
	var calledAt sql.NullTime

	err := row.Scan(
		&e.ID,
		&e.Number,
		&e.CustomerName,
		&e.Role,
		&e.ServiceID,
		&e.Department,
		&e.Status,
		&windowID,
		&idNumber,
		&transactionNo,
		&calledAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if windowID.Valid {
		e.WindowID = &windowID.Int64
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

	return &e, nil
}

// getServingEntry returns the window's current serving entry, nil when idle.
func getServingEntry(windowID int64) (*models.QueueEntry, error) {
	row := config.DB.QueryRow(`
		SELECT `+entryColumns+`
		FROM queue_entries
		WHERE window_id = ? AND status = 'serving'
		AND DATE(created_at) = CURDATE()
		LIMIT 1
	`, windowID)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return entry, err
}

// nextWaitingEntry picks the head of the waiting queue for a service:
// priority customers first, then by number.
func nextWaitingEntry(department string, serviceID int64) (*models.QueueEntry, error) {
	row := config.DB.QueryRow(`
		SELECT `+entryColumns+`
		FROM queue_entries
		WHERE department = ? AND service_id = ? AND status = 'waiting'
		AND DATE(created_at) = CURDATE()
		ORDER BY (role = 'priority') DESC, number ASC
		LIMIT 1
	`, department, serviceID)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return entry, err
}

// validateActionWindow loads the window and checks the admin may act on it.
// Writes the error response itself; callers bail out when window is nil.
func validateActionWindow(c *fiber.Ctx, windowID int64) *models.Window {
	department := c.Locals("department").(string)
	adminID := c.Locals("admin_id").(int64)

	// Tokens outlive account changes; re-check the acting admin in
	// the database so a ban takes effect before token expiry.
	if err := helper.CheckUserRoleByID(adminID, "admin", "super_admin"); err != nil {
		status := fiber.StatusForbidden
		if err != helper.ErrUserBanned && err != helper.ErrInvalidRole {
			status = fiber.StatusInternalServerError
		}
		c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   "Account is not allowed to perform queue actions",
		})
		return nil
	}

	window, err := getWindow(windowID)
	if err == sql.ErrNoRows {
		c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Window not found",
		})
		return nil
	}

	if err != nil {
		c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to validate window",
		})
		return nil
	}

	if window.Department != department {
		c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "You do not have access to this window",
		})
		return nil
	}

	if window.IsOpen != "y" {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   fmt.Sprintf("Window %s is closed", window.Name),
		})
		return nil
	}

	return window
}

// emitWindowEvent pushes a typed event to the department's admin room.
// The public room only ever receives the generic queue-updated hint.
func emitWindowEvent(department, eventType string, windowID int64, data interface{}) {
	realtime.Queue.Broadcast(realtime.AdminRoom(department), realtime.Event{
		Department: department,
		Type:       eventType,
		WindowID:   realtime.WindowIDPtr(windowID),
		Data:       data,
	})
	realtime.Queue.NotifyQueueUpdated(department)
}

func entryEventData(entry *models.QueueEntry, windowName string) fiber.Map {
	data := fiber.Map{
		"queue_number":  entry.Number,
		"customer_name": entry.CustomerName,
		"role":          entry.Role,
		"window_name":   windowName,
	}
	// Optional fields stay absent when unknown; clients must not require them
	if entry.IDNumber != nil {
		data["id_number"] = *entry.IDNumber
	}
	if entry.TransactionNo != nil {
		data["transaction_no"] = *entry.TransactionNo
	}
	return data
}

func setEntryStatus(entryID int64, status string) error {
	_, err := config.DB.Exec(`
		UPDATE queue_entries SET status = ?, updated_at = NOW() WHERE id = ?
	`, status, entryID)
	return err
}

func callEntry(entryID, windowID, adminID int64) error {
	_, err := config.DB.Exec(`
		UPDATE queue_entries
		SET status = 'serving', window_id = ?, called_at = NOW(), updated_at = NOW()
		WHERE id = ?
	`, windowID, entryID)
	if err != nil {
		return err
	}

	_, err = config.DB.Exec(`
		UPDATE windows SET is_serving = 'y', updated_at = NOW() WHERE id = ?
	`, windowID)
	return err
}

/*
|--------------------------------------------------------------------------
| Queue Actions
|--------------------------------------------------------------------------
*/

// CallNextQueue - Complete the current entry and call the next waiting one
func CallNextQueue(c *fiber.Ctx) error {
	var req models.WindowActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	adminID := c.Locals("admin_id").(int64)
	window := validateActionWindow(c, req.WindowID)
	if window == nil {
		return nil
	}

	// STEP 1: FIND THE NEXT WAITING ENTRY FIRST
	next, err := nextWaitingEntry(window.Department, window.ServiceID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read waiting queue",
		})
	}

	if next == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "No waiting queue",
		})
	}

	// STEP 2: COMPLETE THE CURRENT SERVING ENTRY (if any)
	current, err := getServingEntry(window.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read current queue",
		})
	}

	if current != nil {
		if err := setEntryStatus(current.ID, models.StatusCompleted); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to complete current queue",
			})
		}
		_ = recordTransaction(current.ID, current.Number, models.EventFinish, &adminID, &window.ID, window.Department)
	}

	// STEP 3: CALL THE NEXT ENTRY
	if !models.ValidTransition("call", next.Status) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "Queue entry is no longer waiting",
		})
	}

	if err := callEntry(next.ID, window.ID, adminID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to call next queue",
		})
	}

	if err := recordTransaction(next.ID, next.Number, models.EventCall, &adminID, &window.ID, window.Department); err != nil {
		log.Printf("[CallNextQueue] Error recording transaction: %v", err)
	}

	writeAuditLog(c, "queue.next", "queue_entry", fmt.Sprintf("%d", next.ID),
		fmt.Sprintf("Called #%d to %s", next.Number, window.Name))

	emitWindowEvent(window.Department, realtime.EventNextCalled, window.ID,
		entryEventData(next, window.Name))

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Next queue called",
		"data": fiber.Map{
			"queue_number":  next.Number,
			"customer_name": next.CustomerName,
			"window_name":   window.Name,
			"window_id":     window.ID,
		},
	})
}

// RecallCurrent - Re-announce the entry currently being served
func RecallCurrent(c *fiber.Ctx) error {
	var req models.WindowActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	adminID := c.Locals("admin_id").(int64)
	window := validateActionWindow(c, req.WindowID)
	if window == nil {
		return nil
	}

	current, err := getServingEntry(window.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read current queue",
		})
	}

	if current == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "No queue is currently being served",
		})
	}

	_ = recordTransaction(current.ID, current.Number, models.EventRecall, &adminID, &window.ID, window.Department)

	emitWindowEvent(window.Department, realtime.EventPreviousRecalled, window.ID,
		entryEventData(current, window.Name))

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Queue recalled",
		"data": fiber.Map{
			"queue_number":  current.Number,
			"customer_name": current.CustomerName,
			"window_name":   window.Name,
		},
	})
}

// RecallPrevious - Bring the most recent completed/skipped entry back to serving
func RecallPrevious(c *fiber.Ctx) error {
	var req models.WindowActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	adminID := c.Locals("admin_id").(int64)
	window := validateActionWindow(c, req.WindowID)
	if window == nil {
		return nil
	}

	// STEP 1: FIND THE LAST COMPLETED/SKIPPED ENTRY FOR THIS WINDOW
	row := config.DB.QueryRow(`
		SELECT `+entryColumns+`
		FROM queue_entries
		WHERE window_id = ? AND status IN ('completed', 'skipped')
		AND DATE(created_at) = CURDATE()
		ORDER BY updated_at DESC
		LIMIT 1
	`, window.ID)

	previous, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "No previous queue to recall",
		})
	}

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read previous queue",
		})
	}

	if !models.ValidTransition("recall", previous.Status) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "Previous queue can no longer be recalled",
		})
	}

	// STEP 2: COMPLETE THE CURRENT SERVING ENTRY (if any)
	current, err := getServingEntry(window.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read current queue",
		})
	}

	if current != nil {
		if err := setEntryStatus(current.ID, models.StatusCompleted); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to complete current queue",
			})
		}
		_ = recordTransaction(current.ID, current.Number, models.EventFinish, &adminID, &window.ID, window.Department)
	}

	// STEP 3: RECALL THE PREVIOUS ENTRY
	if err := callEntry(previous.ID, window.ID, adminID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to recall previous queue",
		})
	}

	_ = recordTransaction(previous.ID, previous.Number, models.EventRecall, &adminID, &window.ID, window.Department)

	writeAuditLog(c, "queue.previous", "queue_entry", fmt.Sprintf("%d", previous.ID),
		fmt.Sprintf("Recalled #%d to %s", previous.Number, window.Name))

	emitWindowEvent(window.Department, realtime.EventPreviousRecalled, window.ID,
		entryEventData(previous, window.Name))

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Previous queue recalled",
		"data": fiber.Map{
			"queue_number":  previous.Number,
			"customer_name": previous.CustomerName,
			"window_name":   window.Name,
		},
	})
}

// SkipQueue - Skip the current entry and call the next one if available
func SkipQueue(c *fiber.Ctx) error {
	var req models.WindowActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	adminID := c.Locals("admin_id").(int64)
	window := validateActionWindow(c, req.WindowID)
	if window == nil {
		return nil
	}

	current, err := getServingEntry(window.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read current queue",
		})
	}

	if current == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "No queue is currently being served",
		})
	}

	if !models.ValidTransition("skip", current.Status) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "Queue entry cannot be skipped",
		})
	}

	// STEP 1: MARK CURRENT AS SKIPPED
	if err := setEntryStatus(current.ID, models.StatusSkipped); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to skip queue",
		})
	}
	_ = recordTransaction(current.ID, current.Number, models.EventSkip, &adminID, &window.ID, window.Department)

	// STEP 2: PROMOTE THE NEXT WAITING ENTRY (if any)
	next, err := nextWaitingEntry(window.Department, window.ServiceID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read waiting queue",
		})
	}

	data := fiber.Map{
		"queue_number": current.Number,
		"next_queue":   nil,
	}

	if next != nil {
		if err := callEntry(next.ID, window.ID, adminID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to call next queue",
			})
		}
		_ = recordTransaction(next.ID, next.Number, models.EventCall, &adminID, &window.ID, window.Department)

		data["next_queue"] = next.Number
		data["customer_name"] = next.CustomerName
		data["role"] = next.Role
		if next.IDNumber != nil {
			data["id_number"] = *next.IDNumber
		}
	} else {
		// Nothing left to serve at this window
		config.DB.Exec("UPDATE windows SET is_serving = 'n', updated_at = NOW() WHERE id = ?", window.ID)
	}

	writeAuditLog(c, "queue.skip", "queue_entry", fmt.Sprintf("%d", current.ID),
		fmt.Sprintf("Skipped #%d at %s", current.Number, window.Name))

	emitWindowEvent(window.Department, realtime.EventQueueSkipped, window.ID, data)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Queue skipped",
		"data":    data,
	})
}

// TransferQueue - Move the current entry to another window
func TransferQueue(c *fiber.Ctx) error {
	var req models.TransferQueueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if req.WindowID == req.ToWindowID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Cannot transfer a queue to the same window",
		})
	}

	adminID := c.Locals("admin_id").(int64)
	window := validateActionWindow(c, req.WindowID)
	if window == nil {
		return nil
	}

	target, err := getWindow(req.ToWindowID)
	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Target window not found",
		})
	}

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to validate target window",
		})
	}

	if target.Department != window.Department {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Target window belongs to another department",
		})
	}

	if target.IsOpen != "y" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   fmt.Sprintf("Target window %s is closed", target.Name),
		})
	}

	current, err := getServingEntry(window.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read current queue",
		})
	}

	if current == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "No queue is currently being served",
		})
	}

	// At most one serving entry per window
	targetCurrent, err := getServingEntry(target.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read target window queue",
		})
	}

	if targetCurrent != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   fmt.Sprintf("Window %s is already serving #%d", target.Name, targetCurrent.Number),
		})
	}

	_, err = config.DB.Exec(`
		UPDATE queue_entries
		SET window_id = ?, service_id = ?, updated_at = NOW()
		WHERE id = ?
	`, target.ID, target.ServiceID, current.ID)

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to transfer queue",
		})
	}

	config.DB.Exec("UPDATE windows SET is_serving = 'y', updated_at = NOW() WHERE id = ?", target.ID)
	config.DB.Exec("UPDATE windows SET is_serving = 'n', updated_at = NOW() WHERE id = ?", window.ID)

	_ = recordTransaction(current.ID, current.Number, models.EventTransfer, &adminID, &target.ID, window.Department)

	writeAuditLog(c, "queue.transfer", "queue_entry", fmt.Sprintf("%d", current.ID),
		fmt.Sprintf("Transferred #%d from %s to %s", current.Number, window.Name, target.Name))

	data := entryEventData(current, target.Name)
	data["from_window_id"] = window.ID
	data["to_window_id"] = target.ID

	emitWindowEvent(window.Department, realtime.EventQueueTransferred, window.ID, data)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Queue transferred",
		"data":    data,
	})
}

// StopServing - Finish the current entry and pause the window
func StopServing(c *fiber.Ctx) error {
	var req models.WindowActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	adminID := c.Locals("admin_id").(int64)
	window := validateActionWindow(c, req.WindowID)
	if window == nil {
		return nil
	}

	current, err := getServingEntry(window.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read current queue",
		})
	}

	if current != nil {
		if err := setEntryStatus(current.ID, models.StatusCompleted); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to complete current queue",
			})
		}
		_ = recordTransaction(current.ID, current.Number, models.EventStop, &adminID, &window.ID, window.Department)
	}

	_, err = config.DB.Exec("UPDATE windows SET is_serving = 'n', updated_at = NOW() WHERE id = ?", window.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to update window status",
		})
	}

	writeAuditLog(c, "queue.stop", "window", fmt.Sprintf("%d", window.ID),
		fmt.Sprintf("Stopped serving at %s", window.Name))

	emitWindowEvent(window.Department, realtime.EventWindowStatusUpdated, window.ID, fiber.Map{
		"window_id":  window.ID,
		"is_serving": "n",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Window stopped serving",
	})
}

// RequeueAll - Return every skipped entry of this window to the waiting queue
func RequeueAll(c *fiber.Ctx) error {
	var req models.WindowActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	adminID := c.Locals("admin_id").(int64)
	window := validateActionWindow(c, req.WindowID)
	if window == nil {
		return nil
	}

	return requeueSkipped(c, window, adminID, nil)
}

// RequeueSelected - Return chosen skipped numbers to the waiting queue
func RequeueSelected(c *fiber.Ctx) error {
	var req models.RequeueSelectedRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if len(req.Numbers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "numbers is required",
		})
	}

	adminID := c.Locals("admin_id").(int64)
	window := validateActionWindow(c, req.WindowID)
	if window == nil {
		return nil
	}

	return requeueSkipped(c, window, adminID, req.Numbers)
}

// requeueSkipped moves skipped entries back to waiting; numbers narrows
// the set, nil means all of the window's skipped entries.
func requeueSkipped(c *fiber.Ctx, window *models.Window, adminID int64, numbers []int) error {
	query := `
		UPDATE queue_entries
		SET status = 'waiting', window_id = NULL, updated_at = NOW()
		WHERE window_id = ? AND status = 'skipped'
		AND DATE(created_at) = CURDATE()
	`
	args := []interface{}{window.ID}

	if len(numbers) > 0 {
		placeholders := strings.TrimRight(strings.Repeat("?,", len(numbers)), ",")
		query += " AND number IN (" + placeholders + ")"
		for _, n := range numbers {
			args = append(args, n)
		}
	}

	result, err := config.DB.Exec(query, args...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to requeue skipped entries",
		})
	}

	count, _ := result.RowsAffected()
	if count == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "No skipped queue to requeue",
		})
	}

	_ = recordTransaction(0, 0, models.EventRequeue, &adminID, &window.ID, window.Department)

	writeAuditLog(c, "queue.requeue", "window", fmt.Sprintf("%d", window.ID),
		fmt.Sprintf("Requeued %d skipped entries at %s", count, window.Name))

	emitWindowEvent(window.Department, realtime.EventQueueRequeuedAll, window.ID, fiber.Map{
		"count": count,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("%d entries returned to the waiting queue", count),
		"data": fiber.Map{
			"count": count,
		},
	})
}
