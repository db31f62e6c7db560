package handler

import (
	"backend-campus-queue/internal/config"
	"backend-campus-queue/internal/models"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CreateDocumentRequest - Public document request submission
func CreateDocumentRequest(c *fiber.Ctx) error {
	var req models.CreateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if req.Department == "" || req.RequesterName == "" || req.IDNumber == "" || req.DocumentType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "department, requester_name, id_number and document_type are required",
		})
	}

	result, err := config.DB.Exec(`
		INSERT INTO document_requests
		(department, requester_name, id_number, document_type, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, 'pending', ?, NOW(), NOW())
	`, req.Department, req.RequesterName, req.IDNumber, req.DocumentType, req.Notes)

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to create document request",
		})
	}

	id, _ := result.LastInsertId()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Document request submitted",
		"data":    fiber.Map{"id": id},
	})
}

// GetDocumentRequests - Paginated document requests for the admin's department
func GetDocumentRequests(c *fiber.Ctx) error {
	department := c.Locals("department").(string)
	search := c.Query("search")
	filterBy := c.Query("filter_by")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	offset := (page - 1) * limit

	countQuery := "SELECT COUNT(*) FROM document_requests WHERE department = ?"
	countArgs := []interface{}{department}

	query := `
		SELECT id, department, requester_name, id_number, document_type, status, notes, created_at, updated_at
		FROM document_requests WHERE department = ?
	`
	args := []interface{}{department}

	if search != "" {
		like := "%" + strings.TrimSpace(search) + "%"
		clause := " AND (requester_name LIKE ? OR id_number LIKE ? OR document_type LIKE ?)"
		countQuery += clause
		query += clause
		countArgs = append(countArgs, like, like, like)
		args = append(args, like, like, like)
	}

	if filterBy != "" {
		countQuery += " AND status = ?"
		query += " AND status = ?"
		countArgs = append(countArgs, filterBy)
		args = append(args, filterBy)
	}

	var totalData int
	if err := config.DB.QueryRow(countQuery, countArgs...).Scan(&totalData); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to count document requests",
		})
	}

	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := config.DB.Query(query, args...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read document requests",
		})
	}
	defer rows.Close()

	requests := []models.DocumentRequest{}
	for rows.Next() {
		var d models.DocumentRequest
		err := rows.Scan(
			&d.ID,
			&d.Department,
			&d.RequesterName,
			&d.IDNumber,
			&d.DocumentType,
			&d.Status,
			&d.Notes,
			&d.CreatedAt,
			&d.UpdatedAt,
		)
		if err != nil {
			continue
		}
		requests = append(requests, d)
	}

	totalPages := (totalData + limit - 1) / limit

	return c.JSON(fiber.Map{
		"success": true,
		"data":    requests,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total_data":  totalData,
			"total_pages": totalPages,
		},
	})
}

// UpdateDocumentRequest - Advance a document request through its lifecycle
func UpdateDocumentRequest(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document request id",
		})
	}

	var req models.UpdateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var department, status string
	err = config.DB.QueryRow(
		"SELECT department, status FROM document_requests WHERE id = ?", id,
	).Scan(&department, &status)

	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Document request not found",
		})
	}

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read document request",
		})
	}

	if department != c.Locals("department").(string) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have access to this document request",
		})
	}

	sets := []string{}
	args := []interface{}{}

	if req.Status != "" {
		if status == models.DocStatusReleased {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Released document requests cannot be changed",
			})
		}
		sets = append(sets, "status = ?")
		args = append(args, req.Status)
	}
	if req.Notes != "" {
		sets = append(sets, "notes = ?")
		args = append(args, req.Notes)
	}

	if len(sets) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Nothing to update",
		})
	}

	query := "UPDATE document_requests SET " + strings.Join(sets, ", ") + ", updated_at = NOW() WHERE id = ?"
	args = append(args, id)

	if _, err := config.DB.Exec(query, args...); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update document request",
		})
	}

	writeAuditLog(c, "document.update", "document_request", fmt.Sprintf("%d", id),
		"Updated document request status to "+req.Status)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Document request updated",
	})
}

// DeleteDocumentRequest - Remove a document request
func DeleteDocumentRequest(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document request id",
		})
	}

	result, err := config.DB.Exec(
		"DELETE FROM document_requests WHERE id = ? AND department = ?",
		id, c.Locals("department").(string),
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete document request",
		})
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Document request not found",
		})
	}

	writeAuditLog(c, "document.delete", "document_request", fmt.Sprintf("%d", id), "Deleted document request")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Document request deleted",
	})
}
