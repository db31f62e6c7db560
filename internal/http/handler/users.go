package handler

import (
	"backend-campus-queue/internal/config"
	"backend-campus-queue/internal/models"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const userColumns = "id, name, email, password, role, department, is_banned, window_id, created_at, updated_at"

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Password,
		&u.Role,
		&u.Department,
		&u.IsBanned,
		&u.WindowID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// GetAllUsers - All admin accounts
func GetAllUsers(c *fiber.Ctx) error {
	rows, err := config.DB.Query("SELECT " + userColumns + " FROM users ORDER BY name ASC")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read users",
		})
	}
	defer rows.Close()

	users := []models.UserResponse{}
	for rows.Next() {
		var u models.User
		err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.Password,
			&u.Role,
			&u.Department,
			&u.IsBanned,
			&u.WindowID,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
		if err != nil {
			continue
		}
		users = append(users, models.ToUserResponse(u))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
	})
}

// GetAllUsersPagination - Admin accounts with pagination and search
func GetAllUsersPagination(c *fiber.Ctx) error {
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

	countQuery := "SELECT COUNT(*) FROM users WHERE 1=1"
	countArgs := []interface{}{}

	if search != "" {
		like := "%" + strings.TrimSpace(search) + "%"
		countQuery += " AND (name LIKE ? OR email LIKE ?)"
		countArgs = append(countArgs, like, like)
	}

	var totalData int
	if err := config.DB.QueryRow(countQuery, countArgs...).Scan(&totalData); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to count users",
		})
	}

	query := "SELECT " + userColumns + " FROM users WHERE 1=1"
	args := []interface{}{}

	if search != "" {
		like := "%" + strings.TrimSpace(search) + "%"
		query += " AND (name LIKE ? OR email LIKE ?)"
		args = append(args, like, like)
	}

	query += " ORDER BY name ASC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := config.DB.Query(query, args...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read users",
		})
	}
	defer rows.Close()

	users := []models.UserResponse{}
	for rows.Next() {
		var u models.User
		err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.Password,
			&u.Role,
			&u.Department,
			&u.IsBanned,
			&u.WindowID,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
		if err != nil {
			continue
		}
		users = append(users, models.ToUserResponse(u))
	}

	totalPages := (totalData + limit - 1) / limit

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total_data":  totalData,
			"total_pages": totalPages,
		},
	})
}

// GetUserByID - Single admin account
func GetUserByID(c *fiber.Ctx) error {
	id := c.Params("id")

	row := config.DB.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	u, err := scanUser(row)

	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read user",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    models.ToUserResponse(u),
	})
}

// CreateUser - Add an admin account
func CreateUser(c *fiber.Ctx) error {
	var req models.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" || req.Department == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name, email, password, role and department are required",
		})
	}

	if len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Password must be at least 8 characters",
		})
	}

	// Reject duplicate email
	var exists int
	config.DB.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", req.Email).Scan(&exists)
	if exists > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Email is already registered",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	result, err := config.DB.Exec(`
		INSERT INTO users (name, email, password, role, department, is_banned, window_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 'n', ?, NOW(), NOW())
	`, req.Name, req.Email, string(hashed), req.Role, req.Department, req.WindowID)

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create user",
		})
	}

	id, _ := result.LastInsertId()

	writeAuditLog(c, "user.create", "user", fmt.Sprintf("%d", id), "Created user "+req.Email)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User created",
		"data":    fiber.Map{"id": id},
	})
}

// UpdateUser - Modify an admin account
func UpdateUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	var req models.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	row := config.DB.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read user",
		})
	}

	sets := []string{}
	args := []interface{}{}

	if req.Name != "" {
		sets = append(sets, "name = ?")
		args = append(args, req.Name)
	}
	if req.Email != "" {
		sets = append(sets, "email = ?")
		args = append(args, req.Email)
	}
	if req.Password != "" {
		if len(req.Password) < 8 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Password must be at least 8 characters",
			})
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to hash password",
			})
		}
		sets = append(sets, "password = ?")
		args = append(args, string(hashed))
	}
	if req.Role != "" {
		sets = append(sets, "role = ?")
		args = append(args, req.Role)
	}
	if req.IsBanned != "" {
		sets = append(sets, "is_banned = ?")
		args = append(args, req.IsBanned)
	}
	if req.WindowID != nil {
		sets = append(sets, "window_id = ?")
		args = append(args, *req.WindowID)
	}

	if len(sets) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Nothing to update",
		})
	}

	query := "UPDATE users SET " + strings.Join(sets, ", ") + ", updated_at = NOW() WHERE id = ?"
	args = append(args, id)

	if _, err := config.DB.Exec(query, args...); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update user",
		})
	}

	writeAuditLog(c, "user.update", "user", fmt.Sprintf("%d", id), "Updated user "+user.Email)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User updated",
	})
}

// HardDeleteUser - Permanently remove an admin account
func HardDeleteUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	adminID := c.Locals("admin_id").(int64)
	if int64(id) == adminID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "You cannot delete your own account",
		})
	}

	result, err := config.DB.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete user",
		})
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	writeAuditLog(c, "user.delete", "user", fmt.Sprintf("%d", id), "Deleted user")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted",
	})
}
