package handler

import (
	"backend-campus-queue/internal/config"
	"backend-campus-queue/internal/models"
	"database/sql"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxLoginAttempts = 5
	loginAttemptHold = 15 * time.Minute
)

func loginAttemptKey(email string) string {
	return fmt.Sprintf("login:attempts:%s", email)
}

func Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	// Throttle brute-force attempts per email
	attempts, _ := config.Redis.Get(config.Ctx, loginAttemptKey(req.Email)).Int()
	if attempts >= maxLoginAttempts {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Too many failed attempts, try again later",
		})
	}

	var user models.User
	query := `SELECT id, name, email, password, role, department, is_banned, window_id
	          FROM users WHERE email = ?`
	err := config.DB.QueryRow(query, req.Email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Role,
		&user.Department,
		&user.IsBanned,
		&user.WindowID,
	)

	if err == sql.ErrNoRows {
		recordFailedLogin(req.Email)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Wrong email or password",
		})
	}

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Database error",
		})
	}

	// Check if user is banned
	if user.IsBanned == "y" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Your account has been blocked",
		})
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		recordFailedLogin(req.Email)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Wrong email or password",
		})
	}

	config.Redis.Del(config.Ctx, loginAttemptKey(req.Email))

	// Handle nullable window_id
	var windowID *int64
	if user.WindowID.Valid {
		windowID = &user.WindowID.Int64
	}

	// Generate JWT token
	token, err := config.GenerateToken(user.ID, user.Name, user.Email, user.Role, user.Department, windowID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token":   token,
		"user":    models.ToUserResponse(user),
		"message": "Welcome back, " + user.Name,
	})
}

func recordFailedLogin(email string) {
	key := loginAttemptKey(email)
	config.Redis.Incr(config.Ctx, key)
	config.Redis.Expire(config.Ctx, key, loginAttemptHold)
}
