package helper

import (
	"backend-campus-queue/internal/config"
	"database/sql"
	"errors"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserBanned   = errors.New("user is banned")
	ErrInvalidRole  = errors.New("role not allowed")
)

// CheckUserRoleByID re-validates the acting admin against the
// database. JWT claims can outlive a ban or a role change.
func CheckUserRoleByID(adminID int64, allowedRoles ...string) error {
	var role, isBanned string

	query := "SELECT role, is_banned FROM users WHERE id = ?"
	err := config.DB.QueryRow(query, adminID).Scan(&role, &isBanned)

	if err == sql.ErrNoRows {
		return ErrUserNotFound
	}

	if err != nil {
		return err
	}

	if isBanned == "y" {
		return ErrUserBanned
	}

	for _, allowedRole := range allowedRoles {
		if role == allowedRole {
			return nil
		}
	}

	return ErrInvalidRole
}
