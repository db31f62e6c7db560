package models

import (
	"database/sql"
	"time"
)

/*
|--------------------------------------------------------------------------
| DATABASE MODEL (INTERNAL)
|--------------------------------------------------------------------------
| Used for DB queries
*/
type User struct {
	ID         int64
	Name       string
	Email      string
	Password   string
	Role       string
	Department string
	IsBanned   string
	WindowID   sql.NullInt64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

/*
|--------------------------------------------------------------------------
| REQUEST
|--------------------------------------------------------------------------
*/
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"required,oneof=super_admin admin"`
	Department string `json:"department" validate:"required,oneof=registrar admissions"`
	WindowID   *int64 `json:"window_id"`
}

type UpdateUserRequest struct {
	Name     string `json:"name" validate:"omitempty,max=255"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Password string `json:"password" validate:"omitempty,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=super_admin admin"`
	IsBanned string `json:"is_banned" validate:"omitempty,oneof=y n"`
	WindowID *int64 `json:"window_id"`
}

/*
|--------------------------------------------------------------------------
| RESPONSE DTO
|--------------------------------------------------------------------------
| Used for API responses
*/
type UserResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	WindowID   *int64 `json:"window_id,omitempty"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

/*
|--------------------------------------------------------------------------
| MAPPER
|--------------------------------------------------------------------------
| Convert User (DB) -> UserResponse (API)
*/
func ToUserResponse(u User) UserResponse {
	var windowID *int64

	if u.WindowID.Valid {
		windowID = &u.WindowID.Int64
	}

	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		WindowID:   windowID,
	}
}
