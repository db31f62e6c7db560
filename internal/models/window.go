package models

import (
	"database/sql"
	"time"
)

type Window struct {
	ID         int64         `json:"id"`
	Code       string        `json:"code"`
	Name       string        `json:"name"`
	Department string        `json:"department"`
	ServiceID  int64         `json:"service_id"`
	AdminID    sql.NullInt64 `json:"-"`
	IsOpen     string        `json:"is_open"`
	IsServing  string        `json:"is_serving"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type WindowResponse struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	ServiceID  int64     `json:"service_id"`
	AdminID    *int64    `json:"admin_id,omitempty"`
	IsOpen     string    `json:"is_open"`
	IsServing  string    `json:"is_serving"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToWindowResponse(w Window) WindowResponse {
	var adminID *int64
	if w.AdminID.Valid {
		adminID = &w.AdminID.Int64
	}

	return WindowResponse{
		ID:         w.ID,
		Code:       w.Code,
		Name:       w.Name,
		Department: w.Department,
		ServiceID:  w.ServiceID,
		AdminID:    adminID,
		IsOpen:     w.IsOpen,
		IsServing:  w.IsServing,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}

type CreateWindowRequest struct {
	Code       string `json:"code" validate:"required,max=10"`
	Name       string `json:"name" validate:"required,max=255"`
	Department string `json:"department" validate:"required,oneof=registrar admissions"`
	ServiceID  int64  `json:"service_id" validate:"required"`
	AdminID    *int64 `json:"admin_id"`
	IsOpen     string `json:"is_open" validate:"omitempty,oneof=y n"`
}

type UpdateWindowRequest struct {
	Code      string `json:"code" validate:"omitempty,max=10"`
	Name      string `json:"name" validate:"omitempty,max=255"`
	ServiceID *int64 `json:"service_id"`
	AdminID   *int64 `json:"admin_id"`
	IsOpen    string `json:"is_open" validate:"omitempty,oneof=y n"`
	IsServing string `json:"is_serving" validate:"omitempty,oneof=y n"`
}
