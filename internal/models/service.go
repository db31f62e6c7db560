package models

import "time"

type Service struct {
	ID         int64     `json:"id"`
	Department string    `json:"department"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
	DailyLimit int       `json:"daily_limit"`
	IsActive   string    `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateServiceRequest struct {
	Department string `json:"department" validate:"required,oneof=registrar admissions"`
	Name       string `json:"name" validate:"required,max=255"`
	Code       string `json:"code" validate:"required,max=10"`
	DailyLimit int    `json:"daily_limit" validate:"min=0"`
	IsActive   string `json:"is_active" validate:"omitempty,oneof=y n"`
}

type UpdateServiceRequest struct {
	Name       string `json:"name" validate:"omitempty,max=255"`
	Code       string `json:"code" validate:"omitempty,max=10"`
	DailyLimit *int   `json:"daily_limit" validate:"omitempty,min=0"`
	IsActive   string `json:"is_active" validate:"omitempty,oneof=y n"`
}
