package models

import "time"

type QueueRating struct {
	ID          int64     `json:"id"`
	Department  string    `json:"department"`
	QueueNumber int       `json:"queue_number"`
	ServiceID   *int64    `json:"service_id,omitempty"`
	Stars       int       `json:"stars"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateRatingRequest struct {
	Department  string `json:"department" validate:"required,oneof=registrar admissions"`
	QueueNumber int    `json:"queue_number" validate:"required,min=1"`
	ServiceID   *int64 `json:"service_id"`
	Stars       int    `json:"stars" validate:"required,min=1,max=5"`
	Comment     string `json:"comment" validate:"omitempty,max=1000"`
}
