package models

import (
	"time"
)

// Queue entry lifecycle statuses.
const (
	StatusWaiting   = "waiting"
	StatusServing   = "serving"
	StatusCompleted = "completed"
	StatusSkipped   = "skipped"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no-show"
)

// Customer roles. Priority entries are ordered ahead of the FIFO queue.
const (
	RoleVisitor  = "visitor"
	RoleStudent  = "student"
	RolePriority = "priority"
)

type QueueEntry struct {
	ID            int64      `json:"id"`
	Number        int        `json:"number"`
	CustomerName  string     `json:"customer_name"`
	Role          string     `json:"role"`
	ServiceID     int64      `json:"service_id"`
	Department    string     `json:"department"`
	Status        string     `json:"status"`
	WindowID      *int64     `json:"window_id"`
	IDNumber      *string    `json:"id_number,omitempty"`
	TransactionNo *string    `json:"transaction_no,omitempty"`
	CalledAt      *time.Time `json:"called_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Snapshot is the authoritative full-state read for one window/department:
// current serving entry, ordered waiting list, skipped numbers.
type Snapshot struct {
	CurrentlyServing *QueueEntry  `json:"currently_serving"`
	WaitingQueue     []QueueEntry `json:"waiting_queue"`
	SkippedQueue     []int        `json:"skipped_queue"`
}

type TakeQueueRequest struct {
	Department   string `json:"department" validate:"required"`
	ServiceID    int64  `json:"service_id" validate:"required"`
	CustomerName string `json:"customer_name" validate:"required,max=255"`
	Role         string `json:"role" validate:"omitempty,oneof=visitor student priority"`
	IDNumber     string `json:"id_number" validate:"omitempty,max=50"`
}

type WindowActionRequest struct {
	WindowID int64 `json:"window_id" validate:"required"`
}

type TransferQueueRequest struct {
	WindowID   int64 `json:"window_id" validate:"required"`
	ToWindowID int64 `json:"to_window_id" validate:"required"`
}

type RequeueSelectedRequest struct {
	WindowID int64 `json:"window_id" validate:"required"`
	Numbers  []int `json:"numbers" validate:"required"`
}
