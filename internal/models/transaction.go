package models

import "time"

// Transaction events mirror the queue actions that produced them.
const (
	EventTake     = "take"
	EventCall     = "call"
	EventFinish   = "finish"
	EventSkip     = "skip"
	EventRecall   = "recall"
	EventTransfer = "transfer"
	EventRequeue  = "requeue"
	EventStop     = "stop"
)

type Transaction struct {
	ID           int64     `json:"id"`
	EntryID      int64     `json:"entry_id"`
	QueueNumber  int       `json:"queue_number"`
	Event        string    `json:"event"`
	ActorAdminID *int64    `json:"actor_admin_id"`
	WindowID     *int64    `json:"window_id"`
	Department   string    `json:"department"`
	CreatedAt    time.Time `json:"created_at"`
}
