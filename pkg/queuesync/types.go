// Package queuesync keeps a client in step with the server-held queue:
// it joins realtime rooms, applies optimistic patches from events,
// re-fetches authoritative snapshots, and raises local notifications
// when the watched number is called. The server is the source of
// truth; everything here is a read-through cache refreshed by fetch
// or event.
package queuesync

import "encoding/json"

// Entry is the client-side view of a queue entry.
type Entry struct {
	ID            int64   `json:"id"`
	Number        int     `json:"number"`
	CustomerName  string  `json:"customer_name"`
	Role          string  `json:"role"`
	ServiceID     int64   `json:"service_id"`
	Status        string  `json:"status"`
	WindowID      *int64  `json:"window_id,omitempty"`
	IDNumber      *string `json:"id_number,omitempty"`
	TransactionNo *string `json:"transaction_no,omitempty"`
}

// Snapshot is the authoritative state for one department or window.
// At most one entry is serving per window; skipped numbers never
// appear in the waiting queue.
type Snapshot struct {
	CurrentlyServing *Entry  `json:"currently_serving"`
	WaitingQueue     []Entry `json:"waiting_queue"`
	SkippedQueue     []int   `json:"skipped_queue"`
}

// Event is the realtime envelope. Data stays raw until the
// reconciler decodes it per type; an event is a hint, the snapshot
// is truth.
type Event struct {
	Department string          `json:"department"`
	Type       string          `json:"type"`
	WindowID   *int64          `json:"window_id,omitempty"`
	Data       json.RawMessage `json:"data"`
}

// Event types emitted by the server.
const (
	EventNextCalled          = "next-called"
	EventQueueTransferred    = "queue-transferred"
	EventQueueSkipped        = "queue-skipped"
	EventPreviousRecalled    = "previous-recalled"
	EventQueueRequeuedAll    = "queue-requeued-all"
	EventQueueUpdated        = "queue-updated"
	EventWindowStatusUpdated = "window-status-updated"
	EventSettingsUpdated     = "settings-updated"
	EventServicesUpdated     = "services-updated"
	EventWindowsUpdated      = "windows-updated"
)

// Room name helpers, mirroring the server's room layout.
func AdminRoom(department string) string {
	return "admin-" + department
}

func QueueRoom(department string) string {
	return "queue-" + department
}

// Toaster receives user-facing notices. The fetcher guarantees at
// most one Error call per failed attempt.
type Toaster interface {
	Success(message string)
	Error(message string)
	Warning(message string)
}

// NopToaster discards all notices.
type NopToaster struct{}

func (NopToaster) Success(string) {}
func (NopToaster) Error(string)   {}
func (NopToaster) Warning(string) {}
