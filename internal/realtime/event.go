package realtime

import "fmt"

// Event type names are the contract surface shared with every client.
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

// Event is the envelope pushed to subscribed rooms. Data varies by Type;
// clients treat it as a hint and refetch the snapshot for truth.
type Event struct {
	Department string      `json:"department"`
	Type       string      `json:"type"`
	WindowID   *int64      `json:"window_id,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

// AdminRoom scopes events to a department's dashboard clients.
func AdminRoom(department string) string {
	return "admin-" + department
}

// QueueRoom scopes events to a department's public portal clients.
func QueueRoom(department string) string {
	return "queue-" + department
}

func WindowIDPtr(id int64) *int64 {
	return &id
}

func (e Event) String() string {
	return fmt.Sprintf("%s/%s", e.Department, e.Type)
}
