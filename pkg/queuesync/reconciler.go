package queuesync

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

/*
|--------------------------------------------------------------------------
| Client Reconciler
|--------------------------------------------------------------------------
| Two independent steps per event: an optimistic partial patch for
| immediate feedback, then an unconditional snapshot refetch that
| self-heals whatever the patch got wrong.
*/

// ServingView is what a window dashboard renders for the entry it is
// currently serving. Optional fields stay nil when the payload omits
// them and simply are not displayed.
type ServingView struct {
	Number        int
	CustomerName  string
	Role          string
	IDNumber      *string
	TransactionNo *string
}

// WindowView is the reconciler's local state for one admin window.
type WindowView struct {
	WindowID          int64
	Department        string
	CurrentServing    *ServingView
	IsOpen            bool
	IsServing         bool
	IsQueueingEnabled bool
}

// Reconciler applies realtime events to a WindowView. refetch is
// called after every event regardless of what the patch did.
type Reconciler struct {
	mux     sync.Mutex
	view    WindowView
	toast   Toaster
	refetch func()
}

func NewReconciler(view WindowView, toast Toaster, refetch func()) *Reconciler {
	if toast == nil {
		toast = NopToaster{}
	}
	if refetch == nil {
		refetch = func() {}
	}
	return &Reconciler{view: view, toast: toast, refetch: refetch}
}

// View returns a copy of the current local state.
func (r *Reconciler) View() WindowView {
	r.mux.Lock()
	defer r.mux.Unlock()
	return r.view
}

// Apply handles one event: optimistic patch, then confirm.
func (r *Reconciler) Apply(ev Event) {
	r.applyOptimisticPatch(ev)
	r.confirmFromServer()
}

func (r *Reconciler) confirmFromServer() {
	r.refetch()
}

// Event payloads as emitted by the server. Optional fields decode to
// nil when absent.
type calledPayload struct {
	QueueNumber   int     `json:"queue_number"`
	CustomerName  string  `json:"customer_name"`
	Role          string  `json:"role"`
	WindowName    string  `json:"window_name"`
	IDNumber      *string `json:"id_number,omitempty"`
	TransactionNo *string `json:"transaction_no,omitempty"`
}

type transferredPayload struct {
	calledPayload
	FromWindowID int64 `json:"from_window_id"`
	ToWindowID   int64 `json:"to_window_id"`
}

type skippedPayload struct {
	QueueNumber  int     `json:"queue_number"`
	NextQueue    *int    `json:"next_queue"`
	CustomerName string  `json:"customer_name"`
	Role         string  `json:"role"`
	IDNumber     *string `json:"id_number,omitempty"`
}

type requeuedPayload struct {
	Count int `json:"count"`
}

type windowStatusPayload struct {
	WindowID  int64  `json:"window_id"`
	IsOpen    string `json:"is_open"`
	IsServing string `json:"is_serving"`
}

type settingsPayload struct {
	Subtype           string `json:"subtype"`
	IsQueueingEnabled string `json:"is_queueing_enabled"`
}

func (p calledPayload) serving() *ServingView {
	return &ServingView{
		Number:        p.QueueNumber,
		CustomerName:  p.CustomerName,
		Role:          p.Role,
		IDNumber:      p.IDNumber,
		TransactionNo: p.TransactionNo,
	}
}

// applyOptimisticPatch is the pure per-type dispatch. Unknown types
// patch nothing; the caller still confirms from the server.
func (r *Reconciler) applyOptimisticPatch(ev Event) {
	r.mux.Lock()
	defer r.mux.Unlock()

	switch ev.Type {
	case EventNextCalled, EventPreviousRecalled:
		if !r.eventForMyWindow(ev) {
			return
		}
		var p calledPayload
		if !decode(ev, &p) {
			return
		}
		r.view.CurrentServing = p.serving()
		r.view.IsServing = true

	case EventQueueTransferred:
		var p transferredPayload
		if !decode(ev, &p) {
			return
		}
		if p.FromWindowID == r.view.WindowID {
			r.view.CurrentServing = nil
			r.view.IsServing = false
		}
		if p.ToWindowID == r.view.WindowID {
			r.view.CurrentServing = p.serving()
			r.view.IsServing = true
		}

	case EventQueueSkipped:
		if !r.eventForMyWindow(ev) {
			return
		}
		var p skippedPayload
		if !decode(ev, &p) {
			return
		}
		if p.NextQueue == nil {
			r.view.CurrentServing = nil
			r.view.IsServing = false
			return
		}
		r.view.CurrentServing = &ServingView{
			Number:       *p.NextQueue,
			CustomerName: p.CustomerName,
			Role:         p.Role,
			IDNumber:     p.IDNumber,
		}
		r.view.IsServing = true

	case EventQueueRequeuedAll:
		if !r.eventForMyWindow(ev) {
			return
		}
		var p requeuedPayload
		if !decode(ev, &p) {
			return
		}
		// State itself lands via the refetch.
		r.toast.Success(fmt.Sprintf("%d skipped entries returned to the queue", p.Count))

	case EventWindowStatusUpdated:
		var p windowStatusPayload
		if !decode(ev, &p) {
			return
		}
		if p.WindowID != r.view.WindowID {
			return
		}
		if p.IsOpen != "" {
			r.view.IsOpen = p.IsOpen == "y"
		}
		if p.IsServing != "" {
			r.view.IsServing = p.IsServing == "y"
			if !r.view.IsServing {
				r.view.CurrentServing = nil
			}
		}

	case EventSettingsUpdated:
		var p settingsPayload
		if !decode(ev, &p) {
			return
		}
		if p.Subtype != "queue-toggle" {
			return
		}
		r.view.IsQueueingEnabled = p.IsQueueingEnabled == "y"
		if r.view.IsQueueingEnabled {
			r.toast.Warning("Queueing has been enabled")
		} else {
			r.toast.Warning("Queueing has been disabled")
		}

	default:
		// queue-updated, services-updated, windows-updated and any
		// future types carry no patchable payload for this view.
	}
}

func (r *Reconciler) eventForMyWindow(ev Event) bool {
	return ev.WindowID != nil && *ev.WindowID == r.view.WindowID
}

func decode(ev Event, out interface{}) bool {
	if len(ev.Data) == 0 {
		return false
	}
	if err := json.Unmarshal(ev.Data, out); err != nil {
		log.Printf("[Reconciler] Bad %s payload: %v", ev.Type, err)
		return false
	}
	return true
}
