package queuesync

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toastRecorder struct {
	successes []string
	errors    []string
	warnings  []string
}

func (t *toastRecorder) Success(msg string) { t.successes = append(t.successes, msg) }
func (t *toastRecorder) Error(msg string)   { t.errors = append(t.errors, msg) }
func (t *toastRecorder) Warning(msg string) { t.warnings = append(t.warnings, msg) }

func eventWithData(t *testing.T, eventType string, windowID int64, data map[string]interface{}) Event {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return Event{
		Department: "registrar",
		Type:       eventType,
		WindowID:   &windowID,
		Data:       raw,
	}
}

func newTestReconciler(windowID int64) (*Reconciler, *toastRecorder, *int) {
	toast := &toastRecorder{}
	refetches := 0
	rec := NewReconciler(WindowView{
		WindowID:   windowID,
		Department: "registrar",
	}, toast, func() { refetches++ })
	return rec, toast, &refetches
}

func TestNextCalledPatchesMyWindow(t *testing.T) {
	rec, _, refetches := newTestReconciler(1)

	rec.Apply(eventWithData(t, EventNextCalled, 1, map[string]interface{}{
		"queue_number":  7,
		"customer_name": "Jane Doe",
		"role":          "student",
		"window_name":   "Window 1",
	}))

	view := rec.View()
	require.NotNil(t, view.CurrentServing)
	assert.Equal(t, 7, view.CurrentServing.Number)
	assert.Equal(t, "Jane Doe", view.CurrentServing.CustomerName)
	assert.Nil(t, view.CurrentServing.IDNumber)
	assert.True(t, view.IsServing)
	assert.Equal(t, 1, *refetches, "every event must confirm from the server")
}

func TestNextCalledIgnoresOtherWindows(t *testing.T) {
	rec, _, refetches := newTestReconciler(1)

	rec.Apply(eventWithData(t, EventNextCalled, 2, map[string]interface{}{
		"queue_number":  7,
		"customer_name": "Jane Doe",
	}))

	assert.Nil(t, rec.View().CurrentServing)
	assert.Equal(t, 1, *refetches, "unmatched events still confirm from the server")
}

func TestTransferPatchesBothEnds(t *testing.T) {
	source, _, _ := newTestReconciler(1)
	target, _, _ := newTestReconciler(2)
	source.view.CurrentServing = &ServingView{Number: 12, CustomerName: "Sam Cruz"}
	source.view.IsServing = true

	ev := eventWithData(t, EventQueueTransferred, 1, map[string]interface{}{
		"queue_number":   12,
		"customer_name":  "Sam Cruz",
		"role":           "visitor",
		"from_window_id": 1,
		"to_window_id":   2,
	})
	source.Apply(ev)
	target.Apply(ev)

	assert.Nil(t, source.View().CurrentServing)
	assert.False(t, source.View().IsServing)

	require.NotNil(t, target.View().CurrentServing)
	assert.Equal(t, 12, target.View().CurrentServing.Number)
	assert.True(t, target.View().IsServing)
}

func TestSkipWithNextQueue(t *testing.T) {
	rec, _, _ := newTestReconciler(1)
	rec.view.CurrentServing = &ServingView{Number: 4}
	rec.view.IsServing = true

	rec.Apply(eventWithData(t, EventQueueSkipped, 1, map[string]interface{}{
		"queue_number":  4,
		"next_queue":    5,
		"customer_name": "Rita Gomez",
		"role":          "priority",
	}))

	view := rec.View()
	require.NotNil(t, view.CurrentServing)
	assert.Equal(t, 5, view.CurrentServing.Number)
	assert.Equal(t, "Rita Gomez", view.CurrentServing.CustomerName)
}

func TestSkipWithEmptyQueueClearsServing(t *testing.T) {
	rec, _, _ := newTestReconciler(1)
	rec.view.CurrentServing = &ServingView{Number: 4}
	rec.view.IsServing = true

	rec.Apply(eventWithData(t, EventQueueSkipped, 1, map[string]interface{}{
		"queue_number": 4,
		"next_queue":   nil,
	}))

	assert.Nil(t, rec.View().CurrentServing)
	assert.False(t, rec.View().IsServing)
}

func TestRequeuedAllNotifiesWithCount(t *testing.T) {
	rec, toast, refetches := newTestReconciler(1)

	rec.Apply(eventWithData(t, EventQueueRequeuedAll, 1, map[string]interface{}{
		"count": 3,
	}))

	require.Len(t, toast.successes, 1)
	assert.Contains(t, toast.successes[0], "3")
	assert.Equal(t, 1, *refetches)
}

func TestWindowStatusUpdate(t *testing.T) {
	rec, _, _ := newTestReconciler(1)
	rec.view.CurrentServing = &ServingView{Number: 9}
	rec.view.IsServing = true
	rec.view.IsOpen = true

	rec.Apply(eventWithData(t, EventWindowStatusUpdated, 1, map[string]interface{}{
		"window_id":  1,
		"is_serving": "n",
	}))

	assert.False(t, rec.View().IsServing)
	assert.Nil(t, rec.View().CurrentServing)
	assert.True(t, rec.View().IsOpen, "absent is_open field must not reset the flag")
}

func TestSettingsQueueToggle(t *testing.T) {
	rec, toast, _ := newTestReconciler(1)

	rec.Apply(eventWithData(t, EventSettingsUpdated, 1, map[string]interface{}{
		"subtype":             "queue-toggle",
		"is_queueing_enabled": "y",
	}))

	assert.True(t, rec.View().IsQueueingEnabled)
	assert.Len(t, toast.warnings, 1)
}

func TestUnknownTypeStillConfirms(t *testing.T) {
	rec, toast, refetches := newTestReconciler(1)

	rec.Apply(Event{Department: "registrar", Type: EventQueueUpdated})

	assert.Nil(t, rec.View().CurrentServing)
	assert.Empty(t, toast.successes)
	assert.Equal(t, 1, *refetches)
}
