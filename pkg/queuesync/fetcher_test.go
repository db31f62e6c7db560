package queuesync

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshotServer serves a fixed snapshot and can be flipped into a
// failing mode mid-test.
type snapshotServer struct {
	failing  atomic.Bool
	requests atomic.Int64
	snap     Snapshot
	server   *httptest.Server
}

func newSnapshotServer(snap Snapshot) *snapshotServer {
	s := &snapshotServer{snap: snap}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		if s.failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    s.snap,
		})
	}))
	return s
}

func testSnapshot() Snapshot {
	return Snapshot{
		CurrentlyServing: &Entry{ID: 1, Number: 3, CustomerName: "Ana Reyes", Status: "serving"},
		WaitingQueue:     []Entry{{ID: 2, Number: 4, Status: "waiting"}},
		SkippedQueue:     []int{2},
	}
}

func TestLoadReplacesStateWholesale(t *testing.T) {
	srv := newSnapshotServer(testSnapshot())
	defer srv.server.Close()

	toast := &toastRecorder{}
	f := newFetcher(srv.server.URL, Filter{Department: "registrar"}, toast, clockwork.NewFakeClock())

	f.Load()

	snap, ok := f.Snapshot()
	require.True(t, ok)
	require.NotNil(t, snap.CurrentlyServing)
	assert.Equal(t, 3, snap.CurrentlyServing.Number)
	assert.Len(t, snap.WaitingQueue, 1)
	assert.Equal(t, []int{2}, snap.SkippedQueue)
	assert.Empty(t, toast.errors)
}

func TestFailureClearsDatasetAndToastsOnce(t *testing.T) {
	srv := newSnapshotServer(testSnapshot())
	defer srv.server.Close()

	toast := &toastRecorder{}
	f := newFetcher(srv.server.URL, Filter{Department: "registrar"}, toast, clockwork.NewFakeClock())

	f.Load()
	_, ok := f.Snapshot()
	require.True(t, ok)

	srv.failing.Store(true)
	f.HandleEvent(Event{Type: EventQueueUpdated})

	// Fail closed: no stale data on display.
	_, ok = f.Snapshot()
	assert.False(t, ok)
	assert.True(t, f.Failed())
	assert.Len(t, toast.errors, 1)

	// Repeated failures while already in the error state stay quiet.
	f.HandleEvent(Event{Type: EventQueueUpdated})
	assert.Len(t, toast.errors, 1)

	// Recovery resets the guard; the next failure toasts again.
	srv.failing.Store(false)
	f.HandleEvent(Event{Type: EventQueueUpdated})
	assert.False(t, f.Failed())

	srv.failing.Store(true)
	f.HandleEvent(Event{Type: EventQueueUpdated})
	assert.Len(t, toast.errors, 2)
}

func TestManualRefreshShowsSuccessToast(t *testing.T) {
	srv := newSnapshotServer(testSnapshot())
	defer srv.server.Close()

	toast := &toastRecorder{}
	f := newFetcher(srv.server.URL, Filter{Department: "registrar"}, toast, clockwork.NewFakeClock())

	f.Refresh()
	assert.Len(t, toast.successes, 1)

	// Automatic triggers never show the success toast.
	f.HandleEvent(Event{Type: EventQueueUpdated})
	assert.Len(t, toast.successes, 1)
}

func TestManualRefreshFailureUsesErrorToast(t *testing.T) {
	srv := newSnapshotServer(testSnapshot())
	srv.failing.Store(true)
	defer srv.server.Close()

	toast := &toastRecorder{}
	f := newFetcher(srv.server.URL, Filter{Department: "registrar"}, toast, clockwork.NewFakeClock())

	f.Refresh()

	assert.Empty(t, toast.successes)
	assert.Len(t, toast.errors, 1)
}

func TestPollRefetchesWhileHealthy(t *testing.T) {
	srv := newSnapshotServer(testSnapshot())
	defer srv.server.Close()

	clock := clockwork.NewFakeClock()
	f := newFetcher(srv.server.URL, Filter{Department: "registrar"}, &toastRecorder{}, clock)

	f.Load()
	require.Equal(t, int64(1), srv.requests.Load())

	f.StartPolling()
	defer f.StopPolling()
	clock.BlockUntil(1)

	clock.Advance(pollInterval)
	assert.Eventually(t, func() bool {
		return srv.requests.Load() == 2
	}, time.Second, 10*time.Millisecond)
}

func TestPollSkipsErrorState(t *testing.T) {
	srv := newSnapshotServer(testSnapshot())
	srv.failing.Store(true)
	defer srv.server.Close()

	clock := clockwork.NewFakeClock()
	f := newFetcher(srv.server.URL, Filter{Department: "registrar"}, &toastRecorder{}, clock)

	f.Load()
	require.Equal(t, int64(1), srv.requests.Load())

	f.StartPolling()
	defer f.StopPolling()
	clock.BlockUntil(1)

	clock.Advance(pollInterval)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), srv.requests.Load(), "error state must not be polled")
}

func TestSetFilterRefetchesImmediately(t *testing.T) {
	srv := newSnapshotServer(testSnapshot())
	defer srv.server.Close()

	f := newFetcher(srv.server.URL, Filter{Department: "registrar"}, &toastRecorder{}, clockwork.NewFakeClock())
	f.Load()

	windowID := int64(2)
	f.SetFilter(Filter{Department: "registrar", WindowID: &windowID})

	assert.Equal(t, int64(2), srv.requests.Load())
}

func TestFetchSnapshotRejectsEnvelopeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "Invalid department",
		})
	}))
	defer server.Close()

	f := newFetcher(server.URL, Filter{Department: "registrar"}, nil, clockwork.NewFakeClock())
	_, err := f.FetchSnapshot(Filter{Department: "nowhere"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid department")
}
