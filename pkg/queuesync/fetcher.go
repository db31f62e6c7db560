package queuesync

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

/*
|--------------------------------------------------------------------------
| Snapshot Fetcher
|--------------------------------------------------------------------------
| Pulls the full queue state and replaces local state wholesale. No
| incremental merge and no in-flight de-duplication: two overlapping
| fetches may race and the last response to land wins, the next poll
| or event restores consistency.
*/

const pollInterval = 30 * time.Second

// Filter scopes a snapshot fetch.
type Filter struct {
	Department string
	WindowID   *int64
}

func (f Filter) String() string {
	if f.WindowID != nil {
		return fmt.Sprintf("%s/window-%d", f.Department, *f.WindowID)
	}
	return f.Department
}

type snapshotEnvelope struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Data    Snapshot `json:"data"`
}

// Fetcher owns the client-side snapshot cache for one page scope.
type Fetcher struct {
	baseURL string
	client  *http.Client
	clock   clockwork.Clock
	toast   Toaster

	mux             sync.Mutex
	filter          Filter
	snapshot        Snapshot
	loaded          bool
	failed          bool
	errorToastShown bool
	refreshing      bool
	pollStop        chan struct{}
}

func NewFetcher(baseURL string, filter Filter, toast Toaster) *Fetcher {
	return newFetcher(baseURL, filter, toast, clockwork.NewRealClock())
}

func newFetcher(baseURL string, filter Filter, toast Toaster, clock clockwork.Clock) *Fetcher {
	if toast == nil {
		toast = NopToaster{}
	}
	return &Fetcher{
		baseURL: baseURL,
		client:  &http.Client{},
		clock:   clock,
		toast:   toast,
		filter:  filter,
	}
}

// FetchSnapshot performs one pull without touching local state.
func (f *Fetcher) FetchSnapshot(filter Filter) (Snapshot, error) {
	endpoint := fmt.Sprintf("%s/api/public/queue-data/%s", f.baseURL, filter.Department)
	if filter.WindowID != nil {
		q := url.Values{}
		q.Set("window_id", fmt.Sprintf("%d", *filter.WindowID))
		endpoint += "?" + q.Encode()
	}

	resp, err := f.client.Get(endpoint)
	if err != nil {
		return Snapshot{}, fmt.Errorf("queue-data fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Snapshot{}, fmt.Errorf("queue-data fetch: unexpected status %d", resp.StatusCode)
	}

	var env snapshotEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Snapshot{}, fmt.Errorf("queue-data decode: %w", err)
	}
	if !env.Success {
		return Snapshot{}, fmt.Errorf("queue-data fetch: %s", env.Error)
	}
	return env.Data, nil
}

// Load is the initial-mount trigger.
func (f *Fetcher) Load() {
	f.refetch()
}

// HandleEvent is the default subscriber reaction: the event is only
// a hint, so refetch unconditionally.
func (f *Fetcher) HandleEvent(Event) {
	f.refetch()
}

// Refresh is the manual trigger. It short-circuits when a manual
// refresh is already in flight and shows a success toast on its own,
// distinct from the error toast.
func (f *Fetcher) Refresh() {
	f.mux.Lock()
	if f.refreshing {
		f.mux.Unlock()
		return
	}
	f.refreshing = true
	f.mux.Unlock()

	defer func() {
		f.mux.Lock()
		f.refreshing = false
		f.mux.Unlock()
	}()

	if f.refetch() {
		f.toast.Success("Queue data refreshed")
	}
}

// refetch pulls a snapshot for the current filter and applies the
// result. Reports whether the pull succeeded.
func (f *Fetcher) refetch() bool {
	f.mux.Lock()
	filter := f.filter
	f.mux.Unlock()

	snap, err := f.FetchSnapshot(filter)

	f.mux.Lock()
	defer f.mux.Unlock()

	if err != nil {
		log.Printf("[Fetcher] Snapshot pull failed for %s: %v", filter, err)
		// Fail closed: never leave a stale dataset on display after
		// a failed pull.
		f.snapshot = Snapshot{}
		f.loaded = false
		f.failed = true
		if !f.errorToastShown {
			f.errorToastShown = true
			f.toast.Error("Failed to load queue data")
		}
		return false
	}

	f.snapshot = snap
	f.loaded = true
	f.failed = false
	f.errorToastShown = false
	return true
}

// Snapshot returns the current cache and whether it is usable.
func (f *Fetcher) Snapshot() (Snapshot, bool) {
	f.mux.Lock()
	defer f.mux.Unlock()
	return f.snapshot, f.loaded && !f.failed
}

func (f *Fetcher) Failed() bool {
	f.mux.Lock()
	defer f.mux.Unlock()
	return f.failed
}

// SetFilter changes the fetch scope, tears down the active poll and
// starts a fresh one so the poll never runs with stale parameters.
func (f *Fetcher) SetFilter(filter Filter) {
	f.mux.Lock()
	f.filter = filter
	polling := f.pollStop != nil
	f.mux.Unlock()

	if polling {
		f.StopPolling()
		f.StartPolling()
	}
	f.refetch()
}

// StartPolling begins the 30-second fallback poll. The tick is a
// no-op while the page is in an error or empty state.
func (f *Fetcher) StartPolling() {
	f.mux.Lock()
	if f.pollStop != nil {
		f.mux.Unlock()
		return
	}
	stop := make(chan struct{})
	f.pollStop = stop
	f.mux.Unlock()

	go f.pollLoop(stop)
}

func (f *Fetcher) StopPolling() {
	f.mux.Lock()
	stop := f.pollStop
	f.pollStop = nil
	f.mux.Unlock()

	if stop != nil {
		close(stop)
	}
}

func (f *Fetcher) pollLoop(stop chan struct{}) {
	ticker := f.clock.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			if f.shouldPoll() {
				f.refetch()
			}
		}
	}
}

func (f *Fetcher) shouldPoll() bool {
	f.mux.Lock()
	defer f.mux.Unlock()
	if f.failed || !f.loaded {
		return false
	}
	s := f.snapshot
	return s.CurrentlyServing != nil || len(s.WaitingQueue) > 0 || len(s.SkippedQueue) > 0
}
