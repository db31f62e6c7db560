package queuesync

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wsTestServer accepts one connection at a time, records room joins
// and lets the test push events down to the client.
type wsTestServer struct {
	server   *httptest.Server
	upgrader websocket.Upgrader

	mux   sync.Mutex
	conn  *websocket.Conn
	joins []string
}

func newWSTestServer(t *testing.T) *wsTestServer {
	t.Helper()
	s := &wsTestServer{}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.mux.Lock()
		s.conn = conn
		s.mux.Unlock()
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var ctl roomControl
			if json.Unmarshal(message, &ctl) == nil && ctl.Action == "join" {
				s.mux.Lock()
				s.joins = append(s.joins, ctl.Room)
				s.mux.Unlock()
			}
		}
	}))
	return s
}

func (s *wsTestServer) url() string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http")
}

func (s *wsTestServer) push(t *testing.T, ev Event) {
	t.Helper()
	s.mux.Lock()
	conn := s.conn
	s.mux.Unlock()
	require.NotNil(t, conn)
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
}

func (s *wsTestServer) joinedRooms() []string {
	s.mux.Lock()
	defer s.mux.Unlock()
	return append([]string(nil), s.joins...)
}

func TestSubscribersEachReceiveEveryEvent(t *testing.T) {
	srv := newWSTestServer(t)
	defer srv.server.Close()

	ch := NewWSChannel(srv.url())
	ch.Connect()
	defer ch.Close()

	received := make(chan string, 4)
	ch.Subscribe(EventQueueUpdated, func(ev Event) { received <- "first:" + ev.Department })
	ch.Subscribe(EventQueueUpdated, func(ev Event) { received <- "second:" + ev.Department })

	ch.JoinRoom(QueueRoom("registrar"))
	require.Eventually(t, func() bool {
		return len(srv.joinedRooms()) == 1
	}, time.Second, 10*time.Millisecond)

	srv.push(t, Event{Department: "registrar", Type: EventQueueUpdated})

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case msg := <-received:
			got[msg] = true
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}
	assert.True(t, got["first:registrar"])
	assert.True(t, got["second:registrar"])
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	srv := newWSTestServer(t)
	defer srv.server.Close()

	ch := NewWSChannel(srv.url())
	ch.Connect()
	defer ch.Close()

	received := make(chan Event, 2)
	unsubscribe := ch.Subscribe(EventNextCalled, func(ev Event) { received <- ev })

	ch.JoinRoom(AdminRoom("registrar"))
	require.Eventually(t, func() bool {
		return len(srv.joinedRooms()) == 1
	}, time.Second, 10*time.Millisecond)

	unsubscribe()
	unsubscribe() // idempotent

	srv.push(t, Event{Department: "registrar", Type: EventNextCalled})

	select {
	case <-received:
		t.Fatal("handler received an event after unsubscribe")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestJoinBeforeConnectIsReplayed(t *testing.T) {
	srv := newWSTestServer(t)
	defer srv.server.Close()

	ch := NewWSChannel(srv.url())
	// Join while disconnected; the room must be sent once the
	// transport comes up.
	ch.JoinRoom(AdminRoom("admissions"))
	ch.Connect()
	defer ch.Close()

	require.Eventually(t, func() bool {
		rooms := srv.joinedRooms()
		return len(rooms) == 1 && rooms[0] == "admin-admissions"
	}, time.Second, 10*time.Millisecond)
}

func TestConcurrentRoomControlIsSerialized(t *testing.T) {
	srv := newWSTestServer(t)
	defer srv.server.Close()

	ch := NewWSChannel(srv.url())
	ch.Connect()
	defer ch.Close()

	ch.JoinRoom(AdminRoom("registrar"))
	require.Eventually(t, func() bool {
		return len(srv.joinedRooms()) >= 1
	}, time.Second, 10*time.Millisecond)

	// Only one goroutine may write to the websocket at a time; a
	// burst of joins and leaves from many goroutines must not share
	// the connection's writer.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			room := QueueRoom("registrar")
			if n%2 == 0 {
				room = AdminRoom("admissions")
			}
			ch.JoinRoom(room)
			ch.LeaveRoom(room)
		}(i)
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return len(srv.joinedRooms()) == 51
	}, time.Second, 10*time.Millisecond, "every join must arrive intact")
}

func TestTypeFilteredDispatch(t *testing.T) {
	srv := newWSTestServer(t)
	defer srv.server.Close()

	ch := NewWSChannel(srv.url())
	ch.Connect()
	defer ch.Close()

	called := make(chan Event, 2)
	ch.Subscribe(EventNextCalled, func(ev Event) { called <- ev })

	ch.JoinRoom(AdminRoom("registrar"))
	require.Eventually(t, func() bool {
		return len(srv.joinedRooms()) == 1
	}, time.Second, 10*time.Millisecond)

	srv.push(t, Event{Department: "registrar", Type: EventQueueUpdated})
	srv.push(t, Event{Department: "registrar", Type: EventNextCalled})

	select {
	case ev := <-called:
		assert.Equal(t, EventNextCalled, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("subscribed type was not delivered")
	}
	select {
	case ev := <-called:
		t.Fatalf("unexpected extra delivery: %s", ev.Type)
	case <-time.After(100 * time.Millisecond):
	}
}
