package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mux      sync.Mutex
	messages [][]byte
	writeErr error
	closed   bool
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mux.Lock()
	defer c.mux.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	c.messages = append(c.messages, buf)
	return nil
}

func (c *fakeConn) SetWriteDeadline(t time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.mux.Lock()
	c.closed = true
	c.mux.Unlock()
	return nil
}

func (c *fakeConn) received() []Event {
	c.mux.Lock()
	defer c.mux.Unlock()
	events := make([]Event, 0, len(c.messages))
	for _, raw := range c.messages {
		var ev Event
		if json.Unmarshal(raw, &ev) == nil {
			events = append(events, ev)
		}
	}
	return events
}

func TestBroadcastReachesRoomMembersOnly(t *testing.T) {
	hub := NewHub()
	inRoom := &fakeConn{}
	outside := &fakeConn{}

	member := hub.Register(inRoom)
	bystander := hub.Register(outside)
	hub.Join(member, AdminRoom("registrar"))
	hub.Join(bystander, AdminRoom("admissions"))

	hub.Broadcast(AdminRoom("registrar"), Event{
		Department: "registrar",
		Type:       EventNextCalled,
		WindowID:   WindowIDPtr(1),
	})

	require.Len(t, inRoom.received(), 1)
	assert.Equal(t, EventNextCalled, inRoom.received()[0].Type)
	assert.Empty(t, outside.received())
}

func TestLeaveStopsDelivery(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	client := hub.Register(conn)

	hub.Join(client, QueueRoom("registrar"))
	require.Equal(t, 1, hub.RoomSize(QueueRoom("registrar")))

	hub.Leave(client, QueueRoom("registrar"))
	assert.Zero(t, hub.RoomSize(QueueRoom("registrar")))

	hub.Broadcast(QueueRoom("registrar"), Event{Department: "registrar", Type: EventQueueUpdated})
	assert.Empty(t, conn.received())
}

func TestUnregisterRemovesFromAllRooms(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	client := hub.Register(conn)

	hub.Join(client, AdminRoom("registrar"))
	hub.Join(client, QueueRoom("registrar"))

	hub.Unregister(conn)

	assert.Zero(t, hub.RoomSize(AdminRoom("registrar")))
	assert.Zero(t, hub.RoomSize(QueueRoom("registrar")))
	assert.True(t, conn.closed)

	select {
	case <-client.CloseChan():
	default:
		t.Fatal("close channel must be closed on unregister")
	}
}

func TestWriteErrorEvictsClient(t *testing.T) {
	hub := NewHub()
	healthy := &fakeConn{}
	broken := &fakeConn{writeErr: errors.New("connection reset")}

	a := hub.Register(healthy)
	b := hub.Register(broken)
	hub.Join(a, AdminRoom("registrar"))
	hub.Join(b, AdminRoom("registrar"))

	hub.Broadcast(AdminRoom("registrar"), Event{Department: "registrar", Type: EventQueueUpdated})

	assert.Len(t, healthy.received(), 1)
	assert.Eventually(t, func() bool {
		return hub.RoomSize(AdminRoom("registrar")) == 1
	}, time.Second, 10*time.Millisecond, "broken connection must be evicted")
}

func TestNotifyQueueUpdatedDebouncesBursts(t *testing.T) {
	hub := NewHub()
	admin := &fakeConn{}
	portal := &fakeConn{}

	a := hub.Register(admin)
	p := hub.Register(portal)
	hub.Join(a, AdminRoom("registrar"))
	hub.Join(p, QueueRoom("registrar"))

	// A burst of actions collapses into one hint per room.
	for i := 0; i < 5; i++ {
		hub.NotifyQueueUpdated("registrar")
	}

	assert.Eventually(t, func() bool {
		return len(admin.received()) == 1 && len(portal.received()) == 1
	}, time.Second, 10*time.Millisecond)

	time.Sleep(3 * hub.debounceDelay)
	assert.Len(t, admin.received(), 1)
	assert.Len(t, portal.received(), 1)
	assert.Equal(t, EventQueueUpdated, admin.received()[0].Type)
}

func TestNotifyQueueUpdatedIsPerDepartment(t *testing.T) {
	hub := NewHub()
	registrar := &fakeConn{}
	admissions := &fakeConn{}

	r := hub.Register(registrar)
	m := hub.Register(admissions)
	hub.Join(r, AdminRoom("registrar"))
	hub.Join(m, AdminRoom("admissions"))

	hub.NotifyQueueUpdated("registrar")
	hub.NotifyQueueUpdated("admissions")

	assert.Eventually(t, func() bool {
		return len(registrar.received()) == 1 && len(admissions.received()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "registrar", registrar.received()[0].Department)
	assert.Equal(t, "admissions", admissions.received()[0].Department)
}

func TestRoomNames(t *testing.T) {
	assert.Equal(t, "admin-registrar", AdminRoom("registrar"))
	assert.Equal(t, "queue-admissions", QueueRoom("admissions"))
}
