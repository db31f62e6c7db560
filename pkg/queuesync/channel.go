package queuesync

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

/*
|--------------------------------------------------------------------------
| Realtime Channel Client
|--------------------------------------------------------------------------
| Room-scoped subscription over a single websocket. Delivery is
| at-most-effectively-once: events may drop across a reconnect gap,
| so every subscriber also refetches. The channel re-joins all rooms
| after a reconnect.
*/

// Handler receives every event of the subscribed type.
type Handler func(ev Event)

// Channel is the capability surface pages depend on. Unsubscribe
// functions are idempotent.
type Channel interface {
	JoinRoom(room string)
	LeaveRoom(room string)
	Subscribe(eventType string, h Handler) (unsubscribe func())
}

// roomControl matches the server's join/leave message.
type roomControl struct {
	Action string `json:"action"`
	Room   string `json:"room"`
}

const reconnectDelay = 2 * time.Second

// WSChannel implements Channel over gorilla/websocket. Reconnection
// is this transport's responsibility, not the subscriber's.
type WSChannel struct {
	url string

	// writeMux serializes control-message writes; the websocket
	// allows only one concurrent writer.
	writeMux sync.Mutex

	mux       sync.Mutex
	conn      *websocket.Conn
	connected bool
	rooms     map[string]bool
	subs      map[string]map[int]Handler
	nextSubID int
	closed    bool
	done      chan struct{}
}

func NewWSChannel(url string) *WSChannel {
	return &WSChannel{
		url:   url,
		rooms: make(map[string]bool),
		subs:  make(map[string]map[int]Handler),
		done:  make(chan struct{}),
	}
}

// Connect starts the read loop and keeps the connection alive until
// Close is called.
func (ch *WSChannel) Connect() {
	go ch.run()
}

func (ch *WSChannel) run() {
	for {
		select {
		case <-ch.done:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(ch.url, nil)
		if err != nil {
			log.Printf("[Channel] Dial failed: %v", err)
			select {
			case <-ch.done:
				return
			case <-time.After(reconnectDelay):
			}
			continue
		}

		ch.mux.Lock()
		ch.conn = conn
		ch.connected = true
		rooms := make([]string, 0, len(ch.rooms))
		for room := range ch.rooms {
			rooms = append(rooms, room)
		}
		ch.mux.Unlock()

		// Re-join everything the caller had joined before the drop.
		for _, room := range rooms {
			ch.sendControl("join", room)
		}

		ch.readLoop(conn)

		ch.mux.Lock()
		ch.connected = false
		ch.conn = nil
		ch.mux.Unlock()
	}
}

func (ch *WSChannel) readLoop(conn *websocket.Conn) {
	defer conn.Close()
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[Channel] Read error: %v", err)
			return
		}

		var ev Event
		if err := json.Unmarshal(message, &ev); err != nil {
			log.Printf("[Channel] Skipping malformed event: %v", err)
			continue
		}
		ch.dispatch(ev)
	}
}

func (ch *WSChannel) dispatch(ev Event) {
	ch.mux.Lock()
	handlers := make([]Handler, 0, len(ch.subs[ev.Type]))
	for _, h := range ch.subs[ev.Type] {
		handlers = append(handlers, h)
	}
	ch.mux.Unlock()

	// Every subscriber of the type gets every event.
	for _, h := range handlers {
		h(ev)
	}
}

func (ch *WSChannel) sendControl(action, room string) {
	ch.mux.Lock()
	conn := ch.conn
	ch.mux.Unlock()
	if conn == nil {
		return
	}
	msg, _ := json.Marshal(roomControl{Action: action, Room: room})

	ch.writeMux.Lock()
	err := conn.WriteMessage(websocket.TextMessage, msg)
	ch.writeMux.Unlock()
	if err != nil {
		log.Printf("[Channel] Failed to send %s for %s: %v", action, room, err)
	}
}

// JoinRoom registers the room; if disconnected the join is replayed
// once the connection comes back.
func (ch *WSChannel) JoinRoom(room string) {
	ch.mux.Lock()
	ch.rooms[room] = true
	connected := ch.connected
	ch.mux.Unlock()
	if connected {
		ch.sendControl("join", room)
	}
}

func (ch *WSChannel) LeaveRoom(room string) {
	ch.mux.Lock()
	delete(ch.rooms, room)
	connected := ch.connected
	ch.mux.Unlock()
	if connected {
		ch.sendControl("leave", room)
	}
}

// Subscribe registers a handler for an event type. Registering while
// disconnected is harmless: nothing is delivered until the transport
// reconnects.
func (ch *WSChannel) Subscribe(eventType string, h Handler) func() {
	ch.mux.Lock()
	if ch.subs[eventType] == nil {
		ch.subs[eventType] = make(map[int]Handler)
	}
	id := ch.nextSubID
	ch.nextSubID++
	ch.subs[eventType][id] = h
	ch.mux.Unlock()

	return func() {
		ch.mux.Lock()
		delete(ch.subs[eventType], id)
		ch.mux.Unlock()
	}
}

// Close tears the connection down and stops reconnecting.
func (ch *WSChannel) Close() {
	ch.mux.Lock()
	if ch.closed {
		ch.mux.Unlock()
		return
	}
	ch.closed = true
	conn := ch.conn
	ch.mux.Unlock()

	close(ch.done)
	if conn != nil {
		conn.Close()
	}
}
