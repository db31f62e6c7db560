package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

/*
|--------------------------------------------------------------------------
| Connection Abstraction
|--------------------------------------------------------------------------
| Satisfied by *websocket.Conn; tests register fakes.
*/

type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// TextMessage matches the websocket text opcode so the hub does not
// need to import a transport package.
const TextMessage = 1

/*
|--------------------------------------------------------------------------
| Client Registry
|--------------------------------------------------------------------------
*/

type Client struct {
	conn         Conn
	writeMux     sync.Mutex
	closeChan    chan struct{}
	closed       bool
	lastPongTime time.Time
	id           string
	rooms        map[string]bool
}

func (c *Client) ID() string { return c.id }

// Touch records pong receipt for the stale-connection reaper.
func (c *Client) Touch() {
	c.writeMux.Lock()
	c.lastPongTime = time.Now()
	c.writeMux.Unlock()
}

// LockedWrite serializes direct writes (ping frames) with broadcasts.
func (c *Client) LockedWrite(fn func(conn Conn) error) error {
	c.writeMux.Lock()
	defer c.writeMux.Unlock()
	if c.closed {
		return fmt.Errorf("client %s closed", c.id)
	}
	return fn(c.conn)
}

func (c *Client) CloseChan() <-chan struct{} { return c.closeChan }

type Hub struct {
	mu             sync.RWMutex
	clients        map[Conn]*Client
	rooms          map[string]map[*Client]bool
	clientCounter  uint64 // atomic
	cleanupRunning bool

	// Debounce queue-updated per department — a burst of actions still
	// produces one broadcast.
	debounceMu     sync.Mutex
	debounceTimers map[string]*time.Timer
	debounceDelay  time.Duration
}

// Queue is the process-wide hub all handlers publish to.
var Queue = NewHub()

func NewHub() *Hub {
	return &Hub{
		clients:        make(map[Conn]*Client),
		rooms:          make(map[string]map[*Client]bool),
		debounceTimers: make(map[string]*time.Timer),
		debounceDelay:  50 * time.Millisecond,
	}
}

func (h *Hub) Register(conn Conn) *Client {
	id := atomic.AddUint64(&h.clientCounter, 1)
	client := &Client{
		conn:         conn,
		closeChan:    make(chan struct{}),
		lastPongTime: time.Now(),
		id:           fmt.Sprintf("client-%d", id),
		rooms:        make(map[string]bool),
	}

	h.mu.Lock()
	h.clients[conn] = client
	total := len(h.clients)
	startCleanup := !h.cleanupRunning
	if startCleanup {
		h.cleanupRunning = true
	}
	h.mu.Unlock()

	log.Printf("[realtime] %s registered, total: %d", client.id, total)

	if startCleanup {
		go h.periodicCleanup()
	}
	return client
}

func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	client, exists := h.clients[conn]
	if exists {
		client.writeMux.Lock()
		if !client.closed {
			client.closed = true
			close(client.closeChan)
		}
		client.writeMux.Unlock()

		for room := range client.rooms {
			h.removeFromRoomLocked(client, room)
		}
		delete(h.clients, conn)
	}
	total := len(h.clients)
	h.mu.Unlock()

	_ = conn.Close()
	if exists {
		log.Printf("[realtime] %s unregistered, total: %d", client.id, total)
	}
}

/*
|--------------------------------------------------------------------------
| Room Membership
|--------------------------------------------------------------------------
*/

func (h *Hub) Join(client *Client, room string) {
	h.mu.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	client.rooms[room] = true
	h.mu.Unlock()

	log.Printf("[realtime] %s joined %s", client.id, room)
}

func (h *Hub) Leave(client *Client, room string) {
	h.mu.Lock()
	h.removeFromRoomLocked(client, room)
	delete(client.rooms, room)
	h.mu.Unlock()

	log.Printf("[realtime] %s left %s", client.id, room)
}

func (h *Hub) removeFromRoomLocked(client *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// RoomSize reports current membership, mainly for diagnostics.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

/*
|--------------------------------------------------------------------------
| Broadcast
|--------------------------------------------------------------------------
*/

// Broadcast marshals the event once and fans it out to every client in
// the room through a bounded worker pool.
func (h *Hub) Broadcast(room string, event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		log.Printf("[realtime] marshal error for %s: %v", event, err)
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for client := range h.rooms[room] {
		members = append(members, client)
	}
	h.mu.RUnlock()

	if len(members) == 0 {
		return
	}

	const maxWorkers = 20
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for _, client := range members {
		wg.Add(1)
		sem <- struct{}{}
		go func(c *Client) {
			defer wg.Done()
			defer func() { <-sem }()
			h.writeToClient(c, message)
		}(client)
	}

	wg.Wait()
}

// NotifyQueueUpdated emits the generic queue-updated hint to the
// department's admin and public rooms, debounced per department.
func (h *Hub) NotifyQueueUpdated(department string) {
	h.debounceMu.Lock()
	defer h.debounceMu.Unlock()

	if timer, ok := h.debounceTimers[department]; ok {
		timer.Reset(h.debounceDelay)
		return
	}

	h.debounceTimers[department] = time.AfterFunc(h.debounceDelay, func() {
		h.debounceMu.Lock()
		delete(h.debounceTimers, department)
		h.debounceMu.Unlock()

		event := Event{Department: department, Type: EventQueueUpdated}
		h.Broadcast(AdminRoom(department), event)
		h.Broadcast(QueueRoom(department), event)
	})
}

func (h *Hub) writeToClient(c *Client, message []byte) {
	c.writeMux.Lock()
	defer c.writeMux.Unlock()

	if c.closed {
		return
	}

	c.conn.SetWriteDeadline(time.Now().Add(3 * time.Second))
	if err := c.conn.WriteMessage(TextMessage, message); err != nil {
		log.Printf("[realtime] %s write error: %v", c.id, err)
		c.closed = true
		select {
		case <-c.closeChan:
		default:
			close(c.closeChan)
		}

		go func(conn Conn, id string) {
			h.mu.Lock()
			if client, exists := h.clients[conn]; exists {
				for room := range client.rooms {
					h.removeFromRoomLocked(client, room)
				}
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			conn.Close()
			log.Printf("[realtime] %s removed after write error", id)
		}(c.conn, c.id)
	}
}

/*
|--------------------------------------------------------------------------
| Stale Connection Reaper
|--------------------------------------------------------------------------
*/

// periodicCleanup drops connections with no pong for 90s, every 30s.
func (h *Hub) periodicCleanup() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.Lock()
		if len(h.clients) == 0 {
			h.cleanupRunning = false
			h.mu.Unlock()
			log.Println("[realtime] No clients, stopping cleanup goroutine")
			return
		}
		h.mu.Unlock()

		now := time.Now()
		var toRemove []Conn

		h.mu.RLock()
		for conn, client := range h.clients {
			client.writeMux.Lock()
			stale := now.Sub(client.lastPongTime) > 90*time.Second
			client.writeMux.Unlock()

			if stale {
				log.Printf("[realtime] %s dead (no pong), marking for removal", client.id)
				toRemove = append(toRemove, conn)
			}
		}
		h.mu.RUnlock()

		for _, conn := range toRemove {
			h.Unregister(conn)
		}
		if len(toRemove) > 0 {
			h.mu.RLock()
			remaining := len(h.clients)
			h.mu.RUnlock()
			log.Printf("[realtime] Cleaned %d dead clients, remaining: %d", len(toRemove), remaining)
		}
	}
}
