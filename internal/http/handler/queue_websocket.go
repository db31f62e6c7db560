package handler

import (
	"backend-campus-queue/internal/realtime"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/websocket/v2"
)

/*
|--------------------------------------------------------------------------
| WebSocket Endpoint
|--------------------------------------------------------------------------
| Clients join rooms ("admin-registrar", "queue-admissions") with control
| messages; all queue events arrive on the rooms they joined.
*/

type roomControlMessage struct {
	Action string `json:"action"` // join, leave
	Room   string `json:"room"`
}

func QueueWebSocket(c *websocket.Conn) {
	client := realtime.Queue.Register(c)
	defer realtime.Queue.Unregister(c)

	log.Printf("[queue-ws] %s connected from %s", client.ID(), c.RemoteAddr())

	// Ping/pong handler
	c.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.SetPongHandler(func(string) error {
		client.Touch()
		c.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Ping ticker every 20 seconds
	ticker := time.NewTicker(20 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				err := client.LockedWrite(func(conn realtime.Conn) error {
					conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					return conn.WriteMessage(websocket.PingMessage, nil)
				})
				if err != nil {
					log.Printf("[queue-ws] %s ping error: %v", client.ID(), err)
					return
				}
			case <-client.CloseChan():
				return
			}
		}
	}()

	// Read loop: only room control messages are expected from clients
	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure,
			) {
				log.Printf("[queue-ws] %s unexpected close: %v", client.ID(), err)
			} else {
				log.Printf("[queue-ws] %s closed normally", client.ID())
			}
			return
		}

		var msg roomControlMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("[queue-ws] %s bad control message: %v", client.ID(), err)
			continue
		}

		switch msg.Action {
		case "join":
			if msg.Room == "" {
				continue
			}
			realtime.Queue.Join(client, msg.Room)
			// Fresh joiners get a hint so they fetch a snapshot right away
			client.LockedWrite(func(conn realtime.Conn) error {
				event := realtime.Event{Type: realtime.EventQueueUpdated}
				payload, _ := json.Marshal(event)
				conn.SetWriteDeadline(time.Now().Add(3 * time.Second))
				return conn.WriteMessage(realtime.TextMessage, payload)
			})
		case "leave":
			if msg.Room == "" {
				continue
			}
			realtime.Queue.Leave(client, msg.Room)
		default:
			log.Printf("[queue-ws] %s unknown action %q", client.ID(), msg.Action)
		}
	}
}
