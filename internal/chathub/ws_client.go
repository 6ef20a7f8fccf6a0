package chathub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"pairchat/backend/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// File payloads ride the same JSON frames, so the read limit has to
	// accommodate them.
	maxMessageSize = 64 << 20

	// SendBufferSize is the outbound channel depth per client.
	SendBufferSize = 256
)

// WebSocketClient implements Client over a gorilla/websocket connection.
type WebSocketClient struct {
	AnonID      string
	Conn        *websocket.Conn
	Coordinator *Coordinator
	Send        chan models.ServerEvent

	// done stops writePump. The Send channel itself is never closed: the
	// coordinator delivers outside its lock, so a close could race a send.
	done     chan struct{}
	shutdown sync.Once
}

// NewWebSocketClient wraps an upgraded connection.
func NewWebSocketClient(anonID string, conn *websocket.Conn, co *Coordinator) *WebSocketClient {
	return &WebSocketClient{
		AnonID:      anonID,
		Conn:        conn,
		Coordinator: co,
		Send:        make(chan models.ServerEvent, SendBufferSize),
		done:        make(chan struct{}),
	}
}

func (c *WebSocketClient) GetAnonID() string { return c.AnonID }
func (c *WebSocketClient) GetSendChannel() chan<- models.ServerEvent {
	return c.Send
}

// Run starts the pumps for this connection.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close stops writePump. readPump stops on its own once the connection is
// closed in writePump's defer.
func (c *WebSocketClient) Close() {
	c.shutdown.Do(func() { close(c.done) })
}

// readPump decodes inbound frames and hands them to the coordinator. The
// socket going away, for any reason, is the transport-disconnect event.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Coordinator.Disconnect(c.AnonID)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}

		var ev models.ClientEvent
		if err := json.Unmarshal(message, &ev); err != nil {
			log.Printf("error decoding frame from client %s: %v", c.AnonID, err)
			continue
		}

		c.Coordinator.Dispatch(c.AnonID, ev)
	}
}

// writePump drains the Send channel into the socket and keeps the
// connection alive with pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case ev := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("error encoding frame for client %s: %v", c.AnonID, err)
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
