package signaling

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/laramesh/signalling/internal/models"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. SDP offers plus a margin.
	maxMessageSize = 64 * 1024

	// Outbound frames queued per connection before fan-out starts
	// dropping for that peer.
	sendBuffer = 256
)

// Client wraps a single websocket connection. The peer identity and room
// token are unset until a join request succeeds, and are owned by the hub
// goroutine thereafter.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// send is drained by writePump. Writes never block: a full buffer
	// means a slow consumer and the frame is dropped for that peer.
	send chan any

	peerID string
	room   string

	// closed is set by the hub when the client is unregistered; checked
	// before every fan-out send so a departed peer is never targeted.
	closed bool
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan any, sendBuffer),
	}
}

// enqueue queues an outbound frame, dropping it if the client's buffer is
// full. Fan-out is best-effort; a slow peer is skipped, not waited on.
func (c *Client) enqueue(frame any) {
	select {
	case c.send <- frame:
	default:
	}
}

// readPump pumps frames from the websocket connection to the hub.
//
// One readPump goroutine runs per connection, ensuring at most one reader.
// Undecodable messages are skipped without closing the connection; only
// transport errors end the session.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var frame models.Envelope
		if err := json.Unmarshal(data, &frame); err != nil {
			// Expected noise, not worth surfacing to the sender.
			continue
		}

		c.hub.inbound <- inbound{client: c, frame: frame}
	}
}

// writePump pumps frames from the send channel to the websocket connection
// and keeps the connection alive with periodic pings.
//
// One writePump goroutine runs per connection, ensuring at most one writer.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
