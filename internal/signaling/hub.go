package signaling

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/laramesh/signalling/internal/metrics"
	"github.com/laramesh/signalling/internal/models"
)

// ChatInterceptor decides whether a chat message is a command addressed to
// the embedded assistant. Intercept returns true when it has consumed the
// message; the hub then does not relay the original text to the room.
type ChatInterceptor interface {
	Intercept(room, from, text string) bool
}

// inbound pairs a decoded frame with the connection that sent it.
type inbound struct {
	client *Client
	frame  models.Envelope
}

// delivery is a room-wide broadcast injected from outside the hub
// goroutine, typically an assistant call completing. The room is
// re-resolved by token when the delivery is processed, so the fan-out
// targets whatever membership is current at completion time.
type delivery struct {
	room  string
	frame any
}

// Hub owns all room and peer state. A single goroutine running Run
// processes every registration, frame and assistant completion, so room
// membership mutations never interleave and need no locking.
type Hub struct {
	registry *Registry
	rooms    *Rooms

	interceptor ChatInterceptor

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	deliver    chan delivery

	// Counters mirrored out of the hub goroutine for the health endpoint.
	clientCount atomic.Int64
	roomCount   atomic.Int64

	log zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		registry:   NewRegistry(),
		rooms:      NewRooms(logger),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound),
		deliver:    make(chan delivery, 64),
		log:        logger.With().Str("component", "hub").Logger(),
	}
}

// SetInterceptor installs the assistant command interceptor. Must be called
// before Run.
func (h *Hub) SetInterceptor(i ChatInterceptor) {
	h.interceptor = i
}

// Attach wires an upgraded websocket connection into the hub and starts its
// read and write pumps.
func (h *Hub) Attach(conn *websocket.Conn) {
	c := newClient(h, conn)
	h.register <- c
	go c.writePump()
	go c.readPump()
}

// Run is the hub's event loop. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.handleRegister(c)
		case c := <-h.unregister:
			h.handleUnregister(c)
		case in := <-h.inbound:
			h.dispatch(in)
		case d := <-h.deliver:
			h.handleDeliver(d)
		case <-ctx.Done():
			return
		}
	}
}

// Stats reports current connection and room counts. Safe from any
// goroutine.
func (h *Hub) Stats() (clients, rooms int64) {
	return h.clientCount.Load(), h.roomCount.Load()
}

func (h *Hub) handleRegister(c *Client) {
	h.registry.Register(c)
	h.clientCount.Store(int64(h.registry.Len()))
	metrics.ConnectedClients.Set(float64(h.registry.Len()))
	h.log.Debug().Msg("client registered")
}

func (h *Hub) handleUnregister(c *Client) {
	room, peerID := h.registry.Unregister(c)
	if room == "" && peerID == "" && c.closed {
		return
	}
	c.closed = true
	close(c.send)

	if room != "" {
		h.rooms.Leave(room, peerID)
	}

	h.clientCount.Store(int64(h.registry.Len()))
	h.roomCount.Store(int64(h.rooms.Len()))
	metrics.ConnectedClients.Set(float64(h.registry.Len()))
	h.log.Debug().Str("room", room).Str("peer", peerID).Msg("client unregistered")
}

// dispatch classifies one inbound frame and routes it. Classification is by
// priority: a join token first, then the declared type. Anything else is
// dropped without a reply.
func (h *Hub) dispatch(in inbound) {
	f := in.frame
	switch {
	case f.Join != "":
		h.handleJoin(in.client, f.Join)

	case f.Type == models.TypeSignal && f.To != "":
		h.relaySignal(in.client, f.To, f.Signal)

	case f.Type == models.TypeChat && f.Room != "" && f.From != "":
		if h.interceptor != nil && h.interceptor.Intercept(f.Room, f.From, f.Text) {
			return
		}
		h.broadcastChat(f.Room, f.From, f.Text, in.client)
		metrics.FramesRelayed.WithLabelValues("chat").Inc()

	case f.Type == models.TypeTranscription && f.Room != "" && f.Text != "":
		h.relayTranscription(f.Room, in.client, f.Text)
		metrics.FramesRelayed.WithLabelValues("transcription").Inc()

	default:
		metrics.FramesDropped.WithLabelValues("unknown").Inc()
	}
}

// handleJoin assigns the connection its peer identity and room membership.
// The joiner is told its identifier and the pre-insert member snapshot, so
// it never sees itself in the peer list. A second join on the same
// connection is a protocol violation and is ignored.
func (h *Hub) handleJoin(c *Client, token string) {
	if c.room != "" {
		h.log.Debug().Str("room", c.room).Str("peer", c.peerID).Msg("duplicate join ignored")
		return
	}

	peerID := h.registry.AssignIdentity(c)
	c.room = token

	c.enqueue(models.YourIDFrame{Type: models.TypeYourID, PeerID: peerID})
	snapshot := h.rooms.Join(token, peerID, c)
	c.enqueue(models.PeersFrame{Type: models.TypePeers, Peers: snapshot})

	h.roomCount.Store(int64(h.rooms.Len()))
}

// relaySignal forwards a negotiation payload point-to-point. A missing
// destination is an expected race with a disconnect, not an error.
func (h *Hub) relaySignal(c *Client, to string, payload []byte) {
	if c.room == "" {
		metrics.FramesDropped.WithLabelValues("not_joined").Inc()
		return
	}
	dest, ok := h.rooms.Lookup(c.room, to)
	if !ok || dest.closed {
		metrics.FramesDropped.WithLabelValues("no_destination").Inc()
		h.log.Debug().Str("room", c.room).Str("from", c.peerID).Str("to", to).Msg("signal destination gone")
		return
	}
	dest.enqueue(models.SignalFrame{Type: models.TypeSignal, From: c.peerID, Signal: payload})
	metrics.FramesRelayed.WithLabelValues("signal").Inc()
}

// broadcastChat fans a chat frame out to every open member connection of
// the room except the originating one. Assistant broadcasts pass a nil
// exception and reach everyone.
func (h *Hub) broadcastChat(room, from, text string, except *Client) {
	for _, member := range h.rooms.Members(room) {
		if member == except || member.closed {
			continue
		}
		member.enqueue(models.ChatFrame{Type: models.TypeChat, From: from, Text: text})
	}
}

// broadcastAudio fans an assistant audio artifact out to the whole room.
// An empty payload is skipped entirely.
func (h *Hub) broadcastAudio(room, b64 string) {
	if b64 == "" {
		return
	}
	for _, member := range h.rooms.Members(room) {
		if member.closed {
			continue
		}
		member.enqueue(models.AudioFrame{Type: models.TypeAudio, B64: b64})
	}
}

// relayTranscription fans transcription text out to every member of the
// room except the originator, which already has its own local transcript.
func (h *Hub) relayTranscription(room string, origin *Client, text string) {
	frame := models.TranscriptionFrame{
		Type:      models.TypeTranscription,
		Text:      text,
		From:      origin.peerID,
		Timestamp: time.Now().UnixMilli(),
	}
	for _, member := range h.rooms.Members(room) {
		if member == origin || member.closed {
			continue
		}
		member.enqueue(frame)
	}
}

// BroadcastChat injects a room-wide chat broadcast from outside the hub
// goroutine. Safe for concurrent use; the room is re-resolved fresh when
// the hub processes the delivery.
func (h *Hub) BroadcastChat(room, from, text string) {
	h.deliver <- delivery{room: room, frame: models.ChatFrame{Type: models.TypeChat, From: from, Text: text}}
}

// BroadcastAudio injects a room-wide audio broadcast from outside the hub
// goroutine. Empty payloads are dropped.
func (h *Hub) BroadcastAudio(room, b64 string) {
	if b64 == "" {
		return
	}
	h.deliver <- delivery{room: room, frame: models.AudioFrame{Type: models.TypeAudio, B64: b64}}
}

func (h *Hub) handleDeliver(d delivery) {
	members := h.rooms.Members(d.room)
	if members == nil {
		// The room emptied while the assistant call was outstanding.
		h.log.Debug().Str("room", d.room).Msg("delivery to vanished room dropped")
		return
	}
	for _, member := range members {
		if member.closed {
			continue
		}
		member.enqueue(d.frame)
	}
	metrics.FramesRelayed.WithLabelValues("assistant").Inc()
}
