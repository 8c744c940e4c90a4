package models

import "encoding/json"

// Frame type tags shared by clients and server.
const (
	TypeSignal        = "signal"
	TypeChat          = "chat"
	TypeTranscription = "transcription"
	TypeYourID        = "your-id"
	TypePeers         = "peers"
	TypeNewPeer       = "new-peer"
	TypePeerLeft      = "peer-left"
	TypeAudio         = "lara-audio"
)

// Envelope is the superset of every frame a client may send. Classification
// is by fields present: a join token wins over everything else, then the
// declared type. Frames matching no known shape are dropped.
type Envelope struct {
	// Join carries the room token of a join request.
	Join string `json:"join,omitempty"`

	Type string `json:"type,omitempty"`

	// Negotiation fields. Signal is opaque to the relay and forwarded
	// verbatim to the destination peer.
	To     string          `json:"to,omitempty"`
	Signal json.RawMessage `json:"signal,omitempty"`

	// Chat and transcription fields.
	Room string `json:"room,omitempty"`
	From string `json:"from,omitempty"`
	Text string `json:"text,omitempty"`
}

// YourIDFrame tells a freshly joined client its assigned peer identifier.
type YourIDFrame struct {
	Type   string `json:"type"`
	PeerID string `json:"peerId"`
}

// PeersFrame lists the members already in the room, excluding the joiner.
type PeersFrame struct {
	Type  string   `json:"type"`
	Peers []string `json:"peers"`
}

// NewPeerFrame announces an arrival to the room's existing members.
type NewPeerFrame struct {
	Type   string `json:"type"`
	PeerID string `json:"peerId"`
}

// PeerLeftFrame announces a departure to the room's remaining members.
type PeerLeftFrame struct {
	Type   string `json:"type"`
	PeerID string `json:"peerId"`
}

// SignalFrame carries a negotiation payload to its destination peer.
type SignalFrame struct {
	Type   string          `json:"type"`
	From   string          `json:"from"`
	Signal json.RawMessage `json:"signal"`
}

// ChatFrame carries room chat, from either a peer or an assistant persona.
type ChatFrame struct {
	Type string `json:"type"`
	From string `json:"from"`
	Text string `json:"text"`
}

// TranscriptionFrame carries live-transcription text to the other members
// of the originator's room.
type TranscriptionFrame struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	From      string `json:"from"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds, server clock
}

// AudioFrame carries a base64-encoded WAV generated by the assistant.
type AudioFrame struct {
	Type string `json:"type"`
	B64  string `json:"b64"`
}
