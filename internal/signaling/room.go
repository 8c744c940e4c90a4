package signaling

import (
	"github.com/rs/zerolog"

	"github.com/laramesh/signalling/internal/metrics"
	"github.com/laramesh/signalling/internal/models"
)

// Rooms maps room tokens to their member sets. Rooms are created lazily on
// first join and deleted the instant their member set becomes empty, so
// every entry in the table always has at least one member.
//
// All methods are called from the hub goroutine only, which is what makes
// the snapshot-insert-notify sequence in Join atomic with respect to other
// joins and leaves on the same room.
type Rooms struct {
	rooms map[string]map[string]*Client
	log   zerolog.Logger
}

func NewRooms(logger zerolog.Logger) *Rooms {
	return &Rooms{
		rooms: make(map[string]map[string]*Client),
		log:   logger.With().Str("component", "rooms").Logger(),
	}
}

// Join adds the peer to the room, creating the room if absent, and returns
// the member snapshot taken before the insert. The snapshot is what the
// joiner is told about, so it never contains the joiner itself. Existing
// members are notified of the arrival after the insert.
func (r *Rooms) Join(token, peerID string, c *Client) []string {
	members, ok := r.rooms[token]
	if !ok {
		members = make(map[string]*Client)
		r.rooms[token] = members
		r.log.Debug().Str("room", token).Msg("room created")
	}

	snapshot := make([]string, 0, len(members))
	for id := range members {
		snapshot = append(snapshot, id)
	}

	members[peerID] = c

	for id, member := range members {
		if id == peerID || member.closed {
			continue
		}
		member.enqueue(models.NewPeerFrame{Type: models.TypeNewPeer, PeerID: peerID})
	}

	metrics.ActiveRooms.Set(float64(len(r.rooms)))
	r.log.Info().Str("room", token).Str("peer", peerID).Int("members", len(members)).Msg("peer joined")
	return snapshot
}

// Leave removes the peer from the room, notifies the remaining members of
// the departure, and deletes the room entry if it is now empty. Leaving a
// room the peer is not a member of is a no-op.
func (r *Rooms) Leave(token, peerID string) {
	members, ok := r.rooms[token]
	if !ok {
		return
	}
	if _, ok := members[peerID]; !ok {
		return
	}
	delete(members, peerID)

	if len(members) == 0 {
		delete(r.rooms, token)
		metrics.ActiveRooms.Set(float64(len(r.rooms)))
		r.log.Debug().Str("room", token).Msg("room deleted")
		return
	}

	for _, member := range members {
		if member.closed {
			continue
		}
		member.enqueue(models.PeerLeftFrame{Type: models.TypePeerLeft, PeerID: peerID})
	}
	r.log.Info().Str("room", token).Str("peer", peerID).Int("members", len(members)).Msg("peer left")
}

// Lookup returns the named peer's client if it is currently a member of the
// room.
func (r *Rooms) Lookup(token, peerID string) (*Client, bool) {
	members, ok := r.rooms[token]
	if !ok {
		return nil, false
	}
	c, ok := members[peerID]
	return c, ok
}

// Members returns the room's current member set, or nil if the room does
// not exist. The map is the live set and must not be retained across hub
// events.
func (r *Rooms) Members(token string) map[string]*Client {
	return r.rooms[token]
}

// Len reports the number of rooms with at least one member.
func (r *Rooms) Len() int {
	return len(r.rooms)
}
