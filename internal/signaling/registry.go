package signaling

import "github.com/google/uuid"

// Registry tracks every live connection and its optional peer identity and
// room token. It is the only owner of that bookkeeping; the room table
// references the same clients but never outlives a registration.
//
// All methods are called from the hub goroutine only.
type Registry struct {
	clients map[*Client]struct{}
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[*Client]struct{})}
}

// Register records a new connection. The client has no identity or room
// until a join request succeeds.
func (r *Registry) Register(c *Client) {
	r.clients[c] = struct{}{}
}

// AssignIdentity generates a fresh peer identifier for the client. Calling
// it again for an already-identified client is a protocol violation and is
// treated as a no-op: the existing identifier is returned unchanged.
func (r *Registry) AssignIdentity(c *Client) string {
	if c.peerID != "" {
		return c.peerID
	}
	c.peerID = uuid.NewString()
	return c.peerID
}

// Unregister releases the client's bookkeeping and returns its last known
// room token and peer identifier so the caller can run room cleanup. Both
// are empty for a connection that never joined.
func (r *Registry) Unregister(c *Client) (room, peerID string) {
	if _, ok := r.clients[c]; !ok {
		return "", ""
	}
	delete(r.clients, c)
	return c.room, c.peerID
}

// Len reports the number of registered connections.
func (r *Registry) Len() int {
	return len(r.clients)
}
