package signaling

import "testing"

func TestAssignIdentityIsIdempotent(t *testing.T) {
	h := newTestHub()
	c := newClient(h, nil)
	r := NewRegistry()
	r.Register(c)

	first := r.AssignIdentity(c)
	if first == "" {
		t.Fatal("expected a generated peer id")
	}
	second := r.AssignIdentity(c)
	if second != first {
		t.Fatalf("second assignment must be a no-op, got %q then %q", first, second)
	}
}

func TestUnregisterReturnsLastKnownMembership(t *testing.T) {
	h := newTestHub()
	c := newClient(h, nil)
	r := NewRegistry()
	r.Register(c)
	id := r.AssignIdentity(c)
	c.room = "r1"

	room, peerID := r.Unregister(c)
	if room != "r1" || peerID != id {
		t.Fatalf("expected (r1, %s), got (%s, %s)", id, room, peerID)
	}

	// A second unregister finds nothing.
	room, peerID = r.Unregister(c)
	if room != "" || peerID != "" {
		t.Fatalf("expected empty result for unknown client, got (%s, %s)", room, peerID)
	}
}
