package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/laramesh/signalling/internal/signaling"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	hub := signaling.NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	srv := httptest.NewServer(NewRouter(zerolog.Nop(), hub))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Fatalf("unexpected health body %v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

// dialWS opens a websocket session against the test server.
func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var frame map[string]any
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatal(err)
	}
	return frame
}

func TestWebSocketJoinRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	a := dialWS(t, srv)
	if err := a.WriteJSON(map[string]string{"join": "room-test"}); err != nil {
		t.Fatal(err)
	}

	yourID := readFrame(t, a)
	if yourID["type"] != "your-id" {
		t.Fatalf("expected your-id first, got %v", yourID)
	}
	aID, _ := yourID["peerId"].(string)
	if aID == "" {
		t.Fatal("expected a non-empty peer id")
	}

	peers := readFrame(t, a)
	if peers["type"] != "peers" {
		t.Fatalf("expected peers frame, got %v", peers)
	}
	if list, ok := peers["peers"].([]any); !ok || len(list) != 0 {
		t.Fatalf("first joiner should see no peers, got %v", peers["peers"])
	}

	// Second participant sees the first and triggers a new-peer event.
	b := dialWS(t, srv)
	if err := b.WriteJSON(map[string]string{"join": "room-test"}); err != nil {
		t.Fatal(err)
	}
	readFrame(t, b) // your-id
	bPeers := readFrame(t, b)
	list, ok := bPeers["peers"].([]any)
	if !ok || len(list) != 1 || list[0] != aID {
		t.Fatalf("second joiner should see [%s], got %v", aID, bPeers["peers"])
	}

	newPeer := readFrame(t, a)
	if newPeer["type"] != "new-peer" {
		t.Fatalf("expected new-peer, got %v", newPeer)
	}
}

func TestWebSocketGarbageToleratedAndDropped(t *testing.T) {
	srv := newTestServer(t)

	a := dialWS(t, srv)
	if err := a.WriteMessage(websocket.TextMessage, []byte("not json at all")); err != nil {
		t.Fatal(err)
	}

	// The connection survives malformed input: a join afterwards still
	// completes normally.
	if err := a.WriteJSON(map[string]string{"join": "room-test"}); err != nil {
		t.Fatal(err)
	}
	frame := readFrame(t, a)
	if frame["type"] != "your-id" {
		t.Fatalf("expected your-id after garbage, got %v", frame)
	}
}
