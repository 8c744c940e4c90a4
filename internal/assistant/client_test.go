package assistant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, zerolog.Nop())
}

func TestSummaryRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/summary" {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("window"); got != "15" {
			t.Errorf("expected window=15, got %s", got)
		}
		json.NewEncoder(w).Encode(Reply{Text: "a summary", WavB64: "abc"})
	})

	reply, err := c.Summary(15)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != "a summary" || reply.WavB64 != "abc" {
		t.Fatalf("unexpected reply %#v", reply)
	}
}

func TestAskRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type, got %s", r.Header.Get("Content-Type"))
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["question"] != "why?" {
			t.Errorf("unexpected question %v", body["question"])
		}
		json.NewEncoder(w).Encode(Reply{Text: "because"})
	})

	reply, err := c.Ask("why?", 5)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != "because" {
		t.Fatalf("unexpected reply %#v", reply)
	}
}

func TestNonSuccessStatusIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	if _, err := c.Summary(5); err == nil {
		t.Fatal("expected an error for a non-200 summary response")
	}
	if _, err := c.Ask("q", 5); err == nil {
		t.Fatal("expected an error for a non-200 ask response")
	}
}

func TestMalformedBodyIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>surprise</html>"))
	})

	if _, err := c.Summary(5); err == nil {
		t.Fatal("expected an error for an unparsable body")
	}
}
