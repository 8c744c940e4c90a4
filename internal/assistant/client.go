// Package assistant integrates the external inference service into the
// relay: an HTTP client for its endpoints and an interceptor that
// recognizes chat commands addressed to the assistant persona.
package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/laramesh/signalling/internal/metrics"
)

// Reply is the inference service's response to both the summary and the
// question endpoints: answer text plus an optional synthesized WAV.
type Reply struct {
	Text   string `json:"text"`
	WavB64 string `json:"wav_b64"`
}

// Client calls the external inference service. Every call is bounded by the
// configured timeout; expiry is reported as an ordinary error.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logger.With().Str("component", "assistant").Logger(),
	}
}

// Summary asks the service for a summary of the last window minutes of
// conversation.
func (c *Client) Summary(window int) (*Reply, error) {
	start := time.Now()
	reply, err := c.summary(window)
	observe("summary", start, err)
	return reply, err
}

func (c *Client) summary(window int) (*Reply, error) {
	url := c.baseURL + "/summary?window=" + strconv.Itoa(window)
	resp, err := c.http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("summary request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("summary request: unexpected status %d", resp.StatusCode)
	}

	var reply Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("summary response: %w", err)
	}
	return &reply, nil
}

// Ask sends a free-form question with a lookback window of conversation
// context.
func (c *Client) Ask(question string, window int) (*Reply, error) {
	start := time.Now()
	reply, err := c.ask(question, window)
	observe("ask_speech", start, err)
	return reply, err
}

func (c *Client) ask(question string, window int) (*Reply, error) {
	body, err := json.Marshal(map[string]any{
		"question": question,
		"window":   window,
	})
	if err != nil {
		return nil, fmt.Errorf("ask request: %w", err)
	}

	resp, err := c.http.Post(c.baseURL+"/ask_speech", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ask request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ask request: unexpected status %d", resp.StatusCode)
	}

	var reply Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("ask response: %w", err)
	}
	return &reply, nil
}

func observe(endpoint string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.AssistantRequests.WithLabelValues(endpoint, outcome).Inc()
	metrics.AssistantLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
