package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signalling_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "signalling_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Relay metrics
	ConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "signalling_connected_clients",
			Help: "Currently connected websocket clients",
		},
	)

	ActiveRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "signalling_active_rooms",
			Help: "Rooms with at least one member",
		},
	)

	FramesRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signalling_frames_relayed_total",
			Help: "Frames relayed to peers",
		},
		[]string{"kind"}, // "signal", "chat", "transcription", "assistant"
	)

	FramesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signalling_frames_dropped_total",
			Help: "Inbound frames dropped without relay",
		},
		[]string{"reason"}, // "unknown", "not_joined", "no_destination"
	)

	// Assistant metrics
	AssistantRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signalling_assistant_requests_total",
			Help: "Calls to the external inference service",
		},
		[]string{"endpoint", "outcome"}, // outcome: "ok" or "error"
	)

	AssistantLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "signalling_assistant_request_duration_seconds",
			Help:    "Inference service call latency",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)
)
