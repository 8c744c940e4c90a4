package handlers

import (
	"net/http"
	"time"
)

const version = "0.1.0"

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Clients   int64  `json:"clients"`
	Rooms     int64  `json:"rooms"`
	Timestamp string `json:"timestamp"`
}

// Health handles the health check endpoint. The relay holds no external
// state, so health is the hub being alive plus its current load.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	clients, rooms := h.hub.Stats()

	h.JSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   version,
		Clients:   clients,
		Rooms:     rooms,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
