package api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/laramesh/signalling/internal/signaling"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,

	// Browser peers connect from arbitrary origins, mirroring the
	// wide-open CORS policy on the HTTP routes.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS returns the handler for the websocket endpoint. Each upgraded
// connection is handed to the hub, which owns it from then on.
func ServeWS(hub *signaling.Hub, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
			return
		}
		hub.Attach(conn)
	}
}
