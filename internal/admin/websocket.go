package admin

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"droneops-dashboard/internal/logging"
	"droneops-dashboard/internal/metrics"
)

const writeWait = 5 * time.Second

// handleWS pushes a Snapshot immediately and then once per push interval
// until the client disconnects.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	metrics.WebsocketClients.Add(1)
	defer metrics.WebsocketClients.Add(-1)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.push)
	defer ticker.Stop()
	for {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(s.snapshot()); err != nil {
			log.Debug("websocket client gone", "err", err)
			return
		}
		metrics.WebsocketPushes.Add(1)
		select {
		case <-ticker.C:
		case <-closed:
			return
		case <-r.Context().Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		}
	}
}
