package inspect

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// handleStream upgrades to a websocket and writes every new commit as a
// JSON text message until the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		writeError(w, http.StatusNotFound, "commit stream disabled")
		return
	}

	// Subscribe before the handshake completes so no commit published after
	// the client's Dial returns is missed.
	commits, cancel := s.hub.Subscribe()
	defer cancel()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("stream upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	s.logger.Info("stream subscriber connected", "remote", r.RemoteAddr)

	// Read loop: only needed to observe the close handshake.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure,
					websocket.CloseNormalClosure) {
					s.logger.Error("stream read error", "error", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case c, ok := <-commits:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := conn.WriteJSON(c); err != nil {
				s.logger.Warn("stream write failed", "error", err)
				return
			}

		case <-ticker.C:
			deadline := time.Now().Add(s.writeTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}

		case <-done:
			s.logger.Info("stream subscriber disconnected", "remote", r.RemoteAddr)
			return
		}
	}
}
