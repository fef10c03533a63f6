// Package ws streams simulation events to dashboard websockets.
package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"agentarium/internal/adapter/events/hub"

	"github.com/gorilla/websocket"
)

const writeTimeout = 5 * time.Second

type Server struct {
	hub      *hub.Hub
	log      *slog.Logger
	upgrader websocket.Upgrader
}

func NewServer(h *hub.Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		hub: h,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dashboards are same-host in dev
		},
	}
}

// Handler upgrades the request and forwards hub events until the client
// goes away. Consumers only read; inbound frames are drained and ignored.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		events, cancel := s.hub.Subscribe()
		defer cancel()

		// Reader goroutine: detect disconnects, discard input.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				b, err := json.Marshal(evt)
				if err != nil {
					s.log.Warn("event marshal failed", "event", evt.Name, "err", err)
					continue
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					return
				}
			}
		}
	}
}
