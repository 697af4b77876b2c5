package config

import (
	"net/http"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
}

// NewWebSocket accepts any origin in development; in production the
// upgrader falls back to the same-origin check.
func NewWebSocket(c Config) *WebSocket {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 16 * 1024,
	}
	if c.Development() {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}

	ws := &WebSocket{
		Upgrader: upgrader,
	}

	return ws
}
