package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vancomm/minesweeper/internal/commands"
	"github.com/vancomm/minesweeper/internal/mines"
)

const writeWait = time.Second

// handleConnect plays a session over a websocket. Each text message is a
// batch of commands; every message is answered with the game, or with an
// error and the game when the batch failed part way.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	c, err := s.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("upgrade: ", err)
		return
	}
	defer c.Close()

	game, _ := s.play(e, nil)
	if err := c.WriteJSON(game); err != nil {
		s.log.Error("write: ", err)
		return
	}
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("read: ", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			c.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "text only"),
				time.Now().Add(writeWait),
			)
			return
		}
		text := strings.TrimSpace(string(message))
		s.log.Debug("\t> ", text)

		s.sessions.touch(e)
		game, err := s.play(e, func(ms *mines.Session) error {
			_, err := commands.ExecuteBatch(ms, text)
			return err
		})
		var reply any = game
		if err != nil {
			reply = ErrorDTO{Error: err.Error(), Game: &game}
		}
		if err := c.WriteJSON(reply); err != nil {
			s.log.Error("write: ", err)
			return
		}
		s.log.Debug("\t< <game data>")
	}
}
