package server

import (
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper/internal/commands"
	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/mines"
)

const maxBatchBytes = 64 << 10

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := StatusDTO{Status: "ok", Sessions: s.sessions.Len()}
	if err := sendJSON(w, http.StatusOK, status); err != nil {
		s.log.Error(err)
	}
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var p NewGameParams
	if err := s.dec.Decode(&p, r.URL.Query()); err != nil {
		s.sendError(w, err, nil)
		return
	}
	params, err := p.apply(s.config.DefaultParams())
	if err != nil {
		s.sendError(w, err, nil)
		return
	}
	e, err := s.sessions.create(params)
	if err != nil {
		s.sendError(w, err, nil)
		return
	}
	ticket, err := s.jwt.IssueTicket(e.id)
	if err != nil {
		s.sendError(w, err, nil)
		return
	}
	gamesStarted.Inc()
	game, _ := s.play(e, nil)

	s.log.WithFields(logrus.Fields{
		"session_id": e.id,
		"seed":       params.Seed(),
	}).Debug("created session")

	session := SessionDTO{SessionId: e.id, Ticket: ticket, Game: game}
	if err := sendJSON(w, http.StatusOK, session); err != nil {
		s.log.Error(err)
	}
}

// lookup finds the session named in the path, provided the request's ticket
// was issued for it.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*entry, bool) {
	id := r.PathValue("id")
	granted, ok := middleware.SessionId(r.Context())
	if !ok || granted != id {
		w.WriteHeader(http.StatusForbidden)
		return nil, false
	}
	e, ok := s.sessions.get(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return nil, false
	}
	return e, true
}

// play runs fn on the session under its lock and returns the resulting
// game. A nil fn only reads the game.
func (s *Server) play(e *entry, fn func(*mines.Session) error) (GameDTO, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.session.State()
	var err error
	if fn != nil {
		err = fn(e.session)
	}
	after := e.session.State()
	if !before.Over() && after.Over() {
		gamesFinished.WithLabelValues(after.String()).Inc()
		s.log.WithFields(logrus.Fields{
			"session_id": e.id,
			"result":     after.String(),
			"elapsed":    e.session.Elapsed().String(),
		}).Info("game over")
	}
	return newGameDTO(e.session), err
}

func (s *Server) respond(w http.ResponseWriter, game GameDTO, err error) {
	if err != nil {
		s.sendError(w, err, &game)
		return
	}
	if err := sendJSON(w, http.StatusOK, game); err != nil {
		s.log.Error(err)
	}
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	game, err := s.play(e, nil)
	s.respond(w, game, err)
}

type action func(s *mines.Session, row, col int) (mines.State, error)

func (s *Server) handleAction(act action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pos PosParams
		if err := s.dec.Decode(&pos, r.URL.Query()); err != nil {
			s.sendError(w, err, nil)
			return
		}
		e, ok := s.lookup(w, r)
		if !ok {
			return
		}
		game, err := s.play(e, func(ms *mines.Session) error {
			_, err := act(ms, pos.Row, pos.Col)
			return err
		})
		s.respond(w, game, err)
	}
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	var p NewGameParams
	if err := s.dec.Decode(&p, r.URL.Query()); err != nil {
		s.sendError(w, err, nil)
		return
	}
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	game, err := s.play(e, func(ms *mines.Session) error {
		params, err := p.apply(ms.Params())
		if err != nil {
			return err
		}
		if err := ms.NewGame(params); err != nil {
			return err
		}
		gamesStarted.Inc()
		return nil
	})
	s.respond(w, game, err)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBatchBytes))
	if err != nil {
		s.sendError(w, &requestError{err.Error()}, nil)
		return
	}
	game, err := s.play(e, func(ms *mines.Session) error {
		_, err := commands.ExecuteBatch(ms, string(body))
		return err
	})
	s.respond(w, game, err)
}
