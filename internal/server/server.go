package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper/internal/commands"
	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/mines"
)

type requestError struct{ message string }

func (e *requestError) Error() string {
	return e.message
}

type Server struct {
	log      *logrus.Logger
	config   config.Config
	jwt      *config.JWT
	ws       *config.WebSocket
	dec      *schema.Decoder
	sessions *Registry
}

func New(log *logrus.Logger, c config.Config) *Server {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return &Server{
		log:      log,
		config:   c,
		jwt:      config.NewJWT(c.Session),
		ws:       config.NewWebSocket(c),
		dec:      dec,
		sessions: NewRegistry(log, c.Session.TTL.Duration),
	}
}

func (s *Server) Sessions() *Registry {
	return s.sessions
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	withTicket := func(h http.HandlerFunc) http.Handler {
		return middleware.Wrap(h, middleware.Ticket(s.log, s.jwt))
	}

	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /v1/game", s.handleNewGame)
	mux.Handle("GET /v1/game/{id}", withTicket(s.handleGetGame))
	mux.Handle("POST /v1/game/{id}/open", withTicket(s.handleAction((*mines.Session).RevealCell)))
	mux.Handle("POST /v1/game/{id}/flag", withTicket(s.handleAction((*mines.Session).ToggleFlag)))
	mux.Handle("POST /v1/game/{id}/chord", withTicket(s.handleAction((*mines.Session).ChordCell)))
	mux.Handle("POST /v1/game/{id}/new", withTicket(s.handleRestart))
	mux.Handle("POST /v1/game/{id}/batch", withTicket(s.handleBatch))
	mux.Handle("GET /v1/game/{id}/connect", withTicket(s.handleConnect))

	return middleware.Wrap(mux,
		middleware.Recover(s.log),
		middleware.Cors(),
		middleware.Logging(s.log),
	)
}

func sendJSON(w http.ResponseWriter, statusCode int, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, err = w.Write(payload)
	return err
}

// statusCode maps errors from decoding, commands and the engine to a
// response status.
func statusCode(err error) int {
	var (
		re *requestError
		ce *mines.ConfigError
		be *mines.BoundsError
		me schema.MultiError
	)
	switch {
	case errors.As(err, &re), errors.As(err, &ce), errors.As(err, &be),
		errors.As(err, &me), commands.IsParseError(err):
		return http.StatusBadRequest
	case errors.Is(err, mines.ErrNoGame):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) sendError(w http.ResponseWriter, err error, game *GameDTO) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		s.log.Error(err)
	}
	if err := sendJSON(w, code, ErrorDTO{Error: err.Error(), Game: game}); err != nil {
		s.log.Error(err)
	}
}
