package server

import (
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/mines"
)

type testServer struct {
	t      *testing.T
	server *Server
	http   *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	c := config.Default()
	require.NoError(t, c.Validate())
	s := New(log, *c)
	s.sessions.newRand = func() *rand.Rand {
		return rand.New(rand.NewPCG(1, 2))
	}

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return &testServer{t: t, server: s, http: ts}
}

func (ts *testServer) do(method, path, ticket, body string) (int, []byte) {
	ts.t.Helper()
	req, err := http.NewRequest(method, ts.http.URL+path, strings.NewReader(body))
	require.NoError(ts.t, err)
	if ticket != "" {
		req.Header.Set("Authorization", "Bearer "+ticket)
	}
	res, err := ts.http.Client().Do(req)
	require.NoError(ts.t, err)
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(ts.t, err)
	return res.StatusCode, b
}

func (ts *testServer) newGame(query string) SessionDTO {
	ts.t.Helper()
	code, body := ts.do(http.MethodPost, "/v1/game"+query, "", "")
	require.Equal(ts.t, http.StatusOK, code, string(body))
	var session SessionDTO
	require.NoError(ts.t, json.Unmarshal(body, &session))
	return session
}

func (ts *testServer) game(method, path, ticket, body string) (int, GameDTO) {
	ts.t.Helper()
	code, b := ts.do(method, path, ticket, body)
	var game GameDTO
	require.NoError(ts.t, json.Unmarshal(b, &game), string(b))
	return code, game
}

func at(g GameDTO, row, col int) mines.CellState {
	return g.Grid[row*g.Cols+col]
}

func TestStatus(t *testing.T) {
	ts := newTestServer(t)
	code, body := ts.do(http.MethodGet, "/v1/status", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok","sessions":0}`, string(body))

	ts.newGame("")
	_, body = ts.do(http.MethodGet, "/v1/status", "", "")
	assert.JSONEq(t, `{"status":"ok","sessions":1}`, string(body))
}

func TestNewGameParams(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		query string
		want  mines.GameParams
	}{
		{"", mines.GameParams{Rows: 10, Cols: 10, MineCount: 15}},
		{"?difficulty=expert", mines.GameParams{Rows: 24, Cols: 30, MineCount: 155}},
		{"?rows=12&cols=20&mines=30&power_chord=true", mines.GameParams{
			Rows: 12, Cols: 20, MineCount: 30, Mode: mines.Mode{PowerChord: true},
		}},
		{"?seed=16:30:99:0:1", mines.GameParams{
			Rows: 16, Cols: 30, MineCount: 99, Mode: mines.Mode{AutoReveal: true},
		}},
		{"?difficulty=intermediate&auto_reveal=1", mines.GameParams{
			Rows: 15, Cols: 27, MineCount: 80, Mode: mines.Mode{AutoReveal: true},
		}},
	}
	for _, test := range tests {
		t.Run(test.query, func(t *testing.T) {
			session := ts.newGame(test.query)
			assert.NotEmpty(t, session.SessionId)
			assert.NotEmpty(t, session.Ticket)

			g := session.Game
			assert.Equal(t, mines.NotStarted, g.State)
			assert.Equal(t, test.want.Seed(), g.Seed)
			assert.Equal(t, test.want.MineCount, g.RemainingMines)
			assert.Equal(t, test.want.Rows*test.want.Cols-test.want.MineCount, g.RemainingCells)
			require.Len(t, g.Grid, test.want.Rows*test.want.Cols)
			assert.Equal(t, mines.Unknown, g.Grid[0])
			assert.Nil(t, g.Exploded)
		})
	}
}

func TestNewGameRejected(t *testing.T) {
	ts := newTestServer(t)

	for _, query := range []string{
		"?rows=5&cols=5&mines=5",
		"?rows=12",
		"?difficulty=nightmare",
		"?seed=1:2",
		"?rows=ten&cols=10&mines=10",
	} {
		t.Run(query, func(t *testing.T) {
			code, body := ts.do(http.MethodPost, "/v1/game"+query, "", "")
			assert.Equal(t, http.StatusBadRequest, code)
			var e ErrorDTO
			require.NoError(t, json.Unmarshal(body, &e))
			assert.NotEmpty(t, e.Error)
		})
	}
	assert.Equal(t, 0, ts.server.Sessions().Len())
}

func TestTickets(t *testing.T) {
	ts := newTestServer(t)
	a := ts.newGame("")
	b := ts.newGame("")

	code, _ := ts.do(http.MethodGet, "/v1/game/"+a.SessionId, "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = ts.do(http.MethodGet, "/v1/game/"+a.SessionId, b.Ticket, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = ts.do(http.MethodGet, "/v1/game/"+a.SessionId+"?ticket="+a.Ticket, "", "")
	assert.Equal(t, http.StatusOK, code)

	forged, err := config.NewJWT(config.SessionConfig{Secret: "not-ours"}).IssueTicket(a.SessionId)
	require.NoError(t, err)
	code, _ = ts.do(http.MethodGet, "/v1/game/"+a.SessionId, forged, "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestPlay(t *testing.T) {
	ts := newTestServer(t)
	session := ts.newGame("?difficulty=expert")
	path := "/v1/game/" + session.SessionId

	code, g := ts.game(http.MethodPost, path+"/open?row=12&col=15", session.Ticket, "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, mines.InProgress, g.State)
	assert.Equal(t, mines.CellState(0), at(g, 12, 15))
	assert.Less(t, g.RemainingCells, 24*30-155)

	covered := slices.Index(g.Grid, mines.Unknown)
	require.NotEqual(t, -1, covered)
	row, col := covered/g.Cols, covered%g.Cols
	query := "?row=" + strconv.Itoa(row) + "&col=" + strconv.Itoa(col)

	code, g = ts.game(http.MethodPost, path+"/flag"+query, session.Ticket, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, mines.Flagged, at(g, row, col))
	assert.Equal(t, 154, g.RemainingMines)

	// an unsatisfied chord changes nothing
	cells := g.RemainingCells
	code, g = ts.game(http.MethodPost, path+"/chord?row=12&col=15", session.Ticket, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, cells, g.RemainingCells)

	code, g = ts.game(http.MethodGet, path, session.Ticket, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, mines.Flagged, at(g, row, col))
}

func TestPlayRejected(t *testing.T) {
	ts := newTestServer(t)
	session := ts.newGame("")
	path := "/v1/game/" + session.SessionId

	code, _ := ts.do(http.MethodPost, path+"/open?row=1", session.Ticket, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := ts.do(http.MethodPost, path+"/open?row=10&col=0", session.Ticket, "")
	assert.Equal(t, http.StatusBadRequest, code)
	var e ErrorDTO
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Contains(t, e.Error, "outside the 10x10 board")
	require.NotNil(t, e.Game)
	assert.Equal(t, mines.NotStarted, e.Game.State)
}

func TestBatch(t *testing.T) {
	ts := newTestServer(t)
	session := ts.newGame("")
	path := "/v1/game/" + session.SessionId

	code, g := ts.game(http.MethodPost, path+"/batch", session.Ticket, "f 0 0\nf 0 1\ng")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 13, g.RemainingMines)

	code, body := ts.do(http.MethodPost, path+"/batch", session.Ticket, "f 0 1\nbogus\nf 0 2")
	assert.Equal(t, http.StatusBadRequest, code)
	var e ErrorDTO
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Contains(t, e.Error, "line 2")
	require.NotNil(t, e.Game)
	assert.Equal(t, 14, e.Game.RemainingMines)
	assert.Equal(t, mines.Unknown, at(*e.Game, 0, 2))
}

func TestRestart(t *testing.T) {
	ts := newTestServer(t)
	session := ts.newGame("?rows=12&cols=20&mines=30&power_chord=true")
	path := "/v1/game/" + session.SessionId

	code, g := ts.game(http.MethodPost, path+"/open?row=6&col=6", session.Ticket, "")
	require.Equal(t, http.StatusOK, code)
	require.NotEqual(t, mines.NotStarted, g.State)

	code, g = ts.game(http.MethodPost, path+"/new", session.Ticket, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, mines.NotStarted, g.State)
	assert.Equal(t, "12:20:30:1:0", g.Seed)

	code, g = ts.game(http.MethodPost, path+"/new?difficulty=beginner", session.Ticket, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "10:10:15:1:0", g.Seed)

	code, body := ts.do(http.MethodPost, path+"/new?rows=9&cols=9&mines=9", session.Ticket, "")
	assert.Equal(t, http.StatusBadRequest, code)
	var e ErrorDTO
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "10:10:15:1:0", e.Game.Seed)
}

func TestSweep(t *testing.T) {
	ts := newTestServer(t)
	now := time.Now()
	ts.server.sessions.now = func() time.Time { return now }

	idle := ts.newGame("")
	now = now.Add(30 * time.Minute)
	active := ts.newGame("")
	now = now.Add(31 * time.Minute)

	assert.Equal(t, 1, ts.server.Sessions().Sweep())
	assert.Equal(t, 1, ts.server.Sessions().Len())

	code, _ := ts.do(http.MethodGet, "/v1/game/"+idle.SessionId, idle.Ticket, "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = ts.do(http.MethodGet, "/v1/game/"+active.SessionId, active.Ticket, "")
	assert.Equal(t, http.StatusOK, code)

	// the request above counts as activity
	now = now.Add(59 * time.Minute)
	assert.Equal(t, 0, ts.server.Sessions().Sweep())
}

func TestWebSocket(t *testing.T) {
	ts := newTestServer(t)
	session := ts.newGame("")

	url := "ws" + strings.TrimPrefix(ts.http.URL, "http") +
		"/v1/game/" + session.SessionId + "/connect?ticket=" + session.Ticket
	c, res, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer res.Body.Close()
	defer c.Close()

	var g GameDTO
	require.NoError(t, c.ReadJSON(&g))
	assert.Equal(t, mines.NotStarted, g.State)

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte("f 0 0\nf 9 9\n")))
	require.NoError(t, c.ReadJSON(&g))
	assert.Equal(t, 13, g.RemainingMines)
	assert.Equal(t, mines.Flagged, at(g, 9, 9))

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte("q\no 5 5")))
	var e ErrorDTO
	require.NoError(t, c.ReadJSON(&e))
	assert.Contains(t, e.Error, "unknown command")
	require.NotNil(t, e.Game)
	assert.Equal(t, mines.NotStarted, e.Game.State)

	require.NoError(t, c.WriteMessage(websocket.BinaryMessage, []byte{1}))
	_, _, err = c.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseUnsupportedData))
}

func TestWebSocketNeedsTicket(t *testing.T) {
	ts := newTestServer(t)
	session := ts.newGame("")

	url := "ws" + strings.TrimPrefix(ts.http.URL, "http") +
		"/v1/game/" + session.SessionId + "/connect"
	_, res, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestMetrics(t *testing.T) {
	ts := newTestServer(t)
	ts.newGame("")

	code, body := ts.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "minesweeper_games_started_total")
	assert.Contains(t, string(body), "minesweeper_active_sessions")
	assert.Contains(t, string(body), "minesweeper_http_requests_total")
}
