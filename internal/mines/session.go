package mines

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type State int

const (
	NotStarted State = iota
	InProgress
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// [State] implements [encoding.TextMarshaler]
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for _, state := range []State{NotStarted, InProgress, Won, Lost} {
		if state.String() == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown game state %q", text)
}

func (s State) Over() bool {
	return s == Won || s == Lost
}

// Session is one play-through at a time on a board that is reused between
// games. It is not safe for concurrent use.
type Session struct {
	board    *Board
	params   GameParams
	ready    bool
	state    State
	exploded int

	rnd   *rand.Rand
	place func(first int) // mine placement, replaced in tests
	now   func() time.Time

	startedAt, endedAt time.Time
}

func NewSession(rnd *rand.Rand) *Session {
	s := &Session{
		board:    NewBoard(),
		exploded: noExplosion,
		rnd:      rnd,
		now:      time.Now,
	}
	s.place = func(first int) {
		s.board.placeMines(first, s.rnd)
	}
	return s
}

// NewGame validates p and resets the session. On error the current game is
// left as it was.
func (s *Session) NewGame(p GameParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.board.Reset(p.Rows, p.Cols, p.MineCount)
	s.params = p
	s.ready = true
	s.state = NotStarted
	s.exploded = noExplosion
	s.startedAt, s.endedAt = time.Time{}, time.Time{}

	Log.WithFields(logrus.Fields{
		"seed": p.Seed(),
	}).Debug("new game")
	return nil
}

func (s *Session) cell(row, col int) (int, error) {
	if !s.ready {
		return 0, ErrNoGame
	}
	if !s.board.InBounds(row, col) {
		return 0, &BoundsError{
			Row: row, Col: col, Rows: s.board.rows, Cols: s.board.cols,
		}
	}
	return s.board.index(row, col), nil
}

// start lays the mines around the first clicked cell.
func (s *Session) start(first int) (err error) {
	defer func() {
		var ae AssertionError
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.As(e, &ae) {
				err = fmt.Errorf("unable to place mines: %w", ae)
				return
			}
			panic(r)
		}
	}()

	s.place(first)
	s.state = InProgress
	s.startedAt = s.now()

	Log.WithFields(logrus.Fields{
		"first": s.board.point(first).String(),
		"mines": s.board.mineCount,
	}).Debug("mines placed")
	return nil
}

// RevealCell opens a cell. The first reveal of a game places the mines.
// Flagged and opened cells are left alone.
func (s *Session) RevealCell(row, col int) (State, error) {
	i, err := s.cell(row, col)
	if err != nil {
		return s.state, err
	}
	if s.state.Over() {
		return s.state, nil
	}
	if c := s.board.cells[i]; c.Opened || c.Flagged {
		return s.state, nil
	}

	if s.state == NotStarted {
		if err := s.start(i); err != nil {
			return s.state, err
		}
	}

	switch s.board.cells[i].Kind {
	case Mine:
		s.settle(i)
	case Blank:
		s.board.floodReveal(i)
		s.settle(noExplosion)
	default:
		s.board.revealOne(i)
		s.settle(noExplosion)
	}
	return s.state, nil
}

// ChordCell chords the cell, or power-chords around it in power mode.
// Unsatisfied and unopened targets are no-ops.
func (s *Session) ChordCell(row, col int) (State, error) {
	i, err := s.cell(row, col)
	if err != nil {
		return s.state, err
	}
	if s.state != InProgress || s.board.cells[i].Flagged {
		return s.state, nil
	}

	if s.params.PowerChord {
		s.settle(s.board.powerChord(i))
	} else {
		s.settle(s.board.chord(i, nil))
	}
	return s.state, nil
}

// ToggleFlag flags or unflags an unopened cell. Flags may be placed before
// the first reveal.
func (s *Session) ToggleFlag(row, col int) (State, error) {
	i, err := s.cell(row, col)
	if err != nil {
		return s.state, err
	}
	if s.state.Over() {
		return s.state, nil
	}

	x := s.board.toggleFlag(i, s.params.Mode)
	if s.state == InProgress {
		s.settle(x)
	}
	return s.state, nil
}

// settle moves the game to Lost when exploded names a mine and to Won when
// no safe cell is left covered.
func (s *Session) settle(exploded int) {
	switch {
	case exploded != noExplosion:
		s.exploded = exploded
		s.board.cells[exploded].Opened = true
		s.finish(Lost)
	case s.board.unopened == 0:
		s.finish(Won)
	}
}

func (s *Session) finish(state State) {
	s.state = state
	s.endedAt = s.now()

	entry := Log.WithFields(logrus.Fields{
		"state":   state.String(),
		"elapsed": s.Elapsed().String(),
	})
	if state == Lost {
		entry = entry.WithField("exploded", s.board.point(s.exploded).String())
	}
	entry.Debug("game over")
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Params() GameParams {
	return s.params
}

func (s *Session) RemainingMineCount() int {
	return s.board.MinesRemaining()
}

func (s *Session) RemainingUnopenedCount() int {
	return s.board.Unopened()
}

// Exploded returns the mine that ended the game, if any.
func (s *Session) Exploded() (Point, bool) {
	if s.exploded == noExplosion {
		return Point{}, false
	}
	return s.board.point(s.exploded), true
}

// Elapsed is the time since the first reveal, frozen once the game is over.
func (s *Session) Elapsed() time.Duration {
	switch {
	case s.startedAt.IsZero():
		return 0
	case s.state.Over():
		return s.endedAt.Sub(s.startedAt)
	default:
		return s.now().Sub(s.startedAt)
	}
}

func (s *Session) CellView(row, col int) (CellState, error) {
	i, err := s.cell(row, col)
	if err != nil {
		return Unknown, err
	}
	return s.view(i), nil
}

// View returns the player's view of the whole board in row-major order.
func (s *Session) View() Grid {
	if !s.ready {
		return nil
	}
	g := make(Grid, len(s.board.cells))
	for i := range g {
		g[i] = s.view(i)
	}
	return g
}

func (s *Session) view(i int) CellState {
	c := s.board.cells[i]

	switch s.state {
	case Lost:
		switch {
		case i == s.exploded:
			return ExplodedMine
		case c.Kind == Mine && c.Flagged:
			return CorrectlyFlagged
		case c.Kind == Mine:
			return UnflaggedMine
		case c.Flagged:
			return FalselyFlagged
		}
	case Won:
		if c.Kind == Mine {
			return CorrectlyFlagged
		}
	}

	switch {
	case c.Opened:
		return CellState(c.Number)
	case c.Flagged:
		return Flagged
	default:
		return Unknown
	}
}
