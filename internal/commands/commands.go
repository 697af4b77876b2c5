// Package commands implements the line protocol shared by the terminal
// client and the websocket channel.
//
//	g                  refresh, changes nothing
//	o ROW COL          reveal a cell
//	f ROW COL          toggle a flag
//	c ROW COL          chord
//	n                  new game with the current parameters
//	n ROWS COLS MINES  new game of the given size
//	n DIFFICULTY       new game from a preset
package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper/internal/mines"
)

type Op byte

const (
	Refresh Op = 'g'
	Open    Op = 'o'
	Flag    Op = 'f'
	Chord   Op = 'c'
	New     Op = 'n'
)

var (
	ErrEmpty          = errors.New("empty command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrArgCount       = errors.New("invalid number of arguments")
	ErrBadArgument    = errors.New("invalid argument")
)

// IsParseError reports whether err was caused by a malformed command line
// rather than by the game rejecting it.
func IsParseError(err error) bool {
	return errors.Is(err, ErrEmpty) || errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrArgCount) || errors.Is(err, ErrBadArgument)
}

// Maps known commands to the accepted numbers of arguments
var commandNargs = map[Op][]int{
	Refresh: {0},
	Open:    {2},
	Flag:    {2},
	Chord:   {2},
	New:     {0, 1, 3},
}

type Command struct {
	Op         Op
	Row, Col   int
	// set by n with arguments; the mode is taken from the running game
	Size       *mines.GameParams
	Difficulty mines.Difficulty
}

func (c Command) String() string {
	switch c.Op {
	case Open, Flag, Chord:
		return fmt.Sprintf("%c %d %d", c.Op, c.Row, c.Col)
	case New:
		if c.Size != nil {
			return fmt.Sprintf("n %d %d %d", c.Size.Rows, c.Size.Cols, c.Size.MineCount)
		}
		if c.Difficulty != "" {
			return "n " + string(c.Difficulty)
		}
	}
	return string(rune(c.Op))
}

func parseInts(strs []string, names ...string) ([]int, error) {
	ints := make([]int, len(strs))
	for i, s := range strs {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an int, got %q", ErrBadArgument, names[i], s)
		}
		ints[i] = n
	}
	return ints, nil
}

func Parse(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, ErrEmpty
	}
	if len(parts[0]) != 1 {
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, parts[0])
	}
	op := Op(parts[0][0])
	nargs, ok := commandNargs[op]
	if !ok {
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, parts[0])
	}
	args := parts[1:]
	valid := false
	for _, n := range nargs {
		valid = valid || n == len(args)
	}
	if !valid {
		return Command{}, fmt.Errorf("%w for %c: %d", ErrArgCount, op, len(args))
	}

	c := Command{Op: op}
	switch {
	case op == New && len(args) == 1:
		c.Difficulty = mines.Difficulty(strings.ToLower(args[0]))
		if _, ok := mines.Preset(c.Difficulty); !ok {
			return Command{}, fmt.Errorf("%w: unknown difficulty %q", ErrBadArgument, args[0])
		}
	case op == New && len(args) == 3:
		ints, err := parseInts(args, "rows", "cols", "mines")
		if err != nil {
			return Command{}, err
		}
		c.Size = &mines.GameParams{Rows: ints[0], Cols: ints[1], MineCount: ints[2]}
	case len(args) == 2:
		ints, err := parseInts(args, "row", "col")
		if err != nil {
			return Command{}, err
		}
		c.Row, c.Col = ints[0], ints[1]
	}
	return c, nil
}

// Execute applies c to s and returns the resulting game state.
func (c Command) Execute(s *mines.Session) (mines.State, error) {
	switch c.Op {
	case Refresh:
		return s.State(), nil
	case Open:
		return s.RevealCell(c.Row, c.Col)
	case Flag:
		return s.ToggleFlag(c.Row, c.Col)
	case Chord:
		return s.ChordCell(c.Row, c.Col)
	case New:
		params := s.Params()
		switch {
		case c.Size != nil:
			params.Rows, params.Cols, params.MineCount = c.Size.Rows, c.Size.Cols, c.Size.MineCount
		case c.Difficulty != "":
			preset, _ := mines.Preset(c.Difficulty)
			preset.Mode = params.Mode
			params = preset
		}
		if err := s.NewGame(params); err != nil {
			return s.State(), err
		}
		return s.State(), nil
	}
	return s.State(), fmt.Errorf("%w: %c", ErrUnknownCommand, c.Op)
}

// ExecuteBatch runs the newline separated commands in text against s. Blank
// lines are skipped. It stops at the first error or once the game is over
// and returns how many commands were applied.
func ExecuteBatch(s *mines.Session, text string) (int, error) {
	applied := 0
	for i, line := range byPiece(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c, err := Parse(line)
		if err != nil {
			return applied, fmt.Errorf("line %d: %w", i+1, err)
		}
		state, err := c.Execute(s)
		if err != nil {
			return applied, fmt.Errorf("line %d: %w", i+1, err)
		}
		applied++
		if state.Over() {
			break
		}
	}
	return applied, nil
}
