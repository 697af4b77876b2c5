package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// CellState is what a player gets to see of a cell.
type CellState int8

const (
	Unknown          CellState = -2
	Flagged          CellState = -1
	CorrectlyFlagged CellState = 64
	ExplodedMine     CellState = 65
	FalselyFlagged   CellState = 66
	UnflaggedMine    CellState = 67
	/*
	 * 0 to 8 mean the cell is open and show its neighbouring mine count.
	 *
	 * The values from 64 up only appear once the game is over: 64 is a
	 * flagged mine (every mine is shown this way after a win), 65 is the
	 * mine that went off, 66 is a flag on a safe cell and 67 is a mine the
	 * player never flagged.
	 */
)

func (s CellState) Covered() bool {
	return s == Unknown || s == Flagged
}

func (s CellState) Opened() bool {
	return 0 <= s && s <= 8
}

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return "."
	case s == Flagged:
		return "F"
	case s == 0:
		return " "
	case 1 <= s && s <= 8:
		return strconv.Itoa(int(s))
	case s == CorrectlyFlagged:
		return "*"
	case s == ExplodedMine:
		return "X"
	case s == FalselyFlagged:
		return "x"
	case s == UnflaggedMine:
		return "o"
	default:
		return "!"
	}
}

type Grid []CellState

// ToString lays g out in rows of width cells, with column indices (mod 10)
// above the grid and row indices on the left.
func (g Grid) ToString(width int) string {
	var b strings.Builder
	b.WriteString("   ")
	for x := range width {
		fmt.Fprintf(&b, "%d ", x%10)
	}
	b.WriteString("\n")
	for y := range len(g) / width {
		fmt.Fprintf(&b, "%2d ", y)
		for _, s := range g[y*width : (y+1)*width] {
			b.WriteString(s.String() + " ")
		}
		b.WriteString("\n")
	}
	return b.String()
}
