package mines

import (
	"fmt"
	"iter"
	"math/rand/v2"
)

const (
	MinRows = 10
	MaxRows = 50
	MinCols = 10
	MaxCols = 99
)

// Board owns the grid of a single game. It is allocated once at the maximum
// size and reset in place for every new game.
type Board struct {
	rows, cols int
	mineCount  int
	flagged    int
	unopened   int // non-mine cells not yet opened
	placed     bool

	cells []Cell

	// Independent per-run markers: visited belongs to flood fill, queued
	// to power chord. Each is cleared at the start of its own run.
	visited marks
	queued  marks

	floodQ cellQueue
	chordQ cellQueue
}

func NewBoard() *Board {
	return &Board{
		cells:   make([]Cell, 0, MaxRows*MaxCols),
		visited: make(marks, 0, MaxRows*MaxCols),
		queued:  make(marks, 0, MaxRows*MaxCols),
	}
}

// Reset clears the board for a new game of the given size. Dimensions must
// already be validated.
func (b *Board) Reset(rows, cols, mineCount int) {
	n := rows * cols
	b.rows, b.cols, b.mineCount = rows, cols, mineCount
	b.flagged = 0
	b.unopened = n - mineCount
	b.placed = false
	b.cells = b.cells[:n]
	clear(b.cells)
	b.visited = b.visited[:n]
	b.visited.reset()
	b.queued = b.queued[:n]
	b.queued.reset()
}

func (b *Board) Rows() int      { return b.rows }
func (b *Board) Cols() int      { return b.cols }
func (b *Board) MineCount() int { return b.mineCount }
func (b *Board) Placed() bool   { return b.placed }

func (b *Board) MinesRemaining() int {
	return b.mineCount - b.flagged
}

func (b *Board) Unopened() int {
	return b.unopened
}

func (b *Board) InBounds(row, col int) bool {
	return 0 <= row && row < b.rows && 0 <= col && col < b.cols
}

func (b *Board) index(row, col int) int {
	return row*b.cols + col
}

func (b *Board) point(i int) Point {
	return Point{Row: i / b.cols, Col: i % b.cols}
}

// At returns a copy of the cell at row, col. The coordinates must be in
// bounds.
func (b *Board) At(row, col int) Cell {
	return b.cells[b.index(row, col)]
}

// block yields the indices of the 3x3 block centred on i, clipped at the
// board edges, in row-major order. The centre is included.
func (b *Board) block(i int) iter.Seq[int] {
	return func(yield func(int) bool) {
		p := b.point(i)
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				r, c := p.Row+dr, p.Col+dc
				if !b.InBounds(r, c) {
					continue
				}
				if !yield(b.index(r, c)) {
					return
				}
			}
		}
	}
}

// neighbours is block without the centre.
func (b *Board) neighbours(i int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for j := range b.block(i) {
			if j == i {
				continue
			}
			if !yield(j) {
				return
			}
		}
	}
}

// placeMines draws the mine positions at random, keeping the 3x3 block
// around first clear.
//
// panics [AssertionError]
func (b *Board) placeMines(first int, r *rand.Rand) {
	if b.placed {
		panic(AssertionError{"mines already placed"})
	}

	fp := b.point(first)
	candidates := make([]int, 0, len(b.cells))
	for i := range b.cells {
		p := b.point(i)
		if absDiff(p.Row, fp.Row) > 1 || absDiff(p.Col, fp.Col) > 1 {
			candidates = append(candidates, i)
		}
	}

	if b.mineCount > len(candidates) {
		panic(AssertionError{fmt.Sprintf(
			"cannot place %d mines in %d free cells", b.mineCount, len(candidates),
		)})
	}

	positions := make([]int, 0, b.mineCount)
	k := len(candidates)
	for range b.mineCount {
		j := r.IntN(k)
		positions = append(positions, candidates[j])
		k--
		candidates[j] = candidates[k]
	}

	b.layMines(positions)
}

// layMines puts mines at the given indices and numbers every other cell.
//
// panics [AssertionError]
func (b *Board) layMines(positions []int) {
	if b.placed {
		panic(AssertionError{"mines already placed"})
	}
	if len(positions) != b.mineCount {
		panic(AssertionError{fmt.Sprintf(
			"expected %d mine positions, got %d", b.mineCount, len(positions),
		)})
	}

	for _, i := range positions {
		if b.cells[i].Kind == Mine {
			panic(AssertionError{fmt.Sprintf("duplicate mine at %s", b.point(i))})
		}
		b.cells[i].Kind = Mine
	}

	for _, i := range positions {
		for j := range b.neighbours(i) {
			b.cells[j].Number++
		}
	}

	for i := range b.cells {
		c := &b.cells[i]
		switch {
		case c.Kind == Mine:
			c.Number = 0
		case c.Number == 0:
			c.Kind = Blank
		default:
			c.Kind = Numbered
		}
	}

	b.placed = true
}
