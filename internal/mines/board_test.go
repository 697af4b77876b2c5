package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Log.SetLevel(logrus.DebugLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

// riggedBoard returns a board of the given size with mines at the given
// points.
func riggedBoard(t *testing.T, rows, cols int, mines ...Point) *Board {
	t.Helper()
	b := NewBoard()
	b.Reset(rows, cols, len(mines))
	b.layMines(indices(b, mines...))
	return b
}

func indices(b *Board, points ...Point) []int {
	idx := make([]int, len(points))
	for k, p := range points {
		idx[k] = b.index(p.Row, p.Col)
	}
	return idx
}

// assertFlagTallies checks every cell's flag tally against a fresh count.
func assertFlagTallies(t *testing.T, b *Board) {
	t.Helper()
	flagged := 0
	for i := range b.cells {
		n := 0
		for j := range b.neighbours(i) {
			if b.cells[j].Flagged {
				n++
			}
		}
		assert.Equal(t, int8(n), b.cells[i].Flags, "flag tally at %s", b.point(i))
		if b.cells[i].Flagged {
			flagged++
		}
	}
	assert.Equal(t, flagged, b.flagged)
	assert.Equal(t, b.mineCount-flagged, b.MinesRemaining())
}

// assertUnopened checks the unopened counter against the cells.
func assertUnopened(t *testing.T, b *Board) {
	t.Helper()
	n := 0
	for _, c := range b.cells {
		if c.Kind != Mine && !c.Opened {
			n++
		}
	}
	assert.Equal(t, n, b.Unopened())
}

func TestNeighboursClipped(t *testing.T) {
	b := NewBoard()
	b.Reset(10, 12, 1)

	count := func(row, col int) (n int) {
		for range b.neighbours(b.index(row, col)) {
			n++
		}
		return
	}

	assert.Equal(t, 3, count(0, 0))
	assert.Equal(t, 3, count(9, 11))
	assert.Equal(t, 5, count(0, 5))
	assert.Equal(t, 5, count(4, 11))
	assert.Equal(t, 8, count(4, 5))

	var got []Point
	for j := range b.block(b.index(0, 11)) {
		got = append(got, b.point(j))
	}
	assert.Equal(t, []Point{{0, 10}, {0, 11}, {1, 10}, {1, 11}}, got)
}

func TestPlaceMinesExclusionZone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		rows, cols, mine int
	}{
		{name: "10x10(15)", rows: 10, cols: 10, mine: 15},
		{name: "10x10(90)", rows: 10, cols: 10, mine: 90},
		{name: "15x27(80)", rows: 15, cols: 27, mine: 80},
		{name: "24x30(155)", rows: 24, cols: 30, mine: 155},
		{name: "50x99(4940)", rows: 50, cols: 99, mine: 4940},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			r := rand.New(rand.NewPCG(1, 2))
			b := NewBoard()
			firsts := []Point{
				{0, 0}, {0, test.cols - 1}, {test.rows - 1, 0},
				{test.rows - 1, test.cols - 1}, {test.rows / 2, test.cols / 2},
				{0, test.cols / 2},
			}
			for _, first := range firsts {
				b.Reset(test.rows, test.cols, test.mine)
				fi := b.index(first.Row, first.Col)
				b.placeMines(fi, r)

				for j := range b.block(fi) {
					assert.NotEqual(t, Mine, b.cells[j].Kind,
						"mine at %s next to first click %s", b.point(j), first)
				}

				mines := 0
				for i, c := range b.cells {
					if c.Kind == Mine {
						mines++
						continue
					}
					n := int8(0)
					for j := range b.neighbours(i) {
						if b.cells[j].Kind == Mine {
							n++
						}
					}
					require.Equal(t, n, c.Number, "number at %s", b.point(i))
					if n == 0 {
						assert.Equal(t, Blank, c.Kind)
					} else {
						assert.Equal(t, Numbered, c.Kind)
					}
				}
				assert.Equal(t, test.mine, mines)
			}
		})
	}
}

func TestPlaceMinesOnce(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	b := NewBoard()
	b.Reset(10, 10, 10)
	b.placeMines(0, r)
	assert.True(t, b.Placed())
	assert.PanicsWithValue(t, AssertionError{"mines already placed"}, func() {
		b.placeMines(0, r)
	})
}

func TestPlaceMinesTooMany(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	b := NewBoard()
	// 91 cells are left once the 3x3 block around the centre is excluded
	b.Reset(10, 10, 92)
	assert.Panics(t, func() {
		b.placeMines(b.index(5, 5), r)
	})
}

func TestResetReusesCells(t *testing.T) {
	b := NewBoard()
	b.Reset(MaxRows, MaxCols, 100)
	first := &b.cells[0]
	b.cells[0].Flagged = true
	b.cells[42].Opened = true

	b.Reset(MinRows, MinCols, 10)
	assert.Same(t, first, &b.cells[0])
	assert.Len(t, b.cells, MinRows*MinCols)
	assert.Equal(t, Cell{}, b.cells[0])
	assert.Equal(t, Cell{}, b.cells[42])
	assert.Equal(t, MinRows*MinCols-10, b.Unopened())
	assert.Equal(t, 10, b.MinesRemaining())
	assert.False(t, b.Placed())
}

func TestLayMinesNumbers(t *testing.T) {
	b := riggedBoard(t, 10, 10, Point{0, 0}, Point{0, 2}, Point{1, 1})

	assert.Equal(t, Mine, b.At(0, 0).Kind)
	assert.Equal(t, Mine, b.At(1, 1).Kind)
	assert.Equal(t, int8(3), b.At(0, 1).Number)
	assert.Equal(t, int8(2), b.At(1, 0).Number)
	assert.Equal(t, int8(2), b.At(1, 2).Number)
	assert.Equal(t, int8(1), b.At(2, 2).Number)
	assert.Equal(t, Blank, b.At(3, 3).Kind)
	assert.Equal(t, int8(0), b.At(0, 0).Number)
}
