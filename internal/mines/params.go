package mines

import (
	"fmt"
	"strings"
)

// Mode holds the optional chording behaviour of a game.
type Mode struct {
	PowerChord bool `json:"power_chord"`
	AutoReveal bool `json:"auto_reveal"`
}

type GameParams struct {
	Rows      int `json:"rows"`
	Cols      int `json:"cols"`
	MineCount int `json:"mine_count"`
	Mode
}

func maxMines(rows, cols int) int {
	return rows*cols - 10
}

func (p GameParams) Validate() error {
	if p.Rows < MinRows || p.Rows > MaxRows ||
		p.Cols < MinCols || p.Cols > MaxCols ||
		p.MineCount < 1 || p.MineCount > maxMines(p.Rows, p.Cols) {
		return &ConfigError{Rows: p.Rows, Cols: p.Cols, MineCount: p.MineCount}
	}
	return nil
}

func (p GameParams) PointInBounds(row, col int) bool {
	return 0 <= row && row < p.Rows && 0 <= col && col < p.Cols
}

func (p GameParams) Seed() string {
	b2i := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}
	return fmt.Sprintf(
		"%d:%d:%d:%d:%d",
		p.Rows, p.Cols, p.MineCount, b2i(p.PowerChord), b2i(p.AutoReveal),
	)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	var power, auto int
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(
		sseed, "%d %d %d %d %d", &p.Rows, &p.Cols, &p.MineCount, &power, &auto,
	)
	if n != 5 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	p.PowerChord = power == 1
	p.AutoReveal = auto == 1
	return p, nil
}

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Expert       Difficulty = "expert"
)

var presets = map[Difficulty]GameParams{
	Beginner:     {Rows: 10, Cols: 10, MineCount: 15},
	Intermediate: {Rows: 15, Cols: 27, MineCount: 80},
	Expert:       {Rows: 24, Cols: 30, MineCount: 155},
}

// Preset returns the parameters of a named difficulty. Presets always start
// with power chord and auto-reveal off.
func Preset(d Difficulty) (GameParams, bool) {
	p, ok := presets[Difficulty(strings.ToLower(string(d)))]
	return p, ok
}
