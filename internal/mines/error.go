package mines

import (
	"errors"
	"fmt"
)

// ErrNoGame is returned by actions issued before the first NewGame.
var ErrNoGame = errors.New("no game in progress")

type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}

// ConfigError rejects game parameters at new-game time.
type ConfigError struct {
	Rows, Cols, MineCount int
}

func (e *ConfigError) Error() string {
	switch {
	case e.Rows < MinRows || e.Rows > MaxRows:
		return fmt.Sprintf("rows must be between %d and %d, got %d", MinRows, MaxRows, e.Rows)
	case e.Cols < MinCols || e.Cols > MaxCols:
		return fmt.Sprintf("cols must be between %d and %d, got %d", MinCols, MaxCols, e.Cols)
	default:
		return fmt.Sprintf(
			"mine count must be between 1 and %d for a %dx%d board, got %d",
			maxMines(e.Rows, e.Cols), e.Rows, e.Cols, e.MineCount,
		)
	}
}

// BoundsError means the caller asked for a cell outside the board.
type BoundsError struct {
	Row, Col   int
	Rows, Cols int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf(
		"cell (%d, %d) is outside the %dx%d board", e.Row, e.Col, e.Rows, e.Cols,
	)
}
