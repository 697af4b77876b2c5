package server

import (
	"github.com/vancomm/minesweeper/internal/mines"
)

// NewGameParams are the query parameters accepted when a game is started.
// Explicit sizes win over a difficulty, which wins over a seed; anything
// left out falls back to the current or configured defaults.
type NewGameParams struct {
	Rows       int    `schema:"rows"`
	Cols       int    `schema:"cols"`
	Mines      int    `schema:"mines"`
	PowerChord *bool  `schema:"power_chord"`
	AutoReveal *bool  `schema:"auto_reveal"`
	Difficulty string `schema:"difficulty"`
	Seed       string `schema:"seed"`
}

func (p NewGameParams) apply(base mines.GameParams) (mines.GameParams, error) {
	params := base
	if p.Seed != "" {
		seeded, err := mines.ParseSeed(p.Seed)
		if err != nil {
			return params, &requestError{err.Error()}
		}
		params = *seeded
	}
	if p.Difficulty != "" {
		preset, ok := mines.Preset(mines.Difficulty(p.Difficulty))
		if !ok {
			return params, &requestError{"unknown difficulty " + p.Difficulty}
		}
		preset.Mode = params.Mode
		params = preset
	}
	if p.Rows != 0 || p.Cols != 0 || p.Mines != 0 {
		if p.Rows == 0 || p.Cols == 0 || p.Mines == 0 {
			return params, &requestError{"rows, cols and mines go together"}
		}
		params.Rows, params.Cols, params.MineCount = p.Rows, p.Cols, p.Mines
	}
	if p.PowerChord != nil {
		params.PowerChord = *p.PowerChord
	}
	if p.AutoReveal != nil {
		params.AutoReveal = *p.AutoReveal
	}
	return params, nil
}

type PosParams struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

type GameDTO struct {
	State          mines.State  `json:"state"`
	Rows           int          `json:"rows"`
	Cols           int          `json:"cols"`
	MineCount      int          `json:"mine_count"`
	PowerChord     bool         `json:"power_chord"`
	AutoReveal     bool         `json:"auto_reveal"`
	Seed           string       `json:"seed"`
	RemainingMines int          `json:"remaining_mines"`
	RemainingCells int          `json:"remaining_cells"`
	ElapsedMs      int64        `json:"elapsed_ms"`
	Exploded       *mines.Point `json:"exploded,omitempty"`
	Grid           mines.Grid   `json:"grid"`
}

func newGameDTO(s *mines.Session) GameDTO {
	params := s.Params()
	dto := GameDTO{
		State:          s.State(),
		Rows:           params.Rows,
		Cols:           params.Cols,
		MineCount:      params.MineCount,
		PowerChord:     params.PowerChord,
		AutoReveal:     params.AutoReveal,
		Seed:           params.Seed(),
		RemainingMines: s.RemainingMineCount(),
		RemainingCells: s.RemainingUnopenedCount(),
		ElapsedMs:      s.Elapsed().Milliseconds(),
		Grid:           s.View(),
	}
	if p, ok := s.Exploded(); ok {
		dto.Exploded = &p
	}
	return dto
}

type SessionDTO struct {
	SessionId string  `json:"session_id"`
	Ticket    string  `json:"ticket"`
	Game      GameDTO `json:"game"`
}

type ErrorDTO struct {
	Error string   `json:"error"`
	Game  *GameDTO `json:"game,omitempty"`
}

type StatusDTO struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}
