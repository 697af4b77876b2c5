package mines

import "fmt"

type Kind uint8

const (
	Blank Kind = iota
	Numbered
	Mine
)

func (k Kind) String() string {
	switch k {
	case Blank:
		return "blank"
	case Numbered:
		return "numbered"
	case Mine:
		return "mine"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Cell is the state of a single square. Number is the count of neighbouring
// mines and is zero for Blank and Mine cells. Flags is the number of flagged
// neighbours; it is kept up to date for every cell, including before mines
// are placed.
type Cell struct {
	Kind    Kind
	Number  int8
	Opened  bool
	Flagged bool
	Flags   int8
}

// satisfied reports whether c is an opened number with exactly as many
// flagged neighbours as neighbouring mines.
func (c Cell) satisfied() bool {
	return c.Kind == Numbered && c.Opened && c.Flags == c.Number
}

type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}
