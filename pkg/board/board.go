// Package board projects a game state into a renderable view of the board.
package board

import "github.com/qnkhuat/quoriterm/pkg/state"

const Size = state.BoardSize

type Marker int

const (
	NoPawn Marker = iota
	Player1
	Player2
)

func (m Marker) String() string {
	switch m {
	case Player1:
		return "1"
	case Player2:
		return "2"
	default:
		return "·"
	}
}

// Cell is what is visible on one square.
type Cell struct {
	Pawn   Marker
	HFence bool
	VFence bool
}

// Glyph returns the three-rune text form of a cell: the pawn (or a dot),
// then the horizontal and vertical fence marks.
func (c Cell) Glyph() string {
	h, v := " ", " "
	if c.HFence {
		h = "═"
	}
	if c.VFence {
		v = "║"
	}
	return c.Pawn.String() + h + v
}

type PlayerLabel struct {
	Name   string
	Fences int
}

// View is a complete rendering of one game state. Cells are indexed [y][x].
type View struct {
	Cells       [Size][Size]Cell
	Turn        string
	Player1     PlayerLabel
	Player2     PlayerLabel
	Winner      string
	Interactive bool
}

// Cell returns the cell at (x, y), or false when it is off the board.
func (v *View) Cell(x, y int) (Cell, bool) {
	c := v.cell(x, y)
	if c == nil {
		return Cell{}, false
	}
	return *c, true
}

func (v *View) cell(x, y int) *Cell {
	if x < 0 || y < 0 || x >= Size || y >= Size {
		return nil
	}
	return &v.Cells[y][x]
}

// Project builds the view from scratch. Coordinates that fall off the board
// are skipped.
func Project(s *state.GameState) View {
	v := View{Interactive: true}
	if s == nil {
		return v
	}

	if c := v.cell(s.Player1.Pawn.X, s.Player1.Pawn.Y); c != nil {
		c.Pawn = Player1
	}
	if c := v.cell(s.Player2.Pawn.X, s.Player2.Pawn.Y); c != nil {
		c.Pawn = Player2
	}

	for _, f := range s.FencesPlaced {
		c := v.cell(f.X, f.Y)
		if c == nil || !f.Orientation.Valid() {
			continue
		}
		switch f.Orientation {
		case state.Horizontal:
			c.HFence = true
		case state.Vertical:
			c.VFence = true
		}
	}

	v.Turn = s.CurrentPlayer.Name()
	v.Player1 = PlayerLabel{Name: s.Player1.Username, Fences: s.Player1.Fences}
	v.Player2 = PlayerLabel{Name: s.Player2.Username, Fences: s.Player2.Fences}

	if s.Terminal() {
		v.Winner = s.Winner.Name()
		v.Interactive = false
	}
	return v
}

// WinMessage is the announcement shown when the game is over.
func WinMessage(winner string) string {
	return winner + " wins the game!"
}
