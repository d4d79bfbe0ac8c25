package gui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/qnkhuat/quoriterm/pkg/board"
	"github.com/qnkhuat/quoriterm/pkg/session"
	"github.com/qnkhuat/quoriterm/pkg/state"
)

// Printer writes the board as plain text. It is used to watch a game when
// there is no terminal to draw on.
type Printer struct {
	mu  sync.Mutex
	out io.Writer

	label   *color.Color
	player1 *color.Color
	player2 *color.Color
	fence   *color.Color
	win     *color.Color
	levels  map[session.Severity]*color.Color
}

func NewPrinter(out io.Writer, noColor bool) *Printer {
	p := &Printer{
		out:     out,
		label:   color.New(color.Faint),
		player1: color.New(color.FgRed, color.Bold),
		player2: color.New(color.FgBlue, color.Bold),
		fence:   color.New(color.FgYellow),
		win:     color.New(color.FgGreen, color.Bold),
		levels: map[session.Severity]*color.Color{
			session.SeverityNeutral: color.New(color.Reset),
			session.SeveritySuccess: color.New(color.FgGreen),
			session.SeverityError:   color.New(color.FgRed),
		},
	}
	all := []*color.Color{p.label, p.player1, p.player2, p.fence, p.win}
	for _, c := range p.levels {
		all = append(all, c)
	}
	for _, c := range all {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return p
}

// Project prints the whole board for s.
func (p *Printer) Project(s *state.GameState) {
	v := board.Project(s)

	var b strings.Builder
	b.WriteString("   ")
	for x := 0; x < board.Size; x++ {
		b.WriteString(p.label.Sprintf("%-4d", x))
	}
	b.WriteString("\n")
	for y := 0; y < board.Size; y++ {
		b.WriteString(p.label.Sprintf("%-3d", y))
		for x := 0; x < board.Size; x++ {
			b.WriteString(p.cell(v.Cells[y][x]))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Turn: %s\n", v.Turn)
	fmt.Fprintf(&b, "%s fences: %d\n", nameOr(v.Player1.Name, "Player 1"), v.Player1.Fences)
	fmt.Fprintf(&b, "%s fences: %d\n", nameOr(v.Player2.Name, "Player 2"), v.Player2.Fences)
	if v.Winner != "" {
		b.WriteString(p.win.Sprint(board.WinMessage(v.Winner)))
		b.WriteString("\n")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	io.WriteString(p.out, b.String())
}

// Notify prints a message prefixed with its severity.
func (p *Printer) Notify(text string, severity session.Severity) {
	c, ok := p.levels[severity]
	if !ok {
		c = p.levels[session.SeverityNeutral]
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	c.Fprintf(p.out, "[%s] %s\n", severity, text)
}

func (p *Printer) cell(c board.Cell) string {
	pawn := c.Pawn.String()
	switch c.Pawn {
	case board.Player1:
		pawn = p.player1.Sprint(pawn)
	case board.Player2:
		pawn = p.player2.Sprint(pawn)
	}
	marks := board.Cell{HFence: c.HFence, VFence: c.VFence}.Glyph()
	// drop the dot of the empty pawn slot, keep the two fence marks
	marks = strings.TrimPrefix(marks, board.NoPawn.String())
	return pawn + p.fence.Sprint(marks)
}
