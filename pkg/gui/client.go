package gui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/qnkhuat/quoriterm/pkg/board"
	"github.com/qnkhuat/quoriterm/pkg/session"
	"github.com/qnkhuat/quoriterm/pkg/state"
)

const (
	numrows = board.Size
	numcols = board.Size
)

var orientationOptions = []state.Orientation{state.Horizontal, state.Vertical}

// Client is the terminal UI. It renders game states and turns cell
// selections into actions on the session.
type Client struct {
	App         *tview.Application
	Board       *tview.Table
	Layout      *tview.Flex
	Info        *tview.TextView
	Messages    *MessageBar
	MoveBtn     *tview.Button
	FenceBtn    *tview.Button
	Orientation *tview.DropDown

	theme              Theme
	session            *session.Session
	locked             bool
	orientationEnabled bool
	submit             func(session.Action)
}

func NewClient(theme Theme, messageTTL time.Duration) *Client {
	app := tview.NewApplication()

	cl := &Client{
		App:         app,
		Board:       tview.NewTable(),
		Info:        tview.NewTextView().SetDynamicColors(false),
		Messages:    NewMessageBar(theme, messageTTL),
		MoveBtn:     tview.NewButton("Move (m)"),
		FenceBtn:    tview.NewButton("Fence (f)"),
		Orientation: tview.NewDropDown().SetLabel("Orientation (o): "),
		theme:       theme,
	}
	cl.Messages.SetExecutor(cl.queue)
	cl.Info.SetTextColor(theme.Info)

	options := make([]string, len(orientationOptions))
	for i, o := range orientationOptions {
		options[i] = string(o)
	}
	cl.Orientation.SetOptions(options, func(text string, index int) {
		if cl.session == nil {
			return
		}
		if o, err := state.ParseOrientation(text); err == nil {
			cl.session.SetOrientation(o)
		}
	})
	cl.Orientation.SetCurrentOption(0)
	cl.Orientation.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if !cl.orientationEnabled {
			return nil
		}
		return event
	})
	cl.Orientation.SetMouseCapture(func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		if !cl.orientationEnabled {
			return action, nil
		}
		return action, event
	})

	cl.MoveBtn.SetSelectedFunc(func() { cl.SetMode(session.ModeMove) })
	cl.FenceBtn.SetSelectedFunc(func() { cl.SetMode(session.ModeFence) })

	controls := tview.NewFlex().
		AddItem(cl.MoveBtn, 10, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(cl.FenceBtn, 11, 0, false)

	side := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(controls, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(cl.Orientation, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(cl.Info, 4, 0, false).
		AddItem(cl.Messages, 0, 1, false)

	cl.Layout = tview.NewFlex().
		AddItem(tview.NewBox(), 2, 0, false).
		AddItem(cl.Board, 4*(numcols+1), 0, true).
		AddItem(side, 0, 1, false)

	cl.initTable()
	cl.initKeys()
	cl.renderMode(session.ModeMove)
	cl.renderTable(board.Project(nil))
	return cl
}

// Bind attaches the session that actions are sent to. Requests run with ctx.
func (cl *Client) Bind(ctx context.Context, s *session.Session) {
	cl.session = s
	cl.submit = func(a session.Action) {
		go s.Submit(ctx, a)
	}
	cl.SetMode(s.Mode())
	cl.setOrientation(s.Orientation())
}

// Executor runs f on the UI goroutine and redraws.
func (cl *Client) Executor() session.Executor {
	return cl.queue
}

func (cl *Client) queue(f func()) {
	cl.App.QueueUpdateDraw(f)
}

func (cl *Client) Run() error {
	return cl.App.SetRoot(cl.Layout, true).EnableMouse(true).Run()
}

func (cl *Client) Stop() {
	cl.App.Stop()
}

// Notify shows a message in the message bar.
func (cl *Client) Notify(text string, severity session.Severity) {
	cl.Messages.Show(text, severity)
}

// Project rebuilds the whole board from s.
func (cl *Client) Project(s *state.GameState) {
	v := board.Project(s)
	if !v.Interactive {
		cl.lock()
	}
	cl.renderTable(v)
	cl.renderInfo(v)
	if v.Winner != "" {
		cl.Notify(board.WinMessage(v.Winner), session.SeveritySuccess)
	}
}

// Locked reports whether the board stopped accepting selections.
func (cl *Client) Locked() bool {
	return cl.locked
}

// SetMode switches how selecting a cell is interpreted.
func (cl *Client) SetMode(m session.Mode) {
	if cl.session != nil {
		cl.session.SetMode(m)
	}
	cl.renderMode(m)
}

func (cl *Client) setOrientation(o state.Orientation) {
	for i, opt := range orientationOptions {
		if opt == o {
			cl.Orientation.SetCurrentOption(i)
			return
		}
	}
}

func (cl *Client) lock() {
	cl.locked = true
	cl.Board.SetSelectable(false, false)
}

func (cl *Client) initTable() {
	cl.Board.SetSelectable(true, true)
	cl.Board.Select(0, 1).SetSelectedFunc(func(row, col int) {
		cl.selectCell(row, col)
	})
}

func (cl *Client) initKeys() {
	cl.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			cl.Stop()
			return nil
		}
		if event.Key() != tcell.KeyRune {
			return event
		}
		switch event.Rune() {
		case 'm':
			cl.SetMode(session.ModeMove)
		case 'f':
			cl.SetMode(session.ModeFence)
		case 'o':
			if cl.orientationEnabled && cl.session != nil {
				cl.setOrientation(cl.session.ToggleOrientation())
			}
		case 'q':
			cl.Stop()
		default:
			return event
		}
		return nil
	})
}

func (cl *Client) selectCell(row, col int) {
	if cl.locked || cl.submit == nil {
		return
	}
	x, y, ok := posToCell(row, col)
	if !ok {
		return
	}
	cl.submit(cl.session.ActionAt(x, y))
}

// posToCell converts a table position to board coordinates. Column 0 and the
// last row hold the coordinate labels.
func posToCell(row, col int) (x, y int, ok bool) {
	x, y = col-1, row
	if x < 0 || y < 0 || x >= numcols || y >= numrows {
		return 0, 0, false
	}
	return x, y, true
}

func (cl *Client) renderMode(m session.Mode) {
	active, idle := cl.MoveBtn, cl.FenceBtn
	if m == session.ModeFence {
		active, idle = cl.FenceBtn, cl.MoveBtn
	}
	active.SetBackgroundColor(cl.theme.ModeActive)
	idle.SetBackgroundColor(cl.theme.ModeIdle)

	cl.orientationEnabled = m == session.ModeFence
	if cl.orientationEnabled {
		cl.Orientation.SetLabelColor(cl.theme.Label)
	} else {
		cl.Orientation.SetLabelColor(cl.theme.Disabled)
	}
}

func (cl *Client) renderInfo(v board.View) {
	text := fmt.Sprintf("Turn: %s\n%s fences: %d\n%s fences: %d",
		v.Turn, nameOr(v.Player1.Name, "Player 1"), v.Player1.Fences, nameOr(v.Player2.Name, "Player 2"), v.Player2.Fences)
	cl.Info.SetText(text)
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func (cl *Client) renderTable(v board.View) {
	// Step through every row, including the file labels row at the bottom
	for r := 0; r <= numrows; r++ {
		for c := 0; c <= numcols; c++ {
			if c == 0 && r != numrows { // row label
				cl.Board.SetCell(r, c, tview.NewTableCell(strconv.Itoa(r)).
					SetAlign(tview.AlignCenter).
					SetTextColor(cl.theme.Label).
					SetSelectable(false))
				continue
			}
			if r == numrows && c > 0 { // column label
				cl.Board.SetCell(r, c, tview.NewTableCell(strconv.Itoa(c-1)).
					SetAlign(tview.AlignCenter).
					SetTextColor(cl.theme.Label).
					SetSelectable(false))
				continue
			}
			if r == numrows && c == 0 {
				cl.Board.SetCell(r, c, tview.NewTableCell("").SetSelectable(false))
				continue
			}

			x, y, _ := posToCell(r, c)
			cell := v.Cells[y][x]
			cl.Board.SetCell(r, c, tview.NewTableCell(" "+cell.Glyph()).
				SetAlign(tview.AlignCenter).
				SetTextColor(cl.cellColor(cell)).
				SetBackgroundColor(cl.cellBg(x, y)).
				SetSelectable(!cl.locked))
		}
	}
}

func (cl *Client) cellColor(cell board.Cell) tcell.Color {
	switch {
	case cell.Pawn == board.Player1:
		return cl.theme.Player1
	case cell.Pawn == board.Player2:
		return cl.theme.Player2
	case cell.HFence || cell.VFence:
		return cl.theme.Fence
	default:
		return cl.theme.Dot
	}
}

func (cl *Client) cellBg(x, y int) tcell.Color {
	if cl.locked {
		return cl.theme.CellLocked
	}
	if (x+y)%2 == 0 {
		return cl.theme.Cell
	}
	return cl.theme.CellAlt
}
