package gui

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Terminal safe color palette is available here
// Themes should be limited to the colors defined in this reference
// https://upload.wikimedia.org/wikipedia/commons/1/15/Xterm_256color_chart.svg

// Theme is used for dynamically coloring the UI
type Theme struct {
	Name       string
	Cell       tcell.Color
	CellAlt    tcell.Color
	CellLocked tcell.Color
	Dot        tcell.Color
	Player1    tcell.Color
	Player2    tcell.Color
	Fence      tcell.Color
	Label      tcell.Color
	ModeActive tcell.Color
	ModeIdle   tcell.Color
	Disabled   tcell.Color
	Info       tcell.Color
	MsgError   tcell.Color
	MsgSuccess tcell.Color
	MsgNeutral tcell.Color
}

// ThemeHex is the config file form of a Theme
type ThemeHex struct {
	Name       string `json:"name" yaml:"name"`
	Cell       string `json:"cell" yaml:"cell"`
	CellAlt    string `json:"cellAlt" yaml:"cell-alt"`
	CellLocked string `json:"cellLocked" yaml:"cell-locked"`
	Dot        string `json:"dot" yaml:"dot"`
	Player1    string `json:"player1" yaml:"player1"`
	Player2    string `json:"player2" yaml:"player2"`
	Fence      string `json:"fence" yaml:"fence"`
	Label      string `json:"label" yaml:"label"`
	ModeActive string `json:"modeActive" yaml:"mode-active"`
	ModeIdle   string `json:"modeIdle" yaml:"mode-idle"`
	Disabled   string `json:"disabled" yaml:"disabled"`
	Info       string `json:"info" yaml:"info"`
	MsgError   string `json:"msgError" yaml:"msg-error"`
	MsgSuccess string `json:"msgSuccess" yaml:"msg-success"`
	MsgNeutral string `json:"msgNeutral" yaml:"msg-neutral"`
}

// fmtHex returns a one character hex for the ColorDefault
// and otherwise it returns a standard hex. This is useful
// because it allows ColorDefault to be imported from the config
// and parsed properly rather than being interpreted as black
func fmtHex(v int32) string {
	if v == -1 {
		return "#0"
	}
	return fmt.Sprintf("#%06x", v)
}

// Hex converts a Theme to a ThemeHex
func (t Theme) Hex() ThemeHex {
	return ThemeHex{
		Name:       t.Name,
		Cell:       fmtHex(t.Cell.Hex()),
		CellAlt:    fmtHex(t.CellAlt.Hex()),
		CellLocked: fmtHex(t.CellLocked.Hex()),
		Dot:        fmtHex(t.Dot.Hex()),
		Player1:    fmtHex(t.Player1.Hex()),
		Player2:    fmtHex(t.Player2.Hex()),
		Fence:      fmtHex(t.Fence.Hex()),
		Label:      fmtHex(t.Label.Hex()),
		ModeActive: fmtHex(t.ModeActive.Hex()),
		ModeIdle:   fmtHex(t.ModeIdle.Hex()),
		Disabled:   fmtHex(t.Disabled.Hex()),
		Info:       fmtHex(t.Info.Hex()),
		MsgError:   fmtHex(t.MsgError.Hex()),
		MsgSuccess: fmtHex(t.MsgSuccess.Hex()),
		MsgNeutral: fmtHex(t.MsgNeutral.Hex()),
	}
}

// Theme converts a ThemeHex to a Theme. Missing colors fall back to the
// basic theme.
func (t ThemeHex) Theme() Theme {
	pick := func(hex string, fallback tcell.Color) tcell.Color {
		if hex == "" {
			return fallback
		}
		return tcell.GetColor(hex)
	}
	b := ThemeBasic
	return Theme{
		Name:       t.Name,
		Cell:       pick(t.Cell, b.Cell),
		CellAlt:    pick(t.CellAlt, b.CellAlt),
		CellLocked: pick(t.CellLocked, b.CellLocked),
		Dot:        pick(t.Dot, b.Dot),
		Player1:    pick(t.Player1, b.Player1),
		Player2:    pick(t.Player2, b.Player2),
		Fence:      pick(t.Fence, b.Fence),
		Label:      pick(t.Label, b.Label),
		ModeActive: pick(t.ModeActive, b.ModeActive),
		ModeIdle:   pick(t.ModeIdle, b.ModeIdle),
		Disabled:   pick(t.Disabled, b.Disabled),
		Info:       pick(t.Info, b.Info),
		MsgError:   pick(t.MsgError, b.MsgError),
		MsgSuccess: pick(t.MsgSuccess, b.MsgSuccess),
		MsgNeutral: pick(t.MsgNeutral, b.MsgNeutral),
	}
}

// ImportThemes returns a converted Theme from a slice of ThemeHex
// entities if its name matches the want argument
func ImportThemes(want string, themes []ThemeHex) (Theme, error) {
	for _, t := range themes {
		if t.Name == want {
			return t.Theme(), nil
		}
	}

	return Theme{}, errors.New("theme: no theme found")
}

// BuiltinTheme looks up one of the themes shipped with the client.
func BuiltinTheme(name string) (Theme, error) {
	for _, t := range []Theme{ThemeBasic, ThemeMono} {
		if t.Name == name {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("theme: unknown theme %q", name)
}

// ThemeBasic is the default theme
var ThemeBasic = Theme{
	Name:       "basic",
	Cell:       tcell.Color230,
	CellAlt:    tcell.Color188,
	CellLocked: tcell.Color250,
	Dot:        tcell.Color247,
	Player1:    tcell.Color160,
	Player2:    tcell.Color27,
	Fence:      tcell.Color94,
	Label:      tcell.Color247,
	ModeActive: tcell.Color45,
	ModeIdle:   tcell.Color240,
	Disabled:   tcell.Color240,
	Info:       tcell.ColorDefault,
	MsgError:   tcell.Color160,
	MsgSuccess: tcell.Color34,
	MsgNeutral: tcell.ColorDefault,
}

// ThemeMono avoids background colors for terminals with few colors
var ThemeMono = Theme{
	Name:       "mono",
	Cell:       tcell.ColorDefault,
	CellAlt:    tcell.ColorDefault,
	CellLocked: tcell.ColorDefault,
	Dot:        tcell.ColorGray,
	Player1:    tcell.ColorWhite,
	Player2:    tcell.ColorWhite,
	Fence:      tcell.ColorWhite,
	Label:      tcell.ColorGray,
	ModeActive: tcell.ColorWhite,
	ModeIdle:   tcell.ColorGray,
	Disabled:   tcell.ColorGray,
	Info:       tcell.ColorDefault,
	MsgError:   tcell.ColorWhite,
	MsgSuccess: tcell.ColorWhite,
	MsgNeutral: tcell.ColorDefault,
}
