package session

import "github.com/qnkhuat/quoriterm/pkg/state"

// Mode decides what selecting a cell does.
type Mode string

const (
	ModeMove  Mode = "move"
	ModeFence Mode = "fence"
)

func (m Mode) String() string {
	return string(m)
}

// Action is a cell selection resolved against the mode active at the time.
type Action struct {
	Kind        Mode
	X           int
	Y           int
	Orientation state.Orientation
}

// Severity classifies user facing messages.
type Severity int

const (
	SeverityNeutral Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeveritySuccess:
		return "success"
	default:
		return "neutral"
	}
}

// Phase is where a session is in its lifecycle.
type Phase int

const (
	PhaseActive Phase = iota
	PhaseTerminal
)

func (p Phase) String() string {
	if p == PhaseTerminal {
		return "terminal"
	}
	return "active"
}
