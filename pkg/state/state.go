package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// BoardSize is the number of cells on each side of the board.
const BoardSize = 9

type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// Short returns the single letter form stored by the game server.
func (o Orientation) Short() string {
	switch o {
	case Horizontal:
		return "h"
	case Vertical:
		return "v"
	default:
		return string(o)
	}
}

func (o Orientation) Valid() bool {
	return o == Horizontal || o == Vertical
}

// Toggle flips between horizontal and vertical.
func (o Orientation) Toggle() Orientation {
	if o == Vertical {
		return Horizontal
	}
	return Vertical
}

func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "h", "horizontal":
		return Horizontal, nil
	case "v", "vertical":
		return Vertical, nil
	default:
		return "", fmt.Errorf("unknown orientation: %q", s)
	}
}

// UnmarshalText accepts both forms. Unknown values are kept as sent so one
// odd fence does not make the whole document unreadable; check Valid.
func (o *Orientation) UnmarshalText(b []byte) error {
	parsed, err := ParseOrientation(string(b))
	if err != nil {
		*o = Orientation(b)
		return nil
	}
	*o = parsed
	return nil
}

// GameID accepts both numeric and string identifiers.
type GameID string

func (id *GameID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = GameID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("game id: %w", err)
	}
	*id = GameID(n.String())
	return nil
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Player struct {
	Username string   `json:"username"`
	Pawn     Position `json:"pawn"`
	Fences   int      `json:"fences"`
}

// PlayerRef identifies a user. ID is nil when the server does not know it.
type PlayerRef struct {
	ID       *int    `json:"id"`
	Username *string `json:"username"`
}

func (r *PlayerRef) Name() string {
	if r == nil || r.Username == nil {
		return ""
	}
	return *r.Username
}

func (r *PlayerRef) equal(other *PlayerRef) bool {
	if r.Present() != other.Present() {
		return false
	}
	if !r.Present() {
		return true
	}
	return r.Name() == other.Name() && intPtrEqual(r.ID, other.ID)
}

// Present reports whether the reference names a user.
func (r *PlayerRef) Present() bool {
	return r != nil && r.Username != nil && *r.Username != ""
}

type Fence struct {
	X           int         `json:"x"`
	Y           int         `json:"y"`
	Orientation Orientation `json:"orientation"`
}

// GameState is a full snapshot of the board as sent by the game server.
type GameState struct {
	ID            GameID     `json:"id"`
	Player1       Player     `json:"player1"`
	Player2       Player     `json:"player2"`
	CurrentPlayer *PlayerRef `json:"current_player"`
	FencesPlaced  []Fence    `json:"fences_placed"`
	Winner        *PlayerRef `json:"winner"`
}

// Terminal reports whether the game has a winner.
func (s *GameState) Terminal() bool {
	return s != nil && s.Winner.Present()
}

// Equal compares two snapshots field by field. Fence order matters.
func (s *GameState) Equal(other *GameState) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.ID != other.ID || s.Player1 != other.Player1 || s.Player2 != other.Player2 {
		return false
	}
	if !s.CurrentPlayer.equal(other.CurrentPlayer) || !s.Winner.equal(other.Winner) {
		return false
	}
	if len(s.FencesPlaced) != len(other.FencesPlaced) {
		return false
	}
	for i := range s.FencesPlaced {
		if s.FencesPlaced[i] != other.FencesPlaced[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	c := *s
	c.CurrentPlayer = s.CurrentPlayer.clone()
	c.Winner = s.Winner.clone()
	if s.FencesPlaced != nil {
		c.FencesPlaced = make([]Fence, len(s.FencesPlaced))
		copy(c.FencesPlaced, s.FencesPlaced)
	}
	return &c
}

func (r *PlayerRef) clone() *PlayerRef {
	if r == nil {
		return nil
	}
	c := &PlayerRef{}
	if r.ID != nil {
		id := *r.ID
		c.ID = &id
	}
	if r.Username != nil {
		name := *r.Username
		c.Username = &name
	}
	return c
}

// Decode parses a state document as returned by the read endpoint. The
// document must be a JSON object.
func Decode(b []byte) (*GameState, error) {
	if trimmed := bytes.TrimSpace(b); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("failed to decode game state: not a JSON object")
	}
	s := &GameState{}
	if err := json.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("failed to decode game state: %w", err)
	}
	return s, nil
}

// initialDocument is the shape embedded in the game page: camelCase fence
// list and a bare username for the current player.
type initialDocument struct {
	ID            GameID          `json:"id"`
	Player1       Player          `json:"player1"`
	Player2       Player          `json:"player2"`
	CurrentPlayer json.RawMessage `json:"currentPlayer"`
	FencesPlaced  []Fence         `json:"fencesPlaced"`
	Winner        *PlayerRef      `json:"winner"`
}

// DecodeInitial parses the initial state document. It accepts the embedded
// page shape as well as the read endpoint shape. A non-empty id overrides the
// one in the document.
func DecodeInitial(b []byte, id GameID) (*GameState, error) {
	var doc initialDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode initial state: %w", err)
	}
	if doc.CurrentPlayer == nil && doc.FencesPlaced == nil {
		s, err := Decode(b)
		if err != nil {
			return nil, err
		}
		if id != "" {
			s.ID = id
		}
		return s, nil
	}

	s := &GameState{
		ID:           doc.ID,
		Player1:      doc.Player1,
		Player2:      doc.Player2,
		FencesPlaced: doc.FencesPlaced,
		Winner:       doc.Winner,
	}
	if id != "" {
		s.ID = id
	}
	if s.FencesPlaced == nil {
		s.FencesPlaced = []Fence{}
	}
	if len(doc.CurrentPlayer) > 0 && !bytes.Equal(doc.CurrentPlayer, []byte("null")) {
		var name string
		if err := json.Unmarshal(doc.CurrentPlayer, &name); err == nil {
			s.CurrentPlayer = &PlayerRef{Username: &name}
		} else {
			ref := &PlayerRef{}
			if err := json.Unmarshal(doc.CurrentPlayer, ref); err != nil {
				return nil, fmt.Errorf("failed to decode current player: %w", err)
			}
			s.CurrentPlayer = ref
		}
	}
	return s, nil
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
